package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/unkn0wn-root/repcache/internal/shop"
)

func (s *Store) GetVendor(ctx context.Context, id int64) (shop.Vendor, error) {
	return vendors.get(ctx, s, s.pool, "GetVendor", sq.Eq{"id": id}, false)
}

func (s *Store) ListVendors(ctx context.Context, p shop.ListParams) ([]shop.Vendor, error) {
	return vendors.list(ctx, s, "ListVendors", p, nil)
}

func (s *Store) CreateVendor(ctx context.Context, v shop.Vendor) (shop.Vendor, error) {
	if err := v.Validate(); err != nil {
		return shop.Vendor{}, err
	}
	var out shop.Vendor
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		p, err := s.parent(ctx, tx, "CreateVendor", v.ShopID)
		if err != nil {
			return err
		}
		v.OwnerID = p.OwnerID
		out, err = vendors.insert(ctx, s, tx, "CreateVendor", v)
		return err
	})
	return out, err
}

func (s *Store) UpdateVendor(ctx context.Context, id int64, p shop.VendorPatch) (shop.Vendor, error) {
	return patch(ctx, s, vendors, "UpdateVendor", sq.Eq{"id": id},
		func(v shop.Vendor) int64 { return v.ID }, p.Apply, shop.Vendor.Validate)
}

func (s *Store) DeleteVendor(ctx context.Context, id int64) (shop.Vendor, error) {
	return vendors.remove(ctx, s, s.pool, "DeleteVendor", sq.Eq{"id": id})
}

func (s *Store) VendorByShop(ctx context.Context, shopID int64) (shop.Vendor, error) {
	return vendors.get(ctx, s, s.pool, "VendorByShop", sq.Eq{"shop_id": shopID}, false)
}
