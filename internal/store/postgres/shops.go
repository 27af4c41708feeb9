package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/unkn0wn-root/repcache/internal/shop"
)

func (s *Store) GetShop(ctx context.Context, id int64) (shop.Shop, error) {
	return shops.get(ctx, s, s.pool, "GetShop", sq.Eq{"id": id}, false)
}

func (s *Store) ListShops(ctx context.Context, p shop.ListParams) ([]shop.Shop, error) {
	return shops.list(ctx, s, "ListShops", p, nil)
}

func (s *Store) CreateShop(ctx context.Context, v shop.Shop) (shop.ShopCreated, error) {
	if err := v.Validate(); err != nil {
		return shop.ShopCreated{}, err
	}
	var out shop.ShopCreated
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		var err error
		if out.Shop, err = shops.insert(ctx, s, tx, "CreateShop", v); err != nil {
			return err
		}
		irl := shop.InteriorRefList{ShopID: out.Shop.ID, OwnerID: out.Shop.OwnerID}
		if out.InteriorRefList, err = interiorRefLists.insert(ctx, s, tx, "CreateShop.interior_ref_list", irl); err != nil {
			return err
		}
		ml := shop.MerchandiseList{ShopID: out.Shop.ID, OwnerID: out.Shop.OwnerID}
		out.MerchandiseList, err = merchandiseLists.insert(ctx, s, tx, "CreateShop.merchandise_list", ml)
		return err
	})
	return out, err
}

func (s *Store) UpdateShop(ctx context.Context, id int64, p shop.ShopPatch) (shop.Shop, error) {
	return patch(ctx, s, shops, "UpdateShop", sq.Eq{"id": id},
		func(v shop.Shop) int64 { return v.ID }, p.Apply, shop.Shop.Validate)
}

// DeleteShop removes children explicitly so their ids can be invalidated.
func (s *Store) DeleteShop(ctx context.Context, id int64) (shop.ShopDeleted, error) {
	d := shop.ShopDeleted{ShopID: id}
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := shops.get(ctx, s, tx, "DeleteShop.lock", sq.Eq{"id": id}, true); err != nil {
			return err
		}
		byShop := sq.Eq{"shop_id": id}
		var err error
		if d.TransactionIDs, err = transactions.removeIDs(ctx, s, tx, "DeleteShop.transactions", byShop); err != nil {
			return err
		}
		if d.VendorIDs, err = vendors.removeIDs(ctx, s, tx, "DeleteShop.vendors", byShop); err != nil {
			return err
		}
		if d.MerchandiseListIDs, err = merchandiseLists.removeIDs(ctx, s, tx, "DeleteShop.merchandise_lists", byShop); err != nil {
			return err
		}
		if d.InteriorRefListIDs, err = interiorRefLists.removeIDs(ctx, s, tx, "DeleteShop.interior_ref_lists", byShop); err != nil {
			return err
		}
		if _, err := shops.remove(ctx, s, tx, "DeleteShop", sq.Eq{"id": id}); err != nil {
			return fmt.Errorf("postgres: delete shop %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return shop.ShopDeleted{}, err
	}
	return d, nil
}
