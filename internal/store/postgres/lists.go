package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/unkn0wn-root/repcache/internal/shop"
)

func (s *Store) GetInteriorRefList(ctx context.Context, id int64) (shop.InteriorRefList, error) {
	return interiorRefLists.get(ctx, s, s.pool, "GetInteriorRefList", sq.Eq{"id": id}, false)
}

func (s *Store) ListInteriorRefLists(ctx context.Context, p shop.ListParams) ([]shop.InteriorRefList, error) {
	return interiorRefLists.list(ctx, s, "ListInteriorRefLists", p, nil)
}

func (s *Store) CreateInteriorRefList(ctx context.Context, l shop.InteriorRefList) (shop.InteriorRefList, error) {
	if err := l.Validate(); err != nil {
		return shop.InteriorRefList{}, err
	}
	var out shop.InteriorRefList
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		p, err := s.parent(ctx, tx, "CreateInteriorRefList", l.ShopID)
		if err != nil {
			return err
		}
		l.OwnerID = p.OwnerID
		out, err = interiorRefLists.insert(ctx, s, tx, "CreateInteriorRefList", l)
		return err
	})
	return out, err
}

func (s *Store) UpdateInteriorRefList(ctx context.Context, id int64, p shop.InteriorRefListPatch) (shop.InteriorRefList, error) {
	return patch(ctx, s, interiorRefLists, "UpdateInteriorRefList", sq.Eq{"id": id},
		func(l shop.InteriorRefList) int64 { return l.ID }, p.Apply, shop.InteriorRefList.Validate)
}

func (s *Store) DeleteInteriorRefList(ctx context.Context, id int64) (shop.InteriorRefList, error) {
	return interiorRefLists.remove(ctx, s, s.pool, "DeleteInteriorRefList", sq.Eq{"id": id})
}

func (s *Store) InteriorRefListByShop(ctx context.Context, shopID int64) (shop.InteriorRefList, error) {
	return interiorRefLists.get(ctx, s, s.pool, "InteriorRefListByShop", sq.Eq{"shop_id": shopID}, false)
}

func (s *Store) UpdateInteriorRefListByShop(ctx context.Context, shopID int64, p shop.InteriorRefListPatch) (shop.InteriorRefList, error) {
	return patch(ctx, s, interiorRefLists, "UpdateInteriorRefListByShop", sq.Eq{"shop_id": shopID},
		func(l shop.InteriorRefList) int64 { return l.ID }, p.Apply, shop.InteriorRefList.Validate)
}

func (s *Store) GetMerchandiseList(ctx context.Context, id int64) (shop.MerchandiseList, error) {
	return merchandiseLists.get(ctx, s, s.pool, "GetMerchandiseList", sq.Eq{"id": id}, false)
}

func (s *Store) ListMerchandiseLists(ctx context.Context, p shop.ListParams) ([]shop.MerchandiseList, error) {
	return merchandiseLists.list(ctx, s, "ListMerchandiseLists", p, nil)
}

func (s *Store) CreateMerchandiseList(ctx context.Context, l shop.MerchandiseList) (shop.MerchandiseList, error) {
	if err := l.Validate(); err != nil {
		return shop.MerchandiseList{}, err
	}
	var out shop.MerchandiseList
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		p, err := s.parent(ctx, tx, "CreateMerchandiseList", l.ShopID)
		if err != nil {
			return err
		}
		l.OwnerID = p.OwnerID
		out, err = merchandiseLists.insert(ctx, s, tx, "CreateMerchandiseList", l)
		return err
	})
	return out, err
}

func (s *Store) UpdateMerchandiseList(ctx context.Context, id int64, p shop.MerchandiseListPatch) (shop.MerchandiseList, error) {
	return patch(ctx, s, merchandiseLists, "UpdateMerchandiseList", sq.Eq{"id": id},
		func(l shop.MerchandiseList) int64 { return l.ID }, p.Apply, shop.MerchandiseList.Validate)
}

func (s *Store) DeleteMerchandiseList(ctx context.Context, id int64) (shop.MerchandiseList, error) {
	return merchandiseLists.remove(ctx, s, s.pool, "DeleteMerchandiseList", sq.Eq{"id": id})
}

func (s *Store) MerchandiseListByShop(ctx context.Context, shopID int64) (shop.MerchandiseList, error) {
	return merchandiseLists.get(ctx, s, s.pool, "MerchandiseListByShop", sq.Eq{"shop_id": shopID}, false)
}

func (s *Store) UpdateMerchandiseListByShop(ctx context.Context, shopID int64, p shop.MerchandiseListPatch) (shop.MerchandiseList, error) {
	return patch(ctx, s, merchandiseLists, "UpdateMerchandiseListByShop", sq.Eq{"shop_id": shopID},
		func(l shop.MerchandiseList) int64 { return l.ID }, p.Apply, shop.MerchandiseList.Validate)
}
