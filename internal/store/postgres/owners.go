package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/unkn0wn-root/repcache/internal/shop"
)

func (s *Store) GetOwner(ctx context.Context, id int64) (shop.Owner, error) {
	return owners.get(ctx, s, s.pool, "GetOwner", sq.Eq{"id": id}, false)
}

func (s *Store) ListOwners(ctx context.Context, p shop.ListParams) ([]shop.Owner, error) {
	return owners.list(ctx, s, "ListOwners", p, nil)
}

func (s *Store) CreateOwner(ctx context.Context, o shop.Owner) (shop.Owner, error) {
	if err := o.Validate(); err != nil {
		return shop.Owner{}, err
	}
	if o.APIKey == uuid.Nil {
		o.APIKey = uuid.New()
	}
	return owners.insert(ctx, s, s.pool, "CreateOwner", o)
}

func (s *Store) UpdateOwner(ctx context.Context, id int64, p shop.OwnerPatch) (shop.Owner, error) {
	return patch(ctx, s, owners, "UpdateOwner", sq.Eq{"id": id},
		func(o shop.Owner) int64 { return o.ID }, p.Apply, shop.Owner.Validate)
}

// DeleteOwner fails with ErrValidation while the owner still has shops.
func (s *Store) DeleteOwner(ctx context.Context, id int64) error {
	_, err := owners.remove(ctx, s, s.pool, "DeleteOwner", sq.Eq{"id": id})
	return err
}
