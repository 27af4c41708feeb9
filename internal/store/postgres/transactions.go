package postgres

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/unkn0wn-root/repcache/internal/shop"
)

func (s *Store) GetTransaction(ctx context.Context, id int64) (shop.Transaction, error) {
	return transactions.get(ctx, s, s.pool, "GetTransaction", sq.Eq{"id": id}, false)
}

func (s *Store) ListTransactions(ctx context.Context, p shop.ListParams) ([]shop.Transaction, error) {
	return transactions.list(ctx, s, "ListTransactions", p, nil)
}

// CreateTransaction locks the shop's merchandise list so concurrent sales
// of the same stock serialize.
func (s *Store) CreateTransaction(ctx context.Context, t shop.Transaction) (shop.TransactionCreated, error) {
	if err := t.Validate(); err != nil {
		return shop.TransactionCreated{}, err
	}
	var out shop.TransactionCreated
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		p, err := s.parent(ctx, tx, "CreateTransaction", t.ShopID)
		if err != nil {
			return err
		}
		ml, err := merchandiseLists.get(ctx, s, tx, "CreateTransaction.lock", sq.Eq{"shop_id": t.ShopID}, true)
		if err != nil {
			if errors.Is(err, shop.ErrNotFound) {
				return fmt.Errorf("%w: shop %d has no merchandise list", shop.ErrValidation, t.ShopID)
			}
			return err
		}
		if err := shop.ApplyTransaction(&ml, t); err != nil {
			return err
		}
		if out.MerchandiseList, err = merchandiseLists.update(ctx, s, tx, "CreateTransaction.merchandise_list", ml.ID, ml); err != nil {
			return err
		}
		t.OwnerID = p.OwnerID
		out.Transaction, err = transactions.insert(ctx, s, tx, "CreateTransaction", t)
		return err
	})
	return out, err
}

func (s *Store) DeleteTransaction(ctx context.Context, id int64) (shop.Transaction, error) {
	return transactions.remove(ctx, s, s.pool, "DeleteTransaction", sq.Eq{"id": id})
}

func (s *Store) ListTransactionsByShop(ctx context.Context, shopID int64, p shop.ListParams) ([]shop.Transaction, error) {
	if _, err := shops.get(ctx, s, s.pool, "ListTransactionsByShop.shop", sq.Eq{"id": shopID}, false); err != nil {
		return nil, err
	}
	return transactions.list(ctx, s, "ListTransactionsByShop", p, sq.Eq{"shop_id": shopID})
}
