package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/unkn0wn-root/repcache/internal/shop"
)

type row interface {
	Scan(dest ...any) error
}

// table describes how one record maps onto its SQL table.
type table[T any] struct {
	name string
	cols []string
	scan func(row) (T, error)
	// values are the writable columns of a record.
	values func(T) (map[string]any, error)
}

func (t table[T]) returning() string { return "RETURNING " + strings.Join(t.cols, ", ") }

func (t table[T]) one(ctx context.Context, s *Store, q querier, op string, b sq.Sqlizer) (T, error) {
	var zero T
	query, args, err := b.ToSql()
	if err != nil {
		return zero, fmt.Errorf("postgres: %s: build: %w", op, err)
	}
	start := time.Now()
	v, err := t.scan(q.QueryRow(ctx, query, args...))
	s.trace(op, query, start, err)
	if err != nil {
		return zero, mapErr(err)
	}
	return v, nil
}

func (t table[T]) get(ctx context.Context, s *Store, q querier, op string, where sq.Sqlizer, lock bool) (T, error) {
	b := s.qb().Select(t.cols...).From(t.name).Where(where)
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	return t.one(ctx, s, q, op, b)
}

func (t table[T]) list(ctx context.Context, s *Store, op string, p shop.ListParams, where sq.Sqlizer) ([]T, error) {
	ord, err := orderBy(p)
	if err != nil {
		return nil, err
	}
	b := s.qb().Select(t.cols...).From(t.name).OrderBy(ord...).Offset(uint64(p.Offset))
	if p.Limit > 0 {
		b = b.Limit(uint64(p.Limit))
	}
	if where != nil {
		b = b.Where(where)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: %s: build: %w", op, err)
	}

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		s.trace(op, query, start, err)
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]T, 0, p.Limit)
	for rows.Next() {
		v, err := t.scan(rows)
		if err != nil {
			s.trace(op, query, start, err)
			return nil, mapErr(err)
		}
		out = append(out, v)
	}
	err = rows.Err()
	s.trace(op, query, start, err)
	return out, mapErr(err)
}

func (t table[T]) insert(ctx context.Context, s *Store, q querier, op string, v T) (T, error) {
	vals, err := t.values(v)
	if err != nil {
		var zero T
		return zero, err
	}
	b := s.qb().Insert(t.name).SetMap(vals).Suffix(t.returning())
	return t.one(ctx, s, q, op, b)
}

func (t table[T]) update(ctx context.Context, s *Store, q querier, op string, id int64, v T) (T, error) {
	vals, err := t.values(v)
	if err != nil {
		var zero T
		return zero, err
	}
	vals["updated_at"] = sq.Expr("now()")
	b := s.qb().Update(t.name).SetMap(vals).Where(sq.Eq{"id": id}).Suffix(t.returning())
	return t.one(ctx, s, q, op, b)
}

func (t table[T]) remove(ctx context.Context, s *Store, q querier, op string, where sq.Sqlizer) (T, error) {
	b := s.qb().Delete(t.name).Where(where).Suffix(t.returning())
	return t.one(ctx, s, q, op, b)
}

// removeIDs deletes every matching row and returns the removed ids.
func (t table[T]) removeIDs(ctx context.Context, s *Store, q querier, op string, where sq.Sqlizer) ([]int64, error) {
	query, args, err := s.qb().Delete(t.name).Where(where).Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: %s: build: %w", op, err)
	}
	start := time.Now()
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		s.trace(op, query, start, err)
		return nil, mapErr(err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	s.trace(op, query, start, err)
	return ids, mapErr(err)
}

// patch locks the matching row, applies fn, validates and writes it back.
func patch[T any](ctx context.Context, s *Store, t table[T], op string, where sq.Sqlizer,
	id func(T) int64, fn func(*T), validate func(T) error) (T, error) {
	var out T
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		cur, err := t.get(ctx, s, tx, op+".lock", where, true)
		if err != nil {
			return err
		}
		fn(&cur)
		if err := validate(cur); err != nil {
			return err
		}
		out, err = t.update(ctx, s, tx, op, id(cur), cur)
		return err
	})
	return out, err
}

// parent loads the shop a child row is created under.
func (s *Store) parent(ctx context.Context, q querier, op string, shopID int64) (shop.Shop, error) {
	p, err := shops.get(ctx, s, q, op+".shop", sq.Eq{"id": shopID}, false)
	if err != nil {
		if errors.Is(err, shop.ErrNotFound) {
			return shop.Shop{}, fmt.Errorf("%w: shop %d does not exist", shop.ErrValidation, shopID)
		}
		return shop.Shop{}, err
	}
	return p, nil
}
