package memstore

import (
	"cmp"
	"slices"
	"time"

	"github.com/unkn0wn-root/repcache/internal/shop"
)

type stamps struct {
	id      int64
	created time.Time
	updated time.Time
}

// table is one mutex-free row map; Store holds the lock.
type table[T any] struct {
	seq   int64
	rows  map[int64]T
	meta  func(T) stamps
	clone func(T) T
}

func newTable[T any](meta func(T) stamps, clone func(T) T) table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return table[T]{rows: make(map[int64]T), meta: meta, clone: clone}
}

func (t *table[T]) next() int64 {
	t.seq++
	return t.seq
}

func (t *table[T]) get(id int64) (T, error) {
	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, shop.ErrNotFound
	}
	return t.clone(v), nil
}

func (t *table[T]) put(id int64, v T) { t.rows[id] = t.clone(v) }

func (t *table[T]) find(match func(T) bool) (T, bool) {
	for _, v := range t.rows {
		if match(v) {
			return t.clone(v), true
		}
	}
	var zero T
	return zero, false
}

// list sorts, filters and pages rows the way the SQL store does. Ties on
// the order column fall back to id.
func (t *table[T]) list(p shop.ListParams, match func(T) bool) []T {
	out := make([]T, 0, len(t.rows))
	for _, v := range t.rows {
		if match == nil || match(v) {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b T) int {
		ma, mb := t.meta(a), t.meta(b)
		var c int
		switch p.OrderBy {
		case "created_at":
			c = ma.created.Compare(mb.created)
		case "updated_at":
			c = ma.updated.Compare(mb.updated)
		}
		if c == 0 {
			c = cmp.Compare(ma.id, mb.id)
		}
		if p.Order == shop.Desc {
			c = -c
		}
		return c
	})
	if p.Offset >= len(out) {
		return []T{}
	}
	out = out[p.Offset:]
	if p.Limit > 0 && len(out) > p.Limit {
		out = out[:p.Limit]
	}
	for i := range out {
		out[i] = t.clone(out[i])
	}
	return out
}
