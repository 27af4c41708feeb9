package repcache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/unkn0wn-root/repcache/genstore"
	pr "github.com/unkn0wn-root/repcache/provider"
)

type memProvider struct {
	mu sync.Mutex
	m  map[string][]byte
}

var _ pr.Provider = (*memProvider)(nil)

func newMemProvider() *memProvider { return &memProvider{m: make(map[string][]byte)} }

func (p *memProvider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.m[key]
	return v, ok, nil
}

func (p *memProvider) Set(_ context.Context, key string, value []byte, _ int64) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[key] = value
	return true, nil
}

func (p *memProvider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.m, key)
	return nil
}

func (p *memProvider) Close(_ context.Context) error { return nil }

func (p *memProvider) raw(key string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.m[key]
	return v, ok
}

func (p *memProvider) put(key string, v []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.m[key] = v
}

// record is a small shop-like record with a 32-bit compact domain.
type record struct {
	_msgpack struct{} `msgpack:",as_array"`

	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

var errOutOfDomain = errors.New("value outside 32-bit domain")

func (r record) CheckDomain(kind RepresentationKind) error {
	if kind != Compact {
		return nil
	}
	for _, v := range []int64{r.ID, r.Price} {
		if v < -1<<31 || v > 1<<31-1 {
			return errOutOfDomain
		}
	}
	return nil
}

// db is a tiny persistence fake counting loads.
type db struct {
	mu    sync.Mutex
	rows  map[int64]record
	loads int
}

func newDB(rows ...record) *db {
	d := &db{rows: make(map[int64]record)}
	for _, r := range rows {
		d.rows[r.ID] = r
	}
	return d
}

func (d *db) loader(id int64) Loader {
	return func(context.Context) (any, error) {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.loads++
		r, ok := d.rows[id]
		if !ok {
			return nil, ErrNotFound
		}
		return r, nil
	}
}

func (d *db) set(r record) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rows[r.ID] = r
}

func (d *db) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loads
}

func newTestCache(t *testing.T, p pr.Provider, optsOpt func(*Options)) *Cache {
	t.Helper()
	opts := Options{Provider: p}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	cc, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close(context.Background()) })
	return cc
}

type failingGenStore struct {
	genstore.GenStore
	bumpErr error
	snapErr error
}

func (s *failingGenStore) Snapshot(ctx context.Context, k string) (uint64, error) {
	if s.snapErr != nil {
		return 0, s.snapErr
	}
	return s.GenStore.Snapshot(ctx, k)
}

func (s *failingGenStore) Bump(ctx context.Context, k string) (uint64, error) {
	if s.bumpErr != nil {
		return 0, s.bumpErr
	}
	return s.GenStore.Bump(ctx, k)
}

type delErrProvider struct {
	*memProvider
	err error
}

var _ pr.Provider = (*delErrProvider)(nil)

func (p *delErrProvider) Del(_ context.Context, key string) error { return p.err }
