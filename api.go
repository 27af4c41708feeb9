package repcache

import (
	"context"
	"fmt"
	"time"

	c "github.com/unkn0wn-root/repcache/codec"
	gen "github.com/unkn0wn-root/repcache/genstore"
	pr "github.com/unkn0wn-root/repcache/provider"
	"github.com/unkn0wn-root/repcache/provider/lru"
)

const (
	defaultCapacity     = 1000
	defaultGenRetention = 30 * 24 * time.Hour
	defaultSweep        = time.Hour
)

// Options tune the cache. Every field has a default.
type Options struct {
	Provider pr.Provider // nil => lru.New(Capacity)
	Capacity int         // entries for the default provider; 0 => 1000

	Descriptive c.Codec // nil => codec.JSON
	Compact     c.Codec // nil => codec.Msgpack

	Logger          Logger        // if nil, NopLogger is used
	Hooks           Hooks         // if nil, NopHooks is used
	GenStore        gen.GenStore  // nil => LocalGenStore (in-process)
	CleanupInterval time.Duration // 0 => 1h
	GenRetention    time.Duration // 0 => 30d
	ComputeSetCost  SetCostFunc   // default 1

	// CoalesceMisses shares one rebuild between concurrent misses of the same
	// entry at the same generation.
	CoalesceMisses bool
}

// Cache wires the Store, Encoder, Resolver and Invalidator together.
type Cache struct {
	store *Store
	enc   *Encoder
	res   *Resolver
	inv   *Invalidator
	log   Logger
}

func New(opts Options) (*Cache, error) {
	if opts.Capacity < 0 {
		return nil, fmt.Errorf("repcache: capacity must not be negative")
	}

	// defaults
	log := coalesce[Logger](opts.Logger, NopLogger{})
	hooks := coalesce[Hooks](opts.Hooks, NopHooks{})
	sweep := coalesce(opts.CleanupInterval, defaultSweep)
	retention := coalesce(opts.GenRetention, defaultGenRetention)

	p := opts.Provider
	if p == nil {
		var err error
		if p, err = lru.New(coalesce(opts.Capacity, defaultCapacity)); err != nil {
			return nil, fmt.Errorf("repcache: default provider: %w", err)
		}
	}
	gs := opts.GenStore
	if gs == nil {
		// default to in-process generations with periodic cleanup
		gs = gen.NewLocalGenStore(sweep, retention)
	}
	cost := opts.ComputeSetCost
	if cost == nil {
		cost = func(string, []byte) int64 { return 1 }
	}

	store := newStore(p, gs, log, hooks, cost)
	enc := NewEncoder(opts.Descriptive, opts.Compact)
	return &Cache{
		store: store,
		enc:   enc,
		res:   newResolver(store, enc, log, hooks, opts.CoalesceMisses),
		inv:   newInvalidator(store, log, hooks),
		log:   log,
	}, nil
}

func (c *Cache) Store() *Store             { return c.store }
func (c *Cache) Encoder() *Encoder         { return c.enc }
func (c *Cache) Resolver() *Resolver       { return c.res }
func (c *Cache) Invalidator() *Invalidator { return c.inv }

// Resolve is shorthand for c.Resolver().Resolve.
func (c *Cache) Resolve(ctx context.Context, k EntryKey, clientToken string, load Loader) (Result, error) {
	return c.res.Resolve(ctx, k, clientToken, load)
}

// OnWrite is shorthand for c.Invalidator().OnWrite.
func (c *Cache) OnWrite(ctx context.Context, keys ...ResourceKey) error {
	return c.inv.OnWrite(ctx, keys...)
}

// Encode is shorthand for c.Encoder().Encode.
func (c *Cache) Encode(record any, kind RepresentationKind) ([]byte, Token, error) {
	return c.enc.Encode(record, kind)
}

func (c *Cache) Close(ctx context.Context) error {
	return c.store.Close(ctx)
}
