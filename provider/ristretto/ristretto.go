// Package ristretto adapts dgraph-io/ristretto as a repcache provider.
// Admission is TinyLFU and eviction is sampled, so the bound is approximate
// and recency is not exact. The store reports CapacityUsed as -1.
package ristretto

import (
	"context"
	"errors"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/unkn0wn-root/repcache/provider"
)

var _ pr.Provider = (*Provider)(nil)

type Provider struct {
	c *rc.Cache
}

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

// ForEntries sizes a config for roughly n entries of cost 1.
func ForEntries(n int64) Config {
	return Config{NumCounters: 10 * n, MaxCost: n, BufferItems: 64}
}

func New(cfg Config) (*Provider, error) {
	switch {
	case cfg.NumCounters <= 0:
		return nil, errors.New("ristretto: NumCounters must be positive")
	case cfg.MaxCost <= 0:
		return nil, errors.New("ristretto: MaxCost must be positive")
	case cfg.BufferItems <= 0:
		return nil, errors.New("ristretto: BufferItems must be positive")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
		// the store's cost function is the whole cost
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, found := p.c.Get(key)
	if !found {
		return nil, false, nil
	}
	if b, isBytes := v.([]byte); isBytes && b != nil {
		return b, true, nil
	}
	p.c.Del(key)
	return nil, false, nil
}

// Set waits for the write buffer so a following Get observes the value.
func (p *Provider) Set(_ context.Context, key string, value []byte, cost int64) (bool, error) {
	ok := p.c.Set(key, value, cost)
	p.c.Wait()
	return ok, nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Del(key)
	return nil
}

func (p *Provider) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics exposes ristretto counters when Config.Metrics is set.
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
