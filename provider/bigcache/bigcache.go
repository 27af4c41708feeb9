// Package bigcache adapts allegro/bigcache as a repcache provider.
// Entries are bounded by shard memory and expire after LifeWindow;
// eviction is FIFO per shard, not LRU.
package bigcache

import (
	"context"
	"errors"
	"time"

	bc "github.com/allegro/bigcache/v3"

	pr "github.com/unkn0wn-root/repcache/provider"
)

var _ pr.Provider = (*Provider)(nil)

type Provider struct {
	c *bc.BigCache
}

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
	Shards             int // power of two; 0 => library default
}

func New(cfg Config) (*Provider, error) {
	if cfg.LifeWindow <= 0 {
		return nil, errors.New("bigcache: LifeWindow must be positive")
	}
	conf := bc.DefaultConfig(cfg.LifeWindow)
	conf.Verbose = false
	override(&conf.CleanWindow, cfg.CleanWindow)
	override(&conf.MaxEntriesInWindow, cfg.MaxEntriesInWindow)
	override(&conf.MaxEntrySize, cfg.MaxEntrySize)
	override(&conf.HardMaxCacheSize, cfg.HardMaxCacheSizeMB)
	override(&conf.Shards, cfg.Shards)
	c, err := bc.New(context.Background(), conf)
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

// override replaces a library default with v when v is set.
func override[T int | time.Duration](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := p.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	return b, err == nil, err
}

func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64) (bool, error) {
	// BigCache does not support per-entry cost; memory is bounded per shard.
	return true, p.c.Set(key, value)
}

func (p *Provider) Del(_ context.Context, key string) error {
	err := p.c.Delete(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil
	}
	return err
}

func (p *Provider) Len() int { return p.c.Len() }

func (p *Provider) Close(_ context.Context) error {
	return p.c.Close()
}
