// Package lru is the default repcache provider: an exact least-recently-used
// map bounded by entry count.
package lru

import (
	"container/list"
	"context"
	"errors"
	"sync"

	pr "github.com/unkn0wn-root/repcache/provider"
)

var ErrCapacity = errors.New("lru: capacity must be positive")

var _ pr.Provider = (*Provider)(nil)

type item struct {
	key   string
	value []byte
}

// Provider evicts the least recently used entry once Len would exceed the
// capacity. Get and Set both count as a use. Ties cannot occur: the list
// orders entries strictly, and an entry never touched since insertion sits
// where its insertion put it.
type Provider struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List // front = most recently used
	items    map[string]*list.Element

	evictions uint64
	onEvict   func(key string)
}

type Option func(*Provider)

// WithEvictCallback runs fn, under the provider lock, for every entry evicted
// by capacity pressure. It must not call back into the provider.
func WithEvictCallback(fn func(key string)) Option {
	return func(p *Provider) { p.onEvict = fn }
}

func New(capacity int, opts ...Option) (*Provider, error) {
	if capacity <= 0 {
		return nil, ErrCapacity
	}
	p := &Provider{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	el, ok := p.items[key]
	if !ok {
		return nil, false, nil
	}
	p.ll.MoveToFront(el)
	return el.Value.(*item).value, true, nil
}

func (p *Provider) Set(_ context.Context, key string, value []byte, _ int64) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.items[key]; ok {
		el.Value.(*item).value = value
		p.ll.MoveToFront(el)
		return true, nil
	}
	p.items[key] = p.ll.PushFront(&item{key: key, value: value})
	for p.ll.Len() > p.capacity {
		p.evictOldest()
	}
	return true, nil
}

func (p *Provider) evictOldest() {
	el := p.ll.Back()
	if el == nil {
		return
	}
	it := p.ll.Remove(el).(*item)
	delete(p.items, it.key)
	p.evictions++
	if p.onEvict != nil {
		p.onEvict(it.key)
	}
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if el, ok := p.items[key]; ok {
		p.ll.Remove(el)
		delete(p.items, key)
	}
	return nil
}

func (p *Provider) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ll.Len()
}

// Evictions reports how many entries capacity pressure has removed.
func (p *Provider) Evictions() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.evictions
}

func (p *Provider) Close(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ll.Init()
	p.items = make(map[string]*list.Element)
	return nil
}
