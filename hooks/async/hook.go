// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    SelfHealEvery: 10, // sample logs: ~every 10th self-heal
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := repcache.New(repcache.Options{
//	    Hooks: repcache.MultiHooks{stats, hooks},
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/repcache"
)

// Hooks forwards events to inner on a bounded worker queue. Events are
// dropped, never blocked on, when the queue is full.
type Hooks struct {
	inner   repcache.Hooks
	q       chan func()
	wg      sync.WaitGroup
	once    sync.Once
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ repcache.Hooks = (*Hooks)(nil)

func New(inner repcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for range workers {
		go h.run()
	}
	return h
}

func (h *Hooks) run() {
	defer h.wg.Done()
	for ev := range h.q {
		ev()
	}
}

// Close drains queued events and stops the workers. Events raised after
// Close are dropped.
func (h *Hooks) Close() {
	h.once.Do(func() {
		h.mu.Lock()
		h.closed = true
		close(h.q)
		h.mu.Unlock()
		h.wg.Wait()
	})
}

// Dropped reports how many events were discarded.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) Lookup(k string, hit bool)    { h.try(func() { h.inner.Lookup(k, hit) }) }
func (h *Hooks) SelfHeal(k, r string)         { h.try(func() { h.inner.SelfHeal(k, r) }) }
func (h *Hooks) ProviderSetRejected(k string) { h.try(func() { h.inner.ProviderSetRejected(k) }) }
func (h *Hooks) StalePutSkipped(k string, obs, cur uint64) {
	h.try(func() { h.inner.StalePutSkipped(k, obs, cur) })
}
func (h *Hooks) EncodeFailure(k string, err error) {
	h.try(func() { h.inner.EncodeFailure(k, err) })
}
func (h *Hooks) InvalidateFailure(r string, err error) {
	h.try(func() { h.inner.InvalidateFailure(r, err) })
}
