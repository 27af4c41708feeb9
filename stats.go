package repcache

import "sync/atomic"

// Stats is a Hooks implementation that only counts events.
// The zero value is ready to use.
type Stats struct {
	hits               atomic.Uint64
	misses             atomic.Uint64
	selfHeals          atomic.Uint64
	setRejected        atomic.Uint64
	stalePuts          atomic.Uint64
	encodeFailures     atomic.Uint64
	invalidateFailures atomic.Uint64
}

var _ Hooks = (*Stats)(nil)

// StatsSnapshot is a point-in-time copy of Stats counters.
type StatsSnapshot struct {
	Hits               uint64 `json:"hits"`
	Misses             uint64 `json:"misses"`
	SelfHeals          uint64 `json:"self_heals"`
	SetRejected        uint64 `json:"set_rejected"`
	StalePutsSkipped   uint64 `json:"stale_puts_skipped"`
	EncodeFailures     uint64 `json:"encode_failures"`
	InvalidateFailures uint64 `json:"invalidate_failures"`
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Hits:               s.hits.Load(),
		Misses:             s.misses.Load(),
		SelfHeals:          s.selfHeals.Load(),
		SetRejected:        s.setRejected.Load(),
		StalePutsSkipped:   s.stalePuts.Load(),
		EncodeFailures:     s.encodeFailures.Load(),
		InvalidateFailures: s.invalidateFailures.Load(),
	}
}

func (s *Stats) Lookup(_ string, hit bool) {
	if hit {
		s.hits.Add(1)
		return
	}
	s.misses.Add(1)
}

func (s *Stats) SelfHeal(string, string)                { s.selfHeals.Add(1) }
func (s *Stats) ProviderSetRejected(string)             { s.setRejected.Add(1) }
func (s *Stats) StalePutSkipped(string, uint64, uint64) { s.stalePuts.Add(1) }
func (s *Stats) EncodeFailure(string, error)            { s.encodeFailures.Add(1) }
func (s *Stats) InvalidateFailure(string, error)        { s.invalidateFailures.Add(1) }
