package repcache

import (
	"context"
	"errors"
	"time"

	gen "github.com/unkn0wn-root/repcache/genstore"
	"github.com/unkn0wn-root/repcache/internal/wire"
	pr "github.com/unkn0wn-root/repcache/provider"
)

// SetCostFunc assigns a provider cost to a framed entry.
type SetCostFunc func(storageKey string, frame []byte) int64

// Store maps an EntryKey to its framed Entry and guards every entry with the
// generation of its resource. All methods are safe for concurrent use.
type Store struct {
	provider pr.Provider
	gen      gen.GenStore
	log      Logger
	hooks    Hooks
	cost     SetCostFunc
	now      func() time.Time
}

func newStore(p pr.Provider, g gen.GenStore, log Logger, hooks Hooks, cost SetCostFunc) *Store {
	return &Store{provider: p, gen: g, log: log, hooks: hooks, cost: cost, now: time.Now}
}

// Get returns a copy of the entry stored under k. Entries whose frame is
// corrupt or whose generation is no longer current are deleted and reported
// as a miss.
func (s *Store) Get(ctx context.Context, k EntryKey) (Entry, bool) {
	sk := k.String()
	raw, ok, err := s.provider.Get(ctx, sk)
	if err != nil {
		s.log.Warn("provider get failed", entryFields(k, Fields{"err": err}))
		s.hooks.Lookup(sk, false)
		return Entry{}, false
	}
	if !ok {
		s.hooks.Lookup(sk, false)
		return Entry{}, false
	}

	f, err := wire.Decode(raw)
	if err != nil {
		s.heal(ctx, k, sk, "corrupt")
		return Entry{}, false
	}
	if TokenOf(f.Payload) != Token(f.Token) {
		s.heal(ctx, k, sk, "token_mismatch")
		return Entry{}, false
	}
	cur, err := s.snapshot(ctx, k.Resource)
	if err != nil {
		// cannot prove freshness; treat as miss but keep the entry
		s.hooks.Lookup(sk, false)
		return Entry{}, false
	}
	if f.Gen != cur {
		s.heal(ctx, k, sk, "gen_mismatch")
		return Entry{}, false
	}

	s.hooks.Lookup(sk, true)
	return Entry{
		Payload:     append([]byte(nil), f.Payload...),
		Token:       Token(f.Token),
		ContentType: f.ContentType,
		CreatedAt:   f.CreatedAt,
		Gen:         f.Gen,
	}, true
}

func (s *Store) heal(ctx context.Context, k EntryKey, sk, reason string) {
	if err := s.provider.Del(ctx, sk); err != nil {
		s.log.Warn("self-heal delete failed", entryFields(k, Fields{"reason": reason, "err": err}))
	}
	s.log.Debug("self-healed entry", entryFields(k, Fields{"reason": reason}))
	s.hooks.SelfHeal(sk, reason)
	s.hooks.Lookup(sk, false)
}

// Put stores e under k if e.Gen is still the current generation of
// k.Resource. It reports whether the entry was stored. An existing entry
// under k is replaced atomically.
func (s *Store) Put(ctx context.Context, k EntryKey, e Entry) bool {
	sk := k.String()
	if !k.Kind.valid() {
		s.log.Error("put with unknown representation kind", entryFields(k, nil))
		return false
	}
	if e.Token != TokenOf(e.Payload) {
		s.log.Error("put rejected: token does not match payload", entryFields(k, nil))
		return false
	}
	cur, err := s.snapshot(ctx, k.Resource)
	if err != nil {
		return false
	}
	if cur != e.Gen {
		// generation moved; skip stale write
		s.log.Debug("put skipped (gen mismatch)", entryFields(k, Fields{"obs": e.Gen, "cur": cur}))
		s.hooks.StalePutSkipped(sk, e.Gen, cur)
		return false
	}

	created := e.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	frame, err := wire.Encode(wire.Frame{
		Gen:         e.Gen,
		Token:       uint64(e.Token),
		CreatedAt:   created,
		ContentType: e.ContentType,
		Payload:     e.Payload,
	})
	if err != nil {
		s.log.Error("frame encode failed", entryFields(k, Fields{"err": err}))
		return false
	}

	ok, err := s.provider.Set(ctx, sk, frame, s.cost(sk, frame))
	if err != nil {
		s.log.Warn("provider set failed", entryFields(k, Fields{"err": err}))
		return false
	}
	if !ok {
		s.log.Debug("put rejected by provider (pressure)", entryFields(k, nil))
		s.hooks.ProviderSetRejected(sk)
		return false
	}
	return true
}

// Invalidate bumps the generation of r, which invalidates every
// representation and variant of r at once, then deletes the plain entries
// of every representation kind. It returns the new generation.
//
// A failed bump is an error: entries built against the old generation could
// still be accepted. A failed delete after a successful bump is only logged;
// the leftover entry is stale by generation and heals on its next read.
//
// Variant entries (list pages) are not deleted here, since their variants
// are not enumerable. The bump makes them unservable, and each one is
// removed on its next read or by the provider's eviction.
func (s *Store) Invalidate(ctx context.Context, r ResourceKey) (uint64, error) {
	g, bumpErr := s.gen.Bump(ctx, r.String())
	if bumpErr != nil {
		s.log.Error("gen bump error", Fields{"resource": r.String(), "err": bumpErr})
	}

	var delErrs []error
	for _, kind := range kinds {
		if err := s.provider.Del(ctx, r.Entry(kind).String()); err != nil {
			delErrs = append(delErrs, err)
		}
	}
	delErr := errors.Join(delErrs...)

	if bumpErr != nil {
		return 0, &InvalidateError{Key: r.String(), BumpErr: bumpErr, DelErr: delErr}
	}
	if delErr != nil {
		s.log.Warn("invalidate delete failed; entries will self-heal", Fields{"resource": r.String(), "err": delErr})
	}
	s.log.Debug("invalidated resource (bumped gen + cleared entries)", Fields{"resource": r.String(), "gen": g})
	return g, nil
}

// Snapshot returns the current generation of r. A generation store error is
// logged and reported as 0; Put re-reads the generation and skips on error.
func (s *Store) Snapshot(ctx context.Context, r ResourceKey) uint64 {
	g, _ := s.snapshot(ctx, r)
	return g
}

func (s *Store) snapshot(ctx context.Context, r ResourceKey) (uint64, error) {
	g, err := s.gen.Snapshot(ctx, r.String())
	if err != nil {
		s.log.Warn("gen snapshot error", Fields{"resource": r.String(), "err": err})
		return 0, err
	}
	return g, nil
}

// CapacityUsed is the provider's entry count, or -1 when the provider
// cannot count. The count includes variant entries made stale by Invalidate
// that have not been read or evicted since.
func (s *Store) CapacityUsed() int {
	if sz, ok := s.provider.(pr.Sizer); ok {
		return sz.Len()
	}
	return -1
}

// Generations is the number of resource keys that carry a generation.
func (s *Store) Generations() int { return s.gen.Len() }

func (s *Store) Close(ctx context.Context) error {
	// Close gen store first (best effort)
	if s.gen != nil {
		_ = s.gen.Close(ctx)
	}
	if s.provider != nil {
		return s.provider.Close(ctx)
	}
	return nil
}
