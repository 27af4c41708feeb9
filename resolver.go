package repcache

import (
	"context"
	"errors"
	"strconv"

	"golang.org/x/sync/singleflight"
)

// Outcome is the resolver's decision for one read.
type Outcome uint8

const (
	Fresh Outcome = iota
	NotModified
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Fresh:
		return "fresh"
	case NotModified:
		return "not_modified"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Loader fetches the record behind a cache miss. It returns ErrNotFound
// (or an error wrapping it) when the resource does not exist.
type Loader func(ctx context.Context) (any, error)

// Result carries what the HTTP layer needs to answer a read.
// Payload is empty unless Outcome is Fresh. Payload may be shared between
// coalesced callers and must not be modified.
type Result struct {
	Outcome     Outcome
	Payload     []byte
	Token       Token
	ContentType string
	// Cached reports whether the payload came from the store.
	Cached bool
}

// ETag is the quoted entity tag, empty for NotFound.
func (r Result) ETag() string {
	if r.Outcome == NotFound {
		return ""
	}
	return r.Token.ETag()
}

// Resolver answers reads from the Store, rebuilding entries on miss.
type Resolver struct {
	store *Store
	enc   *Encoder
	log   Logger
	hooks Hooks
	sf    *singleflight.Group // nil => no miss coalescing
}

func newResolver(s *Store, enc *Encoder, log Logger, hooks Hooks, coalesce bool) *Resolver {
	r := &Resolver{store: s, enc: enc, log: log, hooks: hooks}
	if coalesce {
		r.sf = new(singleflight.Group)
	}
	return r
}

// Resolve answers a read of k. clientToken is the raw If-None-Match header.
//
// On hit a matching clientToken yields NotModified, anything else Fresh with
// the cached payload. On miss the loader runs, the record is encoded and put
// against the generation observed before the load, and the result is Fresh
// whatever the client sent. A loader returning ErrNotFound yields NotFound
// and nothing is cached.
func (r *Resolver) Resolve(ctx context.Context, k EntryKey, clientToken string, load Loader) (Result, error) {
	obs := r.store.Snapshot(ctx, k.Resource)

	if e, ok := r.store.Get(ctx, k); ok {
		if MatchNoneMatch(clientToken, e.Token) {
			return Result{Outcome: NotModified, Token: e.Token, ContentType: e.ContentType, Cached: true}, nil
		}
		return Result{Outcome: Fresh, Payload: e.Payload, Token: e.Token, ContentType: e.ContentType, Cached: true}, nil
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	var (
		e   Entry
		err error
	)
	if r.sf == nil {
		e, err = r.rebuild(ctx, k, obs, load)
	} else {
		e, err = r.rebuildShared(ctx, k, obs, load)
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return Result{Outcome: NotFound}, nil
	case err != nil:
		return Result{}, err
	}
	return Result{Outcome: Fresh, Payload: e.Payload, Token: e.Token, ContentType: e.ContentType}, nil
}

// rebuildShared coalesces concurrent misses of the same entry at the same
// generation. The shared load runs detached from any one caller's
// cancellation; each caller still returns as soon as its own ctx is done.
func (r *Resolver) rebuildShared(ctx context.Context, k EntryKey, obs uint64, load Loader) (Entry, error) {
	sfKey := k.String() + "@" + strconv.FormatUint(obs, 10)
	detached := context.WithoutCancel(ctx)
	ch := r.sf.DoChan(sfKey, func() (any, error) {
		return r.rebuild(detached, k, obs, load)
	})
	select {
	case <-ctx.Done():
		return Entry{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Entry{}, res.Err
		}
		return res.Val.(Entry), nil
	}
}

func (r *Resolver) rebuild(ctx context.Context, k EntryKey, obs uint64, load Loader) (Entry, error) {
	rec, err := load(ctx)
	if err != nil {
		return Entry{}, err
	}
	if rec == nil {
		return Entry{}, ErrNotFound
	}
	payload, tok, err := r.enc.Encode(rec, k.Kind)
	if err != nil {
		r.log.Error("encode failed", entryFields(k, Fields{"err": err}))
		r.hooks.EncodeFailure(k.String(), err)
		return Entry{}, err
	}
	e := Entry{
		Payload:     payload,
		Token:       tok,
		ContentType: r.enc.ContentType(k.Kind),
		Gen:         obs,
	}
	// a cancelled request must not leave anything behind
	if ctx.Err() == nil {
		r.store.Put(ctx, k, e)
	}
	return e, nil
}
