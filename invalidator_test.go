package repcache

import (
	"context"
	"errors"
	"testing"

	"github.com/unkn0wn-root/repcache/genstore"
)

func TestOnWriteInvalidatesEveryKeyOnce(t *testing.T) {
	ctx := context.Background()
	cc := newTestCache(t, newMemProvider(), nil)
	s := cc.Store()

	keys := []ResourceKey{Key("shop", 1), Key("shops", 0), Key("shop", 1)}
	for _, k := range keys {
		s.Put(ctx, k.Entry(Descriptive), entryFor(k.String(), 0))
	}
	if err := cc.OnWrite(ctx, keys...); err != nil {
		t.Fatal(err)
	}
	for _, k := range keys {
		if _, ok := s.Get(ctx, k.Entry(Descriptive)); ok {
			t.Fatalf("%s still cached", k)
		}
	}
	if s.Generations() != 2 {
		t.Fatalf("duplicate keys should bump once each; generations=%d", s.Generations())
	}
}

func TestOnWriteReportsEveryFailure(t *testing.T) {
	ctx := context.Background()
	bumpFail := errors.New("bump failed")
	gs := &failingGenStore{GenStore: genstore.NewLocalGenStore(0, 0), bumpErr: bumpFail}
	stats := &Stats{}
	cc := newTestCache(t, newMemProvider(), func(o *Options) {
		o.GenStore = gs
		o.Hooks = stats
	})

	err := cc.OnWrite(ctx, Key("shop", 1), Key("shops", 0))
	var ie *InvalidateError
	if !errors.As(err, &ie) || !errors.Is(err, ErrInvalidate) || !errors.Is(err, bumpFail) {
		t.Fatalf("expected joined InvalidateError, got %T: %v", err, err)
	}
	if got := stats.Snapshot().InvalidateFailures; got != 2 {
		t.Fatalf("InvalidateFailures: got %d want 2", got)
	}

	single := cc.OnWrite(ctx, Key("owner", 1))
	if _, ok := single.(*InvalidateError); !ok {
		t.Fatalf("a single failure should be the *InvalidateError itself, got %T", single)
	}
}

func TestOnWriteNoKeys(t *testing.T) {
	cc := newTestCache(t, newMemProvider(), nil)
	if err := cc.OnWrite(context.Background()); err != nil {
		t.Fatalf("no keys: %v", err)
	}
}
