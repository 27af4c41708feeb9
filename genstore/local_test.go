package genstore

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestLocalMissingIsZeroAndBumpIsMonotonic(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore(0, 0)
	t.Cleanup(func() { _ = s.Close(ctx) })

	if g, err := s.Snapshot(ctx, "shop:7"); err != nil || g != 0 {
		t.Fatalf("missing key: got %d,%v want 0,nil", g, err)
	}
	var prev uint64
	for i := 0; i < 3; i++ {
		g, err := s.Bump(ctx, "shop:7")
		if err != nil {
			t.Fatal(err)
		}
		if g <= prev {
			t.Fatalf("bump %d not monotonic: %d <= %d", i, g, prev)
		}
		prev = g
	}
	if g, _ := s.Snapshot(ctx, "shop:7"); g != prev {
		t.Fatalf("snapshot after bump: got %d want %d", g, prev)
	}
	if g, _ := s.Snapshot(ctx, "shop:8"); g != 0 {
		t.Fatalf("unrelated key moved: %d", g)
	}
	if s.Len() != 1 {
		t.Fatalf("Len: got %d want 1", s.Len())
	}
}

func TestLocalBumpNeverReissues(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore(0, 0)
	t.Cleanup(func() { _ = s.Close(ctx) })

	a, _ := s.Bump(ctx, "a")
	b, _ := s.Bump(ctx, "b")
	if a == b {
		t.Fatalf("distinct keys got the same generation %d", a)
	}
}

func TestLocalCleanupPrunesOld(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore(0, time.Second) // retention=1s
	t.Cleanup(func() { _ = s.Close(ctx) })

	before, err := s.Bump(ctx, "old")
	if err != nil {
		t.Fatal(err)
	}
	fresh0, _ := s.Snapshot(ctx, "never-bumped")
	time.Sleep(1200 * time.Millisecond)
	s.Cleanup(time.Second)

	if s.Len() != 0 {
		t.Fatalf("expected pruned, Len=%d", s.Len())
	}
	g, err := s.Snapshot(ctx, "old")
	if err != nil {
		t.Fatal(err)
	}
	// the floor equals the last issued generation, so the fresh entry that
	// was current at prune time stays valid and nothing older resurrects
	if g != before {
		t.Fatalf("pruned key: got %d want floor %d", g, before)
	}
	if g2, _ := s.Snapshot(ctx, "never-bumped"); g2 == fresh0 {
		t.Fatalf("floor did not advance for never-bumped keys")
	}
	after, _ := s.Bump(ctx, "old")
	if after <= before {
		t.Fatalf("bump after prune reissued an old generation: %d <= %d", after, before)
	}
}

func TestLocalConcurrentBumps(t *testing.T) {
	ctx := context.Background()
	s := NewLocalGenStore(0, 0)
	t.Cleanup(func() { _ = s.Close(ctx) })

	const n = 64
	var wg sync.WaitGroup
	seen := make(chan uint64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, _ := s.Bump(ctx, "hot")
			seen <- g
		}()
	}
	wg.Wait()
	close(seen)
	uniq := map[uint64]bool{}
	for g := range seen {
		uniq[g] = true
	}
	if len(uniq) != n {
		t.Fatalf("expected %d distinct generations, got %d", n, len(uniq))
	}
}

func TestLocalCleanupLoopStopsOnClose(t *testing.T) {
	s := NewLocalGenStore(10*time.Millisecond, time.Hour)
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
