package lru

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func set(t *testing.T, p *Provider, k, v string) {
	t.Helper()
	ok, err := p.Set(context.Background(), k, []byte(v), 1)
	if err != nil || !ok {
		t.Fatalf("Set(%s): ok=%v err=%v", k, ok, err)
	}
}

func has(p *Provider, k string) bool {
	_, ok, _ := p.Get(context.Background(), k)
	return ok
}

func TestNewRejectsNonPositiveCapacity(t *testing.T) {
	if _, err := New(0); err != ErrCapacity {
		t.Fatalf("expected ErrCapacity, got %v", err)
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	p, _ := New(2)
	set(t, p, "a", "1")
	set(t, p, "b", "2")
	// touch a so b becomes the oldest
	if !has(p, "a") {
		t.Fatalf("a missing")
	}
	set(t, p, "c", "3")

	if has(p, "b") {
		t.Fatalf("b should have been evicted")
	}
	if !has(p, "a") || !has(p, "c") {
		t.Fatalf("a and c should remain")
	}
	if p.Len() != 2 || p.Evictions() != 1 {
		t.Fatalf("Len=%d Evictions=%d", p.Len(), p.Evictions())
	}
}

func TestUntouchedEntriesEvictInInsertionOrder(t *testing.T) {
	var evicted []string
	p, _ := New(3, WithEvictCallback(func(k string) { evicted = append(evicted, k) }))
	for i := 0; i < 6; i++ {
		set(t, p, fmt.Sprintf("k%d", i), "v")
	}
	want := []string{"k0", "k1", "k2"}
	if fmt.Sprint(evicted) != fmt.Sprint(want) {
		t.Fatalf("evicted=%v want %v", evicted, want)
	}
}

func TestReplaceKeepsLenAndRefreshesRecency(t *testing.T) {
	p, _ := New(2)
	set(t, p, "a", "1")
	set(t, p, "b", "2")
	set(t, p, "a", "1b")
	set(t, p, "c", "3")

	if has(p, "b") {
		t.Fatalf("b should be evicted after a was replaced")
	}
	v, ok, _ := p.Get(context.Background(), "a")
	if !ok || string(v) != "1b" {
		t.Fatalf("a: got %q,%v", v, ok)
	}
}

func TestDelAndClose(t *testing.T) {
	ctx := context.Background()
	p, _ := New(4)
	set(t, p, "a", "1")
	if err := p.Del(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if err := p.Del(ctx, "missing"); err != nil {
		t.Fatalf("deleting a missing key: %v", err)
	}
	set(t, p, "b", "2")
	if err := p.Close(ctx); err != nil {
		t.Fatal(err)
	}
	if p.Len() != 0 {
		t.Fatalf("Close should drop entries, Len=%d", p.Len())
	}
}

func TestBoundHoldsUnderConcurrency(t *testing.T) {
	const capacity = 16
	p, _ := New(capacity)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				k := fmt.Sprintf("w%d-%d", w, i)
				_, _ = p.Set(context.Background(), k, []byte(k), 1)
				_, _, _ = p.Get(context.Background(), k)
				if n := p.Len(); n > capacity {
					t.Errorf("Len %d exceeds capacity %d", n, capacity)
					return
				}
			}
		}(w)
	}
	wg.Wait()
}
