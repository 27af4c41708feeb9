package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBuf() (*bytes.Buffer, *slog.Logger) {
	var buf bytes.Buffer
	return &buf, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestRedactsKeysByDefault(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{})
	h.SelfHeal("entry:shop:7:descriptive", "corrupt")
	out := buf.String()
	if strings.Contains(out, "entry:shop:7") {
		t.Fatalf("key leaked: %s", out)
	}
	if !strings.Contains(out, "reason=corrupt") {
		t.Fatalf("missing reason: %s", out)
	}
}

func TestSamplingAndLookupGate(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{SelfHealEvery: 3, Redact: func(s string) string { return s }})
	for i := 0; i < 9; i++ {
		h.SelfHeal("k", "gen_mismatch")
	}
	if n := strings.Count(buf.String(), "repcache.self_heal"); n != 3 {
		t.Fatalf("sampled lines: got %d want 3", n)
	}

	buf.Reset()
	h.Lookup("k", true)
	if buf.Len() != 0 {
		t.Fatalf("lookups should be silent unless enabled")
	}
	New(l, Options{LogLookups: true}).Lookup("k", true)
	if !strings.Contains(buf.String(), "repcache.lookup") {
		t.Fatalf("enabled lookup not logged")
	}
}

func TestErrorEvents(t *testing.T) {
	buf, l := newBuf()
	h := New(l, Options{})
	h.EncodeFailure("k", errors.New("too wide"))
	h.InvalidateFailure("shop:1", errors.New("bump"))
	out := buf.String()
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "resource=shop:1") {
		t.Fatalf("unexpected output: %s", out)
	}

	New(nil, Options{}).EncodeFailure("k", errors.New("x")) // nil logger is a no-op
}
