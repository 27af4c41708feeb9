package zap_test

import (
	"testing"

	"github.com/unkn0wn-root/repcache"
	rzap "github.com/unkn0wn-root/repcache/log/zap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	var l repcache.Logger = rzap.ZapLogger{L: zap.New(core)}
	l.Error("encode failed", repcache.Fields{"key": "entry:shop:1:compact"})
	if logs.Len() != 1 {
		t.Fatalf("entries: %d", logs.Len())
	}
	got := logs.All()[0]
	if got.Message != "encode failed" || got.ContextMap()["key"] != "entry:shop:1:compact" {
		t.Fatalf("unexpected entry %+v", got)
	}
	if _, err := rzap.New("nope"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}
