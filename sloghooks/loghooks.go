// Package sloghooks logs repcache hook events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/repcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery uint64
	StalePutEvery uint64
	LogLookups    bool // Lookup is on every read; off by default
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr atomic.Uint64
	stalePutCtr atomic.Uint64
}

var _ repcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Lookup(storageKey string, hit bool) {
	if h.l == nil || !h.opts.LogLookups {
		return
	}
	h.l.Debug("repcache.lookup",
		"key", h.redact(storageKey),
		"hit", hit)
}

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("repcache.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) ProviderSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("repcache.provider_set_rejected",
		"key", h.redact(storageKey))
}

func (h *Hooks) StalePutSkipped(storageKey string, observed, current uint64) {
	if h.l == nil || !sample(h.opts.StalePutEvery, &h.stalePutCtr) {
		return
	}
	h.l.Info("repcache.stale_put_skipped",
		"key", h.redact(storageKey),
		"observed", observed,
		"current", current)
}

func (h *Hooks) EncodeFailure(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("repcache.encode_failure",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) InvalidateFailure(resource string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("repcache.invalidate_failure",
		"resource", resource,
		"err", err)
}
