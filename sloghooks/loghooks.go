package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/depcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	SelfHealEvery   uint64
	DepChangedEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

// Hooks emits depcache events through slog. Self-heal and dependency-change
// events can be sampled; they fire once per affected read.
type Hooks struct {
	l    *slog.Logger
	opts Options

	selfHealCtr   atomic.Uint64
	depChangedCtr atomic.Uint64
}

var _ depcache.Hooks = (*Hooks)(nil)

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

func (h *Hooks) SelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("depcache.self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) DependencyChanged(storageKey string) {
	if h.l == nil || !sample(h.opts.DepChangedEvery, &h.depChangedCtr) {
		return
	}
	h.l.Debug("depcache.dependency_changed",
		"key", h.redact(storageKey))
}

func (h *Hooks) StoreSetRejected(storageKey string, isMulti bool) {
	if h.l == nil {
		return
	}
	h.l.Warn("depcache.store_set_rejected",
		"key", h.redact(storageKey),
		"is_multi", isMulti)
}

func (h *Hooks) AddSkippedExisting(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Debug("depcache.add_skipped_existing",
		"key", h.redact(storageKey))
}
