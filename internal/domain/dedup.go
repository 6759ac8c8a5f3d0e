package domain

import (
	"sync"
	"time"
)

// Dedup guard tuning. The guard is a small shield against double-triggered
// hardware scanners, not a persistence layer, so the cache stays tiny and
// cleanup is bounded per trigger.
const (
	DedupMaxEntries   = 80
	DedupCleanupBatch = 20

	// SubmitTTL suppresses re-scans of a code just submitted.
	SubmitTTL = 2 * time.Second
	// ConfirmTTL holds a code while its confirmation dialog is open.
	ConfirmTTL = 30 * time.Second
)

// ScanGuard suppresses reprocessing of an identical scan key within a
// configured window.
type ScanGuard interface {
	// IsDuplicate reports whether key was marked recently and its window
	// has not yet elapsed.
	IsDuplicate(key string) bool
	// MarkRecent records key for the given window.
	MarkRecent(key string, ttl time.Duration)
}

// MemoryScanGuard is the in-process ScanGuard: a mutex-guarded map from
// scan key to expiry. Expired entries are detected lazily on lookup; a
// bounded cleanup pass runs only when the live count exceeds the capacity
// threshold, and removes expired entries only.
type MemoryScanGuard struct {
	mu           sync.Mutex
	entries      map[string]time.Time
	maxEntries   int
	cleanupBatch int
	now          func() time.Time
}

// MemoryScanGuardOption customizes a MemoryScanGuard.
type MemoryScanGuardOption func(*MemoryScanGuard)

// WithGuardCapacity overrides the capacity threshold and cleanup batch size.
func WithGuardCapacity(maxEntries, cleanupBatch int) MemoryScanGuardOption {
	return func(g *MemoryScanGuard) {
		g.maxEntries = maxEntries
		g.cleanupBatch = cleanupBatch
	}
}

// WithGuardClock overrides the time source.
func WithGuardClock(now func() time.Time) MemoryScanGuardOption {
	return func(g *MemoryScanGuard) {
		g.now = now
	}
}

// NewMemoryScanGuard creates an isolated guard instance.
func NewMemoryScanGuard(opts ...MemoryScanGuardOption) *MemoryScanGuard {
	g := &MemoryScanGuard{
		entries:      make(map[string]time.Time),
		maxEntries:   DedupMaxEntries,
		cleanupBatch: DedupCleanupBatch,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// IsDuplicate reports whether key is inside its suppression window. A
// stale entry found during lookup is removed.
func (g *MemoryScanGuard) IsDuplicate(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	expiresAt, ok := g.entries[key]
	if !ok {
		return false
	}
	if g.now().After(expiresAt) {
		delete(g.entries, key)
		return false
	}
	return true
}

// MarkRecent records key for ttl and triggers a bounded cleanup when the
// cache has grown past its threshold.
func (g *MemoryScanGuard) MarkRecent(key string, ttl time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.entries[key] = g.now().Add(ttl)

	if len(g.entries) > g.maxEntries {
		g.cleanupLocked()
	}
}

// cleanupLocked removes up to cleanupBatch expired entries. Live entries
// are never removed, so the map may legitimately exceed the threshold when
// most entries are still inside their window.
func (g *MemoryScanGuard) cleanupLocked() {
	now := g.now()
	removed := 0
	for key, expiresAt := range g.entries {
		if removed >= g.cleanupBatch {
			break
		}
		if now.After(expiresAt) {
			delete(g.entries, key)
			removed++
		}
	}
}

// Size returns the current live entry count, for metrics.
func (g *MemoryScanGuard) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}
