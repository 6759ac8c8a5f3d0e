package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testClock is a manually advanced time source.
type testClock struct {
	current time.Time
}

func (c *testClock) Now() time.Time { return c.current }

func (c *testClock) Advance(d time.Duration) { c.current = c.current.Add(d) }

func newTestClock() *testClock {
	return &testClock{current: time.Date(2026, 1, 22, 8, 0, 0, 0, time.UTC)}
}

func TestMemoryScanGuard_DuplicateWithinWindow(t *testing.T) {
	clock := newTestClock()
	guard := NewMemoryScanGuard(WithGuardClock(clock.Now))

	key := "PO20260122001|01|sewing"
	assert.False(t, guard.IsDuplicate(key))

	guard.MarkRecent(key, SubmitTTL)
	assert.True(t, guard.IsDuplicate(key))

	clock.Advance(SubmitTTL + time.Millisecond)
	assert.False(t, guard.IsDuplicate(key), "expired entries stop matching")
	assert.Equal(t, 0, guard.Size(), "stale entry is removed on lookup")
}

func TestMemoryScanGuard_IndependentKeys(t *testing.T) {
	clock := newTestClock()
	guard := NewMemoryScanGuard(WithGuardClock(clock.Now))

	guard.MarkRecent("PO20260122001|01|sewing", SubmitTTL)

	assert.False(t, guard.IsDuplicate("PO20260122001|02|sewing"))
	assert.False(t, guard.IsDuplicate("PO20260122001|01|ironing"))
}

func TestMemoryScanGuard_ConfirmWindowOutlivesSubmitWindow(t *testing.T) {
	clock := newTestClock()
	guard := NewMemoryScanGuard(WithGuardClock(clock.Now))

	guard.MarkRecent("confirm-key", ConfirmTTL)

	clock.Advance(SubmitTTL + time.Second)
	assert.True(t, guard.IsDuplicate("confirm-key"))

	clock.Advance(ConfirmTTL)
	assert.False(t, guard.IsDuplicate("confirm-key"))
}

func TestMemoryScanGuard_CleanupRemovesOnlyExpired(t *testing.T) {
	clock := newTestClock()
	guard := NewMemoryScanGuard(
		WithGuardClock(clock.Now),
		WithGuardCapacity(5, 2),
	)

	for i := 0; i < 4; i++ {
		guard.MarkRecent(fmt.Sprintf("stale-%d", i), time.Second)
	}
	clock.Advance(2 * time.Second)

	guard.MarkRecent("live-0", time.Minute)
	guard.MarkRecent("live-1", time.Minute) // 6th entry, triggers cleanup

	assert.Equal(t, 4, guard.Size(), "one batch of expired entries removed")
	assert.True(t, guard.IsDuplicate("live-0"))
	assert.True(t, guard.IsDuplicate("live-1"))
}

func TestMemoryScanGuard_LiveEntriesNeverEvicted(t *testing.T) {
	clock := newTestClock()
	guard := NewMemoryScanGuard(
		WithGuardClock(clock.Now),
		WithGuardCapacity(3, 3),
	)

	for i := 0; i < 10; i++ {
		guard.MarkRecent(fmt.Sprintf("live-%d", i), time.Minute)
	}

	// Every entry is still inside its window, so the cache legitimately
	// exceeds the threshold and nothing is dropped.
	assert.Equal(t, 10, guard.Size())
	for i := 0; i < 10; i++ {
		assert.True(t, guard.IsDuplicate(fmt.Sprintf("live-%d", i)))
	}
}
