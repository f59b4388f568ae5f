package tracker

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryDeduperFirstSeenOnce(t *testing.T) {
	d := NewMemoryDeduper(10)
	ctx := context.Background()

	assert.True(t, d.FirstSeen(ctx, "account-a"))
	assert.False(t, d.FirstSeen(ctx, "account-a"))
	assert.False(t, d.FirstSeen(ctx, "account-a"))

	assert.True(t, d.FirstSeen(ctx, "account-b"))
	assert.False(t, d.FirstSeen(ctx, "account-b"))
}

func TestMemoryDeduperEvictsOldest(t *testing.T) {
	d := NewMemoryDeduper(2)
	ctx := context.Background()

	assert.True(t, d.FirstSeen(ctx, "a"))
	assert.True(t, d.FirstSeen(ctx, "b"))

	// Capacity reached: inserting c evicts a.
	assert.True(t, d.FirstSeen(ctx, "c"))
	assert.True(t, d.FirstSeen(ctx, "a"))

	// b was evicted by a's re-insert.
	assert.True(t, d.FirstSeen(ctx, "b"))
}

func TestMemoryDeduperBounded(t *testing.T) {
	const capacity = 100
	d := NewMemoryDeduper(capacity)
	ctx := context.Background()

	for i := 0; i < capacity*10; i++ {
		d.FirstSeen(ctx, fmt.Sprintf("account-%d", i))
	}

	assert.LessOrEqual(t, len(d.seen), capacity)
	assert.LessOrEqual(t, len(d.order), capacity)
}
