package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/catalog-bot/internal/testutil"
)

func TestDedup_Seen(t *testing.T) {
	clock := testutil.NewClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	d := NewDedup(time.Minute, clock.Now)

	assert.False(t, d.Seen(1))
	assert.True(t, d.Seen(1))
	assert.False(t, d.Seen(2))

	assert.False(t, d.Seen(0), "zero ids are never deduplicated")
	assert.False(t, d.Seen(0))

	clock.Advance(2 * time.Minute)
	assert.False(t, d.Seen(1), "ids expire after the window")
	assert.True(t, d.Seen(1))
}

func TestDedup_Capacity(t *testing.T) {
	clock := testutil.NewClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	d := NewDedup(time.Hour, clock.Now)

	for id := int64(1); id <= maxSeenUpdates+1; id++ {
		d.Seen(id)
	}
	d.Seen(maxSeenUpdates + 2)

	assert.LessOrEqual(t, len(d.order), maxSeenUpdates+1)
	assert.False(t, d.Seen(1), "the oldest id is evicted first")
}
