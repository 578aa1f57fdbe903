package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowBurstThenDeny(t *testing.T) {
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(1, 3)
	l.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, l.Allow("10.0.0.1"), "burst exhausted")
}

func TestAllowRefillsOverTime(t *testing.T) {
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(2, 1)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))

	// 2 tokens/s: half a second buys one token back
	clock = clock.Add(500 * time.Millisecond)
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
}

func TestAllowKeysAreIndependent(t *testing.T) {
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(1, 1)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"), "a's exhaustion must not affect b")
}

func TestRefillCapsAtBurst(t *testing.T) {
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l := New(100, 2)
	l.now = func() time.Time { return clock }

	assert.True(t, l.Allow("k"))

	// long idle must not accumulate beyond burst
	clock = clock.Add(time.Hour)
	assert.True(t, l.Allow("k"))
	assert.True(t, l.Allow("k"))
	assert.False(t, l.Allow("k"))
}
