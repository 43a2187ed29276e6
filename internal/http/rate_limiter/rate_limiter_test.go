package rate_limiter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestLimiter(rps float64, burst int) (*Limiter, *time.Time) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	l := New(rps, burst, 5*time.Minute, zap.NewNop())
	l.now = func() time.Time { return now }
	return l, &now
}

func TestAllow_BurstThenRefill(t *testing.T) {
	l, now := newTestLimiter(1, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d within burst", i+1)
	}
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "other clients have their own bucket")

	*now = now.Add(time.Second)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestVisitor_ReusesBucket(t *testing.T) {
	l, _ := newTestLimiter(1, 1)
	assert.Same(t, l.Visitor("a"), l.Visitor("a"))
	assert.Equal(t, 1, l.Len())
}

func TestCleanup_RemovesStaleVisitors(t *testing.T) {
	l, now := newTestLimiter(1, 1)
	l.Visitor("stale")

	*now = now.Add(4 * time.Minute)
	l.Visitor("fresh")

	*now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, l.Cleanup())
	assert.Equal(t, 1, l.Len())

	l.Reset()
	assert.Equal(t, 0, l.Len())
}

func TestStart_RejectsInvalidSchedule(t *testing.T) {
	l, _ := newTestLimiter(1, 1)
	assert.Error(t, l.Start("not a schedule"))

	require.NoError(t, l.Start("@every 1m"))
	l.Stop()
}
