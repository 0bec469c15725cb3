package quota

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reine-ishyanami/gemini-bot/internal/storage"
)

func TestNextReset(t *testing.T) {
	loc := time.UTC

	t.Run("before the hour fires same day", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 10, 30, 0, 0, loc)
		next := NextReset(now, 12)
		assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, loc), next)
	})

	t.Run("after the hour fires next day", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 13, 0, 0, 0, loc)
		next := NextReset(now, 12)
		assert.Equal(t, time.Date(2025, 6, 2, 12, 0, 0, 0, loc), next)
	})

	t.Run("exactly at the hour fires next day", func(t *testing.T) {
		now := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)
		next := NextReset(now, 0)
		assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, loc), next)
	})

	t.Run("midnight rollover crosses the month", func(t *testing.T) {
		now := time.Date(2025, 6, 30, 1, 0, 0, 0, loc)
		next := NextReset(now, 0)
		assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, loc), next)
	})
}

func TestResetSchedulerFires(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := storage.NewFileStore(t.TempDir())
	tracker := NewTracker(store, limits(3, 3, 3))
	require.NoError(t, tracker.Load(ctx))

	_, err := tracker.CheckAndConsume(ctx, FeatureSearch, "42", false)
	require.NoError(t, err)
	require.Equal(t, 1, tracker.Used(FeatureSearch, "42"))

	s := NewResetScheduler(tracker, 0)
	// Pin the clock a hair before midnight so the first tick is imminent.
	frozen := time.Date(2025, 6, 1, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	s.now = func() time.Time { return frozen }

	go s.Run(ctx)

	assert.Eventually(t, func() bool {
		return tracker.Used(FeatureSearch, "42") == 0
	}, 2*time.Second, 10*time.Millisecond)
}
