package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRun(t *testing.T) {
	now := time.Date(2026, 2, 10, 6, 30, 0, 0, time.Local)

	t.Run("later today", func(t *testing.T) {
		next, err := NextRun(now, "07:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 2, 10, 7, 0, 0, 0, time.Local), next)
	})

	t.Run("already passed means tomorrow", func(t *testing.T) {
		next, err := NextRun(now, "06:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 2, 11, 6, 0, 0, 0, time.Local), next)
	})

	t.Run("exact now means tomorrow", func(t *testing.T) {
		next, err := NextRun(now, "06:30")
		require.NoError(t, err)
		assert.True(t, next.After(now), "the next run is strictly future")
		assert.Equal(t, time.Date(2026, 2, 11, 6, 30, 0, 0, time.Local), next)
	})

	t.Run("midnight release", func(t *testing.T) {
		next, err := NextRun(now, "00:00")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2026, 2, 11, 0, 0, 0, 0, time.Local), next)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, bad := range []string{"", "7", "25:00", "12:61", "noon"} {
			_, err := NextRun(now, bad)
			assert.Error(t, err, "input %q", bad)
		}
	})
}

func TestWaitUntil(t *testing.T) {
	t.Run("past target returns immediately", func(t *testing.T) {
		err := WaitUntil(context.Background(), time.Now().Add(-time.Minute))
		assert.NoError(t, err)
	})

	t.Run("cancellation interrupts the wait", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go cancel()
		err := WaitUntil(ctx, time.Now().Add(time.Hour))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
