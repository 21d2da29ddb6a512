package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("MissOnUnknownKey", func(t *testing.T) {
		s := NewMemoryStore()
		_, ok := s.Get(ctx, "resp:/nope")
		assert.False(t, ok)
	})

	t.Run("HitWithinTTL", func(t *testing.T) {
		s := NewMemoryStore()
		s.Set(ctx, "resp:/a", []byte(`{"slots":[]}`), time.Minute)

		val, ok := s.Get(ctx, "resp:/a")
		require.True(t, ok)
		assert.Equal(t, []byte(`{"slots":[]}`), val)
	})

	t.Run("ExpiresAfterTTL", func(t *testing.T) {
		now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
		s := NewMemoryStore()
		s.now = func() time.Time { return now }

		s.Set(ctx, "resp:/a", []byte("v"), 5*time.Minute)

		now = now.Add(5*time.Minute - time.Second)
		_, ok := s.Get(ctx, "resp:/a")
		assert.True(t, ok)

		now = now.Add(2 * time.Second)
		_, ok = s.Get(ctx, "resp:/a")
		assert.False(t, ok)

		// The expired entry is reaped, not just hidden.
		s.mu.RLock()
		_, present := s.entries["resp:/a"]
		s.mu.RUnlock()
		assert.False(t, present)
	})

	t.Run("OverwriteResetsTTL", func(t *testing.T) {
		now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
		s := NewMemoryStore()
		s.now = func() time.Time { return now }

		s.Set(ctx, "k", []byte("old"), time.Minute)
		now = now.Add(50 * time.Second)
		s.Set(ctx, "k", []byte("new"), time.Minute)
		now = now.Add(30 * time.Second)

		val, ok := s.Get(ctx, "k")
		require.True(t, ok)
		assert.Equal(t, []byte("new"), val)
	})
}
