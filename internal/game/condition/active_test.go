package condition_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/darklord/internal/game/condition"
)

func TestActiveSet_Apply(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply("force_barrier", 3))
	assert.True(t, s.Has("force_barrier"))
	assert.Equal(t, 3, s.Remaining("force_barrier"))
	assert.Equal(t, 1, s.Len())
}

func TestActiveSet_Apply_KeepsLongerDuration(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply("force_speed", 3))
	require.NoError(t, s.Apply("force_speed", 2))
	assert.Equal(t, 3, s.Remaining("force_speed"))
	require.NoError(t, s.Apply("force_speed", 5))
	assert.Equal(t, 5, s.Remaining("force_speed"))
}

func TestActiveSet_Apply_Rejects(t *testing.T) {
	s := condition.NewActiveSet()
	assert.Error(t, s.Apply("", 2))
	assert.Error(t, s.Apply("force_speed", 0))
	assert.Equal(t, 0, s.Len())
}

func TestActiveSet_Remove(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply("force_rage", 2))
	s.Remove("force_rage")
	assert.False(t, s.Has("force_rage"))
	assert.Equal(t, 0, s.Remaining("force_rage"))
}

func TestActiveSet_Remove_NotPresent_NoOp(t *testing.T) {
	s := condition.NewActiveSet()
	s.Remove("nonexistent")
	assert.False(t, s.Has("nonexistent"))
}

func TestActiveSet_Tick_Decrements(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply("force_barrier", 3))
	assert.Empty(t, s.Tick())
	assert.Equal(t, 2, s.Remaining("force_barrier"))
}

func TestActiveSet_Tick_ExpiresSorted(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply("force_speed", 1))
	require.NoError(t, s.Apply("force_barrier", 1))
	require.NoError(t, s.Apply("force_rage", 2))
	assert.Equal(t, []string{"force_barrier", "force_speed"}, s.Tick())
	assert.Equal(t, []string{"force_rage"}, s.IDs())
}

func TestActiveSet_Snapshot_IsCopy(t *testing.T) {
	s := condition.NewActiveSet()
	require.NoError(t, s.Apply("force_barrier", 2))
	snap := s.Snapshot()
	snap["force_barrier"] = 9
	assert.Equal(t, 2, s.Remaining("force_barrier"))
}

func TestPropertyActiveSet_ExpiresAfterExactlyDuration(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		duration := rapid.IntRange(1, 10).Draw(t, "duration")
		s := condition.NewActiveSet()
		require.NoError(t, s.Apply("effect", duration))
		for i := 1; i < duration; i++ {
			s.Tick()
			assert.Equal(t, duration-i, s.Remaining("effect"))
		}
		assert.Equal(t, []string{"effect"}, s.Tick())
		assert.False(t, s.Has("effect"))
	})
}

func TestPropertyActiveSet_ApplyRemove_HasFalse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		turns := rapid.IntRange(1, 10).Draw(t, "turns")
		s := condition.NewActiveSet()
		require.NoError(t, s.Apply("effect", turns))
		s.Remove("effect")
		assert.False(t, s.Has("effect"))
	})
}
