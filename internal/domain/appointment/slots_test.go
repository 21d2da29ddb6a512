package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrid(t *testing.T) {
	grid := Grid()

	require.Len(t, grid, 20)
	assert.Equal(t, "09:00", grid[0])
	assert.Equal(t, "18:30", grid[len(grid)-1])

	// Strictly ascending half-hour steps.
	for i := 1; i < len(grid); i++ {
		prev, _ := time.Parse("15:04", grid[i-1])
		cur, _ := time.Parse("15:04", grid[i])
		assert.Equal(t, SlotStep, cur.Sub(prev))
	}
}

func TestOnGrid(t *testing.T) {
	for _, slot := range Grid() {
		assert.True(t, OnGrid(slot), slot)
	}

	cases := []string{
		"08:30", // before opening
		"19:00", // after last slot
		"14:15", // off the half-hour
		"14:1",
		"2pm",
		"",
	}
	for _, c := range cases {
		assert.False(t, OnGrid(c), c)
	}
}

func TestAvailableSlots(t *testing.T) {
	t.Run("EmptyDay", func(t *testing.T) {
		assert.Equal(t, Grid(), AvailableSlots(nil))
	})

	t.Run("BookedSlotDisappears", func(t *testing.T) {
		free := AvailableSlots([]string{"14:00"})
		require.Len(t, free, 19)
		assert.NotContains(t, free, "14:00")
		assert.Contains(t, free, "13:30")
		assert.Contains(t, free, "14:30")
	})

	t.Run("FullyBooked", func(t *testing.T) {
		assert.Empty(t, AvailableSlots(Grid()))
	})

	t.Run("OffGridBookingsIgnored", func(t *testing.T) {
		free := AvailableSlots([]string{"03:00", "14:15"})
		assert.Equal(t, Grid(), free)
	})

	t.Run("DuplicateBookingsCollapse", func(t *testing.T) {
		free := AvailableSlots([]string{"10:00", "10:00"})
		assert.Len(t, free, 19)
	})
}

func TestStartAt(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	date := time.Date(2025, 6, 10, 0, 0, 0, 0, loc)
	start := StartAt(date, "14:00")

	assert.Equal(t, time.Date(2025, 6, 10, 14, 0, 0, 0, loc), start)
	assert.Equal(t, loc, start.Location())
}

func TestStartOnDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// DATE columns scan back as midnight UTC regardless of shop timezone.
	scanned := time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)

	start := StartOnDay(scanned, "14:00", ny)

	assert.Equal(t, time.Date(2030, 6, 10, 14, 0, 0, 0, ny), start)
	assert.Equal(t, 10, start.Day())
	assert.Equal(t, ny, start.Location())

	// Positive-offset zones must not drift either.
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, 10, StartOnDay(scanned, "09:00", tokyo).Day())
}

func TestDayWindow(t *testing.T) {
	date := time.Date(2025, 6, 10, 15, 42, 0, 0, time.UTC)
	start, end := DayWindow(date)

	assert.Equal(t, time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, start.Add(24*time.Hour), end)
}
