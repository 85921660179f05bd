package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barber-booking/internal/domain"
	"github.com/m04kA/barber-booking/pkg/types"
)

func booking(id string, start, end types.TimeString, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{ID: id, StartTime: start, EndTime: end, Status: status}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		window Window
		want   []types.TimeString
	}{
		{
			name:   "half hour slots in one hour window",
			window: Window{Start: "09:00", End: "10:00", SlotMinutes: 30},
			want:   []types.TimeString{"09:00", "09:30"},
		},
		{
			name:   "trailing partial slot discarded",
			window: Window{Start: "09:00", End: "10:10", SlotMinutes: 30},
			want:   []types.TimeString{"09:00", "09:30"},
		},
		{
			name:   "window shorter than slot",
			window: Window{Start: "09:00", End: "09:20", SlotMinutes: 30},
			want:   []types.TimeString{},
		},
		{
			name:   "empty working day",
			window: Window{Start: "10:00", End: "10:00", SlotMinutes: 15},
			want:   []types.TimeString{},
		},
		{
			name:   "reversed window",
			window: Window{Start: "18:00", End: "09:00", SlotMinutes: 15},
			want:   []types.TimeString{},
		},
		{
			name:   "last slot of the day",
			window: Window{Start: "23:00", End: "23:59", SlotMinutes: 30},
			want:   []types.TimeString{"23:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Generate(tt.window)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGenerate_InvalidGranularity(t *testing.T) {
	_, err := Generate(Window{Start: "09:00", End: "10:00", SlotMinutes: 0})
	assert.ErrorIs(t, err, ErrInvalidGranularity)

	_, err = Generate(Window{Start: "09:00", End: "10:00", SlotMinutes: -15})
	assert.ErrorIs(t, err, ErrInvalidGranularity)
}

func TestGenerate_InvalidTime(t *testing.T) {
	_, err := Generate(Window{Start: "9am", End: "10:00", SlotMinutes: 30})
	assert.ErrorIs(t, err, types.ErrInvalidTimeFormat)
}

func TestGenerate_DeterministicAndWithinWindow(t *testing.T) {
	for _, step := range []int{5, 7, 15, 25, 30, 45, 60, 90} {
		w := Window{Start: "08:10", End: "19:45", SlotMinutes: step}

		first, err := Generate(w)
		require.NoError(t, err)
		second, err := Generate(w)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		end, _ := w.End.Minutes()
		prev := -1
		for _, slot := range first {
			m, err := slot.Minutes()
			require.NoError(t, err)
			assert.LessOrEqual(t, m+step, end, "slot %s with step %d exceeds window", slot, step)
			assert.Greater(t, m, prev)
			prev = m
		}
	}
}

func TestAnnotate_OccupiedByOverlappingBooking(t *testing.T) {
	bookings := []*domain.Booking{booking("b1", "10:00", "11:00", domain.StatusConfirmed)}

	slots, err := Annotate([]types.TimeString{"09:30", "10:30", "11:00"}, bookings, 30)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	assert.True(t, slots[0].Available)
	assert.Equal(t, types.TimeString("10:00"), slots[0].EndTime)

	assert.False(t, slots[1].Available)
	require.NotNil(t, slots[1].OccupyingBookingID)
	assert.Equal(t, "b1", *slots[1].OccupyingBookingID)

	assert.True(t, slots[2].Available)
	assert.Nil(t, slots[2].OccupyingBookingID)
}

func TestAnnotate_IgnoresTerminalBookings(t *testing.T) {
	bookings := []*domain.Booking{
		booking("cancelled", "10:00", "11:00", domain.StatusCancelled),
		booking("failed", "10:00", "11:00", domain.StatusFailed),
	}

	slots, err := Annotate([]types.TimeString{"10:00", "10:30"}, bookings, 30)
	require.NoError(t, err)
	for _, s := range slots {
		assert.True(t, s.Available)
	}
}

func TestAnnotate_FirstOccupyingBookingWins(t *testing.T) {
	bookings := []*domain.Booking{
		booking("early", "10:00", "10:30", domain.StatusPending),
		booking("late", "10:30", "11:00", domain.StatusRescheduled),
	}

	slots, err := Annotate([]types.TimeString{"10:15"}, bookings, 30)
	require.NoError(t, err)
	require.NotNil(t, slots[0].OccupyingBookingID)
	assert.Equal(t, "early", *slots[0].OccupyingBookingID)
}

func TestAnnotate_DurationCrossingMidnight(t *testing.T) {
	slots, err := Annotate([]types.TimeString{"23:30"}, nil, 60)
	require.NoError(t, err)
	assert.True(t, slots[0].EndTime.IsZero())
}

func TestAnnotate_InvalidDuration(t *testing.T) {
	_, err := Annotate([]types.TimeString{"10:00"}, nil, 0)
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestFindOverlap(t *testing.T) {
	bookings := []*domain.Booking{
		booking("b1", "14:00", "14:30", domain.StatusPending),
		{ID: "b2", StartTime: "16:00", DurationMinutes: 45, Status: domain.StatusConfirmed},
	}

	got, err := FindOverlap("14:00", "14:30", bookings)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b1", got.ID)

	got, err = FindOverlap("14:30", "15:00", bookings)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = FindOverlap("16:30", "17:00", bookings)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "b2", got.ID)
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(690, 720, 680, 700))
	assert.False(t, Overlaps(690, 720, 660, 690))
	assert.False(t, Overlaps(690, 720, 720, 750))
	assert.True(t, Overlaps(600, 660, 610, 620))
}

func TestIsDateInPast(t *testing.T) {
	now := time.Date(2025, 10, 15, 13, 0, 0, 0, time.UTC)

	assert.True(t, IsDateInPast(time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsDateInPast(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, IsDateInPast(time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), now))
	assert.True(t, IsSameDay(time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), now))
}
