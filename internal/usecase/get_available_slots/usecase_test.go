package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barber-booking/internal/domain"
	"github.com/m04kA/barber-booking/internal/infra/storage/memory"
	"github.com/m04kA/barber-booking/pkg/logger"
	"github.com/m04kA/barber-booking/pkg/txmanager"
	"github.com/m04kA/barber-booking/pkg/types"
)

const providerID = "barber-1"

var (
	day      = time.Date(2030, 5, 20, 0, 0, 0, 0, time.UTC)
	fixedNow = time.Date(2030, 5, 19, 12, 0, 0, 0, time.UTC)
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

func newUseCase(t *testing.T, now time.Time, bookings ...*domain.Booking) *UseCase {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore(txmanager.Options{},
		memory.WithServices(memory.DefaultServices()...),
		memory.WithProviders(memory.DefaultProviders()...),
	)
	_, err := store.Schedules().Upsert(ctx, &domain.WorkingSchedule{
		ProviderID: providerID, ScheduleDate: day, StartTime: "09:00", EndTime: "12:00", SlotMinutes: 30,
	})
	require.NoError(t, err)

	for _, b := range bookings {
		_, err := store.Bookings().Create(ctx, b)
		require.NoError(t, err)
	}

	return NewUseCase(store.Bookings(), store.Schedules(), store.Catalog(), store.Providers(), logger.Nop()).
		WithTimeProvider(fixedTime{now: now})
}

func booking(id string, start, end types.TimeString, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:              id,
		ProviderID:      providerID,
		ClientID:        "client-" + id,
		ServiceID:       "basic-cut",
		BookingDate:     day,
		StartTime:       start,
		EndTime:         end,
		DurationMinutes: 30,
		Status:          status,
	}
}

func starts(slots []Slot) []types.TimeString {
	out := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.StartTime)
	}
	return out
}

func TestExecute_MarksOccupiedSlots(t *testing.T) {
	uc := newUseCase(t, fixedNow,
		booking("busy", "10:00", "10:30", domain.StatusConfirmed),
		booking("gone", "11:00", "11:30", domain.StatusCancelled),
	)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: providerID, ServiceID: "basic-cut", Date: day})
	require.NoError(t, err)

	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Equal(t, types.TimeString("09:00"), resp.WorkingStart)
	assert.Equal(t, types.TimeString("12:00"), resp.WorkingEnd)
	assert.Equal(t,
		[]types.TimeString{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		starts(resp.Slots))

	for _, s := range resp.Slots {
		if s.StartTime == "10:00" {
			assert.False(t, s.Available)
			require.NotNil(t, s.OccupyingBookingID)
			assert.Equal(t, "busy", *s.OccupyingBookingID)
			continue
		}
		assert.True(t, s.Available, "slot %s", s.StartTime)
		assert.Nil(t, s.OccupyingBookingID)
	}

	require.NotNil(t, resp.NextAvailable)
	assert.Equal(t, types.TimeString("09:00"), resp.NextAvailable.StartTime)
	assert.Equal(t, domain.PeriodMorning, resp.Slots[0].Period)
}

func TestExecute_LongerServiceBlocksNeighbours(t *testing.T) {
	uc := newUseCase(t, fixedNow, booking("busy", "10:00", "10:30", domain.StatusConfirmed))

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: providerID, DurationMinutes: 60, Date: day})
	require.NoError(t, err)

	available := map[types.TimeString]bool{}
	for _, s := range resp.Slots {
		available[s.StartTime] = s.Available
	}

	assert.True(t, available["09:00"])
	assert.False(t, available["09:30"], "09:30-10:30 overlaps 10:00")
	assert.False(t, available["10:00"])
	assert.True(t, available["10:30"])
	assert.True(t, available["11:00"])
	assert.False(t, available["11:30"], "service does not fit into the working window")
}

func TestExecute_TodayDropsStartedSlots(t *testing.T) {
	now := time.Date(2030, 5, 20, 10, 10, 0, 0, time.UTC)
	uc := newUseCase(t, now)

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: providerID, DurationMinutes: 30, Date: day})
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"10:30", "11:00", "11:30"}, starts(resp.Slots))
}

func TestExecute_EmptyListings(t *testing.T) {
	uc := newUseCase(t, fixedNow)

	t.Run("past date", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), &Request{
			ProviderID: providerID, DurationMinutes: 30, Date: fixedNow.AddDate(0, 0, -1),
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
		assert.Nil(t, resp.NextAvailable)
	})

	t.Run("day off", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), &Request{
			ProviderID: providerID, DurationMinutes: 30, Date: day.AddDate(0, 0, 1),
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Slots)
		assert.True(t, resp.WorkingStart.IsZero())
	})
}

func TestExecute_FullyBookedHasNoNextAvailable(t *testing.T) {
	uc := newUseCase(t, fixedNow, booking("all-morning", "09:00", "12:00", domain.StatusPending))

	resp, err := uc.Execute(context.Background(), &Request{ProviderID: providerID, DurationMinutes: 30, Date: day})
	require.NoError(t, err)

	require.Len(t, resp.Slots, 6)
	for _, s := range resp.Slots {
		assert.False(t, s.Available)
	}
	assert.Nil(t, resp.NextAvailable)
}

func TestExecute_Errors(t *testing.T) {
	uc := newUseCase(t, fixedNow)

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"unknown service", Request{ProviderID: providerID, ServiceID: "perm", Date: day}, ErrServiceNotFound},
		{"unknown provider", Request{ProviderID: "barber-99", DurationMinutes: 30, Date: day}, ErrProviderNotFound},
		{"no duration", Request{ProviderID: providerID, Date: day}, ErrInvalidInput},
		{"duration too short", Request{ProviderID: providerID, DurationMinutes: 1, Date: day}, ErrInvalidInput},
		{"no provider", Request{DurationMinutes: 30, Date: day}, ErrInvalidInput},
		{"no date", Request{ProviderID: providerID, DurationMinutes: 30}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := uc.Execute(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_InactiveProviderHasNoSlots(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore(txmanager.Options{}, memory.WithProviders(&domain.Provider{
		ID: providerID, DisplayName: "Carlos Rodríguez", Active: false,
	}))
	_, err := store.Schedules().Upsert(ctx, &domain.WorkingSchedule{
		ProviderID: providerID, ScheduleDate: day, StartTime: "09:00", EndTime: "12:00", SlotMinutes: 30,
	})
	require.NoError(t, err)

	uc := NewUseCase(store.Bookings(), store.Schedules(), store.Catalog(), store.Providers(), logger.Nop()).
		WithTimeProvider(fixedTime{now: fixedNow})

	_, err = uc.Execute(ctx, &Request{ProviderID: providerID, DurationMinutes: 30, Date: day})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}
