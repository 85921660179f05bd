package reschedule_booking

import (
	"context"
	"sync"
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
	nextDay  = day.AddDate(0, 0, 1)
	fixedNow = time.Date(2030, 5, 19, 12, 0, 0, 0, time.UTC)
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fixture struct {
	store *memory.Store
	uc    *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore(txmanager.Options{MaxRetries: 10})
	for _, d := range []time.Time{day, nextDay} {
		_, err := store.Schedules().Upsert(ctx, &domain.WorkingSchedule{
			ProviderID: providerID, ScheduleDate: d, StartTime: "09:00", EndTime: "18:00", SlotMinutes: 30,
		})
		require.NoError(t, err)
	}

	uc := NewUseCase(store.Bookings(), store.Schedules(), store, logger.Nop()).
		WithTimeProvider(fixedTime{now: fixedNow})

	return &fixture{store: store, uc: uc}
}

func (f *fixture) seed(t *testing.T, id string, date time.Time, start, end types.TimeString, status domain.BookingStatus) {
	t.Helper()
	ref := "pay-" + id
	_, err := f.store.Bookings().Create(context.Background(), &domain.Booking{
		ID:               id,
		ProviderID:       providerID,
		ClientID:         "client-" + id,
		ServiceID:        "basic-cut",
		BookingDate:      date,
		StartTime:        start,
		EndTime:          end,
		DurationMinutes:  30,
		Status:           status,
		PaymentReference: &ref,
	})
	require.NoError(t, err)
}

func TestExecute_MovesBookingInPlace(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", day, "10:00", "10:30", domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID: "a", UserID: "client-a", Date: nextDay, StartTime: "15:00",
	})
	require.NoError(t, err)

	assert.Equal(t, "a", resp.ID)
	assert.Equal(t, string(domain.StatusRescheduled), resp.Status)
	assert.Equal(t, types.TimeString("15:30"), resp.EndTime)
	require.NotNil(t, resp.PaymentReference)
	assert.Equal(t, "pay-a", *resp.PaymentReference)

	stored, err := f.store.Bookings().GetByID(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, nextDay.Format(domain.DateFormat), stored.DateKey())
	assert.Equal(t, types.TimeString("15:00"), stored.StartTime)
	assert.Equal(t, domain.StatusRescheduled, stored.Status)
}

func TestExecute_ExplicitEndTime(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", day, "10:00", "10:30", domain.StatusConfirmed)

	resp, err := f.uc.Execute(context.Background(), &Request{
		BookingID: "a", Date: day, StartTime: "11:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_OverlapExcludesItself(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", day, "10:00", "10:30", domain.StatusConfirmed)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: "a", Date: day, StartTime: "10:15"})
	assert.NoError(t, err)
}

func TestExecute_RescheduledCanMoveAgain(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", day, "10:00", "10:30", domain.StatusRescheduled)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: "a", Date: day, StartTime: "16:00"})
	assert.NoError(t, err)
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "confirmed", day, "10:00", "10:30", domain.StatusConfirmed)
	f.seed(t, "occupier", day, "11:00", "12:00", domain.StatusConfirmed)
	f.seed(t, "pending", day, "13:00", "13:30", domain.StatusPending)
	f.seed(t, "cancelled", day, "14:00", "14:30", domain.StatusCancelled)

	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{"unknown booking", Request{BookingID: "missing", Date: day, StartTime: "15:00"}, ErrBookingNotFound},
		{"overlaps another booking", Request{BookingID: "confirmed", Date: day, StartTime: "11:30"}, ErrSlotNoLongerAvailable},
		{"pending cannot be rescheduled", Request{BookingID: "pending", Date: day, StartTime: "15:00"}, domain.ErrIllegalTransition},
		{"terminal booking", Request{BookingID: "cancelled", Date: day, StartTime: "15:00"}, domain.ErrAlreadyTerminal},
		{"stranger", Request{BookingID: "confirmed", UserID: "someone", Date: day, StartTime: "15:00"}, ErrAccessDenied},
		{"no schedule", Request{BookingID: "confirmed", Date: day.AddDate(0, 0, 5), StartTime: "15:00"}, ErrNoWorkingSchedule},
		{"outside hours", Request{BookingID: "confirmed", Date: day, StartTime: "17:45"}, ErrOutsideWorkingHours},
		{"in the past", Request{BookingID: "confirmed", Date: fixedNow.AddDate(0, 0, -1), StartTime: "15:00"}, ErrDateInPast},
		{"end before start", Request{BookingID: "confirmed", Date: day, StartTime: "15:00", EndTime: "14:00"}, ErrInvalidInput},
		{"malformed start", Request{BookingID: "confirmed", Date: day, StartTime: "3pm"}, types.ErrInvalidTimeFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := f.uc.Execute(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored, err := f.store.Bookings().GetByID(context.Background(), "confirmed")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
	assert.Equal(t, types.TimeString("10:00"), stored.StartTime)
}

func TestExecute_ConcurrentReschedulesIntoSameSlot(t *testing.T) {
	f := newFixture(t)
	ids := []string{"a", "b", "c", "d"}
	for i, id := range ids {
		start, _ := types.FromMinutes(9*60 + i*30)
		end, _ := types.FromMinutes(9*60 + i*30 + 30)
		f.seed(t, id, day, start, end, domain.StatusConfirmed)
	}

	var (
		wg   sync.WaitGroup
		errs = make([]error, len(ids))
	)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), &Request{BookingID: id, Date: nextDay, StartTime: "14:00"})
		}(i, id)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		assert.ErrorIs(t, err, ErrSlotNoLongerAvailable)
	}
	assert.Equal(t, 1, wins)

	d := nextDay
	moved, err := f.store.Bookings().GetByProviderWithFilter(context.Background(), domain.ProviderBookingsFilter{
		ProviderID: providerID, StartDate: &d, EndDate: &d,
	})
	require.NoError(t, err)
	assert.Len(t, moved, 1)
}
