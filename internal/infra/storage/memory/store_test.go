package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barber-booking/internal/domain"
	bookingRepo "github.com/m04kA/barber-booking/internal/infra/storage/booking"
	providerRepo "github.com/m04kA/barber-booking/internal/infra/storage/provider"
	scheduleRepo "github.com/m04kA/barber-booking/internal/infra/storage/schedule"
	"github.com/m04kA/barber-booking/pkg/txmanager"
	"github.com/m04kA/barber-booking/pkg/types"
)

var testDate = time.Date(2030, 3, 14, 0, 0, 0, 0, time.UTC)

func newBooking(id string, start, end types.TimeString) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		ProviderID:  "barber-1",
		ClientID:    "client-" + id,
		ServiceID:   "basic-cut",
		BookingDate: testDate,
		StartTime:   start,
		EndTime:     end,
		Status:      domain.StatusPending,
	}
}

func partitionFilter() domain.ProviderBookingsFilter {
	d := testDate
	return domain.ProviderBookingsFilter{ProviderID: "barber-1", StartDate: &d, EndDate: &d}
}

func TestBookingRepository_CreateRejectsOverlap(t *testing.T) {
	store := NewStore(txmanager.Options{})
	repo := store.Bookings()
	ctx := context.Background()

	_, err := repo.Create(ctx, newBooking("a", "10:00", "10:30"))
	require.NoError(t, err)

	_, err = repo.Create(ctx, newBooking("b", "10:15", "10:45"))
	assert.ErrorIs(t, err, bookingRepo.ErrSlotConflict)

	_, err = repo.Create(ctx, newBooking("c", "10:30", "11:00"))
	assert.NoError(t, err)

	_, err = repo.Create(ctx, newBooking("a", "12:00", "12:30"))
	assert.ErrorIs(t, err, bookingRepo.ErrDuplicateID)
}

func TestBookingRepository_ProviderFilterOrderAndInactive(t *testing.T) {
	store := NewStore(txmanager.Options{})
	repo := store.Bookings()
	ctx := context.Background()

	_, err := repo.Create(ctx, newBooking("late", "15:00", "15:30"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newBooking("early", "09:00", "09:30"))
	require.NoError(t, err)

	reason := "client asked"
	require.NoError(t, repo.UpdateStatus(ctx, domain.StatusChange{
		BookingID: "late", From: domain.StatusPending, To: domain.StatusCancelled,
		CancellationReason: &reason, ChangedAt: time.Now(),
	}))

	active, err := repo.GetByProviderWithFilter(ctx, partitionFilter())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "early", active[0].ID)

	filter := partitionFilter()
	filter.IncludeInactive = true
	all, err := repo.GetByProviderWithFilter(ctx, filter)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "early", all[0].ID)
	assert.Equal(t, "late", all[1].ID)
	assert.NotNil(t, all[1].CancelledAt)
}

func TestBookingRepository_UpdateStatusCompareAndSet(t *testing.T) {
	store := NewStore(txmanager.Options{})
	repo := store.Bookings()
	ctx := context.Background()

	_, err := repo.Create(ctx, newBooking("a", "10:00", "10:30"))
	require.NoError(t, err)

	err = repo.UpdateStatus(ctx, domain.StatusChange{BookingID: "a", From: domain.StatusConfirmed, To: domain.StatusCancelled})
	assert.ErrorIs(t, err, bookingRepo.ErrStatusMismatch)

	ref := "pay-1"
	err = repo.UpdateStatus(ctx, domain.StatusChange{BookingID: "a", From: domain.StatusPending, To: domain.StatusConfirmed, PaymentReference: &ref})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, got.Status)
	require.NotNil(t, got.PaymentReference)
	assert.Equal(t, "pay-1", *got.PaymentReference)
}

func TestStore_DoSerializableRetriesOnPartitionChange(t *testing.T) {
	store := NewStore(txmanager.Options{MaxRetries: 3})
	repo := store.Bookings()
	ctx := context.Background()

	attempts := 0
	err := store.DoSerializable(ctx, func(txCtx context.Context) error {
		attempts++
		if _, err := repo.GetByProviderWithFilter(txCtx, partitionFilter()); err != nil {
			return err
		}
		if attempts == 1 {
			// конкурентная запись в ту же партицию вне транзакции
			if _, err := repo.Create(ctx, newBooking("other", "16:00", "16:30")); err != nil {
				return err
			}
		}
		_, err := repo.Create(txCtx, newBooking("mine", "10:00", "10:30"))
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)

	all, err := repo.GetByProviderWithFilter(ctx, partitionFilter())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStore_DoSerializableDiscardsWritesOnError(t *testing.T) {
	store := NewStore(txmanager.Options{})
	repo := store.Bookings()
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := store.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := repo.Create(txCtx, newBooking("a", "10:00", "10:30")); err != nil {
			return err
		}
		return errAbort
	})
	assert.ErrorIs(t, err, errAbort)

	_, err = repo.GetByID(ctx, "a")
	assert.ErrorIs(t, err, bookingRepo.ErrBookingNotFound)
}

func TestStore_DoSerializableTimeout(t *testing.T) {
	store := NewStore(txmanager.Options{Timeout: 10 * time.Millisecond})

	err := store.DoSerializable(context.Background(), func(txCtx context.Context) error {
		<-txCtx.Done()
		return nil
	})
	assert.ErrorIs(t, err, txmanager.ErrTimeout)
}

func TestStore_RescheduleMovesBetweenPartitions(t *testing.T) {
	store := NewStore(txmanager.Options{})
	repo := store.Bookings()
	ctx := context.Background()

	_, err := repo.Create(ctx, newBooking("a", "10:00", "10:30"))
	require.NoError(t, err)

	next := testDate.AddDate(0, 0, 1)
	err = store.DoSerializable(ctx, func(txCtx context.Context) error {
		return repo.Reschedule(txCtx, domain.Reschedule{
			BookingID: "a", BookingDate: next, StartTime: "11:00", EndTime: "11:30", ChangedAt: time.Now(),
		})
	})
	require.NoError(t, err)

	old, err := repo.GetByProviderWithFilter(ctx, partitionFilter())
	require.NoError(t, err)
	assert.Empty(t, old)

	got, err := repo.GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRescheduled, got.Status)
	assert.Equal(t, types.TimeString("11:00"), got.StartTime)
}

func TestStore_PartitionsLockIndependently(t *testing.T) {
	store := NewStore(txmanager.Options{})
	repo := store.Bookings()
	ctx := context.Background()

	held := store.partition(partitionKey("barber-1", testDate))
	held.mu.Lock()

	otherDay := newBooking("other-day", "10:00", "10:30")
	otherDay.BookingDate = testDate.AddDate(0, 0, 1)
	otherProvider := newBooking("other-provider", "10:00", "10:30")
	otherProvider.ProviderID = "barber-2"

	for _, b := range []*domain.Booking{otherDay, otherProvider} {
		done := make(chan error, 1)
		go func(b *domain.Booking) {
			_, err := repo.Create(ctx, b)
			done <- err
		}(b)

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(time.Second):
			held.mu.Unlock()
			t.Fatalf("create of %s waited for an unrelated partition", b.ID)
		}
	}

	blocked := make(chan error, 1)
	go func() {
		_, err := repo.Create(ctx, newBooking("same", "10:00", "10:30"))
		blocked <- err
	}()

	select {
	case <-blocked:
		held.mu.Unlock()
		t.Fatal("create into a locked partition did not wait")
	case <-time.After(50 * time.Millisecond):
	}

	held.mu.Unlock()
	require.NoError(t, <-blocked)

	got, err := repo.GetByProviderWithFilter(ctx, partitionFilter())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "same", got[0].ID)
}

func TestStore_ConcurrentCreatesSameSlot(t *testing.T) {
	store := NewStore(txmanager.Options{})
	repo := store.Bookings()
	ctx := context.Background()

	const clients = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)

	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Create(ctx, newBooking(fmt.Sprintf("b-%d", i), "10:00", "10:30"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, bookingRepo.ErrSlotConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, clients-1, conflicts)
}

func TestScheduleRepository_ListByDate(t *testing.T) {
	store := NewStore(txmanager.Options{})
	repo := store.Schedules()
	ctx := context.Background()

	for _, ws := range []*domain.WorkingSchedule{
		{ProviderID: "barber-2", ScheduleDate: testDate, StartTime: "10:00", EndTime: "18:00", SlotMinutes: 30},
		{ProviderID: "barber-1", ScheduleDate: testDate, StartTime: "09:00", EndTime: "17:00", SlotMinutes: 30},
		{ProviderID: "barber-3", ScheduleDate: testDate, StartTime: "10:00", EndTime: "16:00", SlotMinutes: 30},
		{ProviderID: "barber-1", ScheduleDate: testDate.AddDate(0, 0, 1), StartTime: "08:00", EndTime: "12:00", SlotMinutes: 30},
	} {
		_, err := repo.Upsert(ctx, ws)
		require.NoError(t, err)
	}

	list, err := repo.ListByDate(ctx, testDate)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "barber-1", list[0].ProviderID)
	assert.Equal(t, "barber-2", list[1].ProviderID)
	assert.Equal(t, "barber-3", list[2].ProviderID)
}

func TestProviderRepository(t *testing.T) {
	store := NewStore(txmanager.Options{}, WithProviders(DefaultProviders()...))
	repo := store.Providers()
	ctx := context.Background()

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 3)

	_, err = repo.Upsert(ctx, &domain.Provider{ID: "barber-2", DisplayName: "Miguel Ángel", Active: false})
	require.NoError(t, err)

	active, err = repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)

	got, err := repo.GetByID(ctx, "barber-2")
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.False(t, got.UpdatedAt.IsZero())

	_, err = repo.GetByID(ctx, "barber-99")
	assert.ErrorIs(t, err, providerRepo.ErrProviderNotFound)
}

func TestScheduleRepository_UpsertGetDelete(t *testing.T) {
	store := NewStore(txmanager.Options{})
	repo := store.Schedules()
	ctx := context.Background()

	_, err := repo.GetByProviderAndDate(ctx, "barber-1", testDate)
	assert.ErrorIs(t, err, scheduleRepo.ErrScheduleNotFound)

	_, err = repo.Upsert(ctx, &domain.WorkingSchedule{ProviderID: "barber-1", ScheduleDate: testDate, StartTime: "09:00", EndTime: "17:00", SlotMinutes: 30})
	require.NoError(t, err)
	_, err = repo.Upsert(ctx, &domain.WorkingSchedule{ProviderID: "barber-1", ScheduleDate: testDate, StartTime: "10:00", EndTime: "18:00", SlotMinutes: 15})
	require.NoError(t, err)

	got, err := repo.GetByProviderAndDate(ctx, "barber-1", testDate)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("10:00"), got.StartTime)
	assert.Equal(t, 15, got.SlotMinutes)

	list, err := repo.ListByProvider(ctx, "barber-1", nil, nil)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "barber-1", testDate))
	assert.ErrorIs(t, repo.Delete(ctx, "barber-1", testDate), scheduleRepo.ErrScheduleNotFound)
}

func TestCatalogRepository(t *testing.T) {
	store := NewStore(txmanager.Options{}, WithServices(DefaultServices()...))
	repo := store.Catalog()

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 5)
	assert.Equal(t, "beard", list[0].ID)

	svc, err := repo.GetByID(context.Background(), "full-combo")
	require.NoError(t, err)
	assert.Equal(t, 60, svc.DurationMinutes)
}
