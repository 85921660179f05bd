package schedules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barber-booking/internal/domain"
	"github.com/m04kA/barber-booking/internal/infra/storage/memory"
	"github.com/m04kA/barber-booking/internal/service/schedules/models"
	"github.com/m04kA/barber-booking/pkg/logger"
	"github.com/m04kA/barber-booking/pkg/txmanager"
)

const providerID = "barber-1"

var day = time.Date(2030, 5, 20, 0, 0, 0, 0, time.UTC)

func newService() *Service {
	svc, _ := newServiceWithStore()
	return svc
}

func newServiceWithStore() (*Service, *memory.Store) {
	store := memory.NewStore(txmanager.Options{}, memory.WithProviders(memory.DefaultProviders()...))
	return NewService(store.Schedules(), store.Providers(), logger.Nop()), store
}

func TestService_SaveAndReplace(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	saved, err := svc.Save(ctx, &models.SaveScheduleRequest{
		UserID: providerID, ProviderID: providerID, Date: day, StartTime: "09:00", EndTime: "18:00",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSlotDurationMinutes, saved.SlotMinutes)
	assert.Equal(t, "2030-05-20", saved.Date)

	_, err = svc.Save(ctx, &models.SaveScheduleRequest{
		ProviderID: providerID, Date: day, StartTime: "10:00", EndTime: "14:00", SlotMinutes: 15,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, providerID, day)
	require.NoError(t, err)
	assert.Equal(t, "10:00", got.StartTime)
	assert.Equal(t, "14:00", got.EndTime)
	assert.Equal(t, 15, got.SlotMinutes)
}

func TestService_SaveValidation(t *testing.T) {
	svc := newService()

	tests := []struct {
		name    string
		req     models.SaveScheduleRequest
		wantErr error
	}{
		{"start after end", models.SaveScheduleRequest{ProviderID: providerID, Date: day, StartTime: "18:00", EndTime: "09:00"}, domain.ErrInvalidSchedule},
		{"slot too small", models.SaveScheduleRequest{ProviderID: providerID, Date: day, StartTime: "09:00", EndTime: "18:00", SlotMinutes: 1}, domain.ErrInvalidSchedule},
		{"slot too big", models.SaveScheduleRequest{ProviderID: providerID, Date: day, StartTime: "09:00", EndTime: "18:00", SlotMinutes: 481}, domain.ErrInvalidSchedule},
		{"malformed time", models.SaveScheduleRequest{ProviderID: providerID, Date: day, StartTime: "9am", EndTime: "18:00"}, ErrInvalidInput},
		{"no date", models.SaveScheduleRequest{ProviderID: providerID, StartTime: "09:00", EndTime: "18:00"}, ErrInvalidInput},
		{"foreign schedule", models.SaveScheduleRequest{UserID: "other", ProviderID: providerID, Date: day, StartTime: "09:00", EndTime: "18:00"}, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Save(context.Background(), &req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_ListAndDelete(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Save(ctx, &models.SaveScheduleRequest{
			ProviderID: providerID, Date: day.AddDate(0, 0, i), StartTime: "09:00", EndTime: "18:00",
		})
		require.NoError(t, err)
	}

	from, to := day.AddDate(0, 0, 1), day.AddDate(0, 0, 2)
	list, err := svc.List(ctx, &models.ListSchedulesRequest{ProviderID: providerID, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, list.Schedules, 2)
	assert.Equal(t, "2030-05-21", list.Schedules[0].Date)

	_, err = svc.List(ctx, &models.ListSchedulesRequest{ProviderID: providerID, From: &to, To: &from})
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.ErrorIs(t, svc.Delete(ctx, "other", providerID, day), ErrAccessDenied)
	require.NoError(t, svc.Delete(ctx, providerID, providerID, day))
	assert.ErrorIs(t, svc.Delete(ctx, providerID, providerID, day), ErrScheduleNotFound)

	_, err = svc.Get(ctx, providerID, day)
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}

func TestService_SaveRequiresActiveProvider(t *testing.T) {
	svc, store := newServiceWithStore()
	ctx := context.Background()

	_, err := svc.Save(ctx, &models.SaveScheduleRequest{
		ProviderID: "unknown", Date: day, StartTime: "09:00", EndTime: "18:00",
	})
	assert.ErrorIs(t, err, ErrProviderNotFound)

	_, err = store.Providers().Upsert(ctx, &domain.Provider{ID: "barber-2", DisplayName: "Miguel Ángel", Active: false})
	require.NoError(t, err)

	_, err = svc.Save(ctx, &models.SaveScheduleRequest{
		UserID: "barber-2", ProviderID: "barber-2", Date: day, StartTime: "09:00", EndTime: "18:00",
	})
	assert.ErrorIs(t, err, ErrProviderNotFound)
}

func TestService_ListByDate(t *testing.T) {
	svc, store := newServiceWithStore()
	ctx := context.Background()

	windows := []struct {
		provider   string
		date       time.Time
		start, end string
	}{
		{"barber-1", day, "10:00", "18:00"},
		{"barber-2", day, "08:00", "12:00"},
		{"barber-3", day, "09:00", "17:00"},
		{"barber-1", day.AddDate(0, 0, 1), "09:00", "18:00"},
	}
	for _, w := range windows {
		_, err := svc.Save(ctx, &models.SaveScheduleRequest{
			ProviderID: w.provider, Date: w.date, StartTime: w.start, EndTime: w.end,
		})
		require.NoError(t, err)
	}

	// деактивированный мастер пропадает из выдачи, расписание остается
	_, err := store.Providers().Upsert(ctx, &domain.Provider{ID: "barber-3", DisplayName: "Andrés Silva", Active: false})
	require.NoError(t, err)

	list, err := svc.ListByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, list.Schedules, 2)
	assert.Equal(t, "barber-2", list.Schedules[0].ProviderID)
	assert.Equal(t, "barber-1", list.Schedules[1].ProviderID)

	empty, err := svc.ListByDate(ctx, day.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Empty(t, empty.Schedules)
}
