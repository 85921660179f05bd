package create_booking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barber-booking/internal/api/middleware"
	"github.com/m04kA/barber-booking/internal/domain"
	"github.com/m04kA/barber-booking/internal/infra/storage/memory"
	createBooking "github.com/m04kA/barber-booking/internal/usecase/create_booking"
	"github.com/m04kA/barber-booking/pkg/logger"
	"github.com/m04kA/barber-booking/pkg/txmanager"
)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type stubUseCase struct{ err error }

func (s stubUseCase) Execute(context.Context, *createBooking.Request) (*createBooking.Response, error) {
	return nil, s.err
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	store := memory.NewStore(txmanager.Options{},
		memory.WithServices(memory.DefaultServices()...),
		memory.WithProviders(memory.DefaultProviders()...),
	)
	_, err := store.Schedules().Upsert(context.Background(), &domain.WorkingSchedule{
		ProviderID:   "barber-1",
		ScheduleDate: time.Date(2030, 5, 20, 0, 0, 0, 0, time.UTC),
		StartTime:    "09:00",
		EndTime:      "18:00",
		SlotMinutes:  30,
	})
	require.NoError(t, err)

	uc := createBooking.NewUseCase(store.Bookings(), store.Schedules(), store.Catalog(), store.Providers(), store, logger.Nop()).
		WithTimeProvider(fixedTime{now: time.Date(2030, 5, 19, 12, 0, 0, 0, time.UTC)})

	return middleware.Auth(http.HandlerFunc(NewHandler(uc, logger.Nop()).Handle))
}

func post(h http.Handler, user, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if user != "" {
		req.Header.Set(middleware.UserIDHeader, user)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandle_CreatesThenConflicts(t *testing.T) {
	h := newHandler(t)
	body := `{"providerId":"barber-1","serviceId":"basic-cut","bookingDate":"2030-05-20","startTime":"10:00"}`

	rec := post(h, "client-1", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "client-1", resp.ClientID)
	assert.Equal(t, "10:30", resp.EndTime)
	assert.Equal(t, "pending", resp.Status)

	rec = post(h, "client-2", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHandle_BadRequests(t *testing.T) {
	h := newHandler(t)

	tests := []struct {
		name   string
		user   string
		body   string
		status int
	}{
		{"no user", "", `{}`, http.StatusUnauthorized},
		{"broken json", "c", `{`, http.StatusBadRequest},
		{"unknown field", "c", `{"companyId":1}`, http.StatusBadRequest},
		{"bad date", "c", `{"providerId":"barber-1","serviceId":"basic-cut","bookingDate":"20.05.2030","startTime":"10:00"}`, http.StatusBadRequest},
		{"bad time", "c", `{"providerId":"barber-1","serviceId":"basic-cut","bookingDate":"2030-05-20","startTime":"25:00"}`, http.StatusBadRequest},
		{"unknown service", "c", `{"providerId":"barber-1","serviceId":"perm","bookingDate":"2030-05-20","startTime":"10:00"}`, http.StatusNotFound},
		{"unknown provider", "c", `{"providerId":"barber-99","serviceId":"basic-cut","bookingDate":"2030-05-20","startTime":"10:00"}`, http.StatusNotFound},
		{"day off", "c", `{"providerId":"barber-1","serviceId":"basic-cut","bookingDate":"2030-05-21","startTime":"10:00"}`, http.StatusBadRequest},
		{"after hours", "c", `{"providerId":"barber-1","serviceId":"full-combo","bookingDate":"2030-05-20","startTime":"17:30"}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(h, tt.user, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestHandle_StoreUnavailable(t *testing.T) {
	h := middleware.Auth(http.HandlerFunc(NewHandler(stubUseCase{err: createBooking.ErrStoreUnavailable}, logger.Nop()).Handle))

	rec := post(h, "c", `{"providerId":"barber-1","serviceId":"basic-cut","bookingDate":"2030-05-20","startTime":"10:00"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
