package booking

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barber-booking/internal/domain"
)

var (
	day     = time.Date(2030, 5, 20, 0, 0, 0, 0, time.UTC)
	nextDay = day.AddDate(0, 0, 1)
)

func TestProviderFilterQuery(t *testing.T) {
	confirmed := domain.StatusConfirmed

	tests := []struct {
		name        string
		filter      domain.ProviderBookingsFilter
		forUpdate   bool
		contains    []string
		notContains []string
		wantLock    bool
		wantArgs    int
	}{
		{
			name:      "single date in transaction locks partition",
			filter:    domain.ProviderBookingsFilter{ProviderID: "barber-1", StartDate: &day, EndDate: &day},
			forUpdate: true,
			contains: []string{
				"FROM bookings",
				"provider_id = $1",
				"booking_date >= $2",
				"booking_date <= $3",
				"status NOT IN ($4,$5)",
				"ORDER BY start_time ASC, created_at ASC",
			},
			wantLock: true,
			wantArgs: 5,
		},
		{
			name:      "single date outside transaction",
			filter:    domain.ProviderBookingsFilter{ProviderID: "barber-1", StartDate: &day, EndDate: &day},
			forUpdate: false,
			contains:  []string{"ORDER BY start_time ASC, created_at ASC"},
			wantLock:  false,
			wantArgs:  5,
		},
		{
			name:        "period is never locked",
			filter:      domain.ProviderBookingsFilter{ProviderID: "barber-1", StartDate: &day, EndDate: &nextDay},
			forUpdate:   true,
			contains:    []string{"ORDER BY booking_date DESC, start_time DESC"},
			notContains: []string{"start_time ASC"},
			wantLock:    false,
			wantArgs:    5,
		},
		{
			name:        "explicit status replaces inactive filter",
			filter:      domain.ProviderBookingsFilter{ProviderID: "barber-1", Status: &confirmed},
			contains:    []string{"provider_id = $1", "status = $2"},
			notContains: []string{"NOT IN", "booking_date >="},
			wantArgs:    2,
		},
		{
			name:        "include inactive drops status filter",
			filter:      domain.ProviderBookingsFilter{ProviderID: "barber-1", IncludeInactive: true},
			notContains: []string{"status"},
			wantArgs:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := providerFilterQuery(tt.filter, tt.forUpdate)
			require.NoError(t, err)

			// колонка status всегда есть в списке выборки, проверяем только WHERE
			where := query[strings.Index(query, "WHERE"):]
			for _, part := range tt.contains {
				assert.Contains(t, query, part)
			}
			for _, part := range tt.notContains {
				assert.NotContains(t, where, part)
			}
			assert.Equal(t, tt.wantLock, strings.HasSuffix(query, "FOR UPDATE"), query)
			assert.Len(t, args, tt.wantArgs)
		})
	}
}

func TestProviderFilterQuery_ExcludesInactiveStatuses(t *testing.T) {
	_, args, err := providerFilterQuery(domain.ProviderBookingsFilter{ProviderID: "barber-1"}, false)
	require.NoError(t, err)

	assert.Equal(t, []interface{}{"barber-1", "cancelled", "failed"}, args)
}

func TestGetByIDQuery(t *testing.T) {
	query, args, err := getByIDQuery("b-1", true)
	require.NoError(t, err)
	assert.Contains(t, query, "WHERE id = $1")
	assert.True(t, strings.HasSuffix(query, "FOR UPDATE"), query)
	assert.Equal(t, []interface{}{"b-1"}, args)

	query, _, err = getByIDQuery("b-1", false)
	require.NoError(t, err)
	assert.NotContains(t, query, "FOR UPDATE")
}

func TestUpdateStatusQuery(t *testing.T) {
	at := time.Date(2030, 5, 19, 12, 0, 0, 0, time.UTC)
	reason := "client request"
	ref := "pay-1"

	t.Run("cancel stores reason and time", func(t *testing.T) {
		query, args, err := updateStatusQuery(domain.StatusChange{
			BookingID: "b-1", From: domain.StatusPending, To: domain.StatusCancelled, CancellationReason: &reason, ChangedAt: at,
		})
		require.NoError(t, err)
		assert.Contains(t, query, "UPDATE bookings SET status = $1, updated_at = $2, cancellation_reason = $3, cancelled_at = $4")
		assert.Contains(t, query, "WHERE id = $5 AND status = $6")
		assert.Len(t, args, 6)
		assert.Equal(t, domain.StatusPending, args[5])
	})

	t.Run("confirm stores payment reference", func(t *testing.T) {
		query, args, err := updateStatusQuery(domain.StatusChange{
			BookingID: "b-1", From: domain.StatusPending, To: domain.StatusConfirmed, PaymentReference: &ref, ChangedAt: at,
		})
		require.NoError(t, err)
		assert.Contains(t, query, "payment_reference = $3")
		assert.NotContains(t, query, "cancellation_reason")
		assert.Contains(t, query, "WHERE id = $4 AND status = $5")
		assert.Equal(t, "pay-1", args[2])
	})
}

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"exclusion violation", &pq.Error{Code: "23P01"}, ErrSlotConflict},
		{"unique violation", &pq.Error{Code: "23505"}, ErrDuplicateID},
		{"serialization failure", &pq.Error{Code: "40001"}, ErrExecQuery},
		{"plain error", errors.New("connection reset"), ErrExecQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapWriteError("Create", tt.err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMapWriteError_KeepsDriverError(t *testing.T) {
	err := mapWriteError("Reschedule", &pq.Error{Code: "40001"})

	var pqErr *pq.Error
	require.True(t, errors.As(err, &pqErr))
	assert.Equal(t, pq.ErrorCode("40001"), pqErr.Code)
}
