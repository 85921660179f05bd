package schedule

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/barber-booking/internal/domain"
)

func TestListByDateQuery(t *testing.T) {
	date := time.Date(2030, 5, 20, 0, 0, 0, 0, time.UTC)

	query, args, err := listByDateQuery(date)
	require.NoError(t, err)

	assert.Contains(t, query, "FROM working_schedules WHERE schedule_date = $1")
	assert.True(t, strings.HasSuffix(query, "ORDER BY start_time ASC, provider_id ASC"), query)
	assert.Equal(t, []interface{}{date}, args)
}

func TestUpsertQuery(t *testing.T) {
	ws := &domain.WorkingSchedule{
		ProviderID:   "barber-1",
		ScheduleDate: time.Date(2030, 5, 20, 0, 0, 0, 0, time.UTC),
		StartTime:    "09:00",
		EndTime:      "18:00",
		SlotMinutes:  30,
	}

	query, args, err := upsertQuery(ws)
	require.NoError(t, err)

	assert.Contains(t, query, "INSERT INTO working_schedules (provider_id,schedule_date,start_time,end_time,slot_minutes) VALUES ($1,$2,$3,$4,$5)")
	assert.Contains(t, query, "ON CONFLICT (provider_id, schedule_date) DO UPDATE")
	assert.NotContains(t, query, "created_at =")
	assert.Len(t, args, 5)
}
