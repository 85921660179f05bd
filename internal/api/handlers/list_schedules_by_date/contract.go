package list_schedules_by_date

import (
	"context"
	"time"

	"github.com/m04kA/barber-booking/internal/service/schedules/models"
)

type ScheduleService interface {
	ListByDate(ctx context.Context, date time.Time) (*models.ScheduleListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
