package get_schedule

import (
	"context"
	"time"

	"github.com/m04kA/barber-booking/internal/service/schedules/models"
)

type ScheduleService interface {
	Get(ctx context.Context, providerID string, date time.Time) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
