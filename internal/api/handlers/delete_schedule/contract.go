package delete_schedule

import (
	"context"
	"time"
)

type ScheduleService interface {
	Delete(ctx context.Context, userID, providerID string, date time.Time) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
