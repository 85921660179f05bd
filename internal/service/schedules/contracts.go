package schedules

import (
	"context"
	"time"

	"github.com/m04kA/barber-booking/internal/domain"
)

// ScheduleRepository интерфейс репозитория рабочих окон
type ScheduleRepository interface {
	GetByProviderAndDate(ctx context.Context, providerID string, date time.Time) (*domain.WorkingSchedule, error)
	ListByProvider(ctx context.Context, providerID string, from, to *time.Time) ([]*domain.WorkingSchedule, error)
	ListByDate(ctx context.Context, date time.Time) ([]*domain.WorkingSchedule, error)
	Upsert(ctx context.Context, schedule *domain.WorkingSchedule) (*domain.WorkingSchedule, error)
	Delete(ctx context.Context, providerID string, date time.Time) error
}

// ProviderRepository интерфейс справочника мастеров
type ProviderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Provider, error)
	ListActive(ctx context.Context) ([]*domain.Provider, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
