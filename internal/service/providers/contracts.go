package providers

import (
	"context"

	"github.com/m04kA/barber-booking/internal/domain"
)

// ProviderRepository интерфейс справочника мастеров
type ProviderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Provider, error)
	ListActive(ctx context.Context) ([]*domain.Provider, error)
	Upsert(ctx context.Context, provider *domain.Provider) (*domain.Provider, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
