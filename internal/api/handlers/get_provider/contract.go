package get_provider

import (
	"context"

	"github.com/m04kA/barber-booking/internal/service/providers/models"
)

type ProviderService interface {
	Get(ctx context.Context, providerID string) (*models.ProviderResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
