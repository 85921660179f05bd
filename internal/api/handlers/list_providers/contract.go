package list_providers

import (
	"context"

	"github.com/m04kA/barber-booking/internal/service/providers/models"
)

type ProviderService interface {
	ListActive(ctx context.Context) (*models.ProviderListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
