package apply_payment

import (
	"context"

	"github.com/m04kA/barber-booking/internal/service/bookings/models"
)

type BookingService interface {
	ApplyPaymentResult(ctx context.Context, bookingID string, req *models.PaymentResultRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
