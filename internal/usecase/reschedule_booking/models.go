package reschedule_booking

import (
	"time"

	"github.com/m04kA/barber-booking/pkg/types"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID string           // ID бронирования
	UserID    string           // Инициатор: клиент или мастер бронирования, пусто - внутренний вызов
	Date      time.Time        // Новая дата
	StartTime types.TimeString // Новое время начала
	EndTime   types.TimeString // Новое время окончания (опционально, по умолчанию начало + длительность)
}

// Response модель ответа с перенесенным бронированием
type Response struct {
	ID               string
	ProviderID       string
	ClientID         string
	BookingDate      time.Time
	StartTime        types.TimeString
	EndTime          types.TimeString
	DurationMinutes  int
	Status           string
	PaymentReference *string
	UpdatedAt        time.Time
}
