package create_booking

import (
	"time"

	"github.com/m04kA/barber-booking/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	ClientID   string           // ID клиента
	ProviderID string           // ID мастера
	ServiceID  string           // ID услуги
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала (например, "14:00")
	Notes      *string          // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              string           // ID созданного бронирования
	ClientID        string           // ID клиента
	ProviderID      string           // ID мастера
	ServiceID       string           // ID услуги
	BookingDate     time.Time        // Дата бронирования
	StartTime       types.TimeString // Время начала
	EndTime         types.TimeString // Время окончания
	DurationMinutes int              // Длительность в минутах
	Status          string           // Статус бронирования (pending до подтверждения оплаты)

	// Денормализованные данные
	ServiceName  string  // Название услуги
	ServicePrice float64 // Цена услуги
	Notes        *string // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
