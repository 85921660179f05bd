package domain

import (
	"time"

	"github.com/m04kA/barber-booking/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending     BookingStatus = "pending"
	StatusConfirmed   BookingStatus = "confirmed"
	StatusRescheduled BookingStatus = "rescheduled"
	StatusCancelled   BookingStatus = "cancelled"
	StatusFailed      BookingStatus = "failed"
)

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRescheduled, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that never transition further and do not occupy time
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusFailed
}

// Booking represents a client's claim on a provider's time interval
type Booking struct {
	ID              string
	ProviderID      string
	ClientID        string
	ServiceID       string
	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString // StartTime + DurationMinutes
	DurationMinutes int
	Status          BookingStatus

	// Denormalized data for history
	ServiceName  string
	ServicePrice float64
	Notes        *string

	PaymentReference   *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies its interval
func (b *Booking) IsActive() bool {
	return !b.Status.IsTerminal()
}

// IsTerminal returns true if the booking was cancelled or failed
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// DateKey returns the booking date as YYYY-MM-DD
func (b *Booking) DateKey() string {
	return b.BookingDate.Format(DateFormat)
}

// ProviderBookingsFilter фильтр для получения бронирований мастера
type ProviderBookingsFilter struct {
	ProviderID      string         // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально, если nil - без ограничения)
	EndDate         *time.Time     // Конец периода (опционально, если nil - без ограничения)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные и неуспешные бронирования
}

// StatusChange описывает смену статуса бронирования (compare-and-set по From)
type StatusChange struct {
	BookingID          string
	From               BookingStatus
	To                 BookingStatus
	CancellationReason *string
	PaymentReference   *string
	ChangedAt          time.Time
}

// Reschedule описывает перенос бронирования на новый интервал
type Reschedule struct {
	BookingID   string
	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	// DurationMinutes длительность нового интервала
	DurationMinutes int
	ChangedAt       time.Time
}

// PaymentResult непрозрачное событие подтверждения оплаты от платежного провайдера
type PaymentResult struct {
	Reference string
	Approved  bool
}
