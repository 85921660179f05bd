package domain

import "github.com/m04kA/barber-booking/pkg/types"

// Default configuration values
const (
	DefaultSlotDurationMinutes = 30
	DefaultPendingTTLMinutes   = 30
)

// Business validation constants
const (
	MinSlotDurationMinutes      = 5
	MaxSlotDurationMinutes      = 480 // 8 hours
	MinServiceDurationMinutes   = 5
	MaxServiceDurationMinutes   = 480
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxPaymentReferenceLength   = 255
	MaxProviderNameLength       = 100
	MaxPhoneLength              = 32
	MaxSpecialtyLength          = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Границы частей дня
const (
	MorningEndsAt   types.TimeString = "12:00"
	AfternoonEndsAt types.TimeString = "17:00"
)

// InactiveStatuses список статусов, не занимающих время мастера
// Используется для фильтрации при подсчёте доступных слотов
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusFailed,
}

// ActiveStatuses список статусов, занимающих время мастера
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusRescheduled,
}
