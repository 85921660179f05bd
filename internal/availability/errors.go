package availability

import "errors"

var (
	// ErrInvalidGranularity шаг слотов должен быть положительным
	ErrInvalidGranularity = errors.New("availability: slot minutes must be positive")

	// ErrInvalidDuration длительность услуги должна быть положительной
	ErrInvalidDuration = errors.New("availability: service duration must be positive")

	// ErrInvalidBooking у бронирования некорректный интервал
	ErrInvalidBooking = errors.New("availability: booking has invalid interval")
)
