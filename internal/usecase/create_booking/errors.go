package create_booking

import "errors"

var (
	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrProviderNotFound возвращается, когда мастера нет в справочнике или он неактивен
	ErrProviderNotFound = errors.New("create_booking: provider not found")

	// ErrDateInPast возвращается, когда дата или время начала уже прошли
	ErrDateInPast = errors.New("create_booking: booking time is in the past")

	// ErrNoWorkingSchedule возвращается, когда мастер не работает в эту дату
	ErrNoWorkingSchedule = errors.New("create_booking: provider has no working schedule on this date")

	// ErrOutsideWorkingHours возвращается, когда интервал не помещается в рабочее окно
	ErrOutsideWorkingHours = errors.New("create_booking: interval is outside working hours")

	// ErrSlotNoLongerAvailable возвращается, когда интервал пересекся с активным бронированием.
	// Автоматически не повторяется: клиент должен выбрать другой слот.
	ErrSlotNoLongerAvailable = errors.New("create_booking: slot is no longer available")

	// ErrStoreUnavailable возвращается при временной недоступности хранилища (таймаут, связь, исчерпаны повторы)
	ErrStoreUnavailable = errors.New("create_booking: store unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
