package reschedule_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("reschedule_booking: booking not found")

	// ErrAccessDenied возвращается, когда пользователь не клиент и не мастер бронирования
	ErrAccessDenied = errors.New("reschedule_booking: access denied")

	// ErrDateInPast возвращается, когда новая дата или время уже прошли
	ErrDateInPast = errors.New("reschedule_booking: new time is in the past")

	// ErrNoWorkingSchedule возвращается, когда мастер не работает в новую дату
	ErrNoWorkingSchedule = errors.New("reschedule_booking: provider has no working schedule on this date")

	// ErrOutsideWorkingHours возвращается, когда новый интервал не помещается в рабочее окно
	ErrOutsideWorkingHours = errors.New("reschedule_booking: interval is outside working hours")

	// ErrSlotNoLongerAvailable возвращается, когда новый интервал пересекся с другим активным бронированием
	ErrSlotNoLongerAvailable = errors.New("reschedule_booking: slot is no longer available")

	// ErrStoreUnavailable возвращается при временной недоступности хранилища
	ErrStoreUnavailable = errors.New("reschedule_booking: store unavailable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("reschedule_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_booking: internal error")
)
