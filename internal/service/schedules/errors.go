package schedules

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда у мастера нет рабочего окна на дату
	ErrScheduleNotFound = errors.New("working schedule not found")

	// ErrProviderNotFound возвращается, когда мастера нет в справочнике или он неактивен
	ErrProviderNotFound = errors.New("provider not found")

	// ErrAccessDenied возвращается, когда пользователь управляет чужим расписанием
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
