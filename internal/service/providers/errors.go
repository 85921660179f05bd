package providers

import "errors"

var (
	// ErrProviderNotFound возвращается, когда мастера нет в справочнике
	ErrProviderNotFound = errors.New("provider not found")

	// ErrAccessDenied возвращается, когда пользователь меняет чужую карточку
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
