package domain

import "errors"

var (
	// ErrIllegalTransition переход между статусами не разрешен
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrAlreadyTerminal бронирование уже отменено или неуспешно
	ErrAlreadyTerminal = errors.New("booking is already in a terminal status")

	// ErrInvalidStatus неизвестный статус
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrCancellationReasonRequired отмена без причины
	ErrCancellationReasonRequired = errors.New("cancellation reason is required")

	// ErrReasonNotAccepted причина передана для перехода, который её не принимает
	ErrReasonNotAccepted = errors.New("reason is accepted only for cancellation")

	// ErrReasonTooLong слишком длинная причина отмены
	ErrReasonTooLong = errors.New("cancellation reason is too long")

	// ErrInvalidSchedule некорректное рабочее расписание
	ErrInvalidSchedule = errors.New("invalid working schedule")

	// ErrInvalidProvider некорректная карточка мастера
	ErrInvalidProvider = errors.New("invalid provider")
)
