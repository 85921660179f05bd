package domain

import (
	"fmt"
	"strings"
)

// transitions допустимые переходы, выполняемые через смену статуса.
// В rescheduled бронирование попадает только через операцию переноса.
var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:     {StatusConfirmed, StatusCancelled, StatusFailed},
	StatusConfirmed:   {StatusCancelled},
	StatusRescheduled: {StatusCancelled},
}

// CheckTransition проверяет, что переход from -> to разрешен для смены статуса
func CheckTransition(from, to BookingStatus) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: booking is %s", ErrAlreadyTerminal, from)
	}
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, to)
	}

	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
}

// CheckReschedule проверяет, что бронирование в статусе from можно перенести
func CheckReschedule(from BookingStatus) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: booking is %s", ErrAlreadyTerminal, from)
	}
	if from != StatusConfirmed && from != StatusRescheduled {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, StatusRescheduled)
	}
	return nil
}

// CheckReason проверяет причину: обязательна для отмены, запрещена для остальных переходов
func CheckReason(to BookingStatus, reason *string) error {
	hasReason := reason != nil && strings.TrimSpace(*reason) != ""

	if to == StatusCancelled {
		if !hasReason {
			return ErrCancellationReasonRequired
		}
		if len(*reason) > MaxCancellationReasonLength {
			return fmt.Errorf("%w: max %d characters", ErrReasonTooLong, MaxCancellationReasonLength)
		}
		return nil
	}

	if reason != nil {
		return fmt.Errorf("%w: %s", ErrReasonNotAccepted, to)
	}
	return nil
}
