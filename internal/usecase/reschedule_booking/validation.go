package reschedule_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/barber-booking/internal/availability"
	"github.com/m04kA/barber-booking/internal/domain"
	"github.com/m04kA/barber-booking/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.BookingID) == "" {
		return fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %w", ErrInvalidInput, err)
	}

	if !req.EndTime.IsZero() {
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime: %w", ErrInvalidInput, err)
		}
		if !req.StartTime.IsBefore(req.EndTime) {
			return fmt.Errorf("%w: startTime must be before endTime", ErrInvalidInput)
		}
	}

	return nil
}

// validateNotInPast проверяет, что новая дата не прошла, а для сегодняшней даты - что слот еще не начался
func validateNotInPast(date time.Time, start types.TimeString, now time.Time) error {
	if availability.IsDateInPast(date, now) {
		return fmt.Errorf("%w: date %s", ErrDateInPast, date.Format(domain.DateFormat))
	}

	if availability.IsSameDay(date, now) && start.IsBefore(types.NewTimeString(now)) {
		return fmt.Errorf("%w: slot %s has already started", ErrDateInPast, start)
	}

	return nil
}

// resolveEnd возвращает конец нового интервала и его длительность
func resolveEnd(req *Request, booking *domain.Booking) (types.TimeString, int, error) {
	start, err := req.StartTime.Minutes()
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if !req.EndTime.IsZero() {
		end, err := req.EndTime.Minutes()
		if err != nil {
			return "", 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return req.EndTime, end - start, nil
	}

	end, err := req.StartTime.AddMinutes(booking.DurationMinutes)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return end, booking.DurationMinutes, nil
}

// checkAccess разрешает перенос клиенту или мастеру бронирования
func checkAccess(booking *domain.Booking, userID string) error {
	if userID == "" || userID == booking.ClientID || userID == booking.ProviderID {
		return nil
	}
	return ErrAccessDenied
}
