package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/barber-booking/internal/availability"
	"github.com/m04kA/barber-booking/internal/domain"
	"github.com/m04kA/barber-booking/pkg/types"
)

// validateRequest валидирует входные данные запроса до обращения к хранилищу
func validateRequest(req *Request) error {
	if strings.TrimSpace(req.ClientID) == "" {
		return fmt.Errorf("%w: clientID is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ProviderID) == "" {
		return fmt.Errorf("%w: providerID is required", ErrInvalidInput)
	}

	if strings.TrimSpace(req.ServiceID) == "" {
		return fmt.Errorf("%w: serviceID is required", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %w", ErrInvalidInput, err)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateNotInPast проверяет, что дата не прошла, а для сегодняшней даты - что слот еще не начался
func validateNotInPast(date time.Time, start types.TimeString, now time.Time) error {
	if availability.IsDateInPast(date, now) {
		return fmt.Errorf("%w: date %s", ErrDateInPast, date.Format(domain.DateFormat))
	}

	if availability.IsSameDay(date, now) && start.IsBefore(types.NewTimeString(now)) {
		return fmt.Errorf("%w: slot %s has already started", ErrDateInPast, start)
	}

	return nil
}

// validateWorkingWindow проверяет, что [start, end) целиком внутри рабочего окна
func validateWorkingWindow(schedule *domain.WorkingSchedule, start, end types.TimeString) error {
	if !schedule.Contains(start, end) {
		return fmt.Errorf("%w: %s-%s is outside %s-%s",
			ErrOutsideWorkingHours, start, end, schedule.StartTime, schedule.EndTime)
	}
	return nil
}
