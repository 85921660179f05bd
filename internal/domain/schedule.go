package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/barber-booking/pkg/types"
)

// WorkingSchedule рабочее окно мастера на одну календарную дату.
// Пара (ProviderID, ScheduleDate) уникальна.
type WorkingSchedule struct {
	ProviderID   string
	ScheduleDate time.Time
	StartTime    types.TimeString
	EndTime      types.TimeString
	SlotMinutes  int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate проверяет формат времени, start < end и границы гранулярности
func (s *WorkingSchedule) Validate() error {
	if s.ProviderID == "" {
		return fmt.Errorf("%w: provider id is required", ErrInvalidSchedule)
	}
	if err := s.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidSchedule, err)
	}
	if err := s.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidSchedule, err)
	}
	if !s.StartTime.IsBefore(s.EndTime) {
		return fmt.Errorf("%w: start time %s must be before end time %s", ErrInvalidSchedule, s.StartTime, s.EndTime)
	}
	if s.SlotMinutes < MinSlotDurationMinutes || s.SlotMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot minutes must be between %d and %d", ErrInvalidSchedule, MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}
	return nil
}

// Contains возвращает true, если интервал [start, end) целиком лежит внутри рабочего окна
func (s *WorkingSchedule) Contains(start, end types.TimeString) bool {
	return !start.IsBefore(s.StartTime) && !end.IsAfter(s.EndTime) && start.IsBefore(end)
}

// DateKey returns the schedule date as YYYY-MM-DD
func (s *WorkingSchedule) DateKey() string {
	return s.ScheduleDate.Format(DateFormat)
}
