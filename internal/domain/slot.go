package domain

import "github.com/m04kA/barber-booking/pkg/types"

// SlotPeriod часть дня, к которой относится слот
type SlotPeriod string

const (
	PeriodMorning   SlotPeriod = "morning"
	PeriodAfternoon SlotPeriod = "afternoon"
	PeriodEvening   SlotPeriod = "evening"
)

// Slot кандидат на время начала записи. Вычисляется на каждый запрос, не хранится.
type Slot struct {
	StartTime          types.TimeString
	EndTime            types.TimeString
	Available          bool
	OccupyingBookingID *string
}

// Period returns the part of the day the slot starts in
func (s *Slot) Period() SlotPeriod {
	switch {
	case s.StartTime.IsBefore(MorningEndsAt):
		return PeriodMorning
	case s.StartTime.IsBefore(AfternoonEndsAt):
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}
