package availability

import (
	"fmt"

	"github.com/m04kA/barber-booking/internal/domain"
	"github.com/m04kA/barber-booking/pkg/types"
)

// Overlaps проверяет пересечение полуинтервалов [aStart, aEnd) и [bStart, bEnd) в минутах.
// Интервалы, которые только соприкасаются границами, не пересекаются.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// Annotate размечает кандидатов как свободные или занятые.
// Слот t занят, если [t, t+durationMinutes) пересекается с интервалом активного бронирования.
// Занявшим считается первое пересекающееся бронирование в порядке bookings
// (вызывающий передает их отсортированными по времени начала).
// Результат носит рекомендательный характер: окончательная проверка выполняется при записи.
func Annotate(candidates []types.TimeString, bookings []*domain.Booking, durationMinutes int) ([]domain.Slot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDuration, durationMinutes)
	}

	intervals, err := activeIntervals(bookings)
	if err != nil {
		return nil, err
	}

	slots := make([]domain.Slot, 0, len(candidates))
	for _, candidate := range candidates {
		start, err := candidate.Minutes()
		if err != nil {
			return nil, err
		}
		end := start + durationMinutes

		slot := domain.Slot{StartTime: candidate, Available: true}
		// конец за полуночью не представим в HH:MM, такой слот вызывающий отбросит по окну
		if end < types.MinutesPerDay {
			slot.EndTime, _ = types.FromMinutes(end)
		}

		if occupying := firstOverlap(start, end, intervals); occupying != nil {
			id := occupying.ID
			slot.Available = false
			slot.OccupyingBookingID = &id
		}

		slots = append(slots, slot)
	}

	return slots, nil
}

// FindOverlap возвращает первое активное бронирование, пересекающее [start, end), или nil.
// Используется и для рекомендательной разметки, и для проверки внутри транзакции.
func FindOverlap(start, end types.TimeString, bookings []*domain.Booking) (*domain.Booking, error) {
	startMin, err := start.Minutes()
	if err != nil {
		return nil, err
	}
	endMin, err := end.Minutes()
	if err != nil {
		return nil, err
	}

	intervals, err := activeIntervals(bookings)
	if err != nil {
		return nil, err
	}

	return firstOverlap(startMin, endMin, intervals), nil
}

type interval struct {
	start   int
	end     int
	booking *domain.Booking
}

func activeIntervals(bookings []*domain.Booking) ([]interval, error) {
	result := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		if b == nil || !b.IsActive() {
			continue
		}

		start, err := b.StartTime.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: booking %s start: %v", ErrInvalidBooking, b.ID, err)
		}

		var end int
		if b.EndTime.IsZero() {
			end = start + b.DurationMinutes
		} else if end, err = b.EndTime.Minutes(); err != nil {
			return nil, fmt.Errorf("%w: booking %s end: %v", ErrInvalidBooking, b.ID, err)
		}

		result = append(result, interval{start: start, end: end, booking: b})
	}
	return result, nil
}

func firstOverlap(start, end int, intervals []interval) *domain.Booking {
	for _, iv := range intervals {
		if Overlaps(start, end, iv.start, iv.end) {
			return iv.booking
		}
	}
	return nil
}
