// Package availability содержит чистые функции генерации слотов и расчета занятости.
// Пакет не обращается к хранилищу и не имеет состояния.
package availability

import (
	"fmt"

	"github.com/m04kA/barber-booking/pkg/types"
)

// Window рабочее окно и шаг слотов
type Window struct {
	Start       types.TimeString
	End         types.TimeString
	SlotMinutes int
}

// Generate возвращает упорядоченные времена начала слотов внутри окна.
// Первый слот начинается в Start, последний - последний t, для которого t+SlotMinutes <= End.
// Неполный хвостовой слот отбрасывается. Start >= End - пустой рабочий день, не ошибка.
func Generate(w Window) ([]types.TimeString, error) {
	if w.SlotMinutes <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidGranularity, w.SlotMinutes)
	}

	start, err := w.Start.Minutes()
	if err != nil {
		return nil, fmt.Errorf("window start: %w", err)
	}
	end, err := w.End.Minutes()
	if err != nil {
		return nil, fmt.Errorf("window end: %w", err)
	}

	slots := make([]types.TimeString, 0, capacity(start, end, w.SlotMinutes))
	for t := start; t+w.SlotMinutes <= end; t += w.SlotMinutes {
		ts, err := types.FromMinutes(t)
		if err != nil {
			return nil, err
		}
		slots = append(slots, ts)
	}

	return slots, nil
}

func capacity(start, end, step int) int {
	if end <= start {
		return 0
	}
	return (end - start) / step
}
