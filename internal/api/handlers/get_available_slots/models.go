package get_available_slots

import (
	"strconv"

	"github.com/m04kA/barber-booking/internal/api/handlers"
	"github.com/m04kA/barber-booking/internal/domain"
	getAvailableSlots "github.com/m04kA/barber-booking/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string          `json:"date"`
	ProviderID      string          `json:"providerId"`
	ServiceID       string          `json:"serviceId,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	WorkingHours    *WorkingHours   `json:"workingHours,omitempty"`
	Slots           []AvailableSlot `json:"slots"`
	NextAvailable   *AvailableSlot  `json:"nextAvailable,omitempty"`
}

// WorkingHours рабочее окно мастера на дату
type WorkingHours struct {
	Start       string `json:"start"`
	End         string `json:"end"`
	SlotMinutes int    `json:"slotMinutes"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime          string  `json:"startTime"`
	EndTime            string  `json:"endTime,omitempty"`
	Available          bool    `json:"available"`
	OccupyingBookingID *string `json:"occupyingBookingId,omitempty"`
	Period             string  `json:"period"`
}

func fromUseCaseSlot(slot getAvailableSlots.Slot) AvailableSlot {
	return AvailableSlot{
		StartTime:          slot.StartTime.String(),
		EndTime:            slot.EndTime.String(),
		Available:          slot.Available,
		OccupyingBookingID: slot.OccupyingBookingID,
		Period:             string(slot.Period),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = fromUseCaseSlot(slot)
	}

	out := &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ProviderID:      resp.ProviderID,
		ServiceID:       resp.ServiceID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
	}

	if !resp.WorkingStart.IsZero() {
		out.WorkingHours = &WorkingHours{
			Start:       resp.WorkingStart.String(),
			End:         resp.WorkingEnd.String(),
			SlotMinutes: resp.SlotMinutes,
		}
	}

	if resp.NextAvailable != nil {
		next := fromUseCaseSlot(*resp.NextAvailable)
		out.NextAvailable = &next
	}

	return out
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(providerID, serviceID, durationStr, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := handlers.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		ProviderID: providerID,
		ServiceID:  serviceID,
		Date:       date,
	}

	if durationStr != "" {
		duration, err := strconv.Atoi(durationStr)
		if err != nil {
			return nil, err
		}
		req.DurationMinutes = duration
	}

	return req, nil
}
