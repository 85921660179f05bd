package reschedule_booking

import (
	"time"

	"github.com/m04kA/barber-booking/internal/api/handlers"
	"github.com/m04kA/barber-booking/internal/domain"
	rescheduleBooking "github.com/m04kA/barber-booking/internal/usecase/reschedule_booking"
	"github.com/m04kA/barber-booking/pkg/types"
)

// RescheduleRequest HTTP request model
type RescheduleRequest struct {
	BookingDate string `json:"bookingDate"`       // "2025-10-15"
	StartTime   string `json:"startTime"`         // "10:00"
	EndTime     string `json:"endTime,omitempty"` // по умолчанию начало + длительность
}

// RescheduleResponse HTTP response model
type RescheduleResponse struct {
	ID               string  `json:"id"`
	ProviderID       string  `json:"providerId"`
	ClientID         string  `json:"clientId"`
	BookingDate      string  `json:"bookingDate"`
	StartTime        string  `json:"startTime"`
	EndTime          string  `json:"endTime"`
	DurationMinutes  int     `json:"durationMinutes"`
	Status           string  `json:"status"`
	PaymentReference *string `json:"paymentReference,omitempty"`
	UpdatedAt        string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *RescheduleRequest) ToUseCaseRequest(bookingID, userID string) (*rescheduleBooking.Request, error) {
	date, err := handlers.ParseDate(r.BookingDate)
	if err != nil {
		return nil, err
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	req := &rescheduleBooking.Request{
		BookingID: bookingID,
		UserID:    userID,
		Date:      date,
		StartTime: start,
	}

	if r.EndTime != "" {
		end, err := types.NewTimeStringFromString(r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = end
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleResponse {
	return &RescheduleResponse{
		ID:               resp.ID,
		ProviderID:       resp.ProviderID,
		ClientID:         resp.ClientID,
		BookingDate:      resp.BookingDate.Format(domain.DateFormat),
		StartTime:        resp.StartTime.String(),
		EndTime:          resp.EndTime.String(),
		DurationMinutes:  resp.DurationMinutes,
		Status:           resp.Status,
		PaymentReference: resp.PaymentReference,
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}
}
