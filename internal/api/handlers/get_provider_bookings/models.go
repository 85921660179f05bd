package get_provider_bookings

import (
	"fmt"
	"strconv"

	"github.com/m04kA/barber-booking/internal/api/handlers"
	"github.com/m04kA/barber-booking/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	providerID string,
	userID string,
	fromStr string,
	toStr string,
	statusStr string,
	includeInactiveStr string,
) (*models.GetProviderBookingsRequest, error) {
	req := &models.GetProviderBookingsRequest{
		UserID:          userID,
		ProviderID:      providerID,
		IncludeInactive: false, // По умолчанию только активные
	}

	from, err := handlers.ParseOptionalDate(fromStr)
	if err != nil {
		return nil, fmt.Errorf("invalid from value: %w", err)
	}
	to, err := handlers.ParseOptionalDate(toStr)
	if err != nil {
		return nil, fmt.Errorf("invalid to value: %w", err)
	}
	req.StartDate = from
	req.EndDate = to

	if statusStr != "" {
		req.Status = &statusStr
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
