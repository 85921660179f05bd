package save_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/barber-booking/internal/api/handlers"
	"github.com/m04kA/barber-booking/internal/api/middleware"
	"github.com/m04kA/barber-booking/internal/service/schedules"
	"github.com/m04kA/barber-booking/internal/service/schedules/models"
)

const (
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgProviderNotFound   = "мастер не найден или не принимает записи"
	msgInvalidData        = "некорректное рабочее окно: начало должно быть раньше конца, шаг от 5 до 480 минут"
)

// SaveScheduleRequest HTTP request model
type SaveScheduleRequest struct {
	StartTime   string `json:"startTime"`             // "09:00"
	EndTime     string `json:"endTime"`               // "18:00"
	SlotMinutes int    `json:"slotMinutes,omitempty"` // по умолчанию 30
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/providers/{providerId}/schedules/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID := vars["providerId"]

	date, err := handlers.ParseDate(vars["date"])
	if err != nil {
		h.logger.Warn("PUT /providers/{id}/schedules/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /providers/{id}/schedules/{date} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SaveScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{id}/schedules/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Save(r.Context(), &models.SaveScheduleRequest{
		UserID:      userID,
		ProviderID:  providerID,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		SlotMinutes: req.SlotMinutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("PUT /providers/{id}/schedules/{date} - Access denied: provider_id=%s, user_id=%s", providerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedules.ErrProviderNotFound):
			h.logger.Warn("PUT /providers/{id}/schedules/{date} - Provider not found: provider_id=%s", providerID)
			handlers.RespondNotFound(w, msgProviderNotFound)

		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("PUT /providers/{id}/schedules/{date} - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /providers/{id}/schedules/{date} - Failed to save schedule: provider_id=%s, error=%v",
				providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/{id}/schedules/{date} - Schedule saved: provider_id=%s, date=%s", providerID, result.Date)
	handlers.RespondJSON(w, http.StatusOK, result)
}
