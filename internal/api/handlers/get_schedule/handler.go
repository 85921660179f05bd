package get_schedule

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/barber-booking/internal/api/handlers"
	"github.com/m04kA/barber-booking/internal/service/schedules"
)

const (
	msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgNotWorking  = "мастер не работает в выбранную дату"
)

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

// Handle GET /api/v1/providers/{providerId}/schedules/{date}
// 404 означает, что мастер в этот день не работает
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	providerID := vars["providerId"]

	date, err := handlers.ParseDate(vars["date"])
	if err != nil {
		h.logger.Warn("GET /providers/{id}/schedules/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.Get(r.Context(), providerID, date)
	if err != nil {
		if errors.Is(err, schedules.ErrScheduleNotFound) {
			handlers.RespondNotFound(w, msgNotWorking)
			return
		}
		h.logger.Error("GET /providers/{id}/schedules/{date} - Failed to get schedule: provider_id=%s, error=%v", providerID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
