package save_provider

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/barber-booking/internal/api/handlers"
	"github.com/m04kA/barber-booking/internal/api/middleware"
	"github.com/m04kA/barber-booking/internal/service/providers"
	"github.com/m04kA/barber-booking/internal/service/providers/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
	msgInvalidData        = "некорректная карточка мастера: имя обязательно, до 100 символов"
)

// SaveProviderRequest HTTP request model
type SaveProviderRequest struct {
	DisplayName string  `json:"displayName"`
	Phone       string  `json:"phone,omitempty"`
	Specialty   *string `json:"specialty,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type Handler struct {
	service ProviderService
	logger  Logger
}

func NewHandler(service ProviderService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/providers/{providerId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	providerID := mux.Vars(r)["providerId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /providers/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req SaveProviderRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /providers/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Save(r.Context(), &models.SaveProviderRequest{
		UserID:      userID,
		ProviderID:  providerID,
		DisplayName: req.DisplayName,
		Phone:       req.Phone,
		Specialty:   req.Specialty,
		Avatar:      req.Avatar,
		Active:      req.Active,
	})
	if err != nil {
		switch {
		case errors.Is(err, providers.ErrAccessDenied):
			h.logger.Warn("PUT /providers/{id} - Access denied: provider_id=%s, user_id=%s", providerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, providers.ErrInvalidInput):
			h.logger.Warn("PUT /providers/{id} - Invalid data: %v", err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /providers/{id} - Failed to save provider: provider_id=%s, error=%v", providerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /providers/{id} - Provider saved: provider_id=%s, active=%t", result.ID, result.Active)
	handlers.RespondJSON(w, http.StatusOK, result)
}
