package apply_payment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/barber-booking/internal/api/handlers"
	"github.com/m04kA/barber-booking/internal/api/middleware"
	"github.com/m04kA/barber-booking/internal/domain"
	"github.com/m04kA/barber-booking/internal/service/bookings"
	"github.com/m04kA/barber-booking/internal/service/bookings/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgInvalidReference   = "некорректная платежная ссылка"
	msgNotPending         = "бронирование не ожидает оплаты"
	msgConcurrentUpdate   = "бронирование изменилось, повторите попытку"
)

// PaymentRequest HTTP request model
type PaymentRequest struct {
	Reference string `json:"reference"`
	Approved  bool   `json:"approved"`
}

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID := mux.Vars(r)["bookingId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req PaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ApplyPaymentResult(r.Context(), bookingID, &models.PaymentResultRequest{
		UserID:    userID,
		Reference: req.Reference,
		Approved:  req.Approved,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/payment - Access denied: booking_id=%s, user_id=%s", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidReference)

		case errors.Is(err, domain.ErrIllegalTransition), errors.Is(err, domain.ErrAlreadyTerminal):
			h.logger.Warn("POST /bookings/{id}/payment - Booking is not pending: booking_id=%s: %v", bookingID, err)
			handlers.RespondUnprocessable(w, msgNotPending)

		case errors.Is(err, bookings.ErrConcurrentUpdate):
			handlers.RespondConflict(w, msgConcurrentUpdate)

		default:
			h.logger.Error("POST /bookings/{id}/payment - Failed to apply payment: booking_id=%s, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment - Payment applied: booking_id=%s, approved=%t, status=%s",
		bookingID, req.Approved, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
