package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/barber-booking/internal/domain"
	bookingRepo "github.com/m04kA/barber-booking/internal/infra/storage/booking"
	"github.com/m04kA/barber-booking/internal/service/bookings/models"
)

// maxStatusAttempts сколько раз перечитывать бронирование, если статус изменился между чтением и записью
const maxStatusAttempts = 3

// Service сервис для чтения бронирований и смены их статусов
type Service struct {
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
// Бронирование видят только его клиент и мастер
func (s *Service) GetByID(ctx context.Context, id string, userID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if userID != booking.ClientID && userID != booking.ProviderID {
		s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// GetClientBookings получает историю бронирований клиента
// Опционально фильтрует по статусу
func (s *Service) GetClientBookings(ctx context.Context, req *models.GetClientBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetClientBookings: fetching bookings for client=%s, user=%s", req.ClientID, req.UserID)

	if req.UserID != req.ClientID {
		s.logger.Warn("GetClientBookings: user=%s cannot read bookings of client=%s", req.UserID, req.ClientID)
		return nil, ErrAccessDenied
	}

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetClientBookings: invalid status=%s for client=%s", *req.Status, req.ClientID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByClientID(ctx, req.ClientID, domainStatus)
	if err != nil {
		s.logger.Error("GetClientBookings: repository error for client=%s: %v", req.ClientID, err)
		return nil, fmt.Errorf("%w: GetClientBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetClientBookings: successfully fetched %d bookings for client=%s", len(bookings), req.ClientID)
	return models.FromDomainBookingList(bookings), nil
}

// GetProviderBookings получает бронирования мастера с фильтрацией по периоду и статусу
// Доступно только самому мастеру
func (s *Service) GetProviderBookings(ctx context.Context, req *models.GetProviderBookingsRequest) (*models.BookingListResponse, error) {
	logMsg := fmt.Sprintf("GetProviderBookings: fetching bookings for provider=%s, user=%s", req.ProviderID, req.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	if req.UserID != req.ProviderID {
		s.logger.Warn("GetProviderBookings: user=%s is not provider=%s", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	if req.StartDate != nil && req.EndDate != nil && req.StartDate.After(*req.EndDate) {
		return nil, fmt.Errorf("%w: startDate is after endDate", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetProviderBookings: invalid filter for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByProviderWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetProviderBookings: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: GetProviderBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetProviderBookings: successfully fetched %d bookings for provider=%s", len(bookings), req.ProviderID)
	return models.FromDomainBookingList(bookings), nil
}

// UpdateStatus меняет статус бронирования по правилам конечного автомата.
// Клиент может только отменить своё бронирование, мастер выполняет любой допустимый переход.
// Пустой UserID - внутренний вызов без проверки прав.
// Пересечения не перепроверяются: смена статуса не меняет занятый интервал.
func (s *Service) UpdateStatus(ctx context.Context, bookingID string, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%s to status=%s by user=%s", bookingID, req.Status, req.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%s", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, req.Status)
	}

	access := func(b *domain.Booking) error {
		switch req.UserID {
		case "", b.ProviderID:
			return nil
		case b.ClientID:
			if newStatus == domain.StatusCancelled {
				return nil
			}
		}
		return ErrAccessDenied
	}

	return s.transition(ctx, "UpdateStatus", bookingID, newStatus, req.Reason, nil, access)
}

// ApplyPaymentResult применяет результат оплаты: подтверждение переводит pending в confirmed
// и сохраняет платежную ссылку, отказ переводит pending в failed.
func (s *Service) ApplyPaymentResult(ctx context.Context, bookingID string, req *models.PaymentResultRequest) (*models.BookingResponse, error) {
	s.logger.Info("ApplyPaymentResult: booking id=%s, approved=%t, reference=%s", bookingID, req.Approved, req.Reference)

	reference := strings.TrimSpace(req.Reference)
	if reference == "" || len(reference) > domain.MaxPaymentReferenceLength {
		return nil, fmt.Errorf("%w: payment reference is required and must be at most %d characters",
			ErrInvalidInput, domain.MaxPaymentReferenceLength)
	}

	target := domain.StatusFailed
	if req.Approved {
		target = domain.StatusConfirmed
	}

	access := func(b *domain.Booking) error {
		if req.UserID == "" || req.UserID == b.ClientID || req.UserID == b.ProviderID {
			return nil
		}
		return ErrAccessDenied
	}

	return s.transition(ctx, "ApplyPaymentResult", bookingID, target, nil, &reference, access)
}

// ExpireStalePending переводит в failed бронирования, оплата которых не пришла за ttl.
// Возвращает количество истекших бронирований.
func (s *Service) ExpireStalePending(ctx context.Context, ttl time.Duration, limit int) (int, error) {
	cutoff := s.timeProvider.Now().Add(-ttl)

	stale, err := s.bookingRepo.ListStalePending(ctx, cutoff, limit)
	if err != nil {
		s.logger.Error("ExpireStalePending: repository error: %v", err)
		return 0, fmt.Errorf("%w: ExpireStalePending - repository error: %v", ErrInternal, err)
	}

	expired := 0
	for _, b := range stale {
		err := s.bookingRepo.UpdateStatus(ctx, domain.StatusChange{
			BookingID: b.ID,
			From:      domain.StatusPending,
			To:        domain.StatusFailed,
			ChangedAt: s.timeProvider.Now(),
		})
		if errors.Is(err, bookingRepo.ErrStatusMismatch) {
			// оплата или отмена успели раньше
			continue
		}
		if err != nil {
			s.logger.Error("ExpireStalePending: failed to expire booking id=%s: %v", b.ID, err)
			return expired, fmt.Errorf("%w: ExpireStalePending - repository error: %v", ErrInternal, err)
		}
		expired++
	}

	if expired > 0 {
		s.logger.Info("ExpireStalePending: %d pending bookings older than %s marked failed", expired, cutoff.Format(time.RFC3339))
	}
	return expired, nil
}

// Вспомогательные методы

// transition выполняет compare-and-set статуса с повтором, если статус изменился конкурентно.
// Порядок проверок: существование, доступ, переход, причина.
func (s *Service) transition(
	ctx context.Context,
	op string,
	bookingID string,
	to domain.BookingStatus,
	reason *string,
	paymentReference *string,
	access func(b *domain.Booking) error,
) (*models.BookingResponse, error) {
	for attempt := 0; attempt < maxStatusAttempts; attempt++ {
		booking, err := s.getBooking(ctx, op, bookingID)
		if err != nil {
			return nil, err
		}

		if err := access(booking); err != nil {
			s.logger.Warn("%s: access denied to booking id=%s", op, bookingID)
			return nil, err
		}

		if err := domain.CheckTransition(booking.Status, to); err != nil {
			s.logger.Warn("%s: booking id=%s: %v", op, bookingID, err)
			return nil, err
		}

		if err := domain.CheckReason(to, reason); err != nil {
			s.logger.Warn("%s: booking id=%s: %v", op, bookingID, err)
			return nil, err
		}

		change := domain.StatusChange{
			BookingID:          booking.ID,
			From:               booking.Status,
			To:                 to,
			CancellationReason: reason,
			PaymentReference:   paymentReference,
			ChangedAt:          s.timeProvider.Now(),
		}

		err = s.bookingRepo.UpdateStatus(ctx, change)
		if errors.Is(err, bookingRepo.ErrStatusMismatch) {
			s.logger.Warn("%s: booking id=%s changed concurrently, retrying", op, bookingID)
			continue
		}
		if err != nil {
			s.logger.Error("%s: repository error for booking id=%s: %v", op, bookingID, err)
			return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
		}

		applyChange(booking, change)
		s.logger.Info("%s: booking id=%s %s -> %s", op, bookingID, change.From, change.To)
		return models.FromDomainBooking(booking), nil
	}

	return nil, ErrConcurrentUpdate
}

func (s *Service) getBooking(ctx context.Context, op, id string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%s not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%s: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func applyChange(b *domain.Booking, change domain.StatusChange) {
	b.Status = change.To
	b.UpdatedAt = change.ChangedAt
	if change.To == domain.StatusCancelled {
		cancelledAt := change.ChangedAt
		b.CancellationReason = change.CancellationReason
		b.CancelledAt = &cancelledAt
	}
	if change.PaymentReference != nil {
		b.PaymentReference = change.PaymentReference
	}
}
