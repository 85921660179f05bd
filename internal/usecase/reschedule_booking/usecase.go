package reschedule_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/barber-booking/internal/availability"
	"github.com/m04kA/barber-booking/internal/domain"
	bookingRepo "github.com/m04kA/barber-booking/internal/infra/storage/booking"
	scheduleRepo "github.com/m04kA/barber-booking/internal/infra/storage/schedule"
)

// UseCase use case для переноса бронирования.
// Бронирование изменяется на месте: ID и платежная ссылка сохраняются, статус становится rescheduled.
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RescheduleBooking: booking=%s, user=%s, date=%s, start=%s, end=%s",
		req.BookingID, req.UserID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RescheduleBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Новое время не в прошлом
	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("RescheduleBooking: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 3. Чтение-проверка-запись в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Получаем бронирование (FOR UPDATE)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to get booking: %w", err)
		}

		if err := checkAccess(booking, req.UserID); err != nil {
			return err
		}

		// 3.2. Переход в rescheduled разрешен только из confirmed и rescheduled
		if err := domain.CheckReschedule(booking.Status); err != nil {
			return err
		}

		endTime, duration, err := resolveEnd(req, booking)
		if err != nil {
			return err
		}

		// 3.3. Новый интервал внутри рабочего окна
		schedule, err := uc.scheduleRepo.GetByProviderAndDate(txCtx, booking.ProviderID, req.Date)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				return ErrNoWorkingSchedule
			}
			return fmt.Errorf("failed to get schedule: %w", err)
		}
		if !schedule.Contains(req.StartTime, endTime) {
			return fmt.Errorf("%w: %s-%s is outside %s-%s",
				ErrOutsideWorkingHours, req.StartTime, endTime, schedule.StartTime, schedule.EndTime)
		}

		// 3.4. Остальные активные бронирования новой партиции, без самого переносимого
		bookings, err := uc.bookingRepo.GetByProviderWithFilter(txCtx, domain.ProviderBookingsFilter{
			ProviderID: booking.ProviderID,
			StartDate:  &req.Date,
			EndDate:    &req.Date,
		})
		if err != nil {
			return fmt.Errorf("failed to get bookings: %w", err)
		}

		others := make([]*domain.Booking, 0, len(bookings))
		for _, b := range bookings {
			if b.ID != booking.ID {
				others = append(others, b)
			}
		}

		overlap, err := availability.FindOverlap(req.StartTime, endTime, others)
		if err != nil {
			return fmt.Errorf("%w: failed to check overlap: %v", ErrInternal, err)
		}
		if overlap != nil {
			uc.logger.Warn("RescheduleBooking: %s-%s overlaps booking id=%s", req.StartTime, endTime, overlap.ID)
			return ErrSlotNoLongerAvailable
		}

		// 3.5. Обновляем интервал на месте
		change := domain.Reschedule{
			BookingID:       booking.ID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			DurationMinutes: duration,
			ChangedAt:       uc.timeProvider.Now(),
		}
		if err := uc.bookingRepo.Reschedule(txCtx, change); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to reschedule booking: %w", err)
		}

		booking.BookingDate = change.BookingDate
		booking.StartTime = change.StartTime
		booking.EndTime = change.EndTime
		booking.DurationMinutes = change.DurationMinutes
		booking.Status = domain.StatusRescheduled
		booking.UpdatedAt = change.ChangedAt
		result = booking
		return nil
	})

	if err != nil {
		return nil, uc.mapTxError(err)
	}

	uc.logger.Info("RescheduleBooking: booking id=%s moved to %s %s-%s",
		result.ID, result.BookingDate.Format(domain.DateFormat), result.StartTime, result.EndTime)

	return &Response{
		ID:               result.ID,
		ProviderID:       result.ProviderID,
		ClientID:         result.ClientID,
		BookingDate:      result.BookingDate,
		StartTime:        result.StartTime,
		EndTime:          result.EndTime,
		DurationMinutes:  result.DurationMinutes,
		Status:           string(result.Status),
		PaymentReference: result.PaymentReference,
		UpdatedAt:        result.UpdatedAt,
	}, nil
}

// businessErrors ошибки, которые возвращаются вызывающему как есть
var businessErrors = []error{
	ErrBookingNotFound,
	ErrAccessDenied,
	ErrInvalidInput,
	ErrNoWorkingSchedule,
	ErrOutsideWorkingHours,
	ErrSlotNoLongerAvailable,
	ErrInternal,
	domain.ErrIllegalTransition,
	domain.ErrAlreadyTerminal,
}

// mapTxError переводит ошибку транзакции в ошибки use case
func (uc *UseCase) mapTxError(err error) error {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			uc.logger.Warn("RescheduleBooking: rejected: %v", err)
			return err
		}
	}

	if errors.Is(err, bookingRepo.ErrSlotConflict) {
		uc.logger.Warn("RescheduleBooking: rejected by overlap constraint: %v", err)
		return fmt.Errorf("%w: %v", ErrSlotNoLongerAvailable, err)
	}

	uc.logger.Error("RescheduleBooking: transaction failed: %v", err)
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}
