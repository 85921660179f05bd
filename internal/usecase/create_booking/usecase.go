package create_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/barber-booking/internal/availability"
	"github.com/m04kA/barber-booking/internal/domain"
	bookingRepo "github.com/m04kA/barber-booking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/barber-booking/internal/infra/storage/catalog"
	providerRepo "github.com/m04kA/barber-booking/internal/infra/storage/provider"
	scheduleRepo "github.com/m04kA/barber-booking/internal/infra/storage/schedule"
)

// UseCase use case для создания бронирования.
// Единственное место, где появляются новые бронирования.
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	serviceRepo  ServiceRepository
	providerRepo ProviderRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	serviceRepo ServiceRepository,
	providerRepo ProviderRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		serviceRepo:  serviceRepo,
		providerRepo: providerRepo,
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

// Execute выполняет use case создания бронирования
// Чтение партиции (мастер, дата), проверка пересечения и вставка выполняются в одной
// сериализуемой транзакции. Из конкурирующих пересекающихся записей успешна не более чем одна.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: client=%s, provider=%s, service=%s, date=%s, time=%s",
		req.ClientID, req.ProviderID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Дата и время не в прошлом
	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	// 3. Мастер есть в справочнике и принимает записи
	provider, err := uc.providerRepo.GetByID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			uc.logger.Warn("CreateBooking: provider=%s not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("CreateBooking: failed to get provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrStoreUnavailable, err)
	}
	if !provider.Active {
		uc.logger.Warn("CreateBooking: provider=%s is inactive", req.ProviderID)
		return nil, fmt.Errorf("%w: provider %s is inactive", ErrProviderNotFound, req.ProviderID)
	}

	// 4. Получаем услугу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%s not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%s: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrStoreUnavailable, err)
	}

	// 5. Время окончания в пределах суток
	endTime, err := req.StartTime.AddMinutes(service.DurationMinutes)
	if err != nil {
		uc.logger.Warn("CreateBooking: start=%s duration=%d: %v", req.StartTime, service.DurationMinutes, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// 6. Интервал внутри рабочего окна мастера
	schedule, err := uc.scheduleRepo.GetByProviderAndDate(ctx, req.ProviderID, req.Date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Warn("CreateBooking: provider=%s has no schedule on %s", req.ProviderID, req.Date.Format(domain.DateFormat))
			return nil, ErrNoWorkingSchedule
		}
		uc.logger.Error("CreateBooking: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrStoreUnavailable, err)
	}
	if err := validateWorkingWindow(schedule, req.StartTime, endTime); err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 7. Чтение-проверка-запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Перечитываем активные бронирования партиции (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByProviderWithFilter(txCtx, domain.ProviderBookingsFilter{
			ProviderID: req.ProviderID,
			StartDate:  &req.Date,
			EndDate:    &req.Date,
		})
		if err != nil {
			return fmt.Errorf("failed to get bookings: %w", err)
		}

		// 7.2. Окончательная проверка пересечения
		overlap, err := availability.FindOverlap(req.StartTime, endTime, bookings)
		if err != nil {
			return fmt.Errorf("%w: failed to check overlap: %v", ErrInternal, err)
		}
		if overlap != nil {
			uc.logger.Warn("CreateBooking: %s-%s overlaps booking id=%s", req.StartTime, endTime, overlap.ID)
			return ErrSlotNoLongerAvailable
		}

		// 7.3. Создаем бронирование с денормализацией данных услуги
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			ID:              uuid.NewString(),
			ProviderID:      req.ProviderID,
			ClientID:        req.ClientID,
			ServiceID:       service.ID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			EndTime:         endTime,
			DurationMinutes: service.DurationMinutes,
			Status:          domain.StatusPending,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			Notes:           req.Notes,
		})
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.mapTxError(err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s", result.ID)

	return &Response{
		ID:              result.ID,
		ClientID:        result.ClientID,
		ProviderID:      result.ProviderID,
		ServiceID:       result.ServiceID,
		BookingDate:     result.BookingDate,
		StartTime:       result.StartTime,
		EndTime:         result.EndTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		ServicePrice:    result.ServicePrice,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// mapTxError переводит ошибку транзакции в ошибки use case.
// Проигрыш гонки возвращается как ErrSlotNoLongerAvailable, сбои хранилища - как ErrStoreUnavailable.
func (uc *UseCase) mapTxError(err error) error {
	switch {
	case errors.Is(err, ErrSlotNoLongerAvailable):
		return err
	case errors.Is(err, bookingRepo.ErrSlotConflict):
		uc.logger.Warn("CreateBooking: rejected by overlap constraint: %v", err)
		return fmt.Errorf("%w: %v", ErrSlotNoLongerAvailable, err)
	case errors.Is(err, ErrInternal):
		uc.logger.Error("CreateBooking: %v", err)
		return err
	default:
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
