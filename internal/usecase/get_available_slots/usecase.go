package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/barber-booking/internal/availability"
	"github.com/m04kA/barber-booking/internal/domain"
	catalogRepo "github.com/m04kA/barber-booking/internal/infra/storage/catalog"
	providerRepo "github.com/m04kA/barber-booking/internal/infra/storage/provider"
	scheduleRepo "github.com/m04kA/barber-booking/internal/infra/storage/schedule"
	"github.com/m04kA/barber-booking/pkg/types"
)

// UseCase use case для получения слотов мастера на дату.
// Результат рекомендательный: занятость проверяется окончательно только при записи.
type UseCase struct {
	bookingRepo  BookingRepository
	scheduleRepo ScheduleRepository
	serviceRepo  ServiceRepository
	providerRepo ProviderRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	scheduleRepo ScheduleRepository,
	serviceRepo ServiceRepository,
	providerRepo ProviderRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		scheduleRepo: scheduleRepo,
		serviceRepo:  serviceRepo,
		providerRepo: providerRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник текущего времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: provider=%s, service=%s, duration=%d, date=%s",
		req.ProviderID, req.ServiceID, req.DurationMinutes, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Мастер должен существовать и принимать записи
	provider, err := uc.providerRepo.GetByID(ctx, req.ProviderID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			uc.logger.Warn("GetAvailableSlots: provider=%s not found", req.ProviderID)
			return nil, ErrProviderNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to get provider: %v", ErrInternal, err)
	}
	if !provider.Active {
		uc.logger.Warn("GetAvailableSlots: provider=%s is inactive", req.ProviderID)
		return nil, fmt.Errorf("%w: provider %s is inactive", ErrProviderNotFound, req.ProviderID)
	}

	// 3. Определяем длительность услуги
	duration := req.DurationMinutes
	if req.ServiceID != "" {
		service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%s not found", req.ServiceID)
				return nil, ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%s: %v", req.ServiceID, err)
			return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		duration = service.DurationMinutes
	}

	resp := &Response{
		Date:            req.Date,
		ProviderID:      req.ProviderID,
		ServiceID:       req.ServiceID,
		DurationMinutes: duration,
		Slots:           []Slot{},
	}

	// 4. Прошедшие даты - пустой список
	now := uc.timeProvider.Now()
	if availability.IsDateInPast(req.Date, now) {
		uc.logger.Info("GetAvailableSlots: date %s is in the past", req.Date.Format(domain.DateFormat))
		return resp, nil
	}

	// 5. Получаем рабочее окно мастера
	schedule, err := uc.scheduleRepo.GetByProviderAndDate(ctx, req.ProviderID, req.Date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Info("GetAvailableSlots: provider=%s does not work on %s", req.ProviderID, req.Date.Format(domain.DateFormat))
			return resp, nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}

	resp.WorkingStart = schedule.StartTime
	resp.WorkingEnd = schedule.EndTime
	resp.SlotMinutes = schedule.SlotMinutes

	// 6. Генерируем кандидатов
	candidates, err := availability.Generate(availability.Window{
		Start:       schedule.StartTime,
		End:         schedule.EndTime,
		SlotMinutes: schedule.SlotMinutes,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}

	// 7. Получаем активные бронирования на эту дату
	bookings, err := uc.bookingRepo.GetByProviderWithFilter(ctx, domain.ProviderBookingsFilter{
		ProviderID: req.ProviderID,
		StartDate:  &req.Date,
		EndDate:    &req.Date,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 8. Размечаем занятость
	annotated, err := availability.Annotate(candidates, bookings, duration)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to annotate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to annotate slots: %v", ErrInternal, err)
	}

	// 9. Сегодня уже начавшиеся слоты не предлагаются
	var nowTime types.TimeString
	if availability.IsSameDay(req.Date, now) {
		nowTime = types.NewTimeString(now)
	}

	for _, s := range annotated {
		if !nowTime.IsZero() && s.StartTime.IsBefore(nowTime) {
			continue
		}
		// услуга не помещается в рабочее окно
		if s.EndTime.IsZero() || s.EndTime.IsAfter(schedule.EndTime) {
			s.Available = false
		}
		resp.Slots = append(resp.Slots, Slot{
			StartTime:          s.StartTime,
			EndTime:            s.EndTime,
			Available:          s.Available,
			OccupyingBookingID: s.OccupyingBookingID,
			Period:             s.Period(),
		})
	}

	for i := range resp.Slots {
		if resp.Slots[i].Available {
			resp.NextAvailable = &resp.Slots[i]
			break
		}
	}

	uc.logger.Info("GetAvailableSlots: generated %d slots for provider=%s, date=%s",
		len(resp.Slots), req.ProviderID, req.Date.Format(domain.DateFormat))

	return resp, nil
}
