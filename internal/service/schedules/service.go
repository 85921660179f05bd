package schedules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/barber-booking/internal/domain"
	providerRepo "github.com/m04kA/barber-booking/internal/infra/storage/provider"
	scheduleRepo "github.com/m04kA/barber-booking/internal/infra/storage/schedule"
	"github.com/m04kA/barber-booking/internal/service/schedules/models"
)

// Service сервис для управления рабочими окнами мастеров
type Service struct {
	scheduleRepo ScheduleRepository
	providerRepo ProviderRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(scheduleRepo ScheduleRepository, providerRepo ProviderRepository, logger Logger) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		providerRepo: providerRepo,
		logger:       logger,
	}
}

// Save создает или заменяет рабочее окно мастера на дату.
// Управлять расписанием может только сам мастер, пустой UserID - внутренний вызов.
// Мастер должен быть в справочнике и активен.
// Уже созданные бронирования при сужении окна не трогаются.
func (s *Service) Save(ctx context.Context, req *models.SaveScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("Save: saving schedule for provider=%s, date=%s, %s-%s by user=%s",
		req.ProviderID, req.Date.Format(domain.DateFormat), req.StartTime, req.EndTime, req.UserID)

	if err := s.checkAccess(req.UserID, req.ProviderID); err != nil {
		s.logger.Warn("Save: user=%s cannot manage schedule of provider=%s", req.UserID, req.ProviderID)
		return nil, err
	}

	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	schedule := req.ToDomain()
	if err := schedule.Validate(); err != nil {
		s.logger.Warn("Save: validation failed for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.checkProviderActive(ctx, req.ProviderID); err != nil {
		return nil, err
	}

	saved, err := s.scheduleRepo.Upsert(ctx, schedule)
	if err != nil {
		s.logger.Error("Save: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Save - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Save: schedule saved for provider=%s, date=%s", saved.ProviderID, saved.DateKey())
	return models.FromDomainSchedule(saved), nil
}

// Get получает рабочее окно мастера на дату
func (s *Service) Get(ctx context.Context, providerID string, date time.Time) (*models.ScheduleResponse, error) {
	schedule, err := s.scheduleRepo.GetByProviderAndDate(ctx, providerID, date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("Get: repository error for provider=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(schedule), nil
}

// List получает рабочие окна мастера за период по возрастанию даты
func (s *Service) List(ctx context.Context, req *models.ListSchedulesRequest) (*models.ScheduleListResponse, error) {
	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return nil, fmt.Errorf("%w: from is after to", ErrInvalidInput)
	}

	schedules, err := s.scheduleRepo.ListByProvider(ctx, req.ProviderID, req.From, req.To)
	if err != nil {
		s.logger.Error("List: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d schedules for provider=%s", len(schedules), req.ProviderID)
	return models.FromDomainScheduleList(schedules), nil
}

// ListByDate получает рабочие окна активных мастеров на дату по времени начала
func (s *Service) ListByDate(ctx context.Context, date time.Time) (*models.ScheduleListResponse, error) {
	schedules, err := s.scheduleRepo.ListByDate(ctx, date)
	if err != nil {
		s.logger.Error("ListByDate: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: ListByDate - repository error: %v", ErrInternal, err)
	}

	providers, err := s.providerRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListByDate: provider repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByDate - provider repository error: %v", ErrInternal, err)
	}

	active := make(map[string]struct{}, len(providers))
	for _, p := range providers {
		active[p.ID] = struct{}{}
	}

	working := make([]*domain.WorkingSchedule, 0, len(schedules))
	for _, ws := range schedules {
		if _, ok := active[ws.ProviderID]; ok {
			working = append(working, ws)
		}
	}

	s.logger.Info("ListByDate: %d providers working on %s", len(working), date.Format(domain.DateFormat))
	return models.FromDomainScheduleList(working), nil
}

// Delete удаляет рабочее окно мастера на дату.
// Бронирования на эту дату остаются, новые создать будет нельзя.
func (s *Service) Delete(ctx context.Context, userID, providerID string, date time.Time) error {
	s.logger.Info("Delete: deleting schedule for provider=%s, date=%s by user=%s",
		providerID, date.Format(domain.DateFormat), userID)

	if err := s.checkAccess(userID, providerID); err != nil {
		s.logger.Warn("Delete: user=%s cannot manage schedule of provider=%s", userID, providerID)
		return err
	}

	if err := s.scheduleRepo.Delete(ctx, providerID, date); err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return ErrScheduleNotFound
		}
		s.logger.Error("Delete: repository error for provider=%s: %v", providerID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	return nil
}

func (s *Service) checkProviderActive(ctx context.Context, providerID string) error {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			s.logger.Warn("Save: provider=%s not found", providerID)
			return ErrProviderNotFound
		}
		s.logger.Error("Save: provider repository error for provider=%s: %v", providerID, err)
		return fmt.Errorf("%w: Save - provider repository error: %v", ErrInternal, err)
	}
	if !provider.Active {
		s.logger.Warn("Save: provider=%s is inactive", providerID)
		return fmt.Errorf("%w: provider %s is inactive", ErrProviderNotFound, providerID)
	}
	return nil
}

func (s *Service) checkAccess(userID, providerID string) error {
	if userID != "" && userID != providerID {
		return ErrAccessDenied
	}
	return nil
}
