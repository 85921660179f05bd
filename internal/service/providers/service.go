package providers

import (
	"context"
	"errors"
	"fmt"

	providerRepo "github.com/m04kA/barber-booking/internal/infra/storage/provider"
	"github.com/m04kA/barber-booking/internal/service/providers/models"
)

// Service сервис справочника мастеров
type Service struct {
	providerRepo ProviderRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса мастеров
func NewService(providerRepo ProviderRepository, logger Logger) *Service {
	return &Service{
		providerRepo: providerRepo,
		logger:       logger,
	}
}

// ListActive возвращает мастеров, принимающих записи
func (s *Service) ListActive(ctx context.Context) (*models.ProviderListResponse, error) {
	providers, err := s.providerRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error("ListActive: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListActive - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProviderList(providers), nil
}

// Get получает карточку мастера, включая неактивных
func (s *Service) Get(ctx context.Context, providerID string) (*models.ProviderResponse, error) {
	provider, err := s.providerRepo.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerRepo.ErrProviderNotFound) {
			return nil, ErrProviderNotFound
		}
		s.logger.Error("Get: repository error for provider=%s: %v", providerID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainProvider(provider), nil
}

// Save создает или обновляет карточку мастера.
// Менять карточку может только сам мастер, пустой UserID - внутренний вызов.
func (s *Service) Save(ctx context.Context, req *models.SaveProviderRequest) (*models.ProviderResponse, error) {
	s.logger.Info("Save: saving provider=%s by user=%s", req.ProviderID, req.UserID)

	if req.UserID != "" && req.UserID != req.ProviderID {
		s.logger.Warn("Save: user=%s cannot edit provider=%s", req.UserID, req.ProviderID)
		return nil, ErrAccessDenied
	}

	active := true
	existing, err := s.providerRepo.GetByID(ctx, req.ProviderID)
	switch {
	case err == nil:
		active = existing.Active
	case !errors.Is(err, providerRepo.ErrProviderNotFound):
		s.logger.Error("Save: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Save - repository error: %v", ErrInternal, err)
	}
	if req.Active != nil {
		active = *req.Active
	}

	provider := req.ToDomain(active)
	if err := provider.Validate(); err != nil {
		s.logger.Warn("Save: validation failed for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	saved, err := s.providerRepo.Upsert(ctx, provider)
	if err != nil {
		s.logger.Error("Save: repository error for provider=%s: %v", req.ProviderID, err)
		return nil, fmt.Errorf("%w: Save - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Save: provider=%s saved, active=%t", saved.ID, saved.Active)
	return models.FromDomainProvider(saved), nil
}
