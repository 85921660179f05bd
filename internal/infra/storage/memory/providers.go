package memory

import (
	"context"
	"sort"

	"github.com/m04kA/barber-booking/internal/domain"
	providerRepo "github.com/m04kA/barber-booking/internal/infra/storage/provider"
)

// ProviderRepository in-memory справочник мастеров
type ProviderRepository struct {
	store *Store
}

// GetByID получает мастера по ID, включая неактивных
func (r *ProviderRepository) GetByID(ctx context.Context, id string) (*domain.Provider, error) {
	s := r.store

	s.refMu.RLock()
	defer s.refMu.RUnlock()

	p, ok := s.providers[id]
	if !ok {
		return nil, providerRepo.ErrProviderNotFound
	}

	return copyProvider(p), nil
}

// ListActive возвращает активных мастеров по имени
func (r *ProviderRepository) ListActive(ctx context.Context) ([]*domain.Provider, error) {
	s := r.store

	s.refMu.RLock()
	defer s.refMu.RUnlock()

	result := make([]*domain.Provider, 0, len(s.providers))
	for _, p := range s.providers {
		if p.Active {
			result = append(result, copyProvider(p))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].DisplayName != result[j].DisplayName {
			return result[i].DisplayName < result[j].DisplayName
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// Upsert создает или обновляет карточку мастера
func (r *ProviderRepository) Upsert(ctx context.Context, provider *domain.Provider) (*domain.Provider, error) {
	s := r.store

	s.refMu.Lock()
	defer s.refMu.Unlock()

	now := s.now()
	provider.CreatedAt = now
	if existing, ok := s.providers[provider.ID]; ok {
		provider.CreatedAt = existing.CreatedAt
	}
	provider.UpdatedAt = now

	s.providers[provider.ID] = copyProvider(provider)

	return provider, nil
}

func copyProvider(p *domain.Provider) *domain.Provider {
	cp := *p
	if p.Specialty != nil {
		specialty := *p.Specialty
		cp.Specialty = &specialty
	}
	if p.Avatar != nil {
		avatar := *p.Avatar
		cp.Avatar = &avatar
	}
	return &cp
}

// DefaultProviders справочник мастеров по умолчанию, совпадает с начальными данными миграции
func DefaultProviders() []*domain.Provider {
	str := func(s string) *string { return &s }
	return []*domain.Provider{
		{ID: "barber-1", DisplayName: "Carlos Rodríguez", Phone: "3001234567", Specialty: str("Fade & Designs"), Avatar: str("👨‍🦱"), Active: true},
		{ID: "barber-2", DisplayName: "Miguel Ángel", Phone: "3009876543", Specialty: str("Beards & Shaving"), Avatar: str("🧔"), Active: true},
		{ID: "barber-3", DisplayName: "Andrés Silva", Phone: "3007654321", Specialty: str("Classic Cuts"), Avatar: str("👨"), Active: true},
	}
}
