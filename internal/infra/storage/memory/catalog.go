package memory

import (
	"context"
	"sort"

	"github.com/m04kA/barber-booking/internal/domain"
	catalogRepo "github.com/m04kA/barber-booking/internal/infra/storage/catalog"
)

// CatalogRepository in-memory каталог услуг
type CatalogRepository struct {
	store *Store
}

// GetByID получает услугу по ID
func (r *CatalogRepository) GetByID(ctx context.Context, id string) (*domain.Service, error) {
	s := r.store

	s.refMu.RLock()
	defer s.refMu.RUnlock()

	svc, ok := s.services[id]
	if !ok {
		return nil, catalogRepo.ErrServiceNotFound
	}

	cp := *svc
	return &cp, nil
}

// List возвращает все услуги по возрастанию цены
func (r *CatalogRepository) List(ctx context.Context) ([]*domain.Service, error) {
	s := r.store

	s.refMu.RLock()
	defer s.refMu.RUnlock()

	result := make([]*domain.Service, 0, len(s.services))
	for _, svc := range s.services {
		cp := *svc
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Price != result[j].Price {
			return result[i].Price < result[j].Price
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

// DefaultServices каталог услуг по умолчанию, совпадает с начальными данными миграции
func DefaultServices() []*domain.Service {
	return []*domain.Service{
		{ID: "basic-cut", Name: "Basic Haircut", Description: "Traditional haircut", DurationMinutes: 30, Price: 30000},
		{ID: "premium-cut", Name: "Premium Cut + Design", Description: "Haircut with a custom design and details", DurationMinutes: 45, Price: 50000},
		{ID: "beard", Name: "Beard Trim", Description: "Beard shaping and trim", DurationMinutes: 30, Price: 25000},
		{ID: "full-combo", Name: "Full Combo", Description: "Haircut, beard and massage", DurationMinutes: 60, Price: 70000},
		{ID: "classic-shave", Name: "Classic Shave", Description: "Traditional straight razor shave", DurationMinutes: 30, Price: 35000},
	}
}
