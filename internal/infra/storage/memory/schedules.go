package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/barber-booking/internal/domain"
	scheduleRepo "github.com/m04kA/barber-booking/internal/infra/storage/schedule"
)

// ScheduleRepository in-memory реализация репозитория рабочих окон
type ScheduleRepository struct {
	store *Store
}

// GetByProviderAndDate получает рабочее окно мастера на дату
func (r *ScheduleRepository) GetByProviderAndDate(ctx context.Context, providerID string, date time.Time) (*domain.WorkingSchedule, error) {
	s := r.store

	s.refMu.RLock()
	defer s.refMu.RUnlock()

	ws, ok := s.schedules[partitionKey(providerID, date)]
	if !ok {
		return nil, scheduleRepo.ErrScheduleNotFound
	}

	cp := *ws
	return &cp, nil
}

// ListByProvider получает рабочие окна мастера за период по возрастанию даты
func (r *ScheduleRepository) ListByProvider(ctx context.Context, providerID string, from, to *time.Time) ([]*domain.WorkingSchedule, error) {
	s := r.store

	s.refMu.RLock()
	defer s.refMu.RUnlock()

	result := make([]*domain.WorkingSchedule, 0)
	for _, ws := range s.schedules {
		if ws.ProviderID != providerID {
			continue
		}
		date := ws.DateKey()
		if from != nil && date < from.Format(domain.DateFormat) {
			continue
		}
		if to != nil && date > to.Format(domain.DateFormat) {
			continue
		}
		cp := *ws
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].DateKey() < result[j].DateKey()
	})

	return result, nil
}

// ListByDate получает рабочие окна всех мастеров на дату по времени начала
func (r *ScheduleRepository) ListByDate(ctx context.Context, date time.Time) ([]*domain.WorkingSchedule, error) {
	s := r.store

	s.refMu.RLock()
	defer s.refMu.RUnlock()

	result := make([]*domain.WorkingSchedule, 0)
	for _, ws := range s.schedules {
		if !sameDate(ws.ScheduleDate, date) {
			continue
		}
		cp := *ws
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime.IsBefore(result[j].StartTime)
		}
		return result[i].ProviderID < result[j].ProviderID
	})

	return result, nil
}

// Upsert создает или заменяет рабочее окно мастера на дату
func (r *ScheduleRepository) Upsert(ctx context.Context, schedule *domain.WorkingSchedule) (*domain.WorkingSchedule, error) {
	s := r.store

	s.refMu.Lock()
	defer s.refMu.Unlock()

	key := partitionKey(schedule.ProviderID, schedule.ScheduleDate)
	now := s.now()

	schedule.CreatedAt = now
	if existing, ok := s.schedules[key]; ok {
		schedule.CreatedAt = existing.CreatedAt
	}
	schedule.UpdatedAt = now

	cp := *schedule
	s.schedules[key] = &cp

	return schedule, nil
}

// Delete удаляет рабочее окно мастера на дату
func (r *ScheduleRepository) Delete(ctx context.Context, providerID string, date time.Time) error {
	s := r.store

	s.refMu.Lock()
	defer s.refMu.Unlock()

	key := partitionKey(providerID, date)
	if _, ok := s.schedules[key]; !ok {
		return scheduleRepo.ErrScheduleNotFound
	}
	delete(s.schedules, key)

	return nil
}
