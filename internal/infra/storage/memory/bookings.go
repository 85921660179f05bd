package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/barber-booking/internal/availability"
	"github.com/m04kA/barber-booking/internal/domain"
	bookingRepo "github.com/m04kA/barber-booking/internal/infra/storage/booking"
)

// BookingRepository in-memory реализация репозитория бронирований
type BookingRepository struct {
	store *Store
}

// Create сохраняет бронирование. Пустой ID заменяется сгенерированным UUID.
// Пересечение с активными бронированиями партиции проверяется при фиксации.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s := r.store
	t := txFromContext(ctx)

	if t == nil {
		err := s.autocommit(ctx, func(ctx context.Context) error {
			_, err := r.Create(ctx, booking)
			return err
		})
		if err != nil {
			return nil, err
		}
		return booking, nil
	}

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if _, ok := t.writes[booking.ID]; ok {
		return nil, fmt.Errorf("%w: Create: %s", bookingRepo.ErrDuplicateID, booking.ID)
	}
	if _, ok := s.lookup(booking.ID); ok {
		return nil, fmt.Errorf("%w: Create: %s", bookingRepo.ErrDuplicateID, booking.ID)
	}

	now := s.now()
	booking.CreatedAt = now
	booking.UpdatedAt = now

	stored := *booking
	t.writes[stored.ID] = &stored

	return booking, nil
}

// GetByID получает бронирование по ID.
// В транзакции партиция бронирования попадает в набор чтения.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	t := txFromContext(ctx)
	if t != nil {
		if b, ok := t.writes[id]; ok {
			cp := *b
			return &cp, nil
		}
	}

	b, _, err := r.store.readBooking(t, id)
	return b, err
}

// GetByClientID получает бронирования клиента, сначала новые
func (r *BookingRepository) GetByClientID(ctx context.Context, clientID string, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := r.store.snapshot(txFromContext(ctx), func(b *domain.Booking) bool {
		return b.ClientID == clientID && (status == nil || b.Status == *status)
	})

	sortDesc(result)
	return result, nil
}

// GetByProviderWithFilter получает бронирования мастера по фильтру.
// Для одной даты читается одна партиция, результат по возрастанию времени начала,
// а в транзакции партиция попадает в набор чтения.
func (r *BookingRepository) GetByProviderWithFilter(ctx context.Context, filter domain.ProviderBookingsFilter) ([]*domain.Booking, error) {
	s := r.store
	t := txFromContext(ctx)
	match := func(b *domain.Booking) bool {
		return matchesFilter(b, filter)
	}

	singleDate := filter.StartDate != nil && filter.EndDate != nil && sameDate(*filter.StartDate, *filter.EndDate)
	if !singleDate {
		result := s.snapshot(t, match)
		sortDesc(result)
		return result, nil
	}

	result := s.readPartition(t, partitionKey(filter.ProviderID, *filter.StartDate), match)
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime.IsBefore(result[j].StartTime)
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})

	return result, nil
}

// ListStalePending возвращает бронирования pending, созданные раньше createdBefore
func (r *BookingRepository) ListStalePending(ctx context.Context, createdBefore time.Time, limit int) ([]*domain.Booking, error) {
	result := r.store.snapshot(txFromContext(ctx), func(b *domain.Booking) bool {
		return b.Status == domain.StatusPending && b.CreatedAt.Before(createdBefore)
	})

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

// Reschedule переносит бронирование, ID и платежная ссылка сохраняются
func (r *BookingRepository) Reschedule(ctx context.Context, change domain.Reschedule) error {
	s := r.store
	t := txFromContext(ctx)

	if t == nil {
		return s.autocommit(ctx, func(ctx context.Context) error {
			return r.Reschedule(ctx, change)
		})
	}

	current, err := s.current(t, change.BookingID)
	if err != nil {
		return err
	}

	updated := *current
	updated.BookingDate = change.BookingDate
	updated.StartTime = change.StartTime
	updated.EndTime = change.EndTime
	updated.DurationMinutes = change.DurationMinutes
	updated.Status = domain.StatusRescheduled
	updated.UpdatedAt = change.ChangedAt
	t.writes[updated.ID] = &updated

	return nil
}

// UpdateStatus меняет статус, только если текущий статус равен change.From
func (r *BookingRepository) UpdateStatus(ctx context.Context, change domain.StatusChange) error {
	s := r.store
	t := txFromContext(ctx)

	if t == nil {
		return s.autocommit(ctx, func(ctx context.Context) error {
			return r.UpdateStatus(ctx, change)
		})
	}

	current, err := s.current(t, change.BookingID)
	if err != nil || current.Status != change.From {
		return bookingRepo.ErrStatusMismatch
	}

	updated := *current
	updated.Status = change.To
	updated.UpdatedAt = change.ChangedAt
	if change.To == domain.StatusCancelled {
		cancelledAt := change.ChangedAt
		updated.CancellationReason = change.CancellationReason
		updated.CancelledAt = &cancelledAt
	}
	if change.PaymentReference != nil {
		ref := *change.PaymentReference
		updated.PaymentReference = &ref
	}
	t.writes[updated.ID] = &updated

	return nil
}

// current возвращает последнюю версию бронирования для записи в транзакции
// и запоминает партицию, из которой оно прочитано
func (s *Store) current(t *tx, id string) (*domain.Booking, error) {
	if b, ok := t.writes[id]; ok {
		return b, nil
	}

	b, key, err := s.readBooking(t, id)
	if err != nil {
		return nil, err
	}
	t.origins[id] = key
	return b, nil
}

// readBooking читает копию бронирования из его партиции.
// Если бронирование перенесли между поиском по индексу и захватом партиции, индекс перечитывается.
func (s *Store) readBooking(t *tx, id string) (*domain.Booking, string, error) {
	key, ok := s.lookup(id)
	for ok {
		p := s.partition(key)

		p.mu.Lock()
		b, found := p.bookings[id]
		if found {
			if t != nil {
				t.observe(key, p.version)
			}
			cp := *b
			p.mu.Unlock()
			return &cp, key, nil
		}
		p.mu.Unlock()

		next, nextOK := s.lookup(id)
		if next == key {
			break
		}
		key, ok = next, nextOK
	}

	return nil, "", bookingRepo.ErrBookingNotFound
}

// readPartition возвращает копии бронирований одной партиции с учетом буфера транзакции
func (s *Store) readPartition(t *tx, key string, match func(b *domain.Booking) bool) []*domain.Booking {
	p := s.partition(key)
	result := make([]*domain.Booking, 0)

	p.mu.Lock()
	if t != nil {
		t.observe(key, p.version)
	}
	for id, b := range p.bookings {
		if t != nil {
			if _, ok := t.writes[id]; ok {
				continue
			}
		}
		if match(b) {
			cp := *b
			result = append(result, &cp)
		}
	}
	p.mu.Unlock()

	return appendWrites(result, t, match)
}

// snapshot возвращает копии бронирований всех партиций с учетом буфера транзакции.
// Партиции читаются по очереди, набор чтения не пополняется.
func (s *Store) snapshot(t *tx, match func(b *domain.Booking) bool) []*domain.Booking {
	result := make([]*domain.Booking, 0)
	seen := make(map[string]struct{})

	for _, p := range s.allPartitions() {
		p.mu.Lock()
		for id, b := range p.bookings {
			if _, ok := seen[id]; ok {
				continue
			}
			if t != nil {
				if _, ok := t.writes[id]; ok {
					continue
				}
			}
			seen[id] = struct{}{}
			if match(b) {
				cp := *b
				result = append(result, &cp)
			}
		}
		p.mu.Unlock()
	}

	return appendWrites(result, t, match)
}

func appendWrites(result []*domain.Booking, t *tx, match func(b *domain.Booking) bool) []*domain.Booking {
	if t == nil {
		return result
	}
	for _, w := range t.writes {
		if match(w) {
			cp := *w
			result = append(result, &cp)
		}
	}
	return result
}

// checkNoOverlap повторяет ограничение исключения postgres:
// активные бронирования одной партиции не пересекаются. Партиция p должна быть захвачена.
func checkNoOverlap(p *partition, b *domain.Booking, pending map[string]*domain.Booking) error {
	if !b.IsActive() {
		return nil
	}

	others := make([]*domain.Booking, 0, len(p.bookings))
	for id, other := range p.bookings {
		if _, ok := pending[id]; ok || id == b.ID {
			continue
		}
		others = append(others, other)
	}
	for id, other := range pending {
		if id == b.ID || other.ProviderID != b.ProviderID || !sameDate(other.BookingDate, b.BookingDate) {
			continue
		}
		others = append(others, other)
	}

	overlap, err := availability.FindOverlap(b.StartTime, b.EndTime, others)
	if err != nil {
		return fmt.Errorf("%w: check overlap: %v", bookingRepo.ErrExecQuery, err)
	}
	if overlap != nil {
		return fmt.Errorf("%w: booking %s overlaps %s", bookingRepo.ErrSlotConflict, b.ID, overlap.ID)
	}
	return nil
}

func matchesFilter(b *domain.Booking, filter domain.ProviderBookingsFilter) bool {
	if b.ProviderID != filter.ProviderID {
		return false
	}
	date := b.BookingDate.Format(domain.DateFormat)
	if filter.StartDate != nil && date < filter.StartDate.Format(domain.DateFormat) {
		return false
	}
	if filter.EndDate != nil && date > filter.EndDate.Format(domain.DateFormat) {
		return false
	}
	if filter.Status != nil {
		return b.Status == *filter.Status
	}
	return filter.IncludeInactive || b.IsActive()
}

func sortDesc(bookings []*domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		di, dj := bookings[i].BookingDate.Format(domain.DateFormat), bookings[j].BookingDate.Format(domain.DateFormat)
		if di != dj {
			return di > dj
		}
		return bookings[i].StartTime.IsAfter(bookings[j].StartTime)
	})
}
