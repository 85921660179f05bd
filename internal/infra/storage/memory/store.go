// Package memory хранилище в памяти процесса с теми же контрактами, что и postgres-репозитории.
//
// Бронирования разложены по партициям (provider, date), у каждой партиции свой мьютекс и версия.
// Транзакции оптимистичные: транзакция запоминает версии прочитанных партиций, буферизует записи
// и при фиксации захватывает только затронутые партиции в порядке ключей. Если партицию за это
// время изменили, фиксация завершается txmanager.ErrSerializationFailure, и транзакция выполняется заново.
// Записи в разные партиции не ждут друг друга.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/barber-booking/internal/domain"
	bookingRepo "github.com/m04kA/barber-booking/internal/infra/storage/booking"
	"github.com/m04kA/barber-booking/pkg/txmanager"
)

// partition бронирования одного мастера на одну дату
type partition struct {
	mu       sync.Mutex
	version  uint64
	bookings map[string]*domain.Booking
}

// Store общее состояние in-memory хранилища.
// Порядок захвата: партиции по возрастанию ключа, затем indexMu. partMu и refMu ни с чем не вкладываются.
type Store struct {
	// partMu защищает только карту партиций, партиции не удаляются
	partMu     sync.Mutex
	partitions map[string]*partition

	// index ID бронирования -> ключ партиции, меняется только при фиксации
	indexMu sync.RWMutex
	index   map[string]string

	// refMu защищает справочные данные
	refMu     sync.RWMutex
	schedules map[string]*domain.WorkingSchedule
	services  map[string]*domain.Service
	providers map[string]*domain.Provider

	opts txmanager.Options
	now  func() time.Time
}

// Option настраивает Store
type Option func(*Store)

// WithClock подменяет источник времени для created_at/updated_at
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithServices наполняет каталог услуг
func WithServices(services ...*domain.Service) Option {
	return func(s *Store) {
		for _, svc := range services {
			cp := *svc
			s.services[svc.ID] = &cp
		}
	}
}

// WithProviders наполняет справочник мастеров
func WithProviders(providers ...*domain.Provider) Option {
	return func(s *Store) {
		for _, p := range providers {
			cp := *p
			s.providers[p.ID] = &cp
		}
	}
}

// NewStore создает пустое хранилище. opts задают таймаут и число повторов транзакций.
func NewStore(opts txmanager.Options, options ...Option) *Store {
	s := &Store{
		partitions: make(map[string]*partition),
		index:      make(map[string]string),
		schedules:  make(map[string]*domain.WorkingSchedule),
		services:   make(map[string]*domain.Service),
		providers:  make(map[string]*domain.Provider),
		opts:       opts,
		now:        time.Now,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// Bookings возвращает репозиторий бронирований поверх хранилища
func (s *Store) Bookings() *BookingRepository {
	return &BookingRepository{store: s}
}

// Schedules возвращает репозиторий рабочих окон
func (s *Store) Schedules() *ScheduleRepository {
	return &ScheduleRepository{store: s}
}

// Catalog возвращает репозиторий каталога услуг
func (s *Store) Catalog() *CatalogRepository {
	return &CatalogRepository{store: s}
}

// Providers возвращает репозиторий справочника мастеров
func (s *Store) Providers() *ProviderRepository {
	return &ProviderRepository{store: s}
}

type txKey struct{}

type tx struct {
	// версии партиций на момент первого чтения
	readSet map[string]uint64
	// буфер записей по ID бронирования
	writes map[string]*domain.Booking
	// партиция, из которой бронирование прочитано; для новых бронирований ключа нет
	origins map[string]string
}

func (t *tx) observe(key string, version uint64) {
	if _, ok := t.readSet[key]; !ok {
		t.readSet[key] = version
	}
}

func txFromContext(ctx context.Context) *tx {
	t, _ := ctx.Value(txKey{}).(*tx)
	return t
}

// Do выполняет fn в транзакции. Семантика совпадает с DoSerializable.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.DoSerializable(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.DoSerializable(ctx, fn)
}

// DoSerializable выполняет fn атомарно относительно прочитанных партиций.
// Конфликт версий при фиксации повторяет fn целиком, ошибки fn возвращаются без повторов.
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	return txmanager.Retry(ctx, s.opts, func(ctx context.Context) error {
		return s.attempt(ctx, fn)
	})
}

// autocommit выполняет одиночную запись вне транзакции как отдельную транзакцию.
// Каждый конфликт версий означает чужую успешную фиксацию, попытки повторяются до результата.
func (s *Store) autocommit(ctx context.Context, fn func(ctx context.Context) error) error {
	for {
		err := s.attempt(ctx, fn)
		if !errors.Is(err, txmanager.ErrSerializationFailure) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %v", txmanager.ErrTimeout, ctxErr)
		}
	}
}

func (s *Store) attempt(ctx context.Context, fn func(ctx context.Context) error) error {
	timeout := s.opts.Timeout
	if timeout <= 0 {
		timeout = txmanager.DefaultTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	t := &tx{
		readSet: make(map[string]uint64),
		writes:  make(map[string]*domain.Booking),
		origins: make(map[string]string),
	}

	err := fn(context.WithValue(attemptCtx, txKey{}, t))
	if deadline := attemptCtx.Err(); errors.Is(deadline, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", txmanager.ErrTimeout, deadline)
	}
	if err != nil {
		return err
	}

	return s.commit(t)
}

func (s *Store) commit(t *tx) error {
	if len(t.writes) == 0 {
		return nil
	}

	keys := make(map[string]struct{}, len(t.readSet)+len(t.writes))
	for key := range t.readSet {
		keys[key] = struct{}{}
	}
	for id, b := range t.writes {
		keys[partitionKey(b.ProviderID, b.BookingDate)] = struct{}{}
		if origin, ok := t.origins[id]; ok {
			keys[origin] = struct{}{}
		}
	}

	parts, unlock := s.lockPartitions(keys)
	defer unlock()

	for key, version := range t.readSet {
		if parts[key].version != version {
			return fmt.Errorf("%w: partition %s changed", txmanager.ErrSerializationFailure, key)
		}
	}

	ids := make([]string, 0, len(t.writes))
	for id := range t.writes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if err := s.checkOrigins(t, ids); err != nil {
		return err
	}

	// ограничение исключения проверяется до применения любых записей
	for _, id := range ids {
		b := t.writes[id]
		if err := checkNoOverlap(parts[partitionKey(b.ProviderID, b.BookingDate)], b, t.writes); err != nil {
			return err
		}
	}

	s.indexMu.Lock()
	defer s.indexMu.Unlock()

	for _, id := range ids {
		b := t.writes[id]
		key := partitionKey(b.ProviderID, b.BookingDate)

		if origin, ok := t.origins[id]; ok && origin != key {
			delete(parts[origin].bookings, id)
			parts[origin].version++
		}
		parts[key].bookings[id] = b
		parts[key].version++
		s.index[id] = key
	}

	return nil
}

// checkOrigins сверяет, что бронирования лежат там же, где их прочитала транзакция,
// а новые бронирования не заняли ID за время транзакции
func (s *Store) checkOrigins(t *tx, ids []string) error {
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()

	for _, id := range ids {
		current, exists := s.index[id]
		origin, read := t.origins[id]

		switch {
		case !read && exists:
			return fmt.Errorf("%w: Create: %s", bookingRepo.ErrDuplicateID, id)
		case read && current != origin:
			return fmt.Errorf("%w: booking %s moved", txmanager.ErrSerializationFailure, id)
		}
	}
	return nil
}

// partition возвращает партицию по ключу, создавая ее при первом обращении
func (s *Store) partition(key string) *partition {
	s.partMu.Lock()
	defer s.partMu.Unlock()

	p, ok := s.partitions[key]
	if !ok {
		p = &partition{bookings: make(map[string]*domain.Booking)}
		s.partitions[key] = p
	}
	return p
}

func (s *Store) allPartitions() []*partition {
	s.partMu.Lock()
	defer s.partMu.Unlock()

	result := make([]*partition, 0, len(s.partitions))
	for _, p := range s.partitions {
		result = append(result, p)
	}
	return result
}

// lockPartitions захватывает партиции в порядке ключей и возвращает функцию освобождения
func (s *Store) lockPartitions(keys map[string]struct{}) (map[string]*partition, func()) {
	sorted := make([]string, 0, len(keys))
	for key := range keys {
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)

	locked := make(map[string]*partition, len(sorted))
	for _, key := range sorted {
		p := s.partition(key)
		p.mu.Lock()
		locked[key] = p
	}

	return locked, func() {
		for i := len(sorted) - 1; i >= 0; i-- {
			locked[sorted[i]].mu.Unlock()
		}
	}
}

func (s *Store) lookup(id string) (string, bool) {
	s.indexMu.RLock()
	defer s.indexMu.RUnlock()

	key, ok := s.index[id]
	return key, ok
}

func partitionKey(providerID string, date time.Time) string {
	return providerID + "|" + date.Format(domain.DateFormat)
}

func sameDate(a, b time.Time) bool {
	return a.Format(domain.DateFormat) == b.Format(domain.DateFormat)
}
