package txmanager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/barber-booking/pkg/dbmetrics"
	"github.com/m04kA/barber-booking/pkg/metrics"
)

const (
	DefaultTimeout    = 5 * time.Second
	DefaultMaxRetries = 5
)

// TxBeginner интерфейс для начала транзакций (реализован *dbmetrics.DB)
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error)
}

// Options параметры менеджера транзакций
type Options struct {
	// Timeout ограничение на одну попытку транзакции
	Timeout time.Duration
	// MaxRetries сколько раз повторять транзакцию после serialization failure
	MaxRetries int
	// Metrics опционально, nil - без метрик
	Metrics *metrics.Metrics
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	return o
}

// TransactionManager выполняет функции внутри транзакций postgres.
// Транзакция передаётся репозиториям через context (dbmetrics.WithTx).
type TransactionManager struct {
	db   TxBeginner
	opts Options
}

// NewTransactionManager создает менеджер транзакций
func NewTransactionManager(db TxBeginner, opts Options) *TransactionManager {
	return &TransactionManager{db: db, opts: opts.withDefaults()}
}

// Do выполняет fn в транзакции с уровнем изоляции по умолчанию (read committed)
func (m *TransactionManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{}, fn)
}

// DoReadOnly выполняет fn в read-only транзакции
func (m *TransactionManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

// DoSerializable выполняет fn в SERIALIZABLE транзакции.
// При serialization failure / deadlock fn выполняется заново целиком (перечитывание + проверка),
// ошибки самой fn наружу отдаются без повторов.
func (m *TransactionManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return Retry(ctx, m.opts, func(ctx context.Context) error {
		return m.run(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, fn)
	})
}

func (m *TransactionManager) run(ctx context.Context, txOpts *sql.TxOptions, fn func(ctx context.Context) error) (err error) {
	if dbmetrics.IsInTransaction(ctx) {
		// вложенный вызов - переиспользуем внешнюю транзакцию
		return fn(ctx)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, m.opts.Timeout)
	defer cancel()

	tx, err := m.db.BeginTx(attemptCtx, txOpts)
	if err != nil {
		return classify(attemptCtx, fmt.Errorf("%w: %w", ErrBegin, err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(dbmetrics.WithTx(attemptCtx, tx)); err != nil {
		return classify(attemptCtx, err)
	}

	if err = tx.Commit(); err != nil {
		return classify(attemptCtx, fmt.Errorf("%w: %w", ErrCommit, err))
	}

	return nil
}

// classify помечает ошибки postgres, после которых транзакцию можно повторить,
// и ошибки таймаута попытки
func classify(ctx context.Context, err error) error {
	if IsSerializationFailure(err) && !errors.Is(err, ErrSerializationFailure) {
		return fmt.Errorf("%w: %v", ErrSerializationFailure, err)
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

// Retry повторяет attempt, пока он завершается ErrSerializationFailure, не более opts.MaxRetries раз.
// Используется и postgres-менеджером, и in-memory хранилищем.
func Retry(ctx context.Context, opts Options, attempt func(ctx context.Context) error) error {
	opts = opts.withDefaults()

	var lastErr error
	for i := 0; i <= opts.MaxRetries; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}

		err := attempt(ctx)
		if err == nil {
			observeOutcome(opts.Metrics, "committed")
			return nil
		}
		if !errors.Is(err, ErrSerializationFailure) {
			observeOutcome(opts.Metrics, "aborted")
			return err
		}

		lastErr = err
		if opts.Metrics != nil {
			opts.Metrics.TxRetriesTotal.WithLabelValues("serialization_failure").Inc()
		}
		backoff(ctx, i)
	}

	observeOutcome(opts.Metrics, "retries_exhausted")
	return fmt.Errorf("%w: %d attempts: %v", ErrRetriesExhausted, opts.MaxRetries+1, lastErr)
}

func observeOutcome(m *metrics.Metrics, outcome string) {
	if m != nil {
		m.TxOutcomesTotal.WithLabelValues(outcome).Inc()
	}
}

func backoff(ctx context.Context, attempt int) {
	delay := time.Duration(attempt+1) * 5 * time.Millisecond
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
