// Package pendingexpiry периодически переводит в failed бронирования, оплата которых так и не пришла.
// Истекшие бронирования перестают занимать слот.
package pendingexpiry

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// batchSize сколько бронирований обрабатывается за один запуск
const batchSize = 500

// Expirer переводит устаревшие pending бронирования в failed
type Expirer interface {
	ExpireStalePending(ctx context.Context, ttl time.Duration, limit int) (int, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Job периодическая задача истечения pending бронирований
type Job struct {
	expirer Expirer
	ttl     time.Duration
	timeout time.Duration
	logger  Logger
	cron    *cron.Cron
}

// New создает задачу. spec - cron-выражение (например "@every 1m" или "*/5 * * * *").
func New(expirer Expirer, ttl time.Duration, spec string, logger Logger) (*Job, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("pendingexpiry: ttl must be positive, got %s", ttl)
	}

	j := &Job{
		expirer: expirer,
		ttl:     ttl,
		timeout: 30 * time.Second,
		logger:  logger,
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
	}

	if _, err := j.cron.AddFunc(spec, func() { _, _ = j.RunOnce(context.Background()) }); err != nil {
		return nil, fmt.Errorf("pendingexpiry: invalid schedule %q: %w", spec, err)
	}

	return j, nil
}

// Start запускает планировщик в фоне
func (j *Job) Start() {
	j.logger.Info("Pending expiry job started, ttl=%s", j.ttl)
	j.cron.Start()
}

// Stop останавливает планировщик и ждет завершения текущего запуска
func (j *Job) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Pending expiry job stopped")
}

// RunOnce выполняет один проход истечения
func (j *Job) RunOnce(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	expired, err := j.expirer.ExpireStalePending(ctx, j.ttl, batchSize)
	if err != nil {
		j.logger.Error("Pending expiry: %v", err)
		return expired, err
	}
	if expired > 0 {
		j.logger.Info("Pending expiry: %d bookings marked failed", expired)
	}
	return expired, nil
}
