package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/barber-booking/internal/domain"
	"github.com/m04kA/barber-booking/pkg/dbmetrics"
	"github.com/m04kA/barber-booking/pkg/psqlbuilder"
)

var scheduleColumns = []string{
	"provider_id",
	"schedule_date",
	"start_time",
	"end_time",
	"slot_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий рабочих окон мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByProviderAndDate получает рабочее окно мастера на дату
func (r *Repository) GetByProviderAndDate(ctx context.Context, providerID string, date time.Time) (*domain.WorkingSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(scheduleColumns...).
		From("working_schedules").
		Where(squirrel.Eq{"provider_id": providerID, "schedule_date": date}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndDate - build select query: %v", ErrBuildQuery, err)
	}

	schedule, err := scanSchedule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByProviderAndDate - scan schedule: %w", ErrScanRow, err)
	}

	return schedule, nil
}

// ListByProvider получает рабочие окна мастера за период (границы опциональны), по возрастанию даты
func (r *Repository) ListByProvider(ctx context.Context, providerID string, from, to *time.Time) ([]*domain.WorkingSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(scheduleColumns...).
		From("working_schedules").
		Where(squirrel.Eq{"provider_id": providerID}).
		OrderBy("schedule_date ASC")

	if from != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"schedule_date": *from})
	}
	if to != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"schedule_date": *to})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.WorkingSchedule, 0)
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByProvider - scan row: %w", ErrScanRow, err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByProvider - rows error: %w", ErrScanRow, err)
	}

	return schedules, nil
}

// ListByDate получает рабочие окна всех мастеров на дату по времени начала
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]*domain.WorkingSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := listByDateQuery(date)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	schedules := make([]*domain.WorkingSchedule, 0)
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByDate - scan row: %w", ErrScanRow, err)
		}
		schedules = append(schedules, schedule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDate - rows error: %w", ErrScanRow, err)
	}

	return schedules, nil
}

// Upsert создает или заменяет рабочее окно мастера на дату (уникальность по provider_id, schedule_date)
func (r *Repository) Upsert(ctx context.Context, schedule *domain.WorkingSchedule) (*domain.WorkingSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := upsertQuery(schedule)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %w", ErrExecQuery, err)
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return schedule, nil
}

// Delete удаляет рабочее окно мастера на дату
func (r *Repository) Delete(ctx context.Context, providerID string, date time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("working_schedules").
		Where(squirrel.Eq{"provider_id": providerID, "schedule_date": date}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

func listByDateQuery(date time.Time) (string, []interface{}, error) {
	return psqlbuilder.Select(scheduleColumns...).
		From("working_schedules").
		Where(squirrel.Eq{"schedule_date": date}).
		OrderBy("start_time ASC", "provider_id ASC").
		ToSql()
}

// upsertQuery вставка с заменой окна по (provider_id, schedule_date), created_at сохраняется
func upsertQuery(schedule *domain.WorkingSchedule) (string, []interface{}, error) {
	return psqlbuilder.Insert("working_schedules").
		Columns("provider_id", "schedule_date", "start_time", "end_time", "slot_minutes").
		Values(schedule.ProviderID, schedule.ScheduleDate, schedule.StartTime, schedule.EndTime, schedule.SlotMinutes).
		Suffix(`ON CONFLICT (provider_id, schedule_date) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_minutes = EXCLUDED.slot_minutes,
			updated_at = NOW()
			RETURNING created_at, updated_at`).
		ToSql()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSchedule(row rowScanner) (*domain.WorkingSchedule, error) {
	var schedule domain.WorkingSchedule
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&schedule.ProviderID,
		&schedule.ScheduleDate,
		&schedule.StartTime,
		&schedule.EndTime,
		&schedule.SlotMinutes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	return &schedule, nil
}
