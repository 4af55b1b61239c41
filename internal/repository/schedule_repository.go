package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wealthpath/cadence/internal/model"
)

var ErrScheduleNotFound = errors.New("schedule not found")

type ScheduleRepository struct {
	db *sqlx.DB
}

func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) Create(ctx context.Context, s *model.Schedule) error {
	query := `
		INSERT INTO schedules (id, name, interval_iso, amount, currency, escalation, contact, metadata,
			utc_offset, start_at, end_at, next_run_at, run_count, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING created_at, updated_at`

	s.ID = uuid.New()
	return r.db.QueryRowxContext(ctx, query,
		s.ID, s.Name, s.Interval, s.Amount, s.Currency, s.Escalation, s.Contact, s.Metadata,
		s.UTCOffset, s.StartAt, s.EndAt, s.NextRunAt, s.RunCount, s.IsActive,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
}

func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	var s model.Schedule
	query := `SELECT * FROM schedules WHERE id = $1`
	err := r.db.GetContext(ctx, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns schedules ordered by their next run, optionally only active ones.
func (r *ScheduleRepository) List(ctx context.Context, activeOnly bool) ([]model.Schedule, error) {
	var items []model.Schedule
	query := `SELECT * FROM schedules WHERE ($1 = false OR is_active = true) ORDER BY next_run_at ASC`
	err := r.db.SelectContext(ctx, &items, query, activeOnly)
	return items, err
}

func (r *ScheduleRepository) Update(ctx context.Context, s *model.Schedule) error {
	query := `
		UPDATE schedules
		SET name = $2, interval_iso = $3, amount = $4, currency = $5, escalation = $6, contact = $7,
			metadata = $8, utc_offset = $9, start_at = $10, end_at = $11, next_run_at = $12,
			is_active = $13, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, query,
		s.ID, s.Name, s.Interval, s.Amount, s.Currency, s.Escalation, s.Contact,
		s.Metadata, s.UTCOffset, s.StartAt, s.EndAt, s.NextRunAt, s.IsActive,
	).Scan(&s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrScheduleNotFound
	}
	return err
}

func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM schedules WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrScheduleNotFound
	}
	return nil
}

// GetDue returns active schedules whose next run is at or before now.
func (r *ScheduleRepository) GetDue(ctx context.Context, now time.Time) ([]model.Schedule, error) {
	var items []model.Schedule
	query := `
		SELECT * FROM schedules
		WHERE is_active = true
			AND next_run_at <= $1
		ORDER BY next_run_at ASC`
	err := r.db.SelectContext(ctx, &items, query, now)
	return items, err
}

// RecordRun stores occ and moves s to its next run in one transaction.
// s carries the already advanced NextRunAt, Amount, RunCount and IsActive.
func (r *ScheduleRepository) RecordRun(ctx context.Context, s *model.Schedule, occ *model.Occurrence) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	occurrenceQuery := `
		INSERT INTO occurrences (id, schedule_id, sequence, due_at, amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at`

	occ.ID = uuid.New()
	err = tx.QueryRowxContext(ctx, occurrenceQuery,
		occ.ID, occ.ScheduleID, occ.Sequence, occ.DueAt, occ.Amount, occ.Currency,
	).Scan(&occ.CreatedAt)
	if err != nil {
		return err
	}

	advanceQuery := `
		UPDATE schedules
		SET next_run_at = $2, last_run_at = $3, run_count = $4, amount = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1`
	_, err = tx.ExecContext(ctx, advanceQuery,
		s.ID, s.NextRunAt, s.LastRunAt, s.RunCount, s.Amount, s.IsActive,
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}
