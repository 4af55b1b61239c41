package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/wealthpath/cadence/internal/model"
)

type OccurrenceRepository struct {
	db *sqlx.DB
}

func NewOccurrenceRepository(db *sqlx.DB) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

// ListBySchedule returns the most recent occurrences of a schedule, newest first.
func (r *OccurrenceRepository) ListBySchedule(ctx context.Context, scheduleID uuid.UUID, limit int) ([]model.Occurrence, error) {
	var items []model.Occurrence
	query := `SELECT * FROM occurrences WHERE schedule_id = $1 ORDER BY sequence DESC LIMIT $2`
	err := r.db.SelectContext(ctx, &items, query, scheduleID, limit)
	return items, err
}
