package handler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wealthpath/cadence/internal/model"
	"github.com/wealthpath/cadence/internal/service"
)

// ScheduleServiceInterface for handler testing
type ScheduleServiceInterface interface {
	Create(ctx context.Context, input service.CreateScheduleInput) (*model.Schedule, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
	List(ctx context.Context, activeOnly bool) ([]model.Schedule, error)
	Update(ctx context.Context, id uuid.UUID, input service.UpdateScheduleInput) (*model.Schedule, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Pause(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
	Resume(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
	Preview(ctx context.Context, id uuid.UUID, count int) ([]model.PlannedRun, error)
	Occurrences(ctx context.Context, id uuid.UUID, limit int) ([]model.Occurrence, error)
}

// SchedulerStatus reports on the background job that processes due schedules.
type SchedulerStatus interface {
	NextRunTime() time.Time
	LastRunTime() time.Time
	IsRunning() bool
	RunNow()
}
