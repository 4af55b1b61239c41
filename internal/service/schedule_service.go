package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthpath/cadence/internal/logger"
	"github.com/wealthpath/cadence/internal/model"
	"github.com/wealthpath/cadence/internal/repository"
	"github.com/wealthpath/cadence/pkg/currency"
	"github.com/wealthpath/cadence/pkg/datetime"
	"github.com/wealthpath/cadence/pkg/duration"
	"github.com/wealthpath/cadence/pkg/jsonbag"
	"github.com/wealthpath/cadence/pkg/percentage"
	"github.com/wealthpath/cadence/pkg/phone"
)

// Service-level errors for schedules.
var (
	ErrScheduleNotFound     = errors.New("schedule not found")
	ErrInvalidName          = errors.New("name is required")
	ErrInvalidAmount        = errors.New("amount must not be negative")
	ErrInvalidCurrency      = errors.New("unsupported currency")
	ErrNonAdvancingInterval = errors.New("interval must move time forward")
	ErrInvalidEnd           = errors.New("end must not be before start")
)

// maxCatchUp bounds how many missed runs one schedule may record per ProcessDue call.
const maxCatchUp = 100

// maxRederiveSteps bounds the walk from StartAt when a schedule is rescheduled.
const maxRederiveSteps = 100000

// ScheduleRepositoryInterface defines the contract for schedule data access.
// Implementations must be safe for concurrent use.
type ScheduleRepositoryInterface interface {
	Create(ctx context.Context, s *model.Schedule) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
	List(ctx context.Context, activeOnly bool) ([]model.Schedule, error)
	Update(ctx context.Context, s *model.Schedule) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetDue(ctx context.Context, now time.Time) ([]model.Schedule, error)
	RecordRun(ctx context.Context, s *model.Schedule, occ *model.Occurrence) error
}

// OccurrenceLister reads the run history of a schedule.
type OccurrenceLister interface {
	ListBySchedule(ctx context.Context, scheduleID uuid.UUID, limit int) ([]model.Occurrence, error)
}

// ScheduleOptions carries the defaults applied when input leaves a field out.
type ScheduleOptions struct {
	DefaultInterval duration.Duration
	DefaultCurrency string
	PreviewCount    int
	MaxPreview      int
	HistoryLimit    int
}

// DefaultScheduleOptions mirrors the configuration defaults.
func DefaultScheduleOptions() ScheduleOptions {
	return ScheduleOptions{
		DefaultInterval: duration.New(duration.Fields{Months: duration.Of(1)}),
		DefaultCurrency: string(currency.Default),
		PreviewCount:    12,
		MaxPreview:      366,
		HistoryLimit:    100,
	}
}

// ScheduleService handles business logic for recurring schedules: validation,
// previews and materializing runs that have fallen due.
type ScheduleService struct {
	repo        ScheduleRepositoryInterface
	occurrences OccurrenceLister
	opts        ScheduleOptions
	now         func() time.Time
}

// NewScheduleService creates a new ScheduleService with the given repositories.
func NewScheduleService(repo ScheduleRepositoryInterface, occurrences OccurrenceLister, opts ScheduleOptions) *ScheduleService {
	defaults := DefaultScheduleOptions()
	if opts.DefaultInterval.IsEmpty() {
		opts.DefaultInterval = defaults.DefaultInterval
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = defaults.DefaultCurrency
	}
	if opts.PreviewCount <= 0 {
		opts.PreviewCount = defaults.PreviewCount
	}
	if opts.MaxPreview <= 0 {
		opts.MaxPreview = defaults.MaxPreview
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaults.HistoryLimit
	}
	return &ScheduleService{
		repo:        repo,
		occurrences: occurrences,
		opts:        opts,
		now:         time.Now,
	}
}

type CreateScheduleInput struct {
	Name       string                `json:"name"`
	Interval   *duration.Duration    `json:"interval"`
	Amount     decimal.Decimal       `json:"amount"`
	Currency   string                `json:"currency"`
	Escalation percentage.Percentage `json:"escalation"`
	Contact    phone.Number          `json:"contact"`
	Metadata   jsonbag.Bag           `json:"metadata"`
	StartAt    datetime.Timestamp    `json:"startAt"`
	EndAt      *datetime.Timestamp   `json:"endAt"`
}

type UpdateScheduleInput struct {
	Name       *string                `json:"name"`
	Interval   *duration.Duration     `json:"interval"`
	Amount     *decimal.Decimal       `json:"amount"`
	Currency   *string                `json:"currency"`
	Escalation *percentage.Percentage `json:"escalation"`
	Contact    *phone.Number          `json:"contact"`
	Metadata   *jsonbag.Bag           `json:"metadata"`
	StartAt    *datetime.Timestamp    `json:"startAt"`
	EndAt      *datetime.Timestamp    `json:"endAt"`
	IsActive   *bool                  `json:"isActive"`
}

// Create validates input and stores a new active schedule whose first run is StartAt.
// A missing start means now; a missing interval or currency takes the configured default.
func (s *ScheduleService) Create(ctx context.Context, input CreateScheduleInput) (*model.Schedule, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	if input.Amount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	code := input.Currency
	if code == "" {
		code = s.opts.DefaultCurrency
	}
	curr, err := currency.Parse(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCurrency, code)
	}

	interval := s.opts.DefaultInterval
	if input.Interval != nil {
		interval = *input.Interval
	}

	start := input.StartAt.Time
	if start.IsZero() {
		start = s.now()
	}
	_, offset := start.Zone()

	sched := &model.Schedule{
		Name:       name,
		Interval:   interval,
		Amount:     input.Amount,
		Currency:   string(curr),
		Escalation: input.Escalation,
		Contact:    input.Contact,
		Metadata:   input.Metadata,
		UTCOffset:  offset,
		StartAt:    start,
		NextRunAt:  start,
		IsActive:   true,
	}
	if input.EndAt != nil && !input.EndAt.IsZero() {
		end := input.EndAt.Time
		sched.EndAt = &end
	}

	if err := validateTiming(sched); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, sched); err != nil {
		return nil, fmt.Errorf("creating schedule: %w", err)
	}

	logger.FromContext(logger.WithScheduleID(ctx, sched.ID.String())).Info("schedule created",
		"interval", sched.Interval.String(),
		"next_run_at", datetime.Format(sched.NextRunAt),
	)
	return sched, nil
}

func validateTiming(sched *model.Schedule) error {
	if !sched.NextAfter(sched.StartAt).After(sched.StartAt) {
		return fmt.Errorf("%w: %s", ErrNonAdvancingInterval, sched.Interval)
	}
	// Canonical text drops negative components, so such an interval would not survive storage.
	if hasNegative(sched.Interval) {
		return fmt.Errorf("%w: negative components are not allowed", ErrNonAdvancingInterval)
	}
	if sched.EndAt != nil && sched.EndAt.Before(sched.StartAt) {
		return ErrInvalidEnd
	}
	return nil
}

func hasNegative(d duration.Duration) bool {
	f := d.Fields()
	for _, v := range []*float64{f.Years, f.Months, f.Weeks, f.Days, f.Hours, f.Minutes, f.Seconds} {
		if v != nil && *v < 0 {
			return true
		}
	}
	return false
}

// Get retrieves a schedule by ID.
func (s *ScheduleService) Get(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	sched, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFound(id, err)
	}
	return sched, nil
}

// List returns schedules ordered by their next run.
func (s *ScheduleService) List(ctx context.Context, activeOnly bool) ([]model.Schedule, error) {
	schedules, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	return schedules, nil
}

// Update modifies an existing schedule. Changing the interval or the start
// re-derives the next run as the first one after the newest recorded
// occurrence, so runs still waiting to be caught up are kept.
func (s *ScheduleService) Update(ctx context.Context, id uuid.UUID, input UpdateScheduleInput) (*model.Schedule, error) {
	sched, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFound(id, err)
	}

	reschedule := false
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		sched.Name = name
	}
	if input.Amount != nil {
		if input.Amount.IsNegative() {
			return nil, ErrInvalidAmount
		}
		sched.Amount = *input.Amount
	}
	if input.Currency != nil {
		curr, err := currency.Parse(*input.Currency)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidCurrency, *input.Currency)
		}
		sched.Currency = string(curr)
	}
	if input.Escalation != nil {
		sched.Escalation = *input.Escalation
	}
	if input.Contact != nil {
		sched.Contact = *input.Contact
	}
	if input.Metadata != nil {
		sched.Metadata = *input.Metadata
	}
	if input.Interval != nil {
		sched.Interval = *input.Interval
		reschedule = true
	}
	if input.StartAt != nil && !input.StartAt.IsZero() {
		sched.StartAt = input.StartAt.Time
		_, sched.UTCOffset = sched.StartAt.Zone()
		reschedule = true
	}
	if input.EndAt != nil {
		if input.EndAt.IsZero() {
			sched.EndAt = nil
		} else {
			end := input.EndAt.Time
			sched.EndAt = &end
		}
	}
	if input.IsActive != nil {
		sched.IsActive = *input.IsActive
	}

	if err := validateTiming(sched); err != nil {
		return nil, err
	}
	if reschedule {
		lastDue, err := s.lastDue(ctx, sched)
		if err != nil {
			return nil, err
		}
		next, err := rederive(sched, lastDue)
		if err != nil {
			return nil, err
		}
		sched.NextRunAt = next
	}

	if err := s.repo.Update(ctx, sched); err != nil {
		return nil, s.notFound(id, err)
	}
	return sched, nil
}

// lastDue returns when the newest recorded occurrence was due, or nil when
// the schedule never ran.
func (s *ScheduleService) lastDue(ctx context.Context, sched *model.Schedule) (*time.Time, error) {
	if sched.RunCount == 0 {
		return nil, nil
	}
	occs, err := s.occurrences.ListBySchedule(ctx, sched.ID, 1)
	if err != nil {
		return nil, fmt.Errorf("finding last occurrence of schedule %s: %w", sched.ID, err)
	}
	if len(occs) == 0 {
		return nil, nil
	}
	return &occs[0].DueAt, nil
}

// rederive finds the first run of the schedule that has not been recorded:
// StartAt when lastDue is nil, else the first run after lastDue.
func rederive(sched *model.Schedule, lastDue *time.Time) (time.Time, error) {
	at := sched.StartAt.In(sched.Location())
	if lastDue == nil {
		return at, nil
	}
	for i := 0; i < maxRederiveSteps; i++ {
		if at.After(*lastDue) {
			return at, nil
		}
		next := sched.NextAfter(at)
		if !next.After(at) {
			return time.Time{}, fmt.Errorf("%w: %s", ErrNonAdvancingInterval, sched.Interval)
		}
		at = next
	}
	return time.Time{}, fmt.Errorf("rescheduling %s: too many runs since start", sched.ID)
}

// Delete removes a schedule and its history.
func (s *ScheduleService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.notFound(id, err)
	}
	return nil
}

// Pause stops a schedule from running until it is resumed.
func (s *ScheduleService) Pause(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	active := false
	return s.Update(ctx, id, UpdateScheduleInput{IsActive: &active})
}

// Resume reactivates a paused schedule. Runs missed while paused are caught up
// by the next ProcessDue.
func (s *ScheduleService) Resume(ctx context.Context, id uuid.UUID) (*model.Schedule, error) {
	active := true
	return s.Update(ctx, id, UpdateScheduleInput{IsActive: &active})
}

// Preview computes the next count runs of a schedule without storing them.
// count defaults to the configured preview size and is capped by MaxPreview.
func (s *ScheduleService) Preview(ctx context.Context, id uuid.UUID, count int) ([]model.PlannedRun, error) {
	if count <= 0 {
		count = s.opts.PreviewCount
	}
	if count > s.opts.MaxPreview {
		count = s.opts.MaxPreview
	}

	sched, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.notFound(id, err)
	}

	runs := make([]model.PlannedRun, 0, count)
	at := sched.NextRunAt.In(sched.Location())
	money := currency.NewMoney(sched.Amount, currency.Currency(sched.Currency))
	for i := 0; i < count; i++ {
		if sched.EndedBy(at) {
			break
		}
		runs = append(runs, model.PlannedRun{
			Sequence: sched.RunCount + i + 1,
			At:       at,
			Amount:   money.Amount,
		})
		next := sched.NextAfter(at)
		if !next.After(at) {
			break
		}
		at = next
		money = money.Escalate(sched.Escalation)
	}
	return runs, nil
}

// Occurrences returns the most recent runs of a schedule, newest first.
func (s *ScheduleService) Occurrences(ctx context.Context, id uuid.UUID, limit int) ([]model.Occurrence, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, s.notFound(id, err)
	}
	if limit <= 0 || limit > s.opts.HistoryLimit {
		limit = s.opts.HistoryLimit
	}
	occs, err := s.occurrences.ListBySchedule(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("listing occurrences for schedule %s: %w", id, err)
	}
	return occs, nil
}

// ProcessDue records every run that is due at now. Missed runs are caught up
// one occurrence at a time. A schedule that fails is logged and skipped; the
// number of recorded occurrences is returned.
func (s *ScheduleService) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.GetDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("getting due schedules: %w", err)
	}

	processed := 0
	for i := range due {
		sched := &due[i]
		schedCtx := logger.WithScheduleID(ctx, sched.ID.String())
		log := logger.FromContext(schedCtx)

		for runs := 0; runs < maxCatchUp && sched.IsActive && !sched.NextRunAt.After(now); runs++ {
			if ctx.Err() != nil {
				return processed, ctx.Err()
			}
			recorded, err := s.runOnce(schedCtx, sched, now)
			if err != nil {
				log.Error("failed to process schedule", "error", err)
				break
			}
			if !recorded {
				break
			}
			processed++
		}
	}

	return processed, nil
}

// runOnce materializes the run at sched.NextRunAt and advances the schedule.
// It reports false when the schedule had already ended and was only deactivated.
func (s *ScheduleService) runOnce(ctx context.Context, sched *model.Schedule, now time.Time) (bool, error) {
	log := logger.FromContext(ctx)

	if sched.EndedBy(sched.NextRunAt) {
		sched.IsActive = false
		if err := s.repo.Update(ctx, sched); err != nil {
			return false, fmt.Errorf("deactivating ended schedule: %w", err)
		}
		log.Info("schedule ended", "end_at", datetime.Format(*sched.EndAt))
		return false, nil
	}

	occ := &model.Occurrence{
		ScheduleID: sched.ID,
		Sequence:   sched.RunCount + 1,
		DueAt:      sched.NextRunAt,
		Amount:     sched.Amount,
		Currency:   sched.Currency,
	}

	ranAt := now
	next := sched.NextAfter(sched.NextRunAt)
	sched.LastRunAt = &ranAt
	sched.RunCount++
	sched.Amount = currency.NewMoney(sched.Amount, currency.Currency(sched.Currency)).Escalate(sched.Escalation).Amount

	switch {
	case !next.After(occ.DueAt):
		log.Warn("interval no longer advances, deactivating", "interval", sched.Interval.String())
		sched.IsActive = false
	default:
		sched.NextRunAt = next
		if sched.EndedBy(next) {
			sched.IsActive = false
		}
	}

	if err := s.repo.RecordRun(ctx, sched, occ); err != nil {
		return false, fmt.Errorf("recording run %d: %w", occ.Sequence, err)
	}

	log.Debug("recorded occurrence",
		"sequence", occ.Sequence,
		"due_at", datetime.Format(occ.DueAt),
		"amount", occ.Amount.String(),
	)
	return true, nil
}

func (s *ScheduleService) notFound(id uuid.UUID, err error) error {
	if errors.Is(err, repository.ErrScheduleNotFound) {
		return ErrScheduleNotFound
	}
	return fmt.Errorf("schedule %s: %w", id, err)
}
