package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealthpath/cadence/pkg/duration"
	"github.com/wealthpath/cadence/pkg/jsonbag"
	"github.com/wealthpath/cadence/pkg/percentage"
	"github.com/wealthpath/cadence/pkg/phone"
)

// Schedule is a recurring amount that falls due every Interval, starting at StartAt.
// Times are stored as instants; UTCOffset remembers the offset the schedule was
// created in so calendar arithmetic happens in that offset.
type Schedule struct {
	ID         uuid.UUID             `db:"id" json:"id"`
	Name       string                `db:"name" json:"name"`
	Interval   duration.Duration     `db:"interval_iso" json:"interval"`
	Amount     decimal.Decimal       `db:"amount" json:"amount"`
	Currency   string                `db:"currency" json:"currency"`
	Escalation percentage.Percentage `db:"escalation" json:"escalation"`
	Contact    phone.Number          `db:"contact" json:"contact"`
	Metadata   jsonbag.Bag           `db:"metadata" json:"metadata"`
	UTCOffset  int                   `db:"utc_offset" json:"utcOffset"` // Seconds east of UTC
	StartAt    time.Time             `db:"start_at" json:"startAt"`
	EndAt      *time.Time            `db:"end_at" json:"endAt,omitempty"`
	NextRunAt  time.Time             `db:"next_run_at" json:"nextRunAt"`
	LastRunAt  *time.Time            `db:"last_run_at" json:"lastRunAt,omitempty"`
	RunCount   int                   `db:"run_count" json:"runCount"`
	IsActive   bool                  `db:"is_active" json:"isActive"`
	CreatedAt  time.Time             `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time             `db:"updated_at" json:"updatedAt"`
}

// Location is the fixed zone the schedule was created in.
func (s *Schedule) Location() *time.Location {
	if s.UTCOffset == 0 {
		return time.UTC
	}
	return time.FixedZone("", s.UTCOffset)
}

// NextAfter returns the run that follows t.
func (s *Schedule) NextAfter(t time.Time) time.Time {
	return s.Interval.Apply(t.In(s.Location()))
}

// EndedBy reports whether t lies past the schedule's end.
func (s *Schedule) EndedBy(t time.Time) bool {
	return s.EndAt != nil && t.After(*s.EndAt)
}

// Occurrence is one materialized run of a schedule.
type Occurrence struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	ScheduleID uuid.UUID       `db:"schedule_id" json:"scheduleId"`
	Sequence   int             `db:"sequence" json:"sequence"`
	DueAt      time.Time       `db:"due_at" json:"dueAt"`
	Amount     decimal.Decimal `db:"amount" json:"amount"`
	Currency   string          `db:"currency" json:"currency"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// PlannedRun is a future run computed without being stored.
type PlannedRun struct {
	Sequence int             `json:"sequence"`
	At       time.Time       `json:"at"`
	Amount   decimal.Decimal `json:"amount"`
}
