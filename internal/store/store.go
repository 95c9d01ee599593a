package store

import (
	"context"
	"errors"
	"time"

	"github.com/valarama/costco-agent-assist/pkg/models"
)

var ErrNotFound = errors.New("resource not found")

// TimeRange selects the dashboard window.
type TimeRange string

const (
	RangeToday TimeRange = "today"
	RangeWeek  TimeRange = "week"
	RangeMonth TimeRange = "month"
)

// ParseTimeRange maps a query value onto a TimeRange, defaulting to today
// for anything unrecognized.
func ParseTimeRange(s string) TimeRange {
	switch TimeRange(s) {
	case RangeWeek:
		return RangeWeek
	case RangeMonth:
		return RangeMonth
	default:
		return RangeToday
	}
}

// Period selects the trend bucket granularity.
type Period string

const (
	PeriodHourly  Period = "hourly"
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// ParsePeriod maps a query value onto a Period, defaulting to daily.
func ParsePeriod(s string) Period {
	switch Period(s) {
	case PeriodHourly:
		return PeriodHourly
	case PeriodWeekly:
		return PeriodWeekly
	case PeriodMonthly:
		return PeriodMonthly
	default:
		return PeriodDaily
	}
}

// LeadFilter restricts the lead list. Status/LeadType equal to "all" or
// empty apply no filter. The 30-day identification window always applies.
type LeadFilter struct {
	Status   string
	LeadType string
	Limit    int
}

// ClampedLimit is the list limit actually applied: the default of 50 when
// unset, capped at 200.
func (f LeadFilter) ClampedLimit() int {
	if f.Limit <= 0 {
		return defaultLeadLimit
	}
	if f.Limit > maxLeadLimit {
		return maxLeadLimit
	}
	return f.Limit
}

// LeadUpdate is a partial update of one lead. Only non-nil optional fields
// are written; Status is required. Last writer wins — there is no
// optimistic-concurrency check and transition legality is not enforced.
type LeadUpdate struct {
	LeadID          string
	Status          string
	ContactedAt     *time.Time
	ConvertedAt     *time.Time
	ConversionValue *float64
	AssignedTo      *string
}

// Store is the warehouse access interface. All analytics queries go
// through here.
type Store interface {
	Ping(ctx context.Context) error

	DashboardSnapshot(ctx context.Context, rng TimeRange) (*models.DashboardSnapshot, error)
	Trends(ctx context.Context, period Period, days int) (*models.TrendReport, error)

	ListLeads(ctx context.Context, filter LeadFilter) ([]*models.Lead, error)
	LeadStats(ctx context.Context) (*models.LeadStats, error)
	UpdateLead(ctx context.Context, update LeadUpdate) ([]string, error)
}
