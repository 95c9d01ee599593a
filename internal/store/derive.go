package store

import (
	"math"
	"time"

	"github.com/valarama/costco-agent-assist/pkg/models"
)

// rate returns part/total*100 rounded to one decimal, or 0 when total is 0.
func rate(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(float64(part) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// changeMetrics compares the two most recent buckets of a chronologically
// ordered series. Nil when fewer than two buckets exist.
func changeMetrics(series []models.TrendPoint) *models.ChangeMetrics {
	if len(series) < 2 {
		return nil
	}
	latest := series[len(series)-1]
	previous := series[len(series)-2]

	return &models.ChangeMetrics{
		ConversationChange: latest.ConversationCount - previous.ConversationCount,
		SentimentChange:    round3(latest.AvgSentiment - previous.AvgSentiment),
		ResolutionChange:   round1(latest.ResolutionRate - previous.ResolutionRate),
		LeadsChange:        latest.LeadsCount - previous.LeadsCount,
	}
}

// truncUnit is the date_trunc unit for a period. Periods are validated
// enums, so the unit is safe to splice into SQL.
func (p Period) truncUnit() string {
	switch p {
	case PeriodHourly:
		return "hour"
	case PeriodWeekly:
		return "week"
	case PeriodMonthly:
		return "month"
	default:
		return "day"
	}
}

// bucketLabel formats a bucket timestamp for the trend series.
func (p Period) bucketLabel(t time.Time) string {
	switch p {
	case PeriodHourly:
		return t.Format("2006-01-02 15:00")
	case PeriodMonthly:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// condition is the WHERE predicate for a dashboard time range. Ranges are
// validated enums, never raw client input.
func (r TimeRange) condition() string {
	switch r {
	case RangeWeek:
		return `"timestamp" >= NOW() - INTERVAL '7 days'`
	case RangeMonth:
		return `"timestamp" >= NOW() - INTERVAL '30 days'`
	default:
		return `"timestamp"::date = CURRENT_DATE`
	}
}
