package analytics

import "time"

// Period is a named relative time window used to scope metrics.
type Period string

const (
	PeriodLastHour  Period = "last_1h"
	PeriodLast24h   Period = "last_24h"
	PeriodLastWeek  Period = "last_week"
	PeriodLastMonth Period = "last_month"
)

// PeriodFromTimeframe maps the public timeframe query values onto periods.
// Unrecognized values fall back to the 24 hour window.
func PeriodFromTimeframe(timeframe string) Period {
	switch timeframe {
	case "1h":
		return PeriodLastHour
	case "24h":
		return PeriodLast24h
	case "7d":
		return PeriodLastWeek
	case "30d":
		return PeriodLastMonth
	default:
		return PeriodLast24h
	}
}

// window returns the period length. Unrecognized periods report zero,
// which callers treat as "no lower bound".
func (p Period) window() time.Duration {
	switch p {
	case PeriodLastHour:
		return time.Hour
	case PeriodLast24h:
		return 24 * time.Hour
	case PeriodLastWeek:
		return 7 * 24 * time.Hour
	case PeriodLastMonth:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}
