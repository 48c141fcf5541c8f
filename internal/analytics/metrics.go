package analytics

// MetricsSnapshot is the full set of dashboard metrics computed over one
// time window, together with the comparison against the window of equal
// length immediately preceding it.
type MetricsSnapshot struct {
	TotalEvents      int              `json:"totalEvents"`
	UniqueVisitors   int              `json:"uniqueVisitors"`
	CartUpdates      int              `json:"cartUpdates"`
	ConversionRate   float64          `json:"conversionRate"`
	EventCounts      map[string]int   `json:"eventCounts"`
	TopEvents        []TopEvent       `json:"topEvents"`
	RevenueMetrics   RevenueMetrics   `json:"revenueMetrics"`
	SessionMetrics   SessionMetrics   `json:"sessionMetrics"`
	PeriodComparison PeriodComparison `json:"periodComparison"`
}

// TopEvent is one entry of the top-5 event name leaderboard.
type TopEvent struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// RevenueMetrics aggregates completed-checkout revenue.
type RevenueMetrics struct {
	TotalRevenue      float64 `json:"totalRevenue"`
	AverageOrderValue float64 `json:"averageOrderValue"`
	OrdersCount       int     `json:"ordersCount"`
}

// SessionMetrics aggregates per-visitor session behaviour. A session is the
// group of events sharing a client id inside the window; a bounce is a
// session that saw at most one distinct page path.
type SessionMetrics struct {
	AvgSessionEvents float64 `json:"avgSessionEvents"`
	BounceRate       float64 `json:"bounceRate"`
	ActiveUsers      int     `json:"activeUsers"`
}

// ChangeType classifies a period-over-period movement.
type ChangeType string

const (
	ChangeIncrease ChangeType = "increase"
	ChangeDecrease ChangeType = "decrease"
	ChangeNeutral  ChangeType = "neutral"
)

// Change is the percentage movement of one metric against the previous
// period. A previous value of zero yields {0, neutral}.
type Change struct {
	Value float64    `json:"value"`
	Type  ChangeType `json:"type"`
}

// PeriodComparison compares the four headline metrics against the previous
// period.
type PeriodComparison struct {
	TotalEvents    Change `json:"totalEvents"`
	UniqueVisitors Change `json:"uniqueVisitors"`
	CartUpdates    Change `json:"cartUpdates"`
	ConversionRate Change `json:"conversionRate"`
}
