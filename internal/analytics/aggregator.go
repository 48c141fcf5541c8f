package analytics

import (
	"math"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rachitha15/PixelProbe/internal/domain"
	"github.com/rachitha15/PixelProbe/internal/store"
)

// Aggregator computes dashboard metrics over the event store's contents.
// Computation is synchronous and bounded by the collection size.
type Aggregator struct {
	store store.EventStore
	log   *zap.Logger
	now   func() time.Time
}

// NewAggregator creates a new metrics aggregator over the given store.
func NewAggregator(eventStore store.EventStore, log *zap.Logger) *Aggregator {
	return &Aggregator{
		store: eventStore,
		log:   log,
		now:   time.Now,
	}
}

// headline carries the four metrics that participate in period comparison.
type headline struct {
	totalEvents        int
	uniqueVisitors     int
	cartUpdates        int
	completedCheckouts int
	conversionRate     float64
}

// ComputeMetrics computes the full metrics snapshot for one shop domain
// (empty means all tenants) over the given period. An empty event set at
// any stage yields all-zero metrics.
func (a *Aggregator) ComputeMetrics(shopDomain string, period Period) *MetricsSnapshot {
	now := a.now()
	window := period.window()

	var start time.Time
	if window > 0 {
		start = now.Add(-window)
	}

	events := a.store.Window(shopDomain, start, time.Time{})
	current := summarize(events)

	snapshot := &MetricsSnapshot{
		TotalEvents:    current.totalEvents,
		UniqueVisitors: current.uniqueVisitors,
		CartUpdates:    current.cartUpdates,
		ConversionRate: round2(current.conversionRate),
		EventCounts:    countByName(events),
		TopEvents:      topEvents(events, 5),
		RevenueMetrics: revenueMetrics(events, current.completedCheckouts),
		SessionMetrics: sessionMetrics(events, current.totalEvents, current.uniqueVisitors),
	}

	// Previous period of equal length immediately preceding the current
	// window, half-open on the boundary. Without a bounded window there is
	// no previous period and every comparison stays neutral.
	var previous headline
	if window > 0 {
		previousEvents := a.store.Window(shopDomain, now.Add(-2*window), start)
		previous = summarize(previousEvents)
	}

	snapshot.PeriodComparison = PeriodComparison{
		TotalEvents:    change(float64(current.totalEvents), float64(previous.totalEvents)),
		UniqueVisitors: change(float64(current.uniqueVisitors), float64(previous.uniqueVisitors)),
		CartUpdates:    change(float64(current.cartUpdates), float64(previous.cartUpdates)),
		ConversionRate: change(current.conversionRate, previous.conversionRate),
	}

	a.log.Debug("Computed metrics snapshot",
		zap.String("shop_domain", shopDomain),
		zap.String("period", string(period)),
		zap.Int("total_events", snapshot.TotalEvents),
		zap.Int("unique_visitors", snapshot.UniqueVisitors))

	return snapshot
}

func summarize(events []domain.PixelEvent) headline {
	var h headline
	h.totalEvents = len(events)

	visitors := make(map[string]struct{})
	for _, event := range events {
		if event.ClientID != "" {
			visitors[event.ClientID] = struct{}{}
		}
		switch event.Name {
		case domain.EventCartUpdated, domain.EventProductAddedToCart:
			h.cartUpdates++
		case domain.EventCheckoutCompleted:
			h.completedCheckouts++
		}
	}
	h.uniqueVisitors = len(visitors)

	if h.uniqueVisitors > 0 {
		h.conversionRate = float64(h.completedCheckouts) / float64(h.uniqueVisitors) * 100
	}
	return h
}

func countByName(events []domain.PixelEvent) map[string]int {
	counts := make(map[string]int)
	for _, event := range events {
		counts[event.Name]++
	}
	return counts
}

// topEvents returns the n most frequent event names, ties broken by the
// order in which a name was first seen.
func topEvents(events []domain.PixelEvent, n int) []TopEvent {
	counts := make(map[string]int)
	names := make([]string, 0)
	for _, event := range events {
		if _, seen := counts[event.Name]; !seen {
			names = append(names, event.Name)
		}
		counts[event.Name]++
	}

	top := make([]TopEvent, 0, len(names))
	for _, name := range names {
		top = append(top, TopEvent{Name: name, Count: counts[name]})
	}
	// Stable sort keeps first-seen order between equal counts.
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})

	if len(top) > n {
		top = top[:n]
	}
	return top
}

func revenueMetrics(events []domain.PixelEvent, completedCheckouts int) RevenueMetrics {
	var total float64
	for _, event := range events {
		if event.Name != domain.EventCheckoutCompleted {
			continue
		}
		total += orderAmount(event.Data)
	}

	var average float64
	if completedCheckouts > 0 {
		average = total / float64(completedCheckouts)
	}

	return RevenueMetrics{
		TotalRevenue:      round2(total),
		AverageOrderValue: round2(average),
		OrdersCount:       completedCheckouts,
	}
}

// orderAmount digs data.checkout.totalPrice.amount out of a completed
// checkout payload, falling back to data.order.totalPrice.amount. A missing
// or unparseable amount contributes zero.
func orderAmount(data map[string]interface{}) float64 {
	for _, key := range []string{"checkout", "order"} {
		container, ok := data[key].(map[string]interface{})
		if !ok {
			continue
		}
		totalPrice, ok := container["totalPrice"].(map[string]interface{})
		if !ok {
			continue
		}
		switch amount := totalPrice["amount"].(type) {
		case float64:
			return amount
		case string:
			if parsed, err := strconv.ParseFloat(amount, 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}

func sessionMetrics(events []domain.PixelEvent, totalEvents, uniqueVisitors int) SessionMetrics {
	type session struct {
		events int
		pages  map[string]struct{}
	}

	sessions := make(map[string]*session)
	for _, event := range events {
		if event.ClientID == "" {
			continue
		}
		s, ok := sessions[event.ClientID]
		if !ok {
			s = &session{pages: make(map[string]struct{})}
			sessions[event.ClientID] = s
		}
		s.events++
		if path := pagePath(event.Context); path != "" {
			s.pages[path] = struct{}{}
		}
	}

	metrics := SessionMetrics{ActiveUsers: uniqueVisitors}
	if len(sessions) == 0 {
		return metrics
	}

	bounced := 0
	for _, s := range sessions {
		if len(s.pages) <= 1 {
			bounced++
		}
	}

	metrics.AvgSessionEvents = round2(float64(totalEvents) / float64(len(sessions)))
	metrics.BounceRate = round2(float64(bounced) / float64(len(sessions)) * 100)
	return metrics
}

// pagePath extracts context.document.location.pathname when present.
func pagePath(context map[string]interface{}) string {
	doc, ok := context["document"].(map[string]interface{})
	if !ok {
		return ""
	}
	location, ok := doc["location"].(map[string]interface{})
	if !ok {
		return ""
	}
	path, _ := location["pathname"].(string)
	return path
}

// change computes the period-over-period movement of one metric.
func change(current, previous float64) Change {
	if previous == 0 {
		return Change{Value: 0, Type: ChangeNeutral}
	}

	delta := (current - previous) / previous * 100
	c := Change{Value: round2(math.Abs(delta))}
	switch {
	case delta > 0:
		c.Type = ChangeIncrease
	case delta < 0:
		c.Type = ChangeDecrease
	default:
		c.Type = ChangeNeutral
	}
	return c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
