package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rachitha15/PixelProbe/internal/analytics"
	"github.com/rachitha15/PixelProbe/internal/domain"
	"github.com/rachitha15/PixelProbe/internal/dto"
	"github.com/rachitha15/PixelProbe/internal/store"
	"github.com/rachitha15/PixelProbe/internal/telemetry"
	"github.com/rachitha15/PixelProbe/internal/ws"
)

// EventService implements the ingestion and read paths over the event store
// and triggers live fan-out on every successful insert.
type EventService struct {
	store       store.EventStore
	aggregator  *analytics.Aggregator
	broadcaster Broadcaster
	log         *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(eventStore store.EventStore, aggregator *analytics.Aggregator, broadcaster Broadcaster, log *zap.Logger) *EventService {
	return &EventService{
		store:       eventStore,
		aggregator:  aggregator,
		broadcaster: broadcaster,
		log:         log,
	}
}

// TrackEvent maps a validated wrapper payload onto the event entity, stores
// it and fans the stored record out to live subscribers. Fan-out failures
// never surface here; ingestion success is independent of delivery.
func (s *EventService) TrackEvent(req *dto.TrackEventRequest) (string, error) {
	started := time.Now()

	eventTime, err := req.EventTime()
	if err != nil {
		// The handler validates the timestamp before calling; reaching this
		// means the request bypassed validation.
		return "", fmt.Errorf("invalid event timestamp: %w", err)
	}

	event := domain.PixelEvent{
		ShopifyEventID: req.EventData.ID,
		ClientID:       req.EventData.ClientID,
		Name:           req.EventData.Name,
		Timestamp:      eventTime,
		Seq:            req.EventData.Seq,
		Type:           req.EventData.Type,
		Version:        req.EventData.Version,
		Source:         req.EventData.Source,
		ShopID:         req.EventData.ShopID,
		Context:        req.EventData.Context,
		Data:           req.EventData.Data,
		ShopDomain:     req.ShopDomain,
	}

	stored := s.store.Insert(event)

	s.broadcaster.Broadcast(ws.TypePixelEvent, stored)

	telemetry.EventsIngested.WithLabelValues(stored.Name).Inc()
	telemetry.IngestLatency.Observe(time.Since(started).Seconds())

	s.log.Info("Event stored",
		zap.String("event_id", stored.ID),
		zap.String("event_name", stored.Name),
		zap.String("shop_domain", stored.ShopDomain))

	return stored.ID, nil
}

// ListEvents returns a filtered, paginated page of stored events, newest
// first.
func (s *EventService) ListEvents(req *dto.ListEventsRequest) ([]domain.PixelEvent, error) {
	opts := store.QueryOptions{
		ShopDomain: req.ShopDomain,
		EventName:  req.EventName,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}

	// Date bounds are pre-validated RFC3339 by the handler binding.
	if req.StartDate != "" {
		start, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			return nil, fmt.Errorf("invalid startDate: %w", err)
		}
		opts.StartDate = &start
	}
	if req.EndDate != "" {
		end, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("invalid endDate: %w", err)
		}
		opts.EndDate = &end
	}

	return s.store.Query(opts), nil
}

// GetEvent returns a single stored event by id.
func (s *EventService) GetEvent(id string) (domain.PixelEvent, bool) {
	return s.store.GetByID(id)
}

// GetMetrics computes the metrics snapshot for the requested timeframe.
func (s *EventService) GetMetrics(req *dto.GetMetricsRequest) (*analytics.MetricsSnapshot, error) {
	period := analytics.PeriodFromTimeframe(req.Timeframe)
	return s.aggregator.ComputeMetrics(req.ShopDomain, period), nil
}

// Reset clears the event store and notifies every live subscriber.
func (s *EventService) Reset() error {
	cleared := s.store.Len()
	s.store.Clear()

	s.broadcaster.Broadcast(ws.TypeReset, map[string]string{
		"message": "All data cleared",
	})

	s.log.Info("Event store reset", zap.Int("events_cleared", cleared))
	return nil
}
