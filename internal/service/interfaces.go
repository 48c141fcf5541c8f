package service

import (
	"github.com/rachitha15/PixelProbe/internal/analytics"
	"github.com/rachitha15/PixelProbe/internal/domain"
	"github.com/rachitha15/PixelProbe/internal/dto"
)

// EventServicer defines the interface for event service operations
type EventServicer interface {
	TrackEvent(req *dto.TrackEventRequest) (string, error)
	ListEvents(req *dto.ListEventsRequest) ([]domain.PixelEvent, error)
	GetEvent(id string) (domain.PixelEvent, bool)
	GetMetrics(req *dto.GetMetricsRequest) (*analytics.MetricsSnapshot, error)
	Reset() error
}

// Broadcaster pushes a tagged message to every live dashboard subscriber.
// Delivery is best-effort; the service never learns about individual send
// failures.
type Broadcaster interface {
	Broadcast(eventType string, data interface{})
}
