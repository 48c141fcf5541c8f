package dto

import (
	"github.com/rachitha15/PixelProbe/internal/analytics"
	"github.com/rachitha15/PixelProbe/internal/domain"
)

// ValidationDetail identifies a single offending request field.
type ValidationDetail struct {
	Field   string `json:"field" example:"eventData.name"`
	Message string `json:"message" example:"failed validation on the 'required' rule"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Success bool               `json:"success" example:"false"`
	Error   string             `json:"error" example:"Invalid event data"`
	Details []ValidationDetail `json:"details,omitempty"`
}

// TrackEventResponse represents a successful event ingestion response
type TrackEventResponse struct {
	Success bool   `json:"success" example:"true"`
	EventID string `json:"eventId" example:"7f6c1d9e-0c4b-4d9a-9b6e-2f1a8c3d5e7f"`
	Message string `json:"message" example:"Event received successfully"`
}

// Pagination describes the window returned by a list query. HasMore is a
// heuristic: true exactly when the page came back full.
type Pagination struct {
	Limit   int  `json:"limit" example:"50"`
	Offset  int  `json:"offset" example:"0"`
	HasMore bool `json:"hasMore" example:"true"`
}

// ListEventsResponse represents the GET /api/events response
type ListEventsResponse struct {
	Success    bool                `json:"success" example:"true"`
	Events     []domain.PixelEvent `json:"events"`
	Pagination Pagination          `json:"pagination"`
}

// GetEventResponse represents the GET /api/events/:id response
type GetEventResponse struct {
	Success bool              `json:"success" example:"true"`
	Event   domain.PixelEvent `json:"event"`
}

// GetMetricsResponse represents the GET /api/metrics response
type GetMetricsResponse struct {
	Success     bool                       `json:"success" example:"true"`
	Metrics     *analytics.MetricsSnapshot `json:"metrics"`
	Timeframe   string                     `json:"timeframe" example:"24h"`
	GeneratedAt string                     `json:"generated_at" example:"2025-06-01T12:00:00Z"`
}

// StatusResponse is shared by GET /api/health and POST /api/reset
type StatusResponse struct {
	Success   bool   `json:"success" example:"true"`
	Message   string `json:"message" example:"PixelProbe analytics API is running"`
	Timestamp string `json:"timestamp" example:"2025-06-01T12:00:00Z"`
}
