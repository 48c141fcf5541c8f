package dto

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ShopifyEvent is the raw event payload captured by the storefront pixel.
type ShopifyEvent struct {
	ID        string                 `json:"id" binding:"required"`
	ClientID  string                 `json:"clientId"`
	Name      string                 `json:"name" binding:"required"`
	Timestamp string                 `json:"timestamp" binding:"required"`
	Seq       *int64                 `json:"seq"`
	Type      string                 `json:"type" binding:"required,oneof=standard custom"`
	Version   string                 `json:"version"`
	Source    string                 `json:"source"`
	ShopID    string                 `json:"shopId"`
	Context   map[string]interface{} `json:"context" binding:"required"`
	Data      map[string]interface{} `json:"data" binding:"required"`
}

// TrackEventRequest is the wrapper the pixel posts to POST /api/events.
type TrackEventRequest struct {
	EventData  ShopifyEvent `json:"eventData" binding:"required"`
	ShopDomain string       `json:"shopDomain" binding:"required"`
}

// EventTime parses the producer-supplied ISO-8601 timestamp.
func (r *TrackEventRequest) EventTime() (time.Time, error) {
	return time.Parse(time.RFC3339, r.EventData.Timestamp)
}

// Validate applies the semantic checks JSON binding cannot express and
// returns one detail per offending field, all at once.
func (r *TrackEventRequest) Validate() []ValidationDetail {
	var details []ValidationDetail

	if _, err := r.EventTime(); err != nil {
		details = append(details, ValidationDetail{
			Field:   "eventData.timestamp",
			Message: "must be a valid ISO-8601 timestamp",
		})
	}

	// The context must describe the document location; extra fields are allowed.
	doc, ok := r.EventData.Context["document"].(map[string]interface{})
	if !ok {
		details = append(details, ValidationDetail{
			Field:   "eventData.context.document",
			Message: "context must describe the document",
		})
		return details
	}
	if _, ok := doc["location"].(map[string]interface{}); !ok {
		details = append(details, ValidationDetail{
			Field:   "eventData.context.document.location",
			Message: "context must describe the document location",
		})
	}

	return details
}

// ListEventsRequest holds the query parameters of GET /api/events.
type ListEventsRequest struct {
	Limit      int    `form:"limit,default=50" binding:"min=1,max=1000"`
	Offset     int    `form:"offset,default=0" binding:"min=0"`
	EventName  string `form:"eventName"`
	ShopDomain string `form:"shopDomain"`
	StartDate  string `form:"startDate" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	EndDate    string `form:"endDate" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// GetMetricsRequest holds the query parameters of GET /api/metrics.
type GetMetricsRequest struct {
	Timeframe  string `form:"timeframe,default=24h" binding:"oneof=1h 24h 7d 30d"`
	ShopDomain string `form:"shopDomain"`
}

// DetailsFromBindingError converts a gin binding error into per-field
// validation details so the caller sees every offending field at once.
func DetailsFromBindingError(err error) []ValidationDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationDetail{{Field: "body", Message: err.Error()}}
	}

	details := make([]ValidationDetail, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, ValidationDetail{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("failed validation on the '%s' rule", fe.Tag()),
		})
	}
	return details
}
