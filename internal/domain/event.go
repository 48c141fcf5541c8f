package domain

import "time"

// Common storefront event names emitted by the tracking pixel.
const (
	EventPageViewed         = "page_viewed"
	EventProductViewed      = "product_viewed"
	EventCartUpdated        = "cart_updated"
	EventProductAddedToCart = "product_added_to_cart"
	EventCheckoutStarted    = "checkout_started"
	EventCheckoutCompleted  = "checkout_completed"
)

// PixelEvent represents a single tracked storefront interaction held in the
// event store. Events are write-once: created by the ingestion endpoint,
// never mutated, removed only by a full reset.
type PixelEvent struct {
	// ID is assigned by the store at insertion time and is unique per process.
	ID string `json:"id"`

	// ShopifyEventID is the producer-supplied external id, kept for traceability.
	ShopifyEventID string `json:"shopifyEventId,omitempty"`

	// ClientID is the pseudo-anonymous visitor identifier. Events without a
	// client id are excluded from unique-visitor and session metrics.
	ClientID string `json:"clientId,omitempty"`

	Name string `json:"name"`

	// Timestamp is the producer-supplied event time. It is authoritative for
	// all time-window filtering and may be out of order relative to ingestion
	// order, so readers sort explicitly.
	Timestamp time.Time `json:"timestamp"`

	// Passthrough metadata, not interpreted by aggregation.
	Seq     *int64 `json:"seq,omitempty"`
	Type    string `json:"type,omitempty"`
	Version string `json:"version,omitempty"`
	Source  string `json:"source,omitempty"`
	ShopID  string `json:"shopId,omitempty"`

	// Context carries the document/location description captured by the
	// pixel; Data carries the event-specific payload (cart contents,
	// checkout totals, product info).
	Context map[string]interface{} `json:"context"`
	Data    map[string]interface{} `json:"data"`

	// ShopDomain is the tenant partition key.
	ShopDomain string `json:"shopDomain"`

	// CreatedAt is the server-assigned ingestion time, informational only.
	CreatedAt time.Time `json:"createdAt"`
}
