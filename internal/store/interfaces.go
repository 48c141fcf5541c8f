package store

import (
	"time"

	"github.com/rachitha15/PixelProbe/internal/domain"
)

// QueryOptions filters and paginates an event listing. All supplied filters
// combine as logical AND. A nil StartDate/EndDate leaves that bound open.
type QueryOptions struct {
	ShopDomain string
	EventName  string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

// EventStore defines the interface for pixel event storage operations.
type EventStore interface {
	// Insert assigns a fresh id and ingestion time, stores the event and
	// returns the stored record.
	Insert(event domain.PixelEvent) domain.PixelEvent

	// Query returns matching events sorted by event timestamp descending,
	// paginated by Limit/Offset. Limit defaults to 100 when not positive.
	Query(opts QueryOptions) []domain.PixelEvent

	// GetByID returns a stored event by its assigned id.
	GetByID(id string) (domain.PixelEvent, bool)

	// Window returns events for a shop domain whose timestamp falls in the
	// half-open interval [start, end), in insertion order. A zero start or
	// end leaves that bound open; an empty shopDomain matches every tenant.
	Window(shopDomain string, start, end time.Time) []domain.PixelEvent

	// Clear removes all stored events. Idempotent.
	Clear()

	// Len reports the number of stored events.
	Len() int
}
