package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rachitha15/PixelProbe/internal/domain"
)

const defaultQueryLimit = 100

// MemStore is an in-memory, mutex-guarded event store. Reads and writes are
// atomic with respect to each other; there is no capacity bound and no
// durability, a process restart loses everything.
type MemStore struct {
	mu     sync.RWMutex
	events map[string]domain.PixelEvent
	order  []string // ids in insertion order
}

// NewMemStore creates an empty in-memory event store.
func NewMemStore() *MemStore {
	return &MemStore{
		events: make(map[string]domain.PixelEvent),
	}
}

// Insert assigns a fresh unique id and server timestamp, stores the event
// and returns the stored record.
func (s *MemStore) Insert(event domain.PixelEvent) domain.PixelEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = uuid.New().String()
	event.CreatedAt = time.Now().UTC()

	s.events[event.ID] = event
	s.order = append(s.order, event.ID)

	return event
}

// Query applies all supplied filters, sorts by event timestamp descending
// and applies offset/limit pagination. The scan is linear over the full
// collection, which is acceptable at dashboard-grade volumes.
func (s *MemStore) Query(opts QueryOptions) []domain.PixelEvent {
	s.mu.RLock()

	matched := make([]domain.PixelEvent, 0, len(s.order))
	for _, id := range s.order {
		event := s.events[id]
		if opts.ShopDomain != "" && event.ShopDomain != opts.ShopDomain {
			continue
		}
		if opts.EventName != "" && event.Name != opts.EventName {
			continue
		}
		if opts.StartDate != nil && event.Timestamp.Before(*opts.StartDate) {
			continue
		}
		if opts.EndDate != nil && event.Timestamp.After(*opts.EndDate) {
			continue
		}
		matched = append(matched, event)
	}
	s.mu.RUnlock()

	// Newest first; equal timestamps keep insertion order so pagination
	// stays deterministic.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	if offset >= len(matched) {
		return []domain.PixelEvent{}
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end]
}

// GetByID returns a stored event by its assigned id.
func (s *MemStore) GetByID(id string) (domain.PixelEvent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	return event, ok
}

// Window returns events for a shop domain whose timestamp falls in the
// half-open interval [start, end), in insertion order.
func (s *MemStore) Window(shopDomain string, start, end time.Time) []domain.PixelEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]domain.PixelEvent, 0, len(s.order))
	for _, id := range s.order {
		event := s.events[id]
		if shopDomain != "" && event.ShopDomain != shopDomain {
			continue
		}
		if !start.IsZero() && event.Timestamp.Before(start) {
			continue
		}
		if !end.IsZero() && !event.Timestamp.Before(end) {
			continue
		}
		matched = append(matched, event)
	}
	return matched
}

// Clear removes all stored events.
func (s *MemStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = make(map[string]domain.PixelEvent)
	s.order = nil
}

// Len reports the number of stored events.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.events)
}
