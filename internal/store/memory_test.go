package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rachitha15/PixelProbe/internal/domain"
)

func testEvent(name, shopDomain, clientID string, ts time.Time) domain.PixelEvent {
	return domain.PixelEvent{
		Name:       name,
		ClientID:   clientID,
		Timestamp:  ts,
		Context:    map[string]interface{}{},
		Data:       map[string]interface{}{},
		ShopDomain: shopDomain,
	}
}

func TestMemStore_Insert_AssignsIDAndCreatedAt(t *testing.T) {
	s := NewMemStore()

	stored := s.Insert(testEvent("page_viewed", "shop.example", "c1", time.Now()))

	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())

	fetched, ok := s.GetByID(stored.ID)
	assert.True(t, ok)
	assert.Equal(t, stored.ID, fetched.ID)
	assert.Equal(t, "page_viewed", fetched.Name)
}

func TestMemStore_Insert_UniqueIDs(t *testing.T) {
	s := NewMemStore()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		stored := s.Insert(testEvent("page_viewed", "shop.example", "c1", time.Now()))
		assert.False(t, seen[stored.ID])
		seen[stored.ID] = true
	}
	assert.Equal(t, 100, s.Len())
}

func TestMemStore_Query_FiltersCombineAsAND(t *testing.T) {
	s := NewMemStore()
	now := time.Now()

	s.Insert(testEvent("page_viewed", "a.example", "c1", now))
	s.Insert(testEvent("page_viewed", "b.example", "c2", now))
	s.Insert(testEvent("cart_updated", "a.example", "c1", now))

	events := s.Query(QueryOptions{ShopDomain: "a.example", EventName: "page_viewed"})

	assert.Len(t, events, 1)
	assert.Equal(t, "page_viewed", events[0].Name)
	assert.Equal(t, "a.example", events[0].ShopDomain)
}

func TestMemStore_Query_DateBounds(t *testing.T) {
	s := NewMemStore()
	now := time.Now()

	s.Insert(testEvent("page_viewed", "a.example", "c1", now.Add(-3*time.Hour)))
	s.Insert(testEvent("page_viewed", "a.example", "c1", now.Add(-2*time.Hour)))
	s.Insert(testEvent("page_viewed", "a.example", "c1", now.Add(-1*time.Hour)))

	start := now.Add(-150 * time.Minute)
	end := now.Add(-90 * time.Minute)
	events := s.Query(QueryOptions{StartDate: &start, EndDate: &end})

	assert.Len(t, events, 1)
	assert.Equal(t, now.Add(-2*time.Hour).Unix(), events[0].Timestamp.Unix())
}

func TestMemStore_Query_SortsTimestampDescending(t *testing.T) {
	s := NewMemStore()
	now := time.Now()

	// Inserted out of order on purpose; timestamp is caller-controlled.
	s.Insert(testEvent("e", "shop.example", "c1", now.Add(-2*time.Hour)))
	s.Insert(testEvent("e", "shop.example", "c1", now))
	s.Insert(testEvent("e", "shop.example", "c1", now.Add(-1*time.Hour)))

	events := s.Query(QueryOptions{})

	assert.Len(t, events, 3)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Timestamp.After(events[i-1].Timestamp))
	}
}

func TestMemStore_Query_PaginationSlicesAreDisjointAndComplete(t *testing.T) {
	s := NewMemStore()
	now := time.Now()

	for i := 0; i < 20; i++ {
		s.Insert(testEvent(fmt.Sprintf("e%d", i), "shop.example", "c1", now.Add(-time.Duration(i)*time.Minute)))
	}

	first := s.Query(QueryOptions{Limit: 5, Offset: 0})
	second := s.Query(QueryOptions{Limit: 5, Offset: 5})
	combined := s.Query(QueryOptions{Limit: 10, Offset: 0})

	assert.Len(t, first, 5)
	assert.Len(t, second, 5)
	assert.Len(t, combined, 10)

	ids := make(map[string]bool)
	for _, e := range append(first, second...) {
		assert.False(t, ids[e.ID], "pages must be disjoint")
		ids[e.ID] = true
	}

	for i, e := range append(first, second...) {
		assert.Equal(t, combined[i].ID, e.ID)
	}
}

func TestMemStore_Query_OffsetPastEnd(t *testing.T) {
	s := NewMemStore()
	s.Insert(testEvent("e", "shop.example", "c1", time.Now()))

	events := s.Query(QueryOptions{Limit: 10, Offset: 50})

	assert.Empty(t, events)
}

func TestMemStore_GetByID_Absent(t *testing.T) {
	s := NewMemStore()

	_, ok := s.GetByID("missing")

	assert.False(t, ok)
}

func TestMemStore_Clear_EmptiesEveryFilter(t *testing.T) {
	s := NewMemStore()
	for i := 0; i < 10; i++ {
		s.Insert(testEvent("page_viewed", "shop.example", "c1", time.Now()))
	}

	s.Clear()
	s.Clear() // idempotent

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Query(QueryOptions{}))
	assert.Empty(t, s.Query(QueryOptions{ShopDomain: "shop.example"}))
	assert.Empty(t, s.Window("", time.Time{}, time.Time{}))
}

func TestMemStore_Window_HalfOpenInterval(t *testing.T) {
	s := NewMemStore()
	now := time.Now()
	boundary := now.Add(-time.Hour)

	s.Insert(testEvent("inside", "shop.example", "c1", boundary.Add(-time.Minute)))
	s.Insert(testEvent("on-boundary", "shop.example", "c1", boundary))
	s.Insert(testEvent("after", "shop.example", "c1", now))

	events := s.Window("shop.example", now.Add(-2*time.Hour), boundary)

	assert.Len(t, events, 1)
	assert.Equal(t, "inside", events[0].Name)
}

func TestMemStore_Window_PreservesInsertionOrder(t *testing.T) {
	s := NewMemStore()
	now := time.Now()

	s.Insert(testEvent("first", "shop.example", "c1", now))
	s.Insert(testEvent("second", "shop.example", "c1", now.Add(-time.Hour)))
	s.Insert(testEvent("third", "shop.example", "c1", now.Add(-2*time.Hour)))

	events := s.Window("shop.example", time.Time{}, time.Time{})

	assert.Len(t, events, 3)
	assert.Equal(t, "first", events[0].Name)
	assert.Equal(t, "second", events[1].Name)
	assert.Equal(t, "third", events[2].Name)
}
