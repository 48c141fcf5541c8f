package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/rachitha15/PixelProbe/internal/analytics"
	"github.com/rachitha15/PixelProbe/internal/domain"
	"github.com/rachitha15/PixelProbe/internal/dto"
	"github.com/rachitha15/PixelProbe/internal/store"
	"github.com/rachitha15/PixelProbe/internal/ws"
)

// MockEventStore is a mock implementation of store.EventStore
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) Insert(event domain.PixelEvent) domain.PixelEvent {
	args := m.Called(event)
	return args.Get(0).(domain.PixelEvent)
}

func (m *MockEventStore) Query(opts store.QueryOptions) []domain.PixelEvent {
	args := m.Called(opts)
	return args.Get(0).([]domain.PixelEvent)
}

func (m *MockEventStore) GetByID(id string) (domain.PixelEvent, bool) {
	args := m.Called(id)
	return args.Get(0).(domain.PixelEvent), args.Bool(1)
}

func (m *MockEventStore) Window(shopDomain string, start, end time.Time) []domain.PixelEvent {
	args := m.Called(shopDomain, start, end)
	return args.Get(0).([]domain.PixelEvent)
}

func (m *MockEventStore) Clear() {
	m.Called()
}

func (m *MockEventStore) Len() int {
	args := m.Called()
	return args.Int(0)
}

// MockBroadcaster is a mock implementation of Broadcaster
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(eventType string, data interface{}) {
	m.Called(eventType, data)
}

func validTrackRequest() *dto.TrackEventRequest {
	return &dto.TrackEventRequest{
		EventData: dto.ShopifyEvent{
			ID:        "sh-evt-1",
			ClientID:  "client-1",
			Name:      "page_viewed",
			Timestamp: "2025-06-01T12:00:00Z",
			Type:      "standard",
			Context: map[string]interface{}{
				"document": map[string]interface{}{
					"location": map[string]interface{}{"pathname": "/"},
				},
			},
			Data: map[string]interface{}{},
		},
		ShopDomain: "shop.example",
	}
}

func newService(s store.EventStore, b Broadcaster) *EventService {
	log := zap.NewNop()
	return NewEventService(s, analytics.NewAggregator(s, log), b, log)
}

func TestEventService_TrackEvent_StoresAndBroadcasts(t *testing.T) {
	mockStore := new(MockEventStore)
	mockBroadcaster := new(MockBroadcaster)
	svc := newService(mockStore, mockBroadcaster)

	stored := domain.PixelEvent{ID: "assigned-id", Name: "page_viewed"}
	mockStore.On("Insert", mock.MatchedBy(func(e domain.PixelEvent) bool {
		return e.ShopifyEventID == "sh-evt-1" &&
			e.ClientID == "client-1" &&
			e.Name == "page_viewed" &&
			e.ShopDomain == "shop.example" &&
			e.Timestamp.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	})).Return(stored)
	mockBroadcaster.On("Broadcast", ws.TypePixelEvent, stored).Return()

	eventID, err := svc.TrackEvent(validTrackRequest())

	assert.NoError(t, err)
	assert.Equal(t, "assigned-id", eventID)
	mockStore.AssertExpectations(t)
	mockBroadcaster.AssertExpectations(t)
}

func TestEventService_TrackEvent_RejectsUnparseableTimestamp(t *testing.T) {
	mockStore := new(MockEventStore)
	mockBroadcaster := new(MockBroadcaster)
	svc := newService(mockStore, mockBroadcaster)

	req := validTrackRequest()
	req.EventData.Timestamp = "not-a-time"

	eventID, err := svc.TrackEvent(req)

	assert.Error(t, err)
	assert.Empty(t, eventID)
	mockStore.AssertNotCalled(t, "Insert")
	mockBroadcaster.AssertNotCalled(t, "Broadcast")
}

func TestEventService_ListEvents_PassesFilters(t *testing.T) {
	mockStore := new(MockEventStore)
	mockBroadcaster := new(MockBroadcaster)
	svc := newService(mockStore, mockBroadcaster)

	expected := []domain.PixelEvent{{ID: "e1"}}
	mockStore.On("Query", mock.MatchedBy(func(opts store.QueryOptions) bool {
		return opts.ShopDomain == "shop.example" &&
			opts.EventName == "page_viewed" &&
			opts.Limit == 25 &&
			opts.Offset == 50 &&
			opts.StartDate != nil &&
			opts.EndDate == nil
	})).Return(expected)

	events, err := svc.ListEvents(&dto.ListEventsRequest{
		Limit:      25,
		Offset:     50,
		EventName:  "page_viewed",
		ShopDomain: "shop.example",
		StartDate:  "2025-06-01T00:00:00Z",
	})

	assert.NoError(t, err)
	assert.Equal(t, expected, events)
	mockStore.AssertExpectations(t)
}

func TestEventService_GetMetrics_UsesAggregator(t *testing.T) {
	mockStore := new(MockEventStore)
	mockBroadcaster := new(MockBroadcaster)
	svc := newService(mockStore, mockBroadcaster)

	mockStore.On("Window", "shop.example", mock.Anything, mock.Anything).Return([]domain.PixelEvent{})

	metrics, err := svc.GetMetrics(&dto.GetMetricsRequest{Timeframe: "1h", ShopDomain: "shop.example"})

	assert.NoError(t, err)
	assert.NotNil(t, metrics)
	assert.Equal(t, 0, metrics.TotalEvents)
	mockStore.AssertExpectations(t)
}

func TestEventService_Reset_ClearsAndBroadcasts(t *testing.T) {
	mockStore := new(MockEventStore)
	mockBroadcaster := new(MockBroadcaster)
	svc := newService(mockStore, mockBroadcaster)

	mockStore.On("Len").Return(42)
	mockStore.On("Clear").Return()
	mockBroadcaster.On("Broadcast", ws.TypeReset, mock.Anything).Return()

	err := svc.Reset()

	assert.NoError(t, err)
	mockStore.AssertExpectations(t)
	mockBroadcaster.AssertExpectations(t)
}

func TestEventService_GetEvent_Passthrough(t *testing.T) {
	mockStore := new(MockEventStore)
	mockBroadcaster := new(MockBroadcaster)
	svc := newService(mockStore, mockBroadcaster)

	mockStore.On("GetByID", "e1").Return(domain.PixelEvent{ID: "e1"}, true)
	mockStore.On("GetByID", "missing").Return(domain.PixelEvent{}, false)

	event, ok := svc.GetEvent("e1")
	assert.True(t, ok)
	assert.Equal(t, "e1", event.ID)

	_, ok = svc.GetEvent("missing")
	assert.False(t, ok)
}
