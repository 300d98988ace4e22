package mocks

import (
	"context"
	"sync"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/ports"
)

// MockEventPublisher implements ports.EventPublisher for testing.
type MockEventPublisher struct {
	mu sync.RWMutex

	// Track published events for verification
	PublishedEvents []domain.Event

	// Error injection for testing error scenarios
	PublishError error

	PublishCallCount int
}

var _ ports.EventPublisher = (*MockEventPublisher)(nil)

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{PublishedEvents: make([]domain.Event, 0)}
}

func (m *MockEventPublisher) Publish(ctx context.Context, evt domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

// Types returns the type of every published event, in order.
func (m *MockEventPublisher) Types() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.PublishedEvents))
	for i, e := range m.PublishedEvents {
		out[i] = e.Type
	}
	return out
}
