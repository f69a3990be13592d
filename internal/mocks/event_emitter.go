package mocks

import (
	"context"
	"sync"

	"github.com/memodrop/braindump/internal/events"
)

// MockEventEmitter implements events.EventEmitter for testing. Emitted events
// are recorded; set HandleFn to additionally dispatch them synchronously.
type MockEventEmitter struct {
	EmitEventFn func(ctx context.Context, event *events.TaskRequestEvent) error

	// HandleFn, when set, is invoked for every emitted event.
	HandleFn func(ctx context.Context, event *events.TaskRequestEvent) error

	mu     sync.Mutex
	events []*events.TaskRequestEvent

	EmitError error
}

// Ensure MockEventEmitter implements events.EventEmitter
var _ events.EventEmitter = (*MockEventEmitter)(nil)

// NewMockEventEmitter creates a new mock event emitter.
func NewMockEventEmitter() *MockEventEmitter {
	return &MockEventEmitter{}
}

// EmitEvent implements the EventEmitter interface.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.TaskRequestEvent) error {
	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}

	if m.EmitError != nil {
		return m.EmitError
	}

	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.HandleFn != nil {
		return m.HandleFn(ctx, event)
	}
	return nil
}

// Events returns a copy of the recorded events.
func (m *MockEventEmitter) Events() []*events.TaskRequestEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*events.TaskRequestEvent, len(m.events))
	copy(out, m.events)
	return out
}
