// Package events is a small in-process publish/subscribe bus. Domain services
// publish events on state changes and background engines subscribe without
// the two packages importing each other.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Event types published by the platform.
const (
	TypeEmergencyRequestCreated = "emergency_request.created"
	TypeAppointmentBooked       = "appointment.booked"
	TypeAppointmentCancelled    = "appointment.cancelled"
	TypeEvaluationCompleted     = "evaluation.completed"
)

// Event is a single published occurrence.
type Event struct {
	ID         uuid.UUID
	Type       string
	ResourceID uuid.UUID
	OccurredAt time.Time
}

// Handler consumes one event. Returned errors are logged, never retried.
type Handler func(ctx context.Context, evt Event) error

// Bus dispatches events to subscribed handlers synchronously, in
// subscription order. A failing handler does not stop the others.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   zerolog.Logger
}

func NewBus(logger zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
}

// Subscribe registers a handler for an event type.
func (b *Bus) Subscribe(eventType string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], h)
}

// Publish delivers the event to every handler subscribed to its type. The
// event ID and timestamp are filled in when unset.
func (b *Bus) Publish(ctx context.Context, evt Event) {
	if evt.ID == uuid.Nil {
		evt.ID = uuid.New()
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	b.mu.RLock()
	handlers := b.handlers[evt.Type]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			b.logger.Error().
				Err(err).
				Str("event_type", evt.Type).
				Str("resource_id", evt.ResourceID.String()).
				Msg("event handler failed")
		}
	}
}
