package events

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var got []Event
	bus.Subscribe(TypeEmergencyRequestCreated, func(_ context.Context, evt Event) error {
		got = append(got, evt)
		return nil
	})

	id := uuid.New()
	bus.Publish(context.Background(), Event{Type: TypeEmergencyRequestCreated, ResourceID: id})

	if len(got) != 1 {
		t.Fatalf("delivered = %d, want 1", len(got))
	}
	if got[0].ResourceID != id {
		t.Errorf("resource id = %s, want %s", got[0].ResourceID, id)
	}
	if got[0].ID == uuid.Nil || got[0].OccurredAt.IsZero() {
		t.Error("event id and timestamp should be filled in")
	}
}

func TestBusIgnoresOtherTypes(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	called := false
	bus.Subscribe(TypeAppointmentBooked, func(context.Context, Event) error {
		called = true
		return nil
	})

	bus.Publish(context.Background(), Event{Type: TypeEmergencyRequestCreated})
	if called {
		t.Error("handler for a different type should not run")
	}
}

func TestBusFailingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus(zerolog.Nop())

	var order []string
	bus.Subscribe(TypeEvaluationCompleted, func(context.Context, Event) error {
		order = append(order, "first")
		return fmt.Errorf("boom")
	})
	bus.Subscribe(TypeEvaluationCompleted, func(context.Context, Event) error {
		order = append(order, "second")
		return nil
	})

	bus.Publish(context.Background(), Event{Type: TypeEvaluationCompleted})
	if len(order) != 2 {
		t.Fatalf("handlers run = %v, want both", order)
	}
}
