package events

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDispatcher_DeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventUserRegistered, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	event := Event{ID: "e1", Type: EventUserRegistered, UserID: "u1", Timestamp: time.Now()}
	d.Publish(context.Background(), event)

	if len(got) != 1 || got[0].ID != "e1" {
		t.Errorf("expected event e1 delivered once, got %v", got)
	}
}

func TestDispatcher_IgnoresUnrelatedEventTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventUserLoggedIn, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	d.Publish(context.Background(), Event{Type: EventUserLoggedOut, UserID: "u1"})
	if called {
		t.Error("handler for a different event type must not run")
	}
}

func TestDispatcher_HandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()

	d.Subscribe(EventUserLoggedIn, func(_ context.Context, _ Event) error {
		return errors.New("audit sink down")
	})
	secondRan := false
	d.Subscribe(EventUserLoggedIn, func(_ context.Context, _ Event) error {
		secondRan = true
		return nil
	})

	d.Publish(context.Background(), Event{Type: EventUserLoggedIn, UserID: "u1"})
	if !secondRan {
		t.Error("a failing handler must not block the remaining handlers")
	}
}
