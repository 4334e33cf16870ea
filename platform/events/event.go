// Package events is the in-process publish/subscribe layer that lets modules
// react to each other's domain events without importing each other.
package events

import (
	"context"
	"time"
)

// Event is implemented by every domain event.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the occurrence time; embed it in concrete events.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// NewBaseEvent stamps an event with the current UTC time.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus routes events to the handlers subscribed under their EventName.
type Bus interface {
	// Publish hands the event to every handler without waiting. Handler
	// errors are logged by the bus.
	Publish(ctx context.Context, event Event)

	// PublishSync runs the handlers in subscription order and stops at the
	// first error, which it returns.
	PublishSync(ctx context.Context, event Event) error

	Subscribe(eventName string, handler Handler)
}

// On subscribes fn to events of type T. Events of another dynamic type
// published under the same name are ignored.
func On[T Event](bus Bus, fn func(ctx context.Context, event T) error) {
	var zero T
	bus.Subscribe(zero.EventName(), HandlerFunc(func(ctx context.Context, event Event) error {
		typed, ok := event.(T)
		if !ok {
			return nil
		}
		return fn(ctx, typed)
	}))
}
