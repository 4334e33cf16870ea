package events

import (
	"context"

	platformevents "leadflow_backend/platform/events"
	"leadflow_backend/platform/logger"
)

type InMemoryBus = platformevents.InMemoryBus

func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// On subscribes fn to the pipeline event type T.
func On[T Event](bus Bus, fn func(ctx context.Context, event T) error) {
	platformevents.On(bus, fn)
}
