package shared

import "context"

// EventHandler reacts to domain events published on the bus.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes names the events this handler wants. Empty means all.
	EventTypes() []string
}

// EventPublisher delivers domain events to registered handlers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations.
type EventSubscriber interface {
	// Subscribe registers a handler, optionally narrowed to the given
	// event types. With none, the handler sees every event.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the publish plus subscribe surface the application wires.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
