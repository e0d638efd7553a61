package shared

import "context"

// EventHandler reacts to domain events delivered by the bus
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants. Empty means
	// every event.
	EventTypes() []string
}

// EventPublisher hands events to the bus after a successful commit
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations
type EventSubscriber interface {
	// Subscribe registers a handler. Passing event types narrows the
	// subscription; omitting them subscribes to everything.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the in-process publish/subscribe fabric with a managed
// lifecycle
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// OutboxEventSaver writes domain events to the outbox table inside the
// caller's transaction. txProvider is the open *gorm.DB transaction;
// it is typed loosely so the domain layer stays free of gorm.
type OutboxEventSaver interface {
	SaveEvents(ctx context.Context, txProvider interface{}, events ...DomainEvent) error
}
