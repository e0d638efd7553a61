package event

import (
	"context"
	"fmt"

	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher serializes domain events and writes them to the
// outbox table inside the caller's transaction, so the events commit
// or roll back together with the state change that raised them.
type OutboxPublisher struct {
	serializer *EventSerializer
}

func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer}
}

var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)

// PublishWithTx stores the events as pending outbox entries on tx
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, event := range events {
		payload, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(event, payload))
	}

	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

// SaveEvents implements shared.OutboxEventSaver. The loose txProvider
// typing keeps gorm out of the domain interface.
func (p *OutboxPublisher) SaveEvents(ctx context.Context, txProvider interface{}, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("txProvider must be a *gorm.DB, got %T", txProvider)
	}
	return p.PublishWithTx(ctx, tx, events...)
}
