package event

import (
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/sales"
	"github.com/supplychain/backend/internal/domain/transfer"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Catalog domain events
	serializer.Register(catalog.EventTypeRawMaterialCreated, &catalog.RawMaterialCreatedEvent{})
	serializer.Register(catalog.EventTypeRawMaterialImported, &catalog.RawMaterialImportedEvent{})
	serializer.Register(catalog.EventTypeProducedGoodCreated, &catalog.ProducedGoodCreatedEvent{})

	// Inventory domain events
	serializer.Register(inventory.EventTypeStockAdjusted, &inventory.StockAdjustedEvent{})
	serializer.Register(inventory.EventTypeStockDepleted, &inventory.StockDepletedEvent{})

	// Sales domain events
	serializer.Register(sales.EventTypeSaleRecorded, &sales.SaleRecordedEvent{})

	// Transfer domain events
	serializer.Register(transfer.EventTypeTransferRequested, &transfer.TransferRequestedEvent{})
	serializer.Register(transfer.EventTypeTransferAdjusted, &transfer.TransferAdjustedEvent{})
	serializer.Register(transfer.EventTypeTransferApproved, &transfer.TransferApprovedEvent{})
}
