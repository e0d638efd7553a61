package inventory

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

const (
	AggregateTypeStock = "Stock"

	EventTypeStockAdjusted = "inventory.stock.adjusted"
	EventTypeStockDepleted = "inventory.stock.depleted"
)

// StockAdjustedEvent is emitted for every applied adjustment
type StockAdjustedEvent struct {
	shared.BaseDomainEvent
	Dept          shared.Department `json:"dept,omitempty"`
	Kind          EntityKind        `json:"kind"`
	ItemID        uuid.UUID         `json:"item_id"`
	SKU           string            `json:"sku"`
	Delta         int64             `json:"delta"`
	QuantityAfter int64             `json:"quantity_after"`
	Source        MovementSource    `json:"source"`
}

// NewStockAdjustedEvent creates a stock adjusted event
func NewStockAdjustedEvent(adj Adjustment, quantityAfter int64, source MovementSource) *StockAdjustedEvent {
	return &StockAdjustedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockAdjusted, AggregateTypeStock, adj.Ref.ItemID),
		Dept:            adj.Ref.Dept,
		Kind:            adj.Ref.Kind,
		ItemID:          adj.Ref.ItemID,
		SKU:             adj.SKU,
		Delta:           adj.Delta,
		QuantityAfter:   quantityAfter,
		Source:          source,
	}
}

// StockDepletedEvent is emitted when an adjustment leaves a row at zero
type StockDepletedEvent struct {
	shared.BaseDomainEvent
	Dept   shared.Department `json:"dept,omitempty"`
	Kind   EntityKind        `json:"kind"`
	ItemID uuid.UUID         `json:"item_id"`
	SKU    string            `json:"sku"`
}

// NewStockDepletedEvent creates a stock depleted event
func NewStockDepletedEvent(ref StockRef, sku string) *StockDepletedEvent {
	return &StockDepletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDepleted, AggregateTypeStock, ref.ItemID),
		Dept:            ref.Dept,
		Kind:            ref.Kind,
		ItemID:          ref.ItemID,
		SKU:             sku,
	}
}
