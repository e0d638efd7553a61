package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
)

// StockResponse is the API view of one stock row
type StockResponse struct {
	Dept      shared.Department    `json:"dept,omitempty"`
	Kind      inventory.EntityKind `json:"kind"`
	ItemID    uuid.UUID            `json:"item_id"`
	SKU       string               `json:"sku"`
	Name      string               `json:"name,omitempty"`
	Quantity  int64                `json:"quantity"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// ToStockResponse converts a snapshot to a response
func ToStockResponse(snapshot *inventory.StockSnapshot) StockResponse {
	return StockResponse{
		Dept:      snapshot.Ref.Dept,
		Kind:      snapshot.Ref.Kind,
		ItemID:    snapshot.Ref.ItemID,
		SKU:       snapshot.SKU,
		Name:      snapshot.Name,
		Quantity:  snapshot.Quantity,
		UpdatedAt: snapshot.UpdatedAt,
	}
}

// HoldingResponse is the API view of one department holding
type HoldingResponse struct {
	ID        uuid.UUID            `json:"id"`
	Dept      shared.Department    `json:"dept"`
	Kind      inventory.EntityKind `json:"kind"`
	ItemID    uuid.UUID            `json:"item_id"`
	SKU       string               `json:"sku"`
	Quantity  int64                `json:"quantity"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// ToHoldingResponse converts a holding to a response
func ToHoldingResponse(holding *inventory.DepartmentHolding) HoldingResponse {
	return HoldingResponse{
		ID:        holding.ID,
		Dept:      holding.Dept,
		Kind:      holding.Kind,
		ItemID:    holding.ItemID,
		SKU:       holding.SKU,
		Quantity:  holding.Quantity,
		UpdatedAt: holding.UpdatedAt,
	}
}

// MovementResponse is the API view of one ledger line
type MovementResponse struct {
	ID            uuid.UUID                `json:"id"`
	Dept          shared.Department        `json:"dept,omitempty"`
	Kind          inventory.EntityKind     `json:"kind"`
	ItemID        uuid.UUID                `json:"item_id"`
	SKU           string                   `json:"sku"`
	Delta         int64                    `json:"delta"`
	QuantityAfter int64                    `json:"quantity_after"`
	Source        inventory.MovementSource `json:"source"`
	SourceID      *uuid.UUID               `json:"source_id,omitempty"`
	Note          string                   `json:"note,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

// ToMovementResponse converts a movement to a response
func ToMovementResponse(movement *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            movement.ID,
		Dept:          movement.Dept,
		Kind:          movement.Kind,
		ItemID:        movement.ItemID,
		SKU:           movement.SKU,
		Delta:         movement.Delta,
		QuantityAfter: movement.QuantityAfter,
		Source:        movement.Source,
		SourceID:      movement.SourceID,
		Note:          movement.Note,
		CreatedAt:     movement.CreatedAt,
	}
}
