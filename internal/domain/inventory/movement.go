package inventory

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// MovementSource identifies the business operation that caused a movement
type MovementSource string

const (
	SourceOpening    MovementSource = "OPENING"
	SourceImport     MovementSource = "IMPORT"
	SourceProduction MovementSource = "PRODUCTION"
	SourceSale       MovementSource = "SALE"
	SourceTransfer   MovementSource = "TRANSFER"
	SourceManual     MovementSource = "MANUAL"
)

// IsValid checks if the source is a known movement source
func (s MovementSource) IsValid() bool {
	switch s {
	case SourceOpening, SourceImport, SourceProduction, SourceSale, SourceTransfer, SourceManual:
		return true
	}
	return false
}

// StockMovement is one append-only ledger line. Rows are written in the same
// transaction as the quantity change they record and never updated after.
type StockMovement struct {
	shared.BaseEntity
	Dept          shared.Department `gorm:"size:32;index" json:"dept,omitempty"`
	Kind          EntityKind        `gorm:"not null;size:16" json:"kind"`
	ItemID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"item_id"`
	SKU           string            `gorm:"not null;size:64;index" json:"sku"`
	Delta         int64             `gorm:"not null" json:"delta"`
	QuantityAfter int64             `gorm:"not null" json:"quantity_after"`
	Source        MovementSource    `gorm:"not null;size:16;index" json:"source"`
	SourceID      *uuid.UUID        `gorm:"type:uuid;index" json:"source_id,omitempty"`
	Note          string            `gorm:"size:255" json:"note,omitempty"`
}

// TableName returns the table name for StockMovement
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement records one applied adjustment
func NewStockMovement(adj Adjustment, quantityAfter int64, source MovementSource, sourceID *uuid.UUID, note string) (*StockMovement, error) {
	if err := adj.Validate(); err != nil {
		return nil, err
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown movement source: "+string(source))
	}
	if quantityAfter < 0 {
		return nil, shared.ErrInvalidQuantity
	}

	movement := &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		Dept:          adj.Ref.Dept,
		Kind:          adj.Ref.Kind,
		ItemID:        adj.Ref.ItemID,
		SKU:           adj.SKU,
		Delta:         adj.Delta,
		QuantityAfter: quantityAfter,
		Source:        source,
		SourceID:      sourceID,
		Note:          note,
	}
	return movement, nil
}
