package inventory

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// DepartmentHolding tracks how much of one entity a department currently
// holds. Rows are unique per (dept, kind, item) and never go negative.
type DepartmentHolding struct {
	shared.BaseAggregateRoot
	Dept     shared.Department `gorm:"not null;size:32;uniqueIndex:idx_holding_row" json:"dept"`
	Kind     EntityKind        `gorm:"not null;size:16;uniqueIndex:idx_holding_row" json:"kind"`
	ItemID   uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex:idx_holding_row" json:"item_id"`
	SKU      string            `gorm:"not null;size:64;index" json:"sku"`
	Quantity int64             `gorm:"not null;default:0" json:"quantity"`
}

// TableName returns the table name for DepartmentHolding
func (DepartmentHolding) TableName() string {
	return "department_holdings"
}

// NewDepartmentHolding creates a holding row with an opening quantity
func NewDepartmentHolding(dept shared.Department, kind EntityKind, itemID uuid.UUID, sku string, quantity int64) (*DepartmentHolding, error) {
	if !dept.IsValid() {
		return nil, shared.NewDomainError("INVALID_DEPARTMENT", "Unknown department: "+string(dept))
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown entity kind: "+string(kind))
	}
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "SKU cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.ErrInvalidQuantity
	}

	holding := &DepartmentHolding{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Dept:              dept,
		Kind:              kind,
		ItemID:            itemID,
		SKU:               sku,
		Quantity:          quantity,
	}
	return holding, nil
}

// Ref returns the stock reference addressing this holding
func (h *DepartmentHolding) Ref() StockRef {
	return HoldingRef(h.Dept, h.Kind, h.ItemID)
}

// Apply adds a signed delta to the holding, refusing to go negative
func (h *DepartmentHolding) Apply(delta int64) error {
	next := h.Quantity + delta
	if next < 0 {
		return shared.NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock for "+h.SKU+" in "+string(h.Dept))
	}
	h.Quantity = next
	h.IncrementVersion()
	return nil
}
