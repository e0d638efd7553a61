package catalog

import (
	"strings"
	"time"

	"github.com/supplychain/backend/internal/domain/shared"
)

// RawMaterial represents a raw material tracked by Procurement.
// It is the aggregate root for raw material stock; the quantity column is the
// canonical stock count and is mutated only through the inventory store.
type RawMaterial struct {
	shared.BaseAggregateRoot
	Name      string `gorm:"type:varchar(200);not null"`
	SKU       string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Quantity  int64  `gorm:"not null;default:0"`
	Unit      string `gorm:"type:varchar(20);not null"`
	ColorCode string `gorm:"type:varchar(20)"` // display attribute, not used in logic
}

// TableName returns the table name for GORM
func (RawMaterial) TableName() string {
	return "raw_materials"
}

// NewRawMaterial creates a new raw material with an opening quantity
func NewRawMaterial(name, sku string, quantity int64, unit, colorCode string) (*RawMaterial, error) {
	name = strings.TrimSpace(name)
	sku = strings.TrimSpace(sku)
	unit = strings.TrimSpace(unit)

	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Opening quantity cannot be negative")
	}

	m := &RawMaterial{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		Quantity:          quantity,
		Unit:              unit,
		ColorCode:         colorCode,
	}
	m.AddDomainEvent(NewRawMaterialCreatedEvent(m))
	return m, nil
}

// ApplyImport overwrites the mutable attributes during a bulk upsert by SKU.
// The SKU itself is the conflict key and never changes.
func (m *RawMaterial) ApplyImport(name string, quantity int64, unit, colorCode string) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if name != "" {
		m.Name = name
	}
	if unit != "" {
		m.Unit = unit
	}
	if colorCode != "" {
		m.ColorCode = colorCode
	}
	m.Quantity = quantity
	m.UpdatedAt = time.Now()
	m.IncrementVersion()
	m.AddDomainEvent(NewRawMaterialImportedEvent(m))
	return nil
}
