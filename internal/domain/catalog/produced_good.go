package catalog

import (
	"strings"

	"github.com/supplychain/backend/internal/domain/shared"
)

// ProducedGood represents a finished product defined by Manufacturing.
// The recipe is fixed at creation; the quantity column is the canonical stock
// count and is mutated only through the inventory store.
type ProducedGood struct {
	shared.BaseAggregateRoot
	Name     string `gorm:"type:varchar(200);not null"`
	SKU      string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Quantity int64  `gorm:"not null;default:0"`
	Recipe   Recipe `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (ProducedGood) TableName() string {
	return "produced_goods"
}

// NewProducedGood creates a new produced good with zero stock.
// The caller is responsible for verifying that every recipe SKU refers to an
// existing raw material before persisting.
func NewProducedGood(name, sku string, recipe Recipe) (*ProducedGood, error) {
	name = strings.TrimSpace(name)
	sku = strings.TrimSpace(sku)

	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if err := recipe.Validate(); err != nil {
		return nil, err
	}

	g := &ProducedGood{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		SKU:               sku,
		Quantity:          0,
		Recipe:            recipe,
	}
	g.AddDomainEvent(NewProducedGoodCreatedEvent(g))
	return g, nil
}
