package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// RawMaterialRepository defines the interface for raw material persistence
type RawMaterialRepository interface {
	// FindByID finds a raw material by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*RawMaterial, error)

	// FindBySKU finds a raw material by its SKU
	FindBySKU(ctx context.Context, sku string) (*RawMaterial, error)

	// FindBySKUs finds raw materials for a set of SKUs
	FindBySKUs(ctx context.Context, skus []string) ([]RawMaterial, error)

	// FindAll lists raw materials matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]RawMaterial, int64, error)

	// ExistsBySKU checks whether a raw material with the SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// Create inserts a new raw material
	Create(ctx context.Context, m *RawMaterial) error

	// Save updates an existing raw material (non-quantity attributes)
	Save(ctx context.Context, m *RawMaterial) error
}

// ProducedGoodRepository defines the interface for produced good persistence
type ProducedGoodRepository interface {
	// FindByID finds a produced good by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProducedGood, error)

	// FindBySKU finds a produced good by its SKU
	FindBySKU(ctx context.Context, sku string) (*ProducedGood, error)

	// FindAll lists produced goods matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]ProducedGood, int64, error)

	// ExistsBySKU checks whether a produced good with the SKU exists
	ExistsBySKU(ctx context.Context, sku string) (bool, error)

	// Create inserts a new produced good
	Create(ctx context.Context, g *ProducedGood) error
}
