package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// StockRepository is the write surface for guarded quantity rows. Adjust
// methods apply a signed delta in a single guarded statement and return the
// resulting quantity; they fail with NOT_FOUND when the row does not exist
// and INSUFFICIENT_STOCK when the delta would take it negative.
type StockRepository interface {
	AdjustCanonical(ctx context.Context, kind EntityKind, itemID uuid.UUID, delta int64) (int64, error)
	// AdjustHolding creates the holding row on first credit; a debit against
	// a missing row is treated as insufficient stock.
	AdjustHolding(ctx context.Context, dept shared.Department, kind EntityKind, itemID uuid.UUID, sku string, delta int64) (int64, error)
	GetCanonical(ctx context.Context, kind EntityKind, itemID uuid.UUID) (*StockSnapshot, error)
	GetHolding(ctx context.Context, dept shared.Department, kind EntityKind, itemID uuid.UUID) (*StockSnapshot, error)
}

// HoldingRepository is the read surface over department holdings
type HoldingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*DepartmentHolding, error)
	FindByRef(ctx context.Context, ref StockRef) (*DepartmentHolding, error)
	FindByDepartment(ctx context.Context, dept shared.Department, filter shared.Filter) ([]*DepartmentHolding, int64, error)
	FindByItem(ctx context.Context, kind EntityKind, itemID uuid.UUID) ([]*DepartmentHolding, error)
	Create(ctx context.Context, holding *DepartmentHolding) error
}

// MovementRepository persists the append-only stock ledger
type MovementRepository interface {
	Create(ctx context.Context, movement *StockMovement) error
	CreateBatch(ctx context.Context, movements []*StockMovement) error
	FindByItem(ctx context.Context, kind EntityKind, itemID uuid.UUID, filter shared.Filter) ([]*StockMovement, int64, error)
	FindBySource(ctx context.Context, source MovementSource, sourceID uuid.UUID) ([]*StockMovement, error)
}
