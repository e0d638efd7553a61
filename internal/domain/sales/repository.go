package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// SaleRepository defines the persistence operations for sales
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Sale, int64, error)
	FindByProducedGood(ctx context.Context, producedGoodID uuid.UUID, filter shared.Filter) ([]*Sale, int64, error)
	Create(ctx context.Context, sale *Sale) error
}
