package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMovementRepository persists the append-only stock ledger using GORM.
// Movements are never updated or deleted.
type GormMovementRepository struct {
	db *gorm.DB
}

// NewGormMovementRepository creates a new GormMovementRepository
func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

// Create inserts a single stock movement
func (r *GormMovementRepository) Create(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// CreateBatch inserts a batch of stock movements
func (r *GormMovementRepository) CreateBatch(ctx context.Context, movements []*inventory.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(movements).Error
}

// FindByItem lists movements of an item, newest first by default
func (r *GormMovementRepository) FindByItem(ctx context.Context, kind inventory.EntityKind, itemID uuid.UUID, filter shared.Filter) ([]*inventory.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Where("kind = ? AND item_id = ?", kind, itemID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []*inventory.StockMovement
	orderClause := buildOrderClause(filter, MovementSortFields)
	if err := query.Order(orderClause).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&movements).Error; err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}

// FindBySource lists the movements written for one source operation
func (r *GormMovementRepository) FindBySource(ctx context.Context, source inventory.MovementSource, sourceID uuid.UUID) ([]*inventory.StockMovement, error) {
	var movements []*inventory.StockMovement
	if err := r.db.WithContext(ctx).
		Where("source = ? AND source_id = ?", source, sourceID).
		Order("created_at ASC").
		Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// Ensure GormMovementRepository implements MovementRepository
var _ inventory.MovementRepository = (*GormMovementRepository)(nil)
