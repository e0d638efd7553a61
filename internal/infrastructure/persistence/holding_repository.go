package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormHoldingRepository implements HoldingRepository using GORM
type GormHoldingRepository struct {
	db *gorm.DB
}

// NewGormHoldingRepository creates a new GormHoldingRepository
func NewGormHoldingRepository(db *gorm.DB) *GormHoldingRepository {
	return &GormHoldingRepository{db: db}
}

// FindByID finds a department holding by its ID
func (r *GormHoldingRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.DepartmentHolding, error) {
	var holding inventory.DepartmentHolding
	if err := r.db.WithContext(ctx).First(&holding, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &holding, nil
}

// FindByRef finds a department holding by its stock reference
func (r *GormHoldingRepository) FindByRef(ctx context.Context, ref inventory.StockRef) (*inventory.DepartmentHolding, error) {
	if !ref.IsHolding() {
		return nil, shared.ErrInvalidInput
	}
	var holding inventory.DepartmentHolding
	if err := r.db.WithContext(ctx).
		Where("dept = ? AND kind = ? AND item_id = ?", ref.Dept, ref.Kind, ref.ItemID).
		First(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &holding, nil
}

// FindByDepartment lists holdings for a department
func (r *GormHoldingRepository) FindByDepartment(ctx context.Context, dept shared.Department, filter shared.Filter) ([]*inventory.DepartmentHolding, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&inventory.DepartmentHolding{}).
		Where("dept = ?", dept)

	if filter.Search != "" {
		query = query.Where("sku ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var holdings []*inventory.DepartmentHolding
	orderClause := buildOrderClause(filter, HoldingSortFields)
	if err := query.Order(orderClause).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&holdings).Error; err != nil {
		return nil, 0, err
	}
	return holdings, total, nil
}

// FindByItem lists all department holdings of an item
func (r *GormHoldingRepository) FindByItem(ctx context.Context, kind inventory.EntityKind, itemID uuid.UUID) ([]*inventory.DepartmentHolding, error) {
	var holdings []*inventory.DepartmentHolding
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND item_id = ?", kind, itemID).
		Order("dept ASC").
		Find(&holdings).Error; err != nil {
		return nil, err
	}
	return holdings, nil
}

// Create inserts a new department holding
func (r *GormHoldingRepository) Create(ctx context.Context, holding *inventory.DepartmentHolding) error {
	return r.db.WithContext(ctx).Create(holding).Error
}

// Ensure GormHoldingRepository implements HoldingRepository
var _ inventory.HoldingRepository = (*GormHoldingRepository)(nil)
