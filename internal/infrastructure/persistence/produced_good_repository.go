package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProducedGoodRepository implements ProducedGoodRepository using GORM
type GormProducedGoodRepository struct {
	db *gorm.DB
}

// NewGormProducedGoodRepository creates a new GormProducedGoodRepository
func NewGormProducedGoodRepository(db *gorm.DB) *GormProducedGoodRepository {
	return &GormProducedGoodRepository{db: db}
}

// FindByID finds a produced good by its ID
func (r *GormProducedGoodRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProducedGood, error) {
	var good catalog.ProducedGood
	if err := r.db.WithContext(ctx).First(&good, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &good, nil
}

// FindBySKU finds a produced good by its SKU
func (r *GormProducedGoodRepository) FindBySKU(ctx context.Context, sku string) (*catalog.ProducedGood, error) {
	var good catalog.ProducedGood
	if err := r.db.WithContext(ctx).First(&good, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &good, nil
}

// FindAll lists produced goods matching the filter
func (r *GormProducedGoodRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ProducedGood, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.ProducedGood{})

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var goods []catalog.ProducedGood
	orderClause := buildOrderClause(filter, ProducedGoodSortFields)
	if err := query.Order(orderClause).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&goods).Error; err != nil {
		return nil, 0, err
	}
	return goods, total, nil
}

// ExistsBySKU checks whether a produced good with the SKU exists
func (r *GormProducedGoodRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.ProducedGood{}).
		Where("sku = ?", sku).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new produced good
func (r *GormProducedGoodRepository) Create(ctx context.Context, g *catalog.ProducedGood) error {
	return r.db.WithContext(ctx).Create(g).Error
}

// Ensure GormProducedGoodRepository implements ProducedGoodRepository
var _ catalog.ProducedGoodRepository = (*GormProducedGoodRepository)(nil)
