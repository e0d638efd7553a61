package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/sales"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll lists sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*sales.Sale, int64, error) {
	query := r.db.WithContext(ctx).Model(&sales.Sale{})

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("sku ILIKE ? OR customer_name ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*sales.Sale
	orderClause := buildOrderClause(filter, SaleSortFields)
	if err := query.Order(orderClause).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// FindByProducedGood lists sales of one produced good
func (r *GormSaleRepository) FindByProducedGood(ctx context.Context, producedGoodID uuid.UUID, filter shared.Filter) ([]*sales.Sale, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&sales.Sale{}).
		Where("produced_good_id = ?", producedGoodID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var results []*sales.Sale
	orderClause := buildOrderClause(filter, SaleSortFields)
	if err := query.Order(orderClause).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&results).Error; err != nil {
		return nil, 0, err
	}
	return results, total, nil
}

// Create inserts a new sale
func (r *GormSaleRepository) Create(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
