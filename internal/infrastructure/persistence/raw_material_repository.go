package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormRawMaterialRepository implements RawMaterialRepository using GORM
type GormRawMaterialRepository struct {
	db *gorm.DB
}

// NewGormRawMaterialRepository creates a new GormRawMaterialRepository
func NewGormRawMaterialRepository(db *gorm.DB) *GormRawMaterialRepository {
	return &GormRawMaterialRepository{db: db}
}

// FindByID finds a raw material by its ID
func (r *GormRawMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.RawMaterial, error) {
	var material catalog.RawMaterial
	if err := r.db.WithContext(ctx).First(&material, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindBySKU finds a raw material by its SKU
func (r *GormRawMaterialRepository) FindBySKU(ctx context.Context, sku string) (*catalog.RawMaterial, error) {
	var material catalog.RawMaterial
	if err := r.db.WithContext(ctx).First(&material, "sku = ?", sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &material, nil
}

// FindBySKUs finds raw materials for a set of SKUs
func (r *GormRawMaterialRepository) FindBySKUs(ctx context.Context, skus []string) ([]catalog.RawMaterial, error) {
	if len(skus) == 0 {
		return nil, nil
	}
	var materials []catalog.RawMaterial
	if err := r.db.WithContext(ctx).Where("sku IN ?", skus).Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindAll lists raw materials matching the filter
func (r *GormRawMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.RawMaterial, int64, error) {
	query := r.db.WithContext(ctx).Model(&catalog.RawMaterial{})

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ?", search, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var materials []catalog.RawMaterial
	orderClause := buildOrderClause(filter, RawMaterialSortFields)
	if err := query.Order(orderClause).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&materials).Error; err != nil {
		return nil, 0, err
	}
	return materials, total, nil
}

// ExistsBySKU checks whether a raw material with the SKU exists
func (r *GormRawMaterialRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.RawMaterial{}).
		Where("sku = ?", sku).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new raw material
func (r *GormRawMaterialRepository) Create(ctx context.Context, m *catalog.RawMaterial) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Save updates the non-quantity attributes of an existing raw material.
// Quantity changes go through the stock repository's guarded updates.
func (r *GormRawMaterialRepository) Save(ctx context.Context, m *catalog.RawMaterial) error {
	result := r.db.WithContext(ctx).
		Model(&catalog.RawMaterial{}).
		Where("id = ?", m.ID).
		Updates(map[string]interface{}{
			"name":       m.Name,
			"unit":       m.Unit,
			"color_code": m.ColorCode,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormRawMaterialRepository implements RawMaterialRepository
var _ catalog.RawMaterialRepository = (*GormRawMaterialRepository)(nil)
