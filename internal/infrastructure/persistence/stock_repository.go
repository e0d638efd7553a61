package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormStockRepository applies guarded quantity adjustments against the
// canonical entity tables and department holdings. All writes are single
// statements with a non-negative guard so concurrent adjustments never
// take a row below zero.
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// canonicalTable resolves the table holding the canonical quantity row for a kind.
// The table name is taken from a fixed switch, never from input.
func canonicalTable(kind inventory.EntityKind) (string, error) {
	switch kind {
	case inventory.KindRaw:
		return "raw_materials", nil
	case inventory.KindProduced:
		return "produced_goods", nil
	default:
		return "", shared.NewDomainError("INVALID_KIND", "Unknown entity kind: "+string(kind))
	}
}

// AdjustCanonical applies a signed delta to a canonical entity row and
// returns the resulting quantity.
func (r *GormStockRepository) AdjustCanonical(ctx context.Context, kind inventory.EntityKind, itemID uuid.UUID, delta int64) (int64, error) {
	table, err := canonicalTable(kind)
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(
		"UPDATE %s SET quantity = quantity + ?, updated_at = ? WHERE id = ? AND quantity + ? >= 0 RETURNING quantity",
		table,
	)

	var newQuantity int64
	result := r.db.WithContext(ctx).Raw(query, delta, time.Now(), itemID, delta).Scan(&newQuantity)
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, r.classifyCanonicalFailure(ctx, table, itemID)
	}
	return newQuantity, nil
}

// classifyCanonicalFailure distinguishes a missing row from a guard rejection
func (r *GormStockRepository) classifyCanonicalFailure(ctx context.Context, table string, itemID uuid.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Table(table).Where("id = ?", itemID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrInsufficientStock
}

// AdjustHolding applies a signed delta to a department holding row and
// returns the resulting quantity. The row is created on first credit;
// a debit against a missing row is insufficient stock.
func (r *GormStockRepository) AdjustHolding(ctx context.Context, dept shared.Department, kind inventory.EntityKind, itemID uuid.UUID, sku string, delta int64) (int64, error) {
	newQuantity, affected, err := r.guardedHoldingUpdate(ctx, dept, kind, itemID, delta)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		return newQuantity, nil
	}

	var existing inventory.DepartmentHolding
	findErr := r.db.WithContext(ctx).
		Where("dept = ? AND kind = ? AND item_id = ?", dept, kind, itemID).
		First(&existing).Error
	switch {
	case findErr == nil:
		// Row exists, so the guard rejected the debit
		return 0, shared.ErrInsufficientStock
	case errors.Is(findErr, gorm.ErrRecordNotFound):
		if delta < 0 {
			return 0, shared.ErrInsufficientStock
		}
	default:
		return 0, findErr
	}

	holding, err := inventory.NewDepartmentHolding(dept, kind, itemID, sku, delta)
	if err != nil {
		return 0, err
	}
	if createErr := r.db.WithContext(ctx).Create(holding).Error; createErr != nil {
		// A concurrent writer may have created the row first; fall back to
		// the guarded update against the now-existing row.
		newQuantity, affected, err = r.guardedHoldingUpdate(ctx, dept, kind, itemID, delta)
		if err != nil {
			return 0, err
		}
		if affected == 0 {
			return 0, createErr
		}
		return newQuantity, nil
	}
	return holding.Quantity, nil
}

func (r *GormStockRepository) guardedHoldingUpdate(ctx context.Context, dept shared.Department, kind inventory.EntityKind, itemID uuid.UUID, delta int64) (int64, int64, error) {
	const query = "UPDATE department_holdings SET quantity = quantity + ?, version = version + 1, updated_at = ? " +
		"WHERE dept = ? AND kind = ? AND item_id = ? AND quantity + ? >= 0 RETURNING quantity"

	var newQuantity int64
	result := r.db.WithContext(ctx).Raw(query, delta, time.Now(), dept, kind, itemID, delta).Scan(&newQuantity)
	if result.Error != nil {
		return 0, 0, result.Error
	}
	return newQuantity, result.RowsAffected, nil
}

// GetCanonical reads a canonical entity row as a stock snapshot
func (r *GormStockRepository) GetCanonical(ctx context.Context, kind inventory.EntityKind, itemID uuid.UUID) (*inventory.StockSnapshot, error) {
	table, err := canonicalTable(kind)
	if err != nil {
		return nil, err
	}

	var row struct {
		SKU       string
		Name      string
		Quantity  int64
		UpdatedAt time.Time
	}
	if err := r.db.WithContext(ctx).Table(table).
		Select("sku", "name", "quantity", "updated_at").
		Where("id = ?", itemID).
		Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	return &inventory.StockSnapshot{
		Ref:       inventory.CanonicalRef(kind, itemID),
		SKU:       row.SKU,
		Name:      row.Name,
		Quantity:  row.Quantity,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// GetHolding reads a department holding row as a stock snapshot
func (r *GormStockRepository) GetHolding(ctx context.Context, dept shared.Department, kind inventory.EntityKind, itemID uuid.UUID) (*inventory.StockSnapshot, error) {
	var holding inventory.DepartmentHolding
	if err := r.db.WithContext(ctx).
		Where("dept = ? AND kind = ? AND item_id = ?", dept, kind, itemID).
		First(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	return &inventory.StockSnapshot{
		Ref:       inventory.HoldingRef(dept, kind, itemID),
		SKU:       holding.SKU,
		Quantity:  holding.Quantity,
		UpdatedAt: holding.UpdatedAt,
	}, nil
}

// Ensure GormStockRepository implements StockRepository
var _ inventory.StockRepository = (*GormStockRepository)(nil)
