package persistence

import (
	"context"

	"gorm.io/gorm"
)

// GormStockMetricsRepository answers the aggregate stock queries behind the
// periodic metric gauges
type GormStockMetricsRepository struct {
	db *gorm.DB
}

// NewGormStockMetricsRepository creates a new GormStockMetricsRepository
func NewGormStockMetricsRepository(db *gorm.DB) *GormStockMetricsRepository {
	return &GormStockMetricsRepository{db: db}
}

// GetHoldingTotals returns the total held quantity per department
func (r *GormStockMetricsRepository) GetHoldingTotals(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Dept  string
		Total int64
	}
	err := r.db.WithContext(ctx).
		Table("department_holdings").
		Select("dept, COALESCE(SUM(quantity), 0) AS total").
		Group("dept").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.Dept] = row.Total
	}
	return totals, nil
}

// GetDepletedItemCount returns the number of holding rows sitting at zero
func (r *GormStockMetricsRepository) GetDepletedItemCount(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("department_holdings").
		Where("quantity = 0").
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
