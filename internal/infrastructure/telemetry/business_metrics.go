package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when BusinessMetrics is created without a meter.
var ErrMeterNil = errors.New("meter cannot be nil")

// BusinessMetrics records supply-chain domain metrics: stock adjustments,
// sales, transfers and periodic holding gauges.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	stockAdjustedTotal *Counter
	stockDepletedTotal *Counter
	saleRecordedTotal  *Counter
	saleQuantityTotal  *Counter
	transferTotal      *Counter
	importRowsTotal    *Counter

	holdingQuantity   *Gauge
	depletedItemCount *Gauge

	stockProvider StockMetricsProvider

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// StockMetricsProvider supplies inventory state for periodic gauge
// collection without making the telemetry layer depend on the domain.
type StockMetricsProvider interface {
	// GetHoldingTotals returns total held quantity per department.
	GetHoldingTotals(ctx context.Context) (map[string]int64, error)

	// GetDepletedItemCount returns the number of items with zero quantity.
	GetDepletedItemCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter         metric.Meter
	Logger        *zap.Logger
	StockProvider StockMetricsProvider
}

// NewBusinessMetrics creates a BusinessMetrics instance with all counters
// and gauges registered.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:         cfg.Meter,
		logger:        logger,
		stockProvider: cfg.StockProvider,
		stopChan:      make(chan struct{}),
	}

	var err error

	bm.stockAdjustedTotal, err = NewCounter(
		cfg.Meter,
		"scm_stock_adjusted_total",
		"Total number of stock adjustments applied",
		"{adjustments}",
	)
	if err != nil {
		return nil, err
	}

	bm.stockDepletedTotal, err = NewCounter(
		cfg.Meter,
		"scm_stock_depleted_total",
		"Total number of times an item reached zero quantity",
		"{events}",
	)
	if err != nil {
		return nil, err
	}

	bm.saleRecordedTotal, err = NewCounter(
		cfg.Meter,
		"scm_sale_recorded_total",
		"Total number of sales recorded",
		"{sales}",
	)
	if err != nil {
		return nil, err
	}

	bm.saleQuantityTotal, err = NewCounter(
		cfg.Meter,
		"scm_sale_quantity_total",
		"Total quantity of produced goods sold",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	bm.transferTotal, err = NewCounter(
		cfg.Meter,
		"scm_transfer_total",
		"Total number of transfer request state changes",
		"{transfers}",
	)
	if err != nil {
		return nil, err
	}

	bm.importRowsTotal, err = NewCounter(
		cfg.Meter,
		"scm_import_rows_total",
		"Total number of raw material rows imported",
		"{rows}",
	)
	if err != nil {
		return nil, err
	}

	bm.holdingQuantity, err = NewGauge(
		cfg.Meter,
		"scm_holding_quantity",
		"Current held quantity per department",
		"{units}",
	)
	if err != nil {
		return nil, err
	}

	bm.depletedItemCount, err = NewGauge(
		cfg.Meter,
		"scm_depleted_item_count",
		"Number of items with zero quantity",
		"{items}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordStockAdjusted records a stock adjustment.
func (bm *BusinessMetrics) RecordStockAdjusted(ctx context.Context, dept, kind, source string) {
	bm.stockAdjustedTotal.Inc(ctx,
		AttrDept.String(dept),
		AttrKind.String(kind),
		AttrSource.String(source),
	)
}

// RecordStockDepleted records an item reaching zero quantity.
func (bm *BusinessMetrics) RecordStockDepleted(ctx context.Context, kind string) {
	bm.stockDepletedTotal.Inc(ctx, AttrKind.String(kind))
}

// RecordSale records a completed sale with its quantity.
func (bm *BusinessMetrics) RecordSale(ctx context.Context, paymentStatus string, quantity int64) {
	bm.saleRecordedTotal.Inc(ctx, AttrPaymentStatus.String(paymentStatus))
	bm.saleQuantityTotal.Add(ctx, quantity, AttrPaymentStatus.String(paymentStatus))
}

// RecordTransfer records a transfer request state change.
func (bm *BusinessMetrics) RecordTransfer(ctx context.Context, status string) {
	bm.transferTotal.Inc(ctx, AttrTransferStatus.String(status))
}

// RecordImportedRows records raw material rows accepted by a bulk import.
func (bm *BusinessMetrics) RecordImportedRows(ctx context.Context, rows int64) {
	bm.importRowsTotal.Add(ctx, rows)
}

// StartPeriodicCollection starts a background goroutine that periodically
// refreshes inventory gauges from the stock provider. No-op when no
// provider is configured.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	if bm.stockProvider == nil {
		bm.logger.Debug("No stock metrics provider configured, skipping periodic collection")
		return
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	bm.wg.Add(1)
	go bm.runPeriodicCollection(ctx, interval)
}

func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	defer bm.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-bm.stopChan:
			return
		case <-ticker.C:
			bm.collectStockGauges(ctx)
		}
	}
}

func (bm *BusinessMetrics) collectStockGauges(ctx context.Context) {
	collectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	totals, err := bm.stockProvider.GetHoldingTotals(collectCtx)
	if err != nil {
		bm.logger.Warn("Failed to collect holding totals", zap.Error(err))
	} else {
		for dept, quantity := range totals {
			bm.holdingQuantity.Record(collectCtx, quantity, AttrDept.String(dept))
		}
	}

	depleted, err := bm.stockProvider.GetDepletedItemCount(collectCtx)
	if err != nil {
		bm.logger.Warn("Failed to collect depleted item count", zap.Error(err))
		return
	}
	bm.depletedItemCount.Record(collectCtx, depleted)
}

// Stop halts periodic collection. Safe to call multiple times.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
		bm.wg.Wait()
	})
}
