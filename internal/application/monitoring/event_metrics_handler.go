package monitoring

import (
	"context"

	"go.uber.org/zap"

	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/sales"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/transfer"
	"github.com/supplychain/backend/internal/infrastructure/telemetry"
)

// EventMetricsHandler turns domain events into business metric samples. It
// subscribes to every countable event so the metric pipeline stays out of
// the application services themselves.
type EventMetricsHandler struct {
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
}

// NewEventMetricsHandler creates a new EventMetricsHandler
func NewEventMetricsHandler(metrics *telemetry.BusinessMetrics, logger *zap.Logger) *EventMetricsHandler {
	return &EventMetricsHandler{metrics: metrics, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *EventMetricsHandler) EventTypes() []string {
	return []string{
		inventory.EventTypeStockAdjusted,
		inventory.EventTypeStockDepleted,
		sales.EventTypeSaleRecorded,
		transfer.EventTypeTransferRequested,
		transfer.EventTypeTransferAdjusted,
		transfer.EventTypeTransferApproved,
		catalog.EventTypeRawMaterialImported,
	}
}

// Handle records one metric sample per event. It never fails: a metric
// that cannot be recorded must not poison event delivery.
func (h *EventMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *inventory.StockAdjustedEvent:
		h.metrics.RecordStockAdjusted(ctx, string(e.Dept), string(e.Kind), string(e.Source))
	case *inventory.StockDepletedEvent:
		h.metrics.RecordStockDepleted(ctx, string(e.Kind))
	case *sales.SaleRecordedEvent:
		h.metrics.RecordSale(ctx, string(e.PaymentStatus), e.Quantity)
	case *transfer.TransferRequestedEvent:
		h.metrics.RecordTransfer(ctx, string(transfer.StatusPending))
	case *transfer.TransferAdjustedEvent:
		h.metrics.RecordTransfer(ctx, string(transfer.StatusAdjusted))
	case *transfer.TransferApprovedEvent:
		h.metrics.RecordTransfer(ctx, string(transfer.StatusApproved))
	case *catalog.RawMaterialImportedEvent:
		h.metrics.RecordImportedRows(ctx, 1)
	default:
		h.logger.Debug("unhandled event type for metrics",
			zap.String("event_type", event.EventType()))
	}
	return nil
}

var _ shared.EventHandler = (*EventMetricsHandler)(nil)
