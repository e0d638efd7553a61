package inventory

import (
	"context"
	"fmt"

	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockAlert describes a row that has run dry
type StockAlert struct {
	Dept   shared.Department    `json:"dept,omitempty"`
	Kind   inventory.EntityKind `json:"kind"`
	ItemID string               `json:"item_id"`
	SKU    string               `json:"sku"`
}

// StockAlertNotifier sends depletion alerts. Implementations can support
// different channels (in-app, email, webhook).
type StockAlertNotifier interface {
	SendAlert(ctx context.Context, alert StockAlert) error
}

// StockDepletedHandler reacts to rows hitting zero and raises alerts
type StockDepletedHandler struct {
	logger   *zap.Logger
	notifier StockAlertNotifier
}

// NewStockDepletedHandler creates a new handler for stock depleted events
func NewStockDepletedHandler(logger *zap.Logger) *StockDepletedHandler {
	return &StockDepletedHandler{logger: logger}
}

// WithNotifier sets the notifier for sending alerts
func (h *StockDepletedHandler) WithNotifier(notifier StockAlertNotifier) *StockDepletedHandler {
	h.notifier = notifier
	return h
}

// EventTypes returns the event types this handler is interested in
func (h *StockDepletedHandler) EventTypes() []string {
	return []string{inventory.EventTypeStockDepleted}
}

// Handle processes a StockDepletedEvent
func (h *StockDepletedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	depleted, ok := event.(*inventory.StockDepletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			inventory.EventTypeStockDepleted, event.EventType())
	}

	h.logger.Warn("stock depleted",
		zap.String("dept", string(depleted.Dept)),
		zap.String("kind", string(depleted.Kind)),
		zap.String("item_id", depleted.ItemID.String()),
		zap.String("sku", depleted.SKU),
	)

	if h.notifier == nil {
		return nil
	}
	alert := StockAlert{
		Dept:   depleted.Dept,
		Kind:   depleted.Kind,
		ItemID: depleted.ItemID.String(),
		SKU:    depleted.SKU,
	}
	if err := h.notifier.SendAlert(ctx, alert); err != nil {
		// notification failure must not fail event handling
		h.logger.Error("failed to send stock alert", zap.String("sku", alert.SKU), zap.Error(err))
	}
	return nil
}

var _ shared.EventHandler = (*StockDepletedHandler)(nil)

// LoggingStockAlertNotifier logs alerts instead of delivering them.
// Useful for development and testing.
type LoggingStockAlertNotifier struct {
	logger *zap.Logger
}

// NewLoggingStockAlertNotifier creates a new logging notifier
func NewLoggingStockAlertNotifier(logger *zap.Logger) *LoggingStockAlertNotifier {
	return &LoggingStockAlertNotifier{logger: logger}
}

// SendAlert logs the stock alert
func (n *LoggingStockAlertNotifier) SendAlert(_ context.Context, alert StockAlert) error {
	n.logger.Warn("STOCK ALERT",
		zap.String("dept", string(alert.Dept)),
		zap.String("kind", string(alert.Kind)),
		zap.String("sku", alert.SKU),
	)
	return nil
}

var _ StockAlertNotifier = (*LoggingStockAlertNotifier)(nil)
