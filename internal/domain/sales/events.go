package sales

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

const (
	AggregateTypeSale = "Sale"

	EventTypeSaleRecorded = "sales.sale.recorded"
)

// SaleRecordedEvent is emitted when a sale is recorded
type SaleRecordedEvent struct {
	shared.BaseDomainEvent
	SaleID         uuid.UUID     `json:"sale_id"`
	ProducedGoodID uuid.UUID     `json:"produced_good_id"`
	SKU            string        `json:"sku"`
	Quantity       int64         `json:"quantity"`
	PaymentStatus  PaymentStatus `json:"payment_status"`
}

// NewSaleRecordedEvent creates a sale recorded event
func NewSaleRecordedEvent(sale *Sale) *SaleRecordedEvent {
	return &SaleRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleRecorded, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		ProducedGoodID:  sale.ProducedGoodID,
		SKU:             sale.SKU,
		Quantity:        sale.Quantity,
		PaymentStatus:   sale.PaymentStatus,
	}
}
