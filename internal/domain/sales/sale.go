package sales

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// PaymentStatus marks how a sale was settled
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "PAID"
	PaymentCredit PaymentStatus = "CREDIT"
)

// IsValid checks if the payment status is known
func (s PaymentStatus) IsValid() bool {
	return s == PaymentPaid || s == PaymentCredit
}

// String returns the string representation of the payment status
func (s PaymentStatus) String() string {
	return string(s)
}

// Sale records one point-of-sale transaction of a produced good.
// Sales are immutable once recorded; the stock debit happens in the same
// transaction that persists the row.
type Sale struct {
	shared.BaseAggregateRoot
	ProducedGoodID uuid.UUID     `gorm:"type:uuid;not null;index" json:"produced_good_id"`
	SKU            string        `gorm:"not null;size:64;index" json:"sku"`
	Quantity       int64         `gorm:"not null" json:"quantity"`
	PaymentStatus  PaymentStatus `gorm:"not null;size:16" json:"payment_status"`
	CustomerName   string        `gorm:"size:255" json:"customer_name,omitempty"`
}

// TableName returns the table name for Sale
func (Sale) TableName() string {
	return "sales"
}

// NewSale creates a sale record
func NewSale(producedGoodID uuid.UUID, sku string, quantity int64, paymentStatus PaymentStatus, customerName string) (*Sale, error) {
	if producedGoodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Produced good ID cannot be empty")
	}
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "SKU cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}
	if !paymentStatus.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown payment status: "+string(paymentStatus))
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProducedGoodID:    producedGoodID,
		SKU:               sku,
		Quantity:          quantity,
		PaymentStatus:     paymentStatus,
		CustomerName:      customerName,
	}
	sale.AddDomainEvent(NewSaleRecordedEvent(sale))
	return sale, nil
}
