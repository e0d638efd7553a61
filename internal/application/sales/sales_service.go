package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	invapp "github.com/supplychain/backend/internal/application/inventory"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/sales"
	"github.com/supplychain/backend/internal/domain/shared"
)

// RecordSaleRequest represents a request to record a point-of-sale sale
type RecordSaleRequest struct {
	ProducedGoodID uuid.UUID           `json:"produced_good_id" binding:"required"`
	Quantity       int64               `json:"quantity" binding:"required,gt=0"`
	PaymentStatus  sales.PaymentStatus `json:"payment_status" binding:"required"`
	CustomerName   string              `json:"customer_name" binding:"max=255"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID             uuid.UUID           `json:"id"`
	ProducedGoodID uuid.UUID           `json:"produced_good_id"`
	SKU            string              `json:"sku"`
	Quantity       int64               `json:"quantity"`
	PaymentStatus  sales.PaymentStatus `json:"payment_status"`
	CustomerName   string              `json:"customer_name,omitempty"`
	RemainingStock int64               `json:"remaining_stock"`
	CreatedAt      time.Time           `json:"created_at"`
}

// SalesService records point-of-sale transactions. The sale row and the
// stock debit commit in one transaction; a sale never leaves the produced
// good negative.
type SalesService struct {
	scope          invapp.TransactionScope
	storeService   *invapp.StoreService
	saleRepo       sales.SaleRepository
	eventPublisher shared.EventPublisher
}

// NewSalesService creates a new SalesService
func NewSalesService(scope invapp.TransactionScope, storeService *invapp.StoreService, saleRepo sales.SaleRepository) *SalesService {
	return &SalesService{
		scope:        scope,
		storeService: storeService,
		saleRepo:     saleRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SalesService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RecordSale records a sale of a produced good and debits its stock
func (s *SalesService) RecordSale(ctx context.Context, req RecordSaleRequest) (*SaleResponse, error) {
	var response *SaleResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		good, err := repos.ProducedGoodRepo().FindByID(ctx, req.ProducedGoodID)
		if err != nil {
			return err
		}

		sale, err := sales.NewSale(good.ID, good.SKU, req.Quantity, req.PaymentStatus, req.CustomerName)
		if err != nil {
			return err
		}
		if err := repos.SaleRepo().Create(ctx, sale); err != nil {
			return err
		}

		movements, batchEvents, err := s.storeService.ApplyAdjustments(ctx, repos, []inventory.Adjustment{{
			Ref:   inventory.CanonicalRef(inventory.KindProduced, good.ID),
			SKU:   good.SKU,
			Delta: -req.Quantity,
		}}, inventory.SourceSale, &sale.ID, fmt.Sprintf("sale of %d x %s", req.Quantity, good.SKU))
		if err != nil {
			return err
		}

		events = append(batchEvents, sale.GetDomainEvents()...)
		sale.ClearDomainEvents()

		remaining := good.Quantity - req.Quantity
		if len(movements) > 0 {
			remaining = movements[0].QuantityAfter
		}
		response = &SaleResponse{
			ID:             sale.ID,
			ProducedGoodID: sale.ProducedGoodID,
			SKU:            sale.SKU,
			Quantity:       sale.Quantity,
			PaymentStatus:  sale.PaymentStatus,
			CustomerName:   sale.CustomerName,
			RemainingStock: remaining,
			CreatedAt:      sale.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	return response, nil
}

// GetSale retrieves a sale by ID
func (s *SalesService) GetSale(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// ListSales retrieves sales with filtering and pagination
func (s *SalesService) ListSales(ctx context.Context, filter shared.Filter) ([]SaleResponse, int64, error) {
	records, total, err := s.saleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]SaleResponse, 0, len(records))
	for _, sale := range records {
		responses = append(responses, *toSaleResponse(sale))
	}
	return responses, total, nil
}

func toSaleResponse(sale *sales.Sale) *SaleResponse {
	return &SaleResponse{
		ID:             sale.ID,
		ProducedGoodID: sale.ProducedGoodID,
		SKU:            sale.SKU,
		Quantity:       sale.Quantity,
		PaymentStatus:  sale.PaymentStatus,
		CustomerName:   sale.CustomerName,
		CreatedAt:      sale.CreatedAt,
	}
}
