package production

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	invapp "github.com/supplychain/backend/internal/application/inventory"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
)

// ProduceRequest represents a request to run a production batch
type ProduceRequest struct {
	ProducedGoodID uuid.UUID `json:"produced_good_id" binding:"required"`
	Quantity       int64     `json:"quantity" binding:"required,gt=0"`
}

// ProduceResponse summarises an executed production batch
type ProduceResponse struct {
	ProducedGoodID uuid.UUID        `json:"produced_good_id"`
	SKU            string           `json:"sku"`
	Quantity       int64            `json:"quantity"`
	NewStock       int64            `json:"new_stock"`
	Consumed       map[string]int64 `json:"consumed"`
}

// ProductionService converts raw materials into produced goods. A batch
// debits every recipe ingredient and credits the produced good in one
// transaction; a single short ingredient fails the whole batch.
type ProductionService struct {
	scope          invapp.TransactionScope
	storeService   *invapp.StoreService
	eventPublisher shared.EventPublisher
}

// NewProductionService creates a new ProductionService
func NewProductionService(scope invapp.TransactionScope, storeService *invapp.StoreService) *ProductionService {
	return &ProductionService{
		scope:        scope,
		storeService: storeService,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Produce runs one production batch. The required amount of each ingredient
// is recipe quantity times batch quantity; the produced good is credited
// both on its canonical row and in the Manufacturing holding.
func (s *ProductionService) Produce(ctx context.Context, req ProduceRequest) (*ProduceResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	var response *ProduceResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		good, err := repos.ProducedGoodRepo().FindByID(ctx, req.ProducedGoodID)
		if err != nil {
			return err
		}

		adjustments, consumed, err := s.batchAdjustments(ctx, repos, good, req.Quantity)
		if err != nil {
			return err
		}

		movements, batchEvents, err := s.storeService.ApplyAdjustments(ctx, repos, adjustments,
			inventory.SourceProduction, &good.ID, fmt.Sprintf("production batch of %d x %s", req.Quantity, good.SKU))
		if err != nil {
			return err
		}
		events = batchEvents

		newStock := good.Quantity + req.Quantity
		for _, movement := range movements {
			if movement.Dept == "" && movement.Kind == inventory.KindProduced && movement.ItemID == good.ID {
				newStock = movement.QuantityAfter
			}
		}
		response = &ProduceResponse{
			ProducedGoodID: good.ID,
			SKU:            good.SKU,
			Quantity:       req.Quantity,
			NewStock:       newStock,
			Consumed:       consumed,
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

// batchAdjustments resolves the recipe against current raw material stock
// and builds the full adjustment set for one batch. Ingredients are checked
// in SKU order so a short batch always reports the same ingredient first.
func (s *ProductionService) batchAdjustments(ctx context.Context, repos invapp.TransactionalRepositories, good *catalog.ProducedGood, quantity int64) ([]inventory.Adjustment, map[string]int64, error) {
	skus := good.Recipe.SortedSKUs()
	materials, err := repos.RawMaterialRepo().FindBySKUs(ctx, skus)
	if err != nil {
		return nil, nil, err
	}
	bySKU := make(map[string]*catalog.RawMaterial, len(materials))
	for i := range materials {
		bySKU[materials[i].SKU] = &materials[i]
	}

	adjustments := make([]inventory.Adjustment, 0, len(skus)+2)
	consumed := make(map[string]int64, len(skus))
	for _, sku := range skus {
		material, ok := bySKU[sku]
		if !ok {
			return nil, nil, shared.NewDomainError("NOT_FOUND", "Recipe references unknown raw material: "+sku)
		}
		required := good.Recipe[sku] * quantity
		if material.Quantity < required {
			return nil, nil, shared.NewDomainError("INSUFFICIENT_STOCK",
				fmt.Sprintf("Insufficient stock of %s: need %d, have %d", sku, required, material.Quantity))
		}
		adjustments = append(adjustments, inventory.Adjustment{
			Ref:   inventory.CanonicalRef(inventory.KindRaw, material.ID),
			SKU:   sku,
			Delta: -required,
		})
		consumed[sku] = required
	}

	adjustments = append(adjustments,
		inventory.Adjustment{
			Ref:   inventory.CanonicalRef(inventory.KindProduced, good.ID),
			SKU:   good.SKU,
			Delta: quantity,
		},
		inventory.Adjustment{
			Ref:   inventory.HoldingRef(shared.DeptManufacturing, inventory.KindProduced, good.ID),
			SKU:   good.SKU,
			Delta: quantity,
		},
	)
	return adjustments, consumed, nil
}
