package catalog

import (
	"context"

	"github.com/google/uuid"
	invapp "github.com/supplychain/backend/internal/application/inventory"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
)

// CatalogService handles raw material and produced good definitions.
// Creating a raw material also seeds the Procurement holding with the
// opening quantity; both rows commit in the same transaction.
type CatalogService struct {
	scope            invapp.TransactionScope
	rawMaterialRepo  catalog.RawMaterialRepository
	producedGoodRepo catalog.ProducedGoodRepository
	eventPublisher   shared.EventPublisher
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(
	scope invapp.TransactionScope,
	rawMaterialRepo catalog.RawMaterialRepository,
	producedGoodRepo catalog.ProducedGoodRepository,
) *CatalogService {
	return &CatalogService{
		scope:            scope,
		rawMaterialRepo:  rawMaterialRepo,
		producedGoodRepo: producedGoodRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CatalogService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateRawMaterial creates a raw material with an opening quantity. The
// canonical row, the Procurement holding and the opening ledger line are
// written atomically.
func (s *CatalogService) CreateRawMaterial(ctx context.Context, req CreateRawMaterialRequest) (*RawMaterialResponse, error) {
	material, err := catalog.NewRawMaterial(req.Name, req.SKU, req.Quantity, req.Unit, req.ColorCode)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		exists, err := repos.RawMaterialRepo().ExistsBySKU(ctx, material.SKU)
		if err != nil {
			return err
		}
		if exists {
			return shared.ErrDuplicateSKU
		}
		if err := repos.RawMaterialRepo().Create(ctx, material); err != nil {
			return err
		}

		holding, err := inventory.NewDepartmentHolding(shared.DeptProcurement, inventory.KindRaw, material.ID, material.SKU, material.Quantity)
		if err != nil {
			return err
		}
		if err := repos.HoldingRepo().Create(ctx, holding); err != nil {
			return err
		}

		if material.Quantity > 0 {
			movement, err := inventory.NewStockMovement(inventory.Adjustment{
				Ref:   inventory.CanonicalRef(inventory.KindRaw, material.ID),
				SKU:   material.SKU,
				Delta: material.Quantity,
			}, material.Quantity, inventory.SourceOpening, nil, "opening stock")
			if err != nil {
				return err
			}
			return repos.MovementRepo().Create(ctx, movement)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, material)
	response := ToRawMaterialResponse(material)
	return &response, nil
}

// CreateProducedGood creates a produced good definition with zero stock.
// Every SKU referenced by the recipe must name an existing raw material;
// the duplicate check, recipe verification and insert commit as one unit.
func (s *CatalogService) CreateProducedGood(ctx context.Context, req CreateProducedGoodRequest) (*ProducedGoodResponse, error) {
	good, err := catalog.NewProducedGood(req.Name, req.SKU, req.Recipe)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		exists, err := repos.ProducedGoodRepo().ExistsBySKU(ctx, good.SKU)
		if err != nil {
			return err
		}
		if exists {
			return shared.ErrDuplicateSKU
		}

		skus := good.Recipe.SortedSKUs()
		materials, err := repos.RawMaterialRepo().FindBySKUs(ctx, skus)
		if err != nil {
			return err
		}
		found := make(map[string]bool, len(materials))
		for _, material := range materials {
			found[material.SKU] = true
		}
		for _, sku := range skus {
			if !found[sku] {
				return shared.NewDomainError("UNKNOWN_RAW_SKU", "Recipe references unknown raw material: "+sku)
			}
		}

		return repos.ProducedGoodRepo().Create(ctx, good)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, good)
	response := ToProducedGoodResponse(good)
	return &response, nil
}

// GetRawMaterial retrieves a raw material by ID
func (s *CatalogService) GetRawMaterial(ctx context.Context, id uuid.UUID) (*RawMaterialResponse, error) {
	material, err := s.rawMaterialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToRawMaterialResponse(material)
	return &response, nil
}

// ListRawMaterials retrieves raw materials with filtering and pagination
func (s *CatalogService) ListRawMaterials(ctx context.Context, filter shared.Filter) ([]RawMaterialResponse, int64, error) {
	materials, total, err := s.rawMaterialRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]RawMaterialResponse, 0, len(materials))
	for i := range materials {
		responses = append(responses, ToRawMaterialResponse(&materials[i]))
	}
	return responses, total, nil
}

// GetProducedGood retrieves a produced good by ID
func (s *CatalogService) GetProducedGood(ctx context.Context, id uuid.UUID) (*ProducedGoodResponse, error) {
	good, err := s.producedGoodRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProducedGoodResponse(good)
	return &response, nil
}

// ListProducedGoods retrieves produced goods with filtering and pagination
func (s *CatalogService) ListProducedGoods(ctx context.Context, filter shared.Filter) ([]ProducedGoodResponse, int64, error) {
	goods, total, err := s.producedGoodRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ProducedGoodResponse, 0, len(goods))
	for i := range goods {
		responses = append(responses, ToProducedGoodResponse(&goods[i]))
	}
	return responses, total, nil
}

// publishDomainEvents publishes pending events after a successful commit
func (s *CatalogService) publishDomainEvents(ctx context.Context, aggregate shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	events := aggregate.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	aggregate.ClearDomainEvents()
}
