package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
)

// StoreService is the single write path for stock quantities. Every quantity
// change in the system, whatever operation caused it, goes through one of
// its adjust methods and lands in the movement ledger.
type StoreService struct {
	scope          TransactionScope
	stockRepo      inventory.StockRepository
	holdingRepo    inventory.HoldingRepository
	movementRepo   inventory.MovementRepository
	eventPublisher shared.EventPublisher
}

// NewStoreService creates a new StoreService
func NewStoreService(
	scope TransactionScope,
	stockRepo inventory.StockRepository,
	holdingRepo inventory.HoldingRepository,
	movementRepo inventory.MovementRepository,
) *StoreService {
	return &StoreService{
		scope:        scope,
		stockRepo:    stockRepo,
		holdingRepo:  holdingRepo,
		movementRepo: movementRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *StoreService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AdjustQuantity applies a single signed delta to one stock row
func (s *StoreService) AdjustQuantity(ctx context.Context, adj inventory.Adjustment, source inventory.MovementSource, sourceID *uuid.UUID, note string) (int64, error) {
	results, err := s.BatchAdjust(ctx, []inventory.Adjustment{adj}, source, sourceID, note)
	if err != nil {
		return 0, err
	}
	if len(results) == 0 {
		snapshot, err := s.Get(ctx, adj.Ref)
		if err != nil {
			return 0, err
		}
		return snapshot.Quantity, nil
	}
	return results[0].QuantityAfter, nil
}

// BatchAdjust applies a set of adjustments atomically: either every row is
// changed and its ledger line written, or none are. Deltas targeting the
// same row are merged first and rows are touched in a stable global order.
func (s *StoreService) BatchAdjust(ctx context.Context, adjustments []inventory.Adjustment, source inventory.MovementSource, sourceID *uuid.UUID, note string) ([]*inventory.StockMovement, error) {
	var movements []*inventory.StockMovement
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		movements, events, err = s.ApplyAdjustments(ctx, repos, adjustments, source, sourceID, note)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, events)
	return movements, nil
}

// ApplyAdjustments runs a batch inside an already-open transaction. Callers
// that persist a business record (a sale, an approved transfer) in the same
// transaction use this variant, publish the returned events themselves after
// the commit, and let a failed adjustment roll back the whole unit.
func (s *StoreService) ApplyAdjustments(ctx context.Context, repos TransactionalRepositories, adjustments []inventory.Adjustment, source inventory.MovementSource, sourceID *uuid.UUID, note string) ([]*inventory.StockMovement, []shared.DomainEvent, error) {
	if !source.IsValid() {
		return nil, nil, shared.NewDomainError("INVALID_INPUT", "Unknown movement source: "+string(source))
	}
	for _, adj := range adjustments {
		if err := adj.Validate(); err != nil {
			return nil, nil, err
		}
	}

	merged := inventory.MergeAdjustments(adjustments)
	if len(merged) == 0 {
		return nil, nil, nil
	}

	movements := make([]*inventory.StockMovement, 0, len(merged))
	events := make([]shared.DomainEvent, 0, len(merged))
	for _, adj := range merged {
		newQty, err := applyAdjustment(ctx, repos.StockRepo(), adj)
		if err != nil {
			return nil, nil, err
		}

		movement, err := inventory.NewStockMovement(adj, newQty, source, sourceID, note)
		if err != nil {
			return nil, nil, err
		}
		movements = append(movements, movement)

		events = append(events, inventory.NewStockAdjustedEvent(adj, newQty, source))
		if newQty == 0 && adj.Delta < 0 {
			events = append(events, inventory.NewStockDepletedEvent(adj.Ref, adj.SKU))
		}
	}
	if err := repos.MovementRepo().CreateBatch(ctx, movements); err != nil {
		return nil, nil, err
	}
	return movements, events, nil
}

// PublishEvents publishes events collected by ApplyAdjustments after the
// surrounding transaction has committed
func (s *StoreService) PublishEvents(ctx context.Context, events []shared.DomainEvent) {
	s.publishEvents(ctx, events)
}

// applyAdjustment routes one adjustment to the holding or canonical row
func applyAdjustment(ctx context.Context, repo inventory.StockRepository, adj inventory.Adjustment) (int64, error) {
	if adj.Ref.IsHolding() {
		return repo.AdjustHolding(ctx, adj.Ref.Dept, adj.Ref.Kind, adj.Ref.ItemID, adj.SKU, adj.Delta)
	}
	return repo.AdjustCanonical(ctx, adj.Ref.Kind, adj.Ref.ItemID, adj.Delta)
}

// Get returns the current snapshot of one stock row
func (s *StoreService) Get(ctx context.Context, ref inventory.StockRef) (*inventory.StockSnapshot, error) {
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if ref.IsHolding() {
		return s.stockRepo.GetHolding(ctx, ref.Dept, ref.Kind, ref.ItemID)
	}
	return s.stockRepo.GetCanonical(ctx, ref.Kind, ref.ItemID)
}

// ListHoldings returns the holdings of one department
func (s *StoreService) ListHoldings(ctx context.Context, dept shared.Department, filter shared.Filter) ([]HoldingResponse, int64, error) {
	if !dept.IsValid() {
		return nil, 0, shared.NewDomainError("INVALID_DEPARTMENT", "Unknown department: "+string(dept))
	}
	holdings, total, err := s.holdingRepo.FindByDepartment(ctx, dept, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]HoldingResponse, 0, len(holdings))
	for _, holding := range holdings {
		responses = append(responses, ToHoldingResponse(holding))
	}
	return responses, total, nil
}

// ListMovements returns the ledger lines of one entity, newest first
func (s *StoreService) ListMovements(ctx context.Context, kind inventory.EntityKind, itemID uuid.UUID, filter shared.Filter) ([]MovementResponse, int64, error) {
	if !kind.IsValid() {
		return nil, 0, shared.NewDomainError("INVALID_KIND", "Unknown entity kind: "+string(kind))
	}
	movements, total, err := s.movementRepo.FindByItem(ctx, kind, itemID, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]MovementResponse, 0, len(movements))
	for _, movement := range movements {
		responses = append(responses, ToMovementResponse(movement))
	}
	return responses, total, nil
}

// publishEvents publishes events after a successful commit (errors are
// logged by the event bus, not propagated)
func (s *StoreService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}
