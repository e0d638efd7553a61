package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	invapp "github.com/supplychain/backend/internal/application/inventory"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/transfer"
)

// TransferService drives the transfer request lifecycle. Approval is the
// only step that moves stock: the status flip and the holding movements
// commit in one transaction, guarded by the request's version so two
// concurrent approvals cannot both move stock.
type TransferService struct {
	scope          invapp.TransactionScope
	storeService   *invapp.StoreService
	transferRepo   transfer.TransferRequestRepository
	eventPublisher shared.EventPublisher
}

// NewTransferService creates a new TransferService
func NewTransferService(scope invapp.TransactionScope, storeService *invapp.StoreService, transferRepo transfer.TransferRequestRepository) *TransferService {
	return &TransferService{
		scope:        scope,
		storeService: storeService,
		transferRepo: transferRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TransferService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a transfer request in PENDING state. Every line must
// reference an existing entity; stock is not checked or reserved here.
func (s *TransferService) Create(ctx context.Context, req CreateTransferRequest) (*TransferResponse, error) {
	items := make([]transfer.NewTransferItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		sku, err := s.resolveSKU(ctx, item.ItemType, item.ItemID)
		if err != nil {
			return nil, err
		}
		items = append(items, transfer.NewTransferItemInput{
			ItemType:     item.ItemType,
			ItemID:       item.ItemID,
			SKU:          sku,
			RequestedQty: item.RequestedQty,
		})
	}

	request, err := transfer.NewTransferRequest(req.FromDept, req.ToDept, req.Note, items)
	if err != nil {
		return nil, err
	}
	if err := s.transferRepo.Create(ctx, request); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, request)
	response := ToTransferResponse(request)
	return &response, nil
}

// resolveSKU looks up the SKU of a referenced entity via the catalog
func (s *TransferService) resolveSKU(ctx context.Context, kind inventory.EntityKind, itemID uuid.UUID) (string, error) {
	if !kind.IsValid() {
		return "", shared.NewDomainError("INVALID_KIND", "Unknown entity kind: "+string(kind))
	}
	snapshot, err := s.storeService.Get(ctx, inventory.CanonicalRef(kind, itemID))
	if err != nil {
		return "", err
	}
	return snapshot.SKU, nil
}

// Adjust sets the approved quantity on a pending request. The write is
// guarded by the request version; a concurrent writer surfaces as a
// concurrency conflict for the caller to retry.
func (s *TransferService) Adjust(ctx context.Context, id uuid.UUID, req AdjustTransferRequest) (*TransferResponse, error) {
	request, err := s.transferRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expectedVersion := request.GetVersion()
	if err := request.Adjust(req.Actor, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.transferRepo.SaveWithLock(ctx, request, expectedVersion); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, request)
	response := ToTransferResponse(request)
	return &response, nil
}

// Approve approves the request and moves the effective quantity of every
// line from the sending department's holding to the receiving one's. An
// insufficient source holding rolls back the approval entirely.
func (s *TransferService) Approve(ctx context.Context, id uuid.UUID, req ApproveTransferRequest) (*TransferResponse, error) {
	var response *TransferResponse
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		request, err := repos.TransferRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		expectedVersion := request.GetVersion()
		if err := request.Approve(req.Actor); err != nil {
			return err
		}
		if err := repos.TransferRepo().SaveWithLock(ctx, request, expectedVersion); err != nil {
			return err
		}

		_, batchEvents, err := s.storeService.ApplyAdjustments(ctx, repos, request.MovementAdjustments(),
			inventory.SourceTransfer, &request.ID,
			fmt.Sprintf("transfer %s -> %s", request.FromDept, request.ToDept))
		if err != nil {
			return err
		}

		events = append(batchEvents, request.GetDomainEvents()...)
		request.ClearDomainEvents()
		r := ToTransferResponse(request)
		response = &r
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

// Get retrieves a transfer request by ID
func (s *TransferService) Get(ctx context.Context, id uuid.UUID) (*TransferResponse, error) {
	request, err := s.transferRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToTransferResponse(request)
	return &response, nil
}

// List retrieves transfer requests with filtering and pagination
func (s *TransferService) List(ctx context.Context, filter shared.Filter) ([]TransferResponse, int64, error) {
	requests, total, err := s.transferRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]TransferResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, ToTransferResponse(request))
	}
	return responses, total, nil
}

// ListByStatus retrieves transfer requests in one lifecycle state
func (s *TransferService) ListByStatus(ctx context.Context, status transfer.Status, filter shared.Filter) ([]TransferResponse, int64, error) {
	if !status.IsValid() {
		return nil, 0, shared.NewDomainError("INVALID_INPUT", "Unknown transfer status: "+string(status))
	}
	requests, total, err := s.transferRepo.FindByStatus(ctx, status, filter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]TransferResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, ToTransferResponse(request))
	}
	return responses, total, nil
}

// publishDomainEvents publishes pending events after a successful write
func (s *TransferService) publishDomainEvents(ctx context.Context, request *transfer.TransferRequest) {
	if s.eventPublisher == nil {
		return
	}
	events := request.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	request.ClearDomainEvents()
}
