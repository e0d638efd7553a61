package transfer

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

const (
	AggregateTypeTransferRequest = "TransferRequest"

	EventTypeTransferRequested = "transfer.request.created"
	EventTypeTransferAdjusted  = "transfer.request.adjusted"
	EventTypeTransferApproved  = "transfer.request.approved"
)

// TransferRequestedEvent is emitted when a transfer request is created
type TransferRequestedEvent struct {
	shared.BaseDomainEvent
	TransferRequestID uuid.UUID         `json:"transfer_request_id"`
	FromDept          shared.Department `json:"from_dept"`
	ToDept            shared.Department `json:"to_dept"`
	ItemCount         int               `json:"item_count"`
}

// NewTransferRequestedEvent creates a transfer requested event
func NewTransferRequestedEvent(request *TransferRequest) *TransferRequestedEvent {
	return &TransferRequestedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransferRequested, AggregateTypeTransferRequest, request.ID),
		TransferRequestID: request.ID,
		FromDept:          request.FromDept,
		ToDept:            request.ToDept,
		ItemCount:         len(request.Items),
	}
}

// TransferAdjustedEvent is emitted when the fulfilling department adjusts
// the requested quantities
type TransferAdjustedEvent struct {
	shared.BaseDomainEvent
	TransferRequestID uuid.UUID         `json:"transfer_request_id"`
	AdjustedBy        shared.Department `json:"adjusted_by"`
	ApprovedQty       int64             `json:"approved_qty"`
}

// NewTransferAdjustedEvent creates a transfer adjusted event
func NewTransferAdjustedEvent(request *TransferRequest, adjustedBy shared.Department, approvedQty int64) *TransferAdjustedEvent {
	return &TransferAdjustedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransferAdjusted, AggregateTypeTransferRequest, request.ID),
		TransferRequestID: request.ID,
		AdjustedBy:        adjustedBy,
		ApprovedQty:       approvedQty,
	}
}

// TransferApprovedEvent is emitted when a transfer request is approved and
// its stock has moved
type TransferApprovedEvent struct {
	shared.BaseDomainEvent
	TransferRequestID uuid.UUID         `json:"transfer_request_id"`
	FromDept          shared.Department `json:"from_dept"`
	ToDept            shared.Department `json:"to_dept"`
	ApprovedBy        shared.Department `json:"approved_by"`
}

// NewTransferApprovedEvent creates a transfer approved event
func NewTransferApprovedEvent(request *TransferRequest) *TransferApprovedEvent {
	return &TransferApprovedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeTransferApproved, AggregateTypeTransferRequest, request.ID),
		TransferRequestID: request.ID,
		FromDept:          request.FromDept,
		ToDept:            request.ToDept,
		ApprovedBy:        request.ApprovedBy,
	}
}
