package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/transfer"
)

// TransferItemRequest is one requested line in a create request
type TransferItemRequest struct {
	ItemType     inventory.EntityKind `json:"item_type" binding:"required,entitykind"`
	ItemID       uuid.UUID            `json:"item_id" binding:"required"`
	RequestedQty int64                `json:"requested_qty" binding:"required,gt=0"`
}

// CreateTransferRequest represents a request to create a transfer
type CreateTransferRequest struct {
	FromDept shared.Department     `json:"from_dept" binding:"required,dept"`
	ToDept   shared.Department     `json:"to_dept" binding:"required,dept"`
	Note     string                `json:"note" binding:"max=500"`
	Items    []TransferItemRequest `json:"items" binding:"required,min=1,dive"`
}

// AdjustTransferRequest represents a request to adjust the quantities
type AdjustTransferRequest struct {
	Actor    shared.Department `json:"actor" binding:"required,dept"`
	Quantity int64             `json:"quantity" binding:"min=0"`
}

// ApproveTransferRequest represents a request to approve a transfer
type ApproveTransferRequest struct {
	Actor shared.Department `json:"actor" binding:"required,dept"`
}

// TransferItemResponse is one line of a transfer in API responses
type TransferItemResponse struct {
	ID           uuid.UUID            `json:"id"`
	ItemType     inventory.EntityKind `json:"item_type"`
	ItemID       uuid.UUID            `json:"item_id"`
	SKU          string               `json:"sku"`
	RequestedQty int64                `json:"requested_qty"`
	ApprovedQty  *int64               `json:"approved_qty,omitempty"`
}

// TransferResponse represents a transfer request in API responses
type TransferResponse struct {
	ID         uuid.UUID              `json:"id"`
	FromDept   shared.Department      `json:"from_dept"`
	ToDept     shared.Department      `json:"to_dept"`
	Status     transfer.Status        `json:"status"`
	Note       string                 `json:"note,omitempty"`
	Items      []TransferItemResponse `json:"items"`
	ApprovedBy shared.Department      `json:"approved_by,omitempty"`
	ApprovedAt *time.Time             `json:"approved_at,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// ToTransferResponse converts a transfer request to a response
func ToTransferResponse(request *transfer.TransferRequest) TransferResponse {
	items := make([]TransferItemResponse, 0, len(request.Items))
	for _, item := range request.Items {
		items = append(items, TransferItemResponse{
			ID:           item.ID,
			ItemType:     item.ItemType,
			ItemID:       item.ItemID,
			SKU:          item.SKU,
			RequestedQty: item.RequestedQty,
			ApprovedQty:  item.ApprovedQty,
		})
	}
	return TransferResponse{
		ID:         request.ID,
		FromDept:   request.FromDept,
		ToDept:     request.ToDept,
		Status:     request.Status,
		Note:       request.Note,
		Items:      items,
		ApprovedBy: request.ApprovedBy,
		ApprovedAt: request.ApprovedAt,
		CreatedAt:  request.CreatedAt,
		UpdatedAt:  request.UpdatedAt,
	}
}
