package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
)

// TransferItem is one line of a transfer request. RequestedQty is fixed at
// creation; ApprovedQty is nil until the fulfilling department adjusts the
// request.
type TransferItem struct {
	shared.BaseEntity
	TransferRequestID uuid.UUID            `gorm:"type:uuid;not null;index" json:"transfer_request_id"`
	ItemType          inventory.EntityKind `gorm:"not null;size:16" json:"item_type"`
	ItemID            uuid.UUID            `gorm:"type:uuid;not null" json:"item_id"`
	SKU               string               `gorm:"not null;size:64" json:"sku"`
	RequestedQty      int64                `gorm:"not null" json:"requested_qty"`
	ApprovedQty       *int64               `json:"approved_qty,omitempty"`
}

// TableName returns the table name for TransferItem
func (TransferItem) TableName() string {
	return "transfer_items"
}

// EffectiveQty is the quantity that moves on approval: the adjusted
// quantity when one was set, the requested quantity otherwise.
func (i *TransferItem) EffectiveQty() int64 {
	if i.ApprovedQty != nil {
		return *i.ApprovedQty
	}
	return i.RequestedQty
}

// TransferRequest moves stock between two department holdings. The
// department that fulfills it may adjust the quantity and must approve it
// before any stock moves.
type TransferRequest struct {
	shared.BaseAggregateRoot
	FromDept   shared.Department `gorm:"not null;size:32;index" json:"from_dept"`
	ToDept     shared.Department `gorm:"not null;size:32;index" json:"to_dept"`
	Status     Status            `gorm:"not null;size:16;index;default:'PENDING'" json:"status"`
	Note       string            `gorm:"size:500" json:"note,omitempty"`
	Items      []TransferItem    `gorm:"foreignKey:TransferRequestID;constraint:OnDelete:CASCADE" json:"items"`
	ApprovedBy shared.Department `gorm:"size:32" json:"approved_by,omitempty"`
	ApprovedAt *time.Time        `json:"approved_at,omitempty"`
}

// TableName returns the table name for TransferRequest
func (TransferRequest) TableName() string {
	return "transfer_requests"
}

// NewTransferItemInput carries one requested line at creation time
type NewTransferItemInput struct {
	ItemType     inventory.EntityKind
	ItemID       uuid.UUID
	SKU          string
	RequestedQty int64
}

// NewTransferRequest creates a transfer request in PENDING state
func NewTransferRequest(fromDept, toDept shared.Department, note string, items []NewTransferItemInput) (*TransferRequest, error) {
	if !fromDept.IsValid() {
		return nil, shared.NewDomainError("INVALID_DEPARTMENT", "Unknown source department: "+string(fromDept))
	}
	if !toDept.IsValid() {
		return nil, shared.NewDomainError("INVALID_DEPARTMENT", "Unknown destination department: "+string(toDept))
	}
	if fromDept == toDept {
		return nil, shared.NewDomainError("SAME_DEPARTMENT", "Source and destination departments must differ")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Transfer request must contain at least one item")
	}

	request := &TransferRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FromDept:          fromDept,
		ToDept:            toDept,
		Status:            StatusPending,
		Note:              note,
	}

	seen := make(map[string]bool, len(items))
	for _, input := range items {
		if !input.ItemType.IsValid() {
			return nil, shared.NewDomainError("INVALID_KIND", "Unknown entity kind: "+string(input.ItemType))
		}
		if input.ItemID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Item ID cannot be empty")
		}
		if input.RequestedQty <= 0 {
			return nil, shared.ErrInvalidQuantity
		}
		key := string(input.ItemType) + "/" + input.ItemID.String()
		if seen[key] {
			return nil, shared.NewDomainError("INVALID_INPUT", "Duplicate item in transfer request: "+input.SKU)
		}
		seen[key] = true

		request.Items = append(request.Items, TransferItem{
			BaseEntity:        shared.NewBaseEntity(),
			TransferRequestID: request.ID,
			ItemType:          input.ItemType,
			ItemID:            input.ItemID,
			SKU:               input.SKU,
			RequestedQty:      input.RequestedQty,
		})
	}

	request.AddDomainEvent(NewTransferRequestedEvent(request))
	return request, nil
}

// Adjust sets a uniform approved quantity on every item and moves the
// request to ADJUSTED. Only the department that fulfills the transfer may
// adjust, and only before approval.
func (r *TransferRequest) Adjust(actor shared.Department, quantity int64) error {
	if actor != r.FromDept {
		return shared.ErrForbidden
	}
	if r.Status == StatusApproved {
		return shared.ErrAlreadyApproved
	}
	if !r.Status.CanTransitionTo(StatusAdjusted) {
		return shared.ErrInvalidState
	}
	if quantity < 0 {
		return shared.ErrInvalidQuantity
	}

	for i := range r.Items {
		qty := quantity
		r.Items[i].ApprovedQty = &qty
	}
	r.Status = StatusAdjusted
	r.IncrementVersion()
	r.AddDomainEvent(NewTransferAdjustedEvent(r, actor, quantity))
	return nil
}

// Approve moves the request to APPROVED. Only the department that fulfills
// the transfer may approve. Approving an already approved request fails; the
// actual stock movement is carried out by the caller in the same transaction.
func (r *TransferRequest) Approve(actor shared.Department) error {
	if actor != r.FromDept {
		return shared.ErrForbidden
	}
	if r.Status == StatusApproved {
		return shared.ErrAlreadyApproved
	}
	if !r.Status.CanTransitionTo(StatusApproved) {
		return shared.ErrInvalidState
	}

	now := time.Now()
	r.Status = StatusApproved
	r.ApprovedBy = actor
	r.ApprovedAt = &now
	r.IncrementVersion()
	r.AddDomainEvent(NewTransferApprovedEvent(r))
	return nil
}

// MovementAdjustments returns the paired holding debits and credits that an
// approval applies: for each line with a positive effective quantity, a
// debit against the sending department and a credit to the receiving one.
func (r *TransferRequest) MovementAdjustments() []inventory.Adjustment {
	var adjustments []inventory.Adjustment
	for _, item := range r.Items {
		qty := item.EffectiveQty()
		if qty == 0 {
			continue
		}
		adjustments = append(adjustments,
			inventory.Adjustment{
				Ref:   inventory.HoldingRef(r.FromDept, item.ItemType, item.ItemID),
				SKU:   item.SKU,
				Delta: -qty,
			},
			inventory.Adjustment{
				Ref:   inventory.HoldingRef(r.ToDept, item.ItemType, item.ItemID),
				SKU:   item.SKU,
				Delta: qty,
			},
		)
	}
	return adjustments
}
