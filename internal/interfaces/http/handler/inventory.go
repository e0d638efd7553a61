package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	inventoryapp "github.com/supplychain/backend/internal/application/inventory"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
)

// StoreHandler handles stock query and adjustment endpoints
type StoreHandler struct {
	BaseHandler
	storeService *inventoryapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *inventoryapp.StoreService) *StoreHandler {
	return &StoreHandler{
		storeService: storeService,
	}
}

// StockRefRequest addresses one stock row: a canonical entity row when
// dept is empty, a department holding otherwise
type StockRefRequest struct {
	Dept   string               `json:"dept" binding:"omitempty,dept"`
	Kind   inventory.EntityKind `json:"kind" binding:"required,entitykind"`
	ItemID uuid.UUID            `json:"item_id" binding:"required"`
}

// ToRef converts the request into a domain stock reference
func (r StockRefRequest) ToRef() inventory.StockRef {
	if r.Dept != "" {
		return inventory.HoldingRef(shared.Department(r.Dept), r.Kind, r.ItemID)
	}
	return inventory.CanonicalRef(r.Kind, r.ItemID)
}

// AdjustStockRequest applies one signed delta to a stock row
type AdjustStockRequest struct {
	StockRefRequest
	SKU      string                   `json:"sku" binding:"required,min=1,max=64"`
	Delta    int64                    `json:"delta" binding:"required"`
	Source   inventory.MovementSource `json:"source" binding:"omitempty,movementsource"`
	SourceID *uuid.UUID               `json:"source_id"`
	Note     string                   `json:"note" binding:"max=500"`
}

// BatchAdjustRequest applies a set of deltas atomically
type BatchAdjustRequest struct {
	Adjustments []AdjustStockRequest     `json:"adjustments" binding:"required,min=1,dive"`
	Source      inventory.MovementSource `json:"source" binding:"omitempty,movementsource"`
	SourceID    *uuid.UUID               `json:"source_id"`
	Note        string                   `json:"note" binding:"max=500"`
}

// AdjustStockResponse reports the quantity after an adjustment
type AdjustStockResponse struct {
	Quantity int64 `json:"quantity"`
}

// Adjust handles POST /inventory/adjust
func (h *StoreHandler) Adjust(c *gin.Context) {
	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	source := req.Source
	if source == "" {
		source = inventory.SourceManual
	}

	adj := inventory.Adjustment{Ref: req.ToRef(), SKU: req.SKU, Delta: req.Delta}
	quantity, err := h.storeService.AdjustQuantity(c.Request.Context(), adj, source, req.SourceID, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AdjustStockResponse{Quantity: quantity})
}

// BatchAdjust handles POST /inventory/adjust/batch
func (h *StoreHandler) BatchAdjust(c *gin.Context) {
	var req BatchAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	source := req.Source
	if source == "" {
		source = inventory.SourceManual
	}

	adjustments := make([]inventory.Adjustment, 0, len(req.Adjustments))
	for _, a := range req.Adjustments {
		adjustments = append(adjustments, inventory.Adjustment{Ref: a.ToRef(), SKU: a.SKU, Delta: a.Delta})
	}

	movements, err := h.storeService.BatchAdjust(c.Request.Context(), adjustments, source, req.SourceID, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]inventoryapp.MovementResponse, 0, len(movements))
	for _, movement := range movements {
		responses = append(responses, inventoryapp.ToMovementResponse(movement))
	}
	h.Success(c, responses)
}

// GetStock handles GET /inventory/stock. The row is addressed by query
// parameters, omitting dept reads the canonical row.
func (h *StoreHandler) GetStock(c *gin.Context) {
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	ref := StockRefRequest{
		Dept:   c.Query("dept"),
		Kind:   inventory.EntityKind(c.Query("kind")),
		ItemID: itemID,
	}

	snapshot, err := h.storeService.Get(c.Request.Context(), ref.ToRef())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inventoryapp.ToStockResponse(snapshot))
}

// ListHoldings handles GET /inventory/holdings/:dept
func (h *StoreHandler) ListHoldings(c *gin.Context) {
	dept, err := shared.ParseDepartment(c.Param("dept"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	holdings, total, err := h.storeService.ListHoldings(c.Request.Context(), dept, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, holdings, total, filter.Page, filter.PageSize)
}

// ListMovements handles GET /inventory/movements
func (h *StoreHandler) ListMovements(c *gin.Context) {
	itemID, err := uuid.Parse(c.Query("item_id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID")
		return
	}

	kind := inventory.EntityKind(c.Query("kind"))
	if !kind.IsValid() {
		h.BadRequest(c, "Invalid entity kind")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	movements, total, err := h.storeService.ListMovements(c.Request.Context(), kind, itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, movements, total, filter.Page, filter.PageSize)
}

// RegisterRoutes registers inventory routes
func (h *StoreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	inv := rg.Group("/inventory")
	{
		inv.POST("/adjust", h.Adjust)
		inv.POST("/adjust/batch", h.BatchAdjust)
		inv.GET("/stock", h.GetStock)
		inv.GET("/holdings/:dept", h.ListHoldings)
		inv.GET("/movements", h.ListMovements)
	}
}
