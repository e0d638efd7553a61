package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	transferapp "github.com/supplychain/backend/internal/application/transfer"
	"github.com/supplychain/backend/internal/domain/transfer"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
)

// TransferHandler handles transfer request workflow endpoints
type TransferHandler struct {
	BaseHandler
	transferService *transferapp.TransferService
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(transferService *transferapp.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
	}
}

// Create handles POST /transfers
func (h *TransferHandler) Create(c *gin.Context) {
	var req transferapp.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.transferService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Adjust handles POST /transfers/:id/adjust
func (h *TransferHandler) Adjust(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	var req transferapp.AdjustTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.transferService.Adjust(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Approve handles POST /transfers/:id/approve
func (h *TransferHandler) Approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	var req transferapp.ApproveTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.transferService.Approve(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Get handles GET /transfers/:id
func (h *TransferHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid transfer ID")
		return
	}

	result, err := h.transferService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List handles GET /transfers. An optional status query narrows the
// result to one lifecycle state.
func (h *TransferHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := req.ToFilter()

	if statusParam := c.Query("status"); statusParam != "" {
		status := transfer.Status(statusParam)
		if !status.IsValid() {
			h.BadRequest(c, "Unknown transfer status: "+statusParam)
			return
		}
		results, total, err := h.transferService.ListByStatus(c.Request.Context(), status, filter)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
		return
	}

	results, total, err := h.transferService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, results, total, filter.Page, filter.PageSize)
}

// RegisterRoutes registers transfer routes
func (h *TransferHandler) RegisterRoutes(rg *gin.RouterGroup) {
	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.Create)
		transfers.GET("", h.List)
		transfers.GET("/:id", h.Get)
		transfers.POST("/:id/adjust", h.Adjust)
		transfers.POST("/:id/approve", h.Approve)
	}
}
