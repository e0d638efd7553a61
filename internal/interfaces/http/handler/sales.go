package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/supplychain/backend/internal/application/sales"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
)

// SalesHandler handles point-of-sale endpoints
type SalesHandler struct {
	BaseHandler
	salesService *salesapp.SalesService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(salesService *salesapp.SalesService) *SalesHandler {
	return &SalesHandler{
		salesService: salesService,
	}
}

// RecordSale handles POST /sales
func (h *SalesHandler) RecordSale(c *gin.Context) {
	var req salesapp.RecordSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	sale, err := h.salesService.RecordSale(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, sale)
}

// GetSale handles GET /sales/:id
func (h *SalesHandler) GetSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.salesService.GetSale(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sale)
}

// ListSales handles GET /sales
func (h *SalesHandler) ListSales(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	sales, total, err := h.salesService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// RegisterRoutes registers sales routes
func (h *SalesHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sales := rg.Group("/sales")
	{
		sales.POST("", h.RecordSale)
		sales.GET("", h.ListSales)
		sales.GET("/:id", h.GetSale)
	}
}
