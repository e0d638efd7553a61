package handler

import (
	"github.com/gin-gonic/gin"

	productionapp "github.com/supplychain/backend/internal/application/production"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
)

// ProductionHandler handles production batch endpoints
type ProductionHandler struct {
	BaseHandler
	productionService *productionapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(productionService *productionapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{
		productionService: productionService,
	}
}

// Produce handles POST /production/produce
func (h *ProductionHandler) Produce(c *gin.Context) {
	var req productionapp.ProduceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.productionService.Produce(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers production routes
func (h *ProductionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	production := rg.Group("/production")
	{
		production.POST("/produce", h.Produce)
	}
}
