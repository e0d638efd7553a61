package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/supplychain/backend/internal/application/catalog"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
	"github.com/supplychain/backend/internal/interfaces/http/middleware"
)

// CatalogHandler handles raw material and produced good endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// CreateRawMaterial handles POST /catalog/raw-materials
func (h *CatalogHandler) CreateRawMaterial(c *gin.Context) {
	var req catalogapp.CreateRawMaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	material, err := h.catalogService.CreateRawMaterial(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, material)
}

// GetRawMaterial handles GET /catalog/raw-materials/:id
func (h *CatalogHandler) GetRawMaterial(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid raw material ID")
		return
	}

	material, err := h.catalogService.GetRawMaterial(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// ListRawMaterials handles GET /catalog/raw-materials
func (h *CatalogHandler) ListRawMaterials(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	materials, total, err := h.catalogService.ListRawMaterials(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, materials, total, filter.Page, filter.PageSize)
}

// CreateProducedGood handles POST /catalog/produced-goods
func (h *CatalogHandler) CreateProducedGood(c *gin.Context) {
	var req catalogapp.CreateProducedGoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	good, err := h.catalogService.CreateProducedGood(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, good)
}

// GetProducedGood handles GET /catalog/produced-goods/:id
func (h *CatalogHandler) GetProducedGood(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid produced good ID")
		return
	}

	good, err := h.catalogService.GetProducedGood(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, good)
}

// ListProducedGoods handles GET /catalog/produced-goods
func (h *CatalogHandler) ListProducedGoods(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	filter := req.ToFilter()
	goods, total, err := h.catalogService.ListProducedGoods(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, goods, total, filter.Page, filter.PageSize)
}

// RegisterRoutes registers catalog routes
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/catalog")
	{
		catalog.POST("/raw-materials", h.CreateRawMaterial)
		catalog.GET("/raw-materials", h.ListRawMaterials)
		catalog.GET("/raw-materials/:id", h.GetRawMaterial)
		catalog.POST("/produced-goods", h.CreateProducedGood)
		catalog.GET("/produced-goods", h.ListProducedGoods)
		catalog.GET("/produced-goods/:id", h.GetProducedGood)
	}
}
