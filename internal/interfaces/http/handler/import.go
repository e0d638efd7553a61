package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	importapp "github.com/supplychain/backend/internal/application/import"
	"github.com/supplychain/backend/internal/interfaces/http/dto"
)

// ImportHandler handles bulk raw material import endpoints
type ImportHandler struct {
	BaseHandler
	importService   *importapp.RawMaterialImportService
	maxPayloadBytes int64
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService *importapp.RawMaterialImportService, maxPayloadBytes int64) *ImportHandler {
	if maxPayloadBytes <= 0 {
		maxPayloadBytes = 5 * 1024 * 1024
	}
	return &ImportHandler{
		importService:   importService,
		maxPayloadBytes: maxPayloadBytes,
	}
}

// ImportRawMaterials handles POST /import/raw-materials. The CSV is
// uploaded as a multipart "file" field.
func (h *ImportHandler) ImportRawMaterials(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxPayloadBytes {
		h.PayloadTooLarge(c, "file exceeds maximum import size")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && contentType != "text/csv" && contentType != "application/octet-stream" &&
		contentType != "text/plain" && contentType != "application/vnd.ms-excel" {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, h.maxPayloadBytes+1))
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	if int64(len(data)) > h.maxPayloadBytes {
		h.PayloadTooLarge(c, "file exceeds maximum import size")
		return
	}

	result, err := h.importService.BulkUpsert(c.Request.Context(), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers import routes
func (h *ImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	imports := rg.Group("/import")
	{
		imports.POST("/raw-materials", h.ImportRawMaterials)
	}
}
