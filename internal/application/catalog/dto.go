package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/catalog"
)

// CreateRawMaterialRequest represents a request to create a raw material
type CreateRawMaterialRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	SKU       string `json:"sku" binding:"required,min=1,max=50"`
	Quantity  int64  `json:"quantity" binding:"min=0"`
	Unit      string `json:"unit" binding:"required,min=1,max=20"`
	ColorCode string `json:"color_code" binding:"max=20"`
}

// CreateProducedGoodRequest represents a request to create a produced good
type CreateProducedGoodRequest struct {
	Name   string           `json:"name" binding:"required,min=1,max=200"`
	SKU    string           `json:"sku" binding:"required,min=1,max=50"`
	Recipe map[string]int64 `json:"recipe" binding:"required"`
}

// RawMaterialResponse represents a raw material in API responses
type RawMaterialResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Quantity  int64     `json:"quantity"`
	Unit      string    `json:"unit"`
	ColorCode string    `json:"color_code,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToRawMaterialResponse converts a raw material to a response
func ToRawMaterialResponse(material *catalog.RawMaterial) RawMaterialResponse {
	return RawMaterialResponse{
		ID:        material.ID,
		Name:      material.Name,
		SKU:       material.SKU,
		Quantity:  material.Quantity,
		Unit:      material.Unit,
		ColorCode: material.ColorCode,
		CreatedAt: material.CreatedAt,
		UpdatedAt: material.UpdatedAt,
	}
}

// ProducedGoodResponse represents a produced good in API responses
type ProducedGoodResponse struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	SKU       string           `json:"sku"`
	Quantity  int64            `json:"quantity"`
	Recipe    map[string]int64 `json:"recipe"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// ToProducedGoodResponse converts a produced good to a response
func ToProducedGoodResponse(good *catalog.ProducedGood) ProducedGoodResponse {
	return ProducedGoodResponse{
		ID:        good.ID,
		Name:      good.Name,
		SKU:       good.SKU,
		Quantity:  good.Quantity,
		Recipe:    good.Recipe,
		CreatedAt: good.CreatedAt,
		UpdatedAt: good.UpdatedAt,
	}
}
