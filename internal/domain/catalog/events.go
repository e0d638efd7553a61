package catalog

import (
	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeRawMaterial  = "RawMaterial"
	AggregateTypeProducedGood = "ProducedGood"
)

// Event type constants
const (
	EventTypeRawMaterialCreated  = "catalog.raw_material.created"
	EventTypeRawMaterialImported = "catalog.raw_material.imported"
	EventTypeProducedGoodCreated = "catalog.produced_good.created"
)

// RawMaterialCreatedEvent is published when Procurement defines a new raw material
type RawMaterialCreatedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID `json:"material_id"`
	SKU        string    `json:"sku"`
	Name       string    `json:"name"`
	Quantity   int64     `json:"quantity"`
	Unit       string    `json:"unit"`
}

// NewRawMaterialCreatedEvent creates a new RawMaterialCreatedEvent
func NewRawMaterialCreatedEvent(m *RawMaterial) *RawMaterialCreatedEvent {
	return &RawMaterialCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRawMaterialCreated, AggregateTypeRawMaterial, m.ID),
		MaterialID:      m.ID,
		SKU:             m.SKU,
		Name:            m.Name,
		Quantity:        m.Quantity,
		Unit:            m.Unit,
	}
}

// RawMaterialImportedEvent is published when a bulk import updates a raw material
type RawMaterialImportedEvent struct {
	shared.BaseDomainEvent
	MaterialID uuid.UUID `json:"material_id"`
	SKU        string    `json:"sku"`
	Quantity   int64     `json:"quantity"`
}

// NewRawMaterialImportedEvent creates a new RawMaterialImportedEvent
func NewRawMaterialImportedEvent(m *RawMaterial) *RawMaterialImportedEvent {
	return &RawMaterialImportedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRawMaterialImported, AggregateTypeRawMaterial, m.ID),
		MaterialID:      m.ID,
		SKU:             m.SKU,
		Quantity:        m.Quantity,
	}
}

// ProducedGoodCreatedEvent is published when Manufacturing defines a new product
type ProducedGoodCreatedEvent struct {
	shared.BaseDomainEvent
	GoodID uuid.UUID `json:"good_id"`
	SKU    string    `json:"sku"`
	Name   string    `json:"name"`
	Recipe Recipe    `json:"recipe"`
}

// NewProducedGoodCreatedEvent creates a new ProducedGoodCreatedEvent
func NewProducedGoodCreatedEvent(g *ProducedGood) *ProducedGoodCreatedEvent {
	return &ProducedGoodCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProducedGoodCreated, AggregateTypeProducedGood, g.ID),
		GoodID:          g.ID,
		SKU:             g.SKU,
		Name:            g.Name,
		Recipe:          g.Recipe,
	}
}
