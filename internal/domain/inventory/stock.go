package inventory

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// EntityKind distinguishes the two counted entity tables
type EntityKind string

const (
	KindRaw      EntityKind = "RAW"
	KindProduced EntityKind = "PRODUCED"
)

// IsValid checks if the kind is a known entity kind
func (k EntityKind) IsValid() bool {
	return k == KindRaw || k == KindProduced
}

// String returns the string representation of the kind
func (k EntityKind) String() string {
	return string(k)
}

// StockRef addresses a single guarded quantity row. With an empty Dept it
// refers to the canonical entity row (raw_materials / produced_goods); with a
// Dept set it refers to that department's holding of the entity.
type StockRef struct {
	Dept   shared.Department `json:"dept,omitempty"`
	Kind   EntityKind        `json:"kind"`
	ItemID uuid.UUID         `json:"item_id"`
}

// CanonicalRef builds a reference to a canonical entity row
func CanonicalRef(kind EntityKind, itemID uuid.UUID) StockRef {
	return StockRef{Kind: kind, ItemID: itemID}
}

// HoldingRef builds a reference to a department holding row
func HoldingRef(dept shared.Department, kind EntityKind, itemID uuid.UUID) StockRef {
	return StockRef{Dept: dept, Kind: kind, ItemID: itemID}
}

// IsHolding reports whether the reference addresses a department holding
func (r StockRef) IsHolding() bool {
	return r.Dept != ""
}

// Validate checks the reference invariants
func (r StockRef) Validate() error {
	if !r.Kind.IsValid() {
		return shared.NewDomainError("INVALID_KIND", "Unknown entity kind: "+string(r.Kind))
	}
	if r.ItemID == uuid.Nil {
		return shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if r.Dept != "" && !r.Dept.IsValid() {
		return shared.NewDomainError("INVALID_DEPARTMENT", "Unknown department: "+string(r.Dept))
	}
	return nil
}

// Key returns a stable ordering key for the reference
func (r StockRef) Key() string {
	return fmt.Sprintf("%s/%s/%s", r.Dept, r.Kind, r.ItemID)
}

// Adjustment is one signed quantity delta against a stock row.
// SKU is carried for error messages and the movement ledger only.
type Adjustment struct {
	Ref   StockRef
	SKU   string
	Delta int64
}

// Validate checks the adjustment invariants
func (a Adjustment) Validate() error {
	if err := a.Ref.Validate(); err != nil {
		return err
	}
	if a.Delta == 0 {
		return shared.NewDomainError("INVALID_DELTA", "Adjustment delta cannot be zero")
	}
	return nil
}

// MergeAdjustments combines deltas targeting the same row and returns the
// result in a stable global order: debits first, then by row key. Debits
// going first makes a short row fail the batch before any credit is
// applied, and the fixed order keeps concurrent batches from deadlocking on
// each other's row locks.
func MergeAdjustments(adjustments []Adjustment) []Adjustment {
	merged := make(map[string]Adjustment, len(adjustments))
	for _, adj := range adjustments {
		key := adj.Ref.Key()
		if existing, ok := merged[key]; ok {
			existing.Delta += adj.Delta
			merged[key] = existing
			continue
		}
		merged[key] = adj
	}

	result := make([]Adjustment, 0, len(merged))
	for _, adj := range merged {
		if adj.Delta == 0 {
			continue
		}
		result = append(result, adj)
	}
	sort.Slice(result, func(i, j int) bool {
		di, dj := result[i].Delta < 0, result[j].Delta < 0
		if di != dj {
			return di
		}
		return result[i].Ref.Key() < result[j].Ref.Key()
	})
	return result
}

// StockSnapshot is a read-only view of a guarded quantity row
type StockSnapshot struct {
	Ref       StockRef
	SKU       string
	Name      string
	Quantity  int64
	UpdatedAt time.Time
}
