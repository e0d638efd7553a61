package catalog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/supplychain/backend/internal/domain/shared"
)

// Recipe is the bill of materials for one unit of a produced good:
// a mapping from raw-material SKU to the quantity consumed per unit produced.
// It is validated once at product creation and immutable afterwards.
type Recipe map[string]int64

// Validate checks the structural recipe invariants: at least one line,
// every per-unit quantity positive. Existence of the referenced raw material
// SKUs is checked against the repository at product creation time.
func (r Recipe) Validate() error {
	if len(r) == 0 {
		return shared.NewDomainError("EMPTY_RECIPE", "Recipe must contain at least one raw material")
	}
	for sku, qty := range r {
		if sku == "" {
			return shared.NewDomainError("INVALID_RECIPE", "Recipe contains an empty raw material SKU")
		}
		if qty <= 0 {
			return shared.NewDomainError("INVALID_RECIPE", fmt.Sprintf("Recipe quantity for %s must be positive", sku))
		}
	}
	return nil
}

// SortedSKUs returns the recipe's raw material SKUs in lexical order.
// Production consumes lines in this order so failures are deterministic.
func (r Recipe) SortedSKUs() []string {
	skus := make([]string, 0, len(r))
	for sku := range r {
		skus = append(skus, sku)
	}
	sort.Strings(skus)
	return skus
}

// Value implements driver.Valuer so the recipe is stored as JSONB
func (r Recipe) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner for reading the recipe back from JSONB
func (r *Recipe) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported recipe column type %T", value)
	}
	return json.Unmarshal(data, r)
}
