package persistence

import (
	"strings"

	"github.com/supplychain/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed
// fields. Returns the defaultField if the input is invalid, empty, or not in
// the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// buildOrderClause builds a validated ORDER BY clause from a filter
func buildOrderClause(filter shared.Filter, allowedFields map[string]bool) string {
	field := ValidateSortField(filter.OrderBy, allowedFields, "created_at")
	return field + " " + ValidateSortOrder(filter.OrderDir)
}

// RawMaterialSortFields contains allowed sort fields for raw materials
var RawMaterialSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"sku":        true,
	"quantity":   true,
	"unit":       true,
}

// ProducedGoodSortFields contains allowed sort fields for produced goods
var ProducedGoodSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"sku":        true,
	"quantity":   true,
}

// HoldingSortFields contains allowed sort fields for department holdings
var HoldingSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"dept":       true,
	"sku":        true,
	"quantity":   true,
}

// MovementSortFields contains allowed sort fields for stock movements
var MovementSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"source":     true,
	"sku":        true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"sku":        true,
	"quantity":   true,
}

// TransferSortFields contains allowed sort fields for transfer requests
var TransferSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"status":     true,
	"from_dept":  true,
	"to_dept":    true,
}
