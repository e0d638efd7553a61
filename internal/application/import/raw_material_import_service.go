package importapp

import (
	"context"
	"fmt"
	"strconv"

	invapp "github.com/supplychain/backend/internal/application/inventory"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
	csvimport "github.com/supplychain/backend/internal/infrastructure/import"
)

// requiredHeaders are the columns a raw material CSV must carry
var requiredHeaders = []string{"name", "sku", "quantity", "unit"}

// RawMaterialImportResult summarises a bulk upsert run
type RawMaterialImportResult struct {
	TotalRows    int                  `json:"total_rows"`
	CreatedRows  int                  `json:"created_rows"`
	UpdatedRows  int                  `json:"updated_rows"`
	ErrorRows    int                  `json:"error_rows"`
	Errors       []csvimport.RowError `json:"errors,omitempty"`
	IsTruncated  bool                 `json:"is_truncated,omitempty"`
	TotalErrors  int                  `json:"total_errors,omitempty"`
}

// RawMaterialImportService bulk-upserts raw materials from CSV data, keyed
// by SKU. Each row commits in its own transaction so one bad row never
// blocks the rest; failures are reported per row.
type RawMaterialImportService struct {
	scope          invapp.TransactionScope
	storeService   *invapp.StoreService
	eventPublisher shared.EventPublisher
	maxRowErrors   int
}

// NewRawMaterialImportService creates a new RawMaterialImportService
func NewRawMaterialImportService(scope invapp.TransactionScope, storeService *invapp.StoreService) *RawMaterialImportService {
	return &RawMaterialImportService{
		scope:        scope,
		storeService: storeService,
		maxRowErrors: 100,
	}
}

// SetMaxRowErrors caps how many row errors a result carries before truncating
func (s *RawMaterialImportService) SetMaxRowErrors(max int) {
	if max > 0 {
		s.maxRowErrors = max
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RawMaterialImportService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// BulkUpsert parses the CSV payload and upserts each row by SKU. Existing
// materials get their attributes and quantity overwritten; new SKUs are
// created with the Procurement holding seeded.
func (s *RawMaterialImportService) BulkUpsert(ctx context.Context, data []byte) (*RawMaterialImportResult, error) {
	parser, err := csvimport.NewParserFromBytes(data)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	if err := parser.ParseHeader(); err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}
	if missing := parser.MissingHeaders(requiredHeaders); len(missing) > 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("missing required columns: %v", missing))
	}

	rows, err := parser.ReadAll()
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", err.Error())
	}

	result := &RawMaterialImportResult{TotalRows: len(rows)}
	rowErrors := csvimport.NewErrorCollection(s.maxRowErrors)
	seenSKUs := make(map[string]bool, len(rows))

	for _, row := range rows {
		sku := row.Get("sku")
		if sku == "" {
			rowErrors.Add(csvimport.NewRowError(row.LineNumber, "sku", csvimport.ErrCodeRequiredField, "field 'sku' is required"))
			result.ErrorRows++
			continue
		}
		if seenSKUs[sku] {
			rowErrors.Add(csvimport.NewRowError(row.LineNumber, "sku", csvimport.ErrCodeDuplicateInFile,
				fmt.Sprintf("duplicate SKU '%s' in file", sku)))
			result.ErrorRows++
			continue
		}
		seenSKUs[sku] = true

		quantity, err := strconv.ParseInt(row.Get("quantity"), 10, 64)
		if err != nil {
			rowErrors.Add(csvimport.NewRowError(row.LineNumber, "quantity", csvimport.ErrCodeInvalidType, "expected integer"))
			result.ErrorRows++
			continue
		}
		if quantity < 0 {
			rowErrors.Add(csvimport.NewRowError(row.LineNumber, "quantity", csvimport.ErrCodeInvalidValue, "quantity cannot be negative"))
			result.ErrorRows++
			continue
		}

		created, err := s.upsertRow(ctx, sku, row.Get("name"), quantity, row.Get("unit"), row.Get("color_code"))
		if err != nil {
			rowErrors.Add(csvimport.NewRowError(row.LineNumber, "", csvimport.ErrCodeRowFailed, err.Error()))
			result.ErrorRows++
			continue
		}
		if created {
			result.CreatedRows++
		} else {
			result.UpdatedRows++
		}
	}

	result.Errors = rowErrors.Errors()
	result.IsTruncated = rowErrors.IsTruncated()
	result.TotalErrors = rowErrors.TotalCount()
	return result, nil
}

// upsertRow creates or updates one material in its own transaction
func (s *RawMaterialImportService) upsertRow(ctx context.Context, sku, name string, quantity int64, unit, colorCode string) (bool, error) {
	var created bool
	var events []shared.DomainEvent

	err := s.scope.Execute(ctx, func(repos invapp.TransactionalRepositories) error {
		existing, err := repos.RawMaterialRepo().FindBySKU(ctx, sku)
		if err != nil && err != shared.ErrNotFound {
			return err
		}

		if existing == nil {
			material, err := catalog.NewRawMaterial(name, sku, quantity, unit, colorCode)
			if err != nil {
				return err
			}
			if err := repos.RawMaterialRepo().Create(ctx, material); err != nil {
				return err
			}
			holding, err := inventory.NewDepartmentHolding(shared.DeptProcurement, inventory.KindRaw, material.ID, material.SKU, material.Quantity)
			if err != nil {
				return err
			}
			if err := repos.HoldingRepo().Create(ctx, holding); err != nil {
				return err
			}
			if material.Quantity > 0 {
				movement, err := inventory.NewStockMovement(inventory.Adjustment{
					Ref:   inventory.CanonicalRef(inventory.KindRaw, material.ID),
					SKU:   material.SKU,
					Delta: material.Quantity,
				}, material.Quantity, inventory.SourceImport, nil, "bulk import")
				if err != nil {
					return err
				}
				if err := repos.MovementRepo().Create(ctx, movement); err != nil {
					return err
				}
			}
			created = true
			events = material.GetDomainEvents()
			material.ClearDomainEvents()
			return nil
		}

		delta := quantity - existing.Quantity
		if err := existing.ApplyImport(name, quantity, unit, colorCode); err != nil {
			return err
		}
		if err := repos.RawMaterialRepo().Save(ctx, existing); err != nil {
			return err
		}
		if delta != 0 {
			_, batchEvents, err := s.storeService.ApplyAdjustments(ctx, repos, []inventory.Adjustment{
				{Ref: inventory.CanonicalRef(inventory.KindRaw, existing.ID), SKU: existing.SKU, Delta: delta},
				{Ref: inventory.HoldingRef(shared.DeptProcurement, inventory.KindRaw, existing.ID), SKU: existing.SKU, Delta: delta},
			}, inventory.SourceImport, nil, "bulk import")
			if err != nil {
				return err
			}
			events = append(events, batchEvents...)
		}
		events = append(events, existing.GetDomainEvents()...)
		existing.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return false, err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	return created, nil
}
