package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/transfer"
	"gorm.io/gorm"
)

// GormTransferRequestRepository implements TransferRequestRepository using GORM
type GormTransferRequestRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormTransferRequestRepository creates a new GormTransferRequestRepository
func NewGormTransferRequestRepository(db *gorm.DB) *GormTransferRequestRepository {
	return &GormTransferRequestRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormTransferRequestRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a transfer request with its items
func (r *GormTransferRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.TransferRequest, error) {
	var request transfer.TransferRequest
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&request, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// FindAll lists transfer requests matching the filter
func (r *GormTransferRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	query := r.db.WithContext(ctx).Model(&transfer.TransferRequest{})
	return r.findPage(query, filter)
}

// FindByStatus lists transfer requests with a given status
func (r *GormTransferRequestRepository) FindByStatus(ctx context.Context, status transfer.Status, filter shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&transfer.TransferRequest{}).
		Where("status = ?", status)
	return r.findPage(query, filter)
}

// FindByDepartment lists transfer requests where a department is sender or receiver
func (r *GormTransferRequestRepository) FindByDepartment(ctx context.Context, dept shared.Department, filter shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&transfer.TransferRequest{}).
		Where("from_dept = ? OR to_dept = ?", dept, dept)
	return r.findPage(query, filter)
}

func (r *GormTransferRequestRepository) findPage(query *gorm.DB, filter shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var requests []*transfer.TransferRequest
	orderClause := buildOrderClause(filter, TransferSortFields)
	if err := query.Preload("Items").
		Order(orderClause).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&requests).Error; err != nil {
		return nil, 0, err
	}
	return requests, total, nil
}

// Create inserts a new transfer request with its items
func (r *GormTransferRequestRepository) Create(ctx context.Context, request *transfer.TransferRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(request).Error; err != nil {
			return err
		}
		return r.saveOutboxEvents(ctx, tx, request)
	})
}

// SaveWithLock persists the request guarded by the expected version. Fails
// with CONCURRENCY_CONFLICT when another writer committed first.
func (r *GormTransferRequestRepository) SaveWithLock(ctx context.Context, request *transfer.TransferRequest, expectedVersion int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		request.UpdatedAt = time.Now()

		result := tx.Model(&transfer.TransferRequest{}).
			Where("id = ? AND version = ?", request.ID, expectedVersion).
			Updates(map[string]interface{}{
				"status":      request.Status,
				"note":        request.Note,
				"approved_by": request.ApprovedBy,
				"approved_at": request.ApprovedAt,
				"version":     request.GetVersion(),
				"updated_at":  request.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&transfer.TransferRequest{}).
				Where("id = ?", request.ID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.ErrNotFound
			}
			return shared.ErrConcurrencyConflict
		}

		for i := range request.Items {
			item := &request.Items[i]
			if err := tx.Model(&transfer.TransferItem{}).
				Where("id = ?", item.ID).
				Update("approved_qty", item.ApprovedQty).Error; err != nil {
				return err
			}
		}

		return r.saveOutboxEvents(ctx, tx, request)
	})
}

func (r *GormTransferRequestRepository) saveOutboxEvents(ctx context.Context, tx *gorm.DB, request *transfer.TransferRequest) error {
	if r.outboxSaver == nil {
		return nil
	}
	events := request.GetDomainEvents()
	if len(events) == 0 {
		return nil
	}
	return r.outboxSaver.SaveEvents(ctx, tx, events...)
}

// Ensure GormTransferRequestRepository implements TransferRequestRepository
var _ transfer.TransferRequestRepository = (*GormTransferRequestRepository)(nil)
