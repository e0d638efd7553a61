package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/supplychain/backend/internal/domain/shared"
)

// TransferRequestRepository defines the persistence operations for transfer
// requests. Find methods load items alongside the request.
type TransferRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TransferRequest, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*TransferRequest, int64, error)
	FindByStatus(ctx context.Context, status Status, filter shared.Filter) ([]*TransferRequest, int64, error)
	FindByDepartment(ctx context.Context, dept shared.Department, filter shared.Filter) ([]*TransferRequest, int64, error)
	Create(ctx context.Context, request *TransferRequest) error
	// SaveWithLock persists the request guarded by its version and fails
	// with CONCURRENCY_CONFLICT when another writer got there first.
	SaveWithLock(ctx context.Context, request *TransferRequest, expectedVersion int) error
}
