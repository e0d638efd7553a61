package transfer

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	invapp "github.com/supplychain/backend/internal/application/inventory"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
	"github.com/supplychain/backend/internal/domain/transfer"
)

// fakeStockRepo is an in-memory StockRepository with guarded semantics
type fakeStockRepo struct {
	mu       sync.Mutex
	balances map[string]int64
	skus     map[string]string
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{
		balances: make(map[string]int64),
		skus:     make(map[string]string),
	}
}

func (f *fakeStockRepo) seed(ref inventory.StockRef, sku string, qty int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[ref.Key()] = qty
	f.skus[ref.Key()] = sku
}

func (f *fakeStockRepo) balance(ref inventory.StockRef) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[ref.Key()]
}

func (f *fakeStockRepo) AdjustCanonical(_ context.Context, kind inventory.EntityKind, itemID uuid.UUID, delta int64) (int64, error) {
	return f.adjust(inventory.CanonicalRef(kind, itemID), "", delta, false)
}

func (f *fakeStockRepo) AdjustHolding(_ context.Context, dept shared.Department, kind inventory.EntityKind, itemID uuid.UUID, sku string, delta int64) (int64, error) {
	return f.adjust(inventory.HoldingRef(dept, kind, itemID), sku, delta, true)
}

func (f *fakeStockRepo) adjust(ref inventory.StockRef, sku string, delta int64, createOnCredit bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := ref.Key()
	current, exists := f.balances[key]
	if !exists {
		if createOnCredit && delta > 0 {
			f.balances[key] = delta
			f.skus[key] = sku
			return delta, nil
		}
		if createOnCredit {
			return 0, shared.ErrInsufficientStock
		}
		return 0, shared.ErrNotFound
	}
	next := current + delta
	if next < 0 {
		return 0, shared.ErrInsufficientStock
	}
	f.balances[key] = next
	return next, nil
}

func (f *fakeStockRepo) GetCanonical(_ context.Context, kind inventory.EntityKind, itemID uuid.UUID) (*inventory.StockSnapshot, error) {
	return f.get(inventory.CanonicalRef(kind, itemID))
}

func (f *fakeStockRepo) GetHolding(_ context.Context, dept shared.Department, kind inventory.EntityKind, itemID uuid.UUID) (*inventory.StockSnapshot, error) {
	return f.get(inventory.HoldingRef(dept, kind, itemID))
}

func (f *fakeStockRepo) get(ref inventory.StockRef) (*inventory.StockSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	qty, exists := f.balances[ref.Key()]
	if !exists {
		return nil, shared.ErrNotFound
	}
	return &inventory.StockSnapshot{Ref: ref, SKU: f.skus[ref.Key()], Quantity: qty}, nil
}

// fakeMovementRepo records ledger lines in memory
type fakeMovementRepo struct {
	movements []*inventory.StockMovement
}

func (f *fakeMovementRepo) Create(_ context.Context, movement *inventory.StockMovement) error {
	f.movements = append(f.movements, movement)
	return nil
}

func (f *fakeMovementRepo) CreateBatch(_ context.Context, movements []*inventory.StockMovement) error {
	f.movements = append(f.movements, movements...)
	return nil
}

func (f *fakeMovementRepo) FindByItem(context.Context, inventory.EntityKind, uuid.UUID, shared.Filter) ([]*inventory.StockMovement, int64, error) {
	return nil, 0, nil
}

func (f *fakeMovementRepo) FindBySource(context.Context, inventory.MovementSource, uuid.UUID) ([]*inventory.StockMovement, error) {
	return nil, nil
}

// fakeTransferRepo is an in-memory TransferRequestRepository with version
// checked saves
type fakeTransferRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*transfer.TransferRequest
	versions map[uuid.UUID]int
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{
		requests: make(map[uuid.UUID]*transfer.TransferRequest),
		versions: make(map[uuid.UUID]int),
	}
}

func (f *fakeTransferRepo) FindByID(_ context.Context, id uuid.UUID) (*transfer.TransferRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	request, exists := f.requests[id]
	if !exists {
		return nil, shared.ErrNotFound
	}
	return request, nil
}

func (f *fakeTransferRepo) FindAll(context.Context, shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]*transfer.TransferRequest, 0, len(f.requests))
	for _, request := range f.requests {
		result = append(result, request)
	}
	return result, int64(len(result)), nil
}

func (f *fakeTransferRepo) FindByStatus(_ context.Context, status transfer.Status, _ shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*transfer.TransferRequest
	for _, request := range f.requests {
		if request.Status == status {
			result = append(result, request)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeTransferRepo) FindByDepartment(context.Context, shared.Department, shared.Filter) ([]*transfer.TransferRequest, int64, error) {
	return nil, 0, nil
}

func (f *fakeTransferRepo) Create(_ context.Context, request *transfer.TransferRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests[request.ID] = request
	f.versions[request.ID] = request.GetVersion()
	return nil
}

func (f *fakeTransferRepo) SaveWithLock(_ context.Context, request *transfer.TransferRequest, expectedVersion int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.versions[request.ID] != expectedVersion {
		return shared.ErrConcurrencyConflict
	}
	f.requests[request.ID] = request
	f.versions[request.ID] = request.GetVersion()
	return nil
}

type transferFixture struct {
	service      *TransferService
	stockRepo    *fakeStockRepo
	movementRepo *fakeMovementRepo
	transferRepo *fakeTransferRepo
	goodID       uuid.UUID
}

func newTransferFixture(t *testing.T, manufacturingStock int64) *transferFixture {
	t.Helper()

	goodID := uuid.New()
	stockRepo := newFakeStockRepo()
	stockRepo.seed(inventory.CanonicalRef(inventory.KindProduced, goodID), "PG-TSHIRT", 100)
	stockRepo.seed(inventory.HoldingRef(shared.DeptManufacturing, inventory.KindProduced, goodID), "PG-TSHIRT", manufacturingStock)

	movementRepo := &fakeMovementRepo{}
	transferRepo := newFakeTransferRepo()
	scope := invapp.NewNoOpTransactionScope(stockRepo, nil, movementRepo, nil, nil, nil, transferRepo)
	storeService := invapp.NewStoreService(scope, stockRepo, nil, movementRepo)

	return &transferFixture{
		service:      NewTransferService(scope, storeService, transferRepo),
		stockRepo:    stockRepo,
		movementRepo: movementRepo,
		transferRepo: transferRepo,
		goodID:       goodID,
	}
}

func (f *transferFixture) create(t *testing.T, qty int64) *TransferResponse {
	t.Helper()
	response, err := f.service.Create(context.Background(), CreateTransferRequest{
		FromDept: shared.DeptManufacturing,
		ToDept:   shared.DeptDistribution,
		Items: []TransferItemRequest{
			{ItemType: inventory.KindProduced, ItemID: f.goodID, RequestedQty: qty},
		},
	})
	require.NoError(t, err)
	return response
}

func TestTransferServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending request with resolved sku", func(t *testing.T) {
		f := newTransferFixture(t, 10)
		response := f.create(t, 10)

		assert.Equal(t, transfer.StatusPending, response.Status)
		require.Len(t, response.Items, 1)
		assert.Equal(t, "PG-TSHIRT", response.Items[0].SKU)
		assert.Nil(t, response.Items[0].ApprovedQty)
	})

	t.Run("unknown item fails", func(t *testing.T) {
		f := newTransferFixture(t, 10)
		_, err := f.service.Create(ctx, CreateTransferRequest{
			FromDept: shared.DeptManufacturing,
			ToDept:   shared.DeptDistribution,
			Items: []TransferItemRequest{
				{ItemType: inventory.KindProduced, ItemID: uuid.New(), RequestedQty: 1},
			},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("creation does not touch stock", func(t *testing.T) {
		f := newTransferFixture(t, 10)
		f.create(t, 10)
		assert.Equal(t, int64(10), f.stockRepo.balance(inventory.HoldingRef(shared.DeptManufacturing, inventory.KindProduced, f.goodID)))
		assert.Empty(t, f.movementRepo.movements)
	})
}

func TestTransferServiceAdjust(t *testing.T) {
	ctx := context.Background()

	t.Run("fulfilling department adjusts quantity", func(t *testing.T) {
		f := newTransferFixture(t, 10)
		created := f.create(t, 10)

		response, err := f.service.Adjust(ctx, created.ID, AdjustTransferRequest{
			Actor: shared.DeptManufacturing, Quantity: 6,
		})
		require.NoError(t, err)
		assert.Equal(t, transfer.StatusAdjusted, response.Status)
		require.NotNil(t, response.Items[0].ApprovedQty)
		assert.Equal(t, int64(6), *response.Items[0].ApprovedQty)
	})

	t.Run("receiver cannot adjust", func(t *testing.T) {
		f := newTransferFixture(t, 10)
		created := f.create(t, 10)

		_, err := f.service.Adjust(ctx, created.ID, AdjustTransferRequest{
			Actor: shared.DeptDistribution, Quantity: 6,
		})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})

	t.Run("unknown request fails", func(t *testing.T) {
		f := newTransferFixture(t, 10)
		_, err := f.service.Adjust(ctx, uuid.New(), AdjustTransferRequest{
			Actor: shared.DeptManufacturing, Quantity: 1,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestTransferServiceApprove(t *testing.T) {
	ctx := context.Background()
	manufacturingRef := func(f *transferFixture) inventory.StockRef {
		return inventory.HoldingRef(shared.DeptManufacturing, inventory.KindProduced, f.goodID)
	}
	distributionRef := func(f *transferFixture) inventory.StockRef {
		return inventory.HoldingRef(shared.DeptDistribution, inventory.KindProduced, f.goodID)
	}

	t.Run("approval moves requested quantity between holdings", func(t *testing.T) {
		f := newTransferFixture(t, 10)
		created := f.create(t, 10)

		response, err := f.service.Approve(ctx, created.ID, ApproveTransferRequest{Actor: shared.DeptManufacturing})
		require.NoError(t, err)

		assert.Equal(t, transfer.StatusApproved, response.Status)
		assert.Equal(t, shared.DeptManufacturing, response.ApprovedBy)
		assert.Equal(t, int64(0), f.stockRepo.balance(manufacturingRef(f)))
		assert.Equal(t, int64(10), f.stockRepo.balance(distributionRef(f)))

		require.Len(t, f.movementRepo.movements, 2)
		for _, movement := range f.movementRepo.movements {
			assert.Equal(t, inventory.SourceTransfer, movement.Source)
			require.NotNil(t, movement.SourceID)
			assert.Equal(t, created.ID, *movement.SourceID)
		}
	})

	t.Run("approval after adjust moves the adjusted quantity", func(t *testing.T) {
		f := newTransferFixture(t, 10)
		created := f.create(t, 10)
		_, err := f.service.Adjust(ctx, created.ID, AdjustTransferRequest{Actor: shared.DeptManufacturing, Quantity: 6})
		require.NoError(t, err)

		_, err = f.service.Approve(ctx, created.ID, ApproveTransferRequest{Actor: shared.DeptManufacturing})
		require.NoError(t, err)

		assert.Equal(t, int64(4), f.stockRepo.balance(manufacturingRef(f)))
		assert.Equal(t, int64(6), f.stockRepo.balance(distributionRef(f)))
	})

	t.Run("double approval fails without moving stock twice", func(t *testing.T) {
		f := newTransferFixture(t, 10)
		created := f.create(t, 10)

		_, err := f.service.Approve(ctx, created.ID, ApproveTransferRequest{Actor: shared.DeptManufacturing})
		require.NoError(t, err)

		_, err = f.service.Approve(ctx, created.ID, ApproveTransferRequest{Actor: shared.DeptManufacturing})
		assert.ErrorIs(t, err, shared.ErrAlreadyApproved)
		assert.Equal(t, int64(10), f.stockRepo.balance(distributionRef(f)))
	})

	t.Run("receiver cannot approve", func(t *testing.T) {
		f := newTransferFixture(t, 10)
		created := f.create(t, 10)

		_, err := f.service.Approve(ctx, created.ID, ApproveTransferRequest{Actor: shared.DeptDistribution})
		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.Equal(t, int64(10), f.stockRepo.balance(manufacturingRef(f)))
	})

	t.Run("insufficient source holding fails the approval", func(t *testing.T) {
		f := newTransferFixture(t, 4)
		created := f.create(t, 10)

		_, err := f.service.Approve(ctx, created.ID, ApproveTransferRequest{Actor: shared.DeptManufacturing})
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(4), f.stockRepo.balance(manufacturingRef(f)))
		assert.Equal(t, int64(0), f.stockRepo.balance(distributionRef(f)))
	})
}
