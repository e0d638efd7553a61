package importapp

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	invapp "github.com/supplychain/backend/internal/application/inventory"
	"github.com/supplychain/backend/internal/domain/catalog"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
)

// fakeRawMaterialRepo is an in-memory RawMaterialRepository keyed by SKU
type fakeRawMaterialRepo struct {
	mu        sync.Mutex
	materials map[string]*catalog.RawMaterial
}

func newFakeRawMaterialRepo() *fakeRawMaterialRepo {
	return &fakeRawMaterialRepo{materials: make(map[string]*catalog.RawMaterial)}
}

func (f *fakeRawMaterialRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.RawMaterial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, material := range f.materials {
		if material.ID == id {
			return material, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRawMaterialRepo) FindBySKU(_ context.Context, sku string) (*catalog.RawMaterial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	material, exists := f.materials[sku]
	if !exists {
		return nil, shared.ErrNotFound
	}
	return material, nil
}

func (f *fakeRawMaterialRepo) FindBySKUs(_ context.Context, skus []string) ([]catalog.RawMaterial, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []catalog.RawMaterial
	for _, sku := range skus {
		if material, exists := f.materials[sku]; exists {
			result = append(result, *material)
		}
	}
	return result, nil
}

func (f *fakeRawMaterialRepo) FindAll(context.Context, shared.Filter) ([]catalog.RawMaterial, int64, error) {
	return nil, 0, nil
}

func (f *fakeRawMaterialRepo) ExistsBySKU(_ context.Context, sku string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, exists := f.materials[sku]
	return exists, nil
}

func (f *fakeRawMaterialRepo) Create(_ context.Context, material *catalog.RawMaterial) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.materials[material.SKU] = material
	return nil
}

func (f *fakeRawMaterialRepo) Save(_ context.Context, material *catalog.RawMaterial) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.materials[material.SKU] = material
	return nil
}

// fakeHoldingRepo records created holdings
type fakeHoldingRepo struct {
	created []*inventory.DepartmentHolding
}

func (f *fakeHoldingRepo) FindByID(context.Context, uuid.UUID) (*inventory.DepartmentHolding, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeHoldingRepo) FindByRef(context.Context, inventory.StockRef) (*inventory.DepartmentHolding, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeHoldingRepo) FindByDepartment(context.Context, shared.Department, shared.Filter) ([]*inventory.DepartmentHolding, int64, error) {
	return nil, 0, nil
}

func (f *fakeHoldingRepo) FindByItem(context.Context, inventory.EntityKind, uuid.UUID) ([]*inventory.DepartmentHolding, error) {
	return nil, nil
}

func (f *fakeHoldingRepo) Create(_ context.Context, holding *inventory.DepartmentHolding) error {
	f.created = append(f.created, holding)
	return nil
}

// fakeStockRepo is an in-memory StockRepository
type fakeStockRepo struct {
	mu       sync.Mutex
	balances map[string]int64
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{balances: make(map[string]int64)}
}

func (f *fakeStockRepo) seed(ref inventory.StockRef, qty int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[ref.Key()] = qty
}

func (f *fakeStockRepo) balance(ref inventory.StockRef) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[ref.Key()]
}

func (f *fakeStockRepo) AdjustCanonical(_ context.Context, kind inventory.EntityKind, itemID uuid.UUID, delta int64) (int64, error) {
	return f.adjust(inventory.CanonicalRef(kind, itemID), delta, false)
}

func (f *fakeStockRepo) AdjustHolding(_ context.Context, dept shared.Department, kind inventory.EntityKind, itemID uuid.UUID, _ string, delta int64) (int64, error) {
	return f.adjust(inventory.HoldingRef(dept, kind, itemID), delta, true)
}

func (f *fakeStockRepo) adjust(ref inventory.StockRef, delta int64, createOnCredit bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := ref.Key()
	current, exists := f.balances[key]
	if !exists && !createOnCredit {
		return 0, shared.ErrNotFound
	}
	next := current + delta
	if next < 0 {
		return 0, shared.ErrInsufficientStock
	}
	f.balances[key] = next
	return next, nil
}

func (f *fakeStockRepo) GetCanonical(context.Context, inventory.EntityKind, uuid.UUID) (*inventory.StockSnapshot, error) {
	return nil, shared.ErrNotFound
}

func (f *fakeStockRepo) GetHolding(context.Context, shared.Department, inventory.EntityKind, uuid.UUID) (*inventory.StockSnapshot, error) {
	return nil, shared.ErrNotFound
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

type importFixture struct {
	service   *RawMaterialImportService
	rawRepo   *fakeRawMaterialRepo
	stockRepo *fakeStockRepo
	holdings  *fakeHoldingRepo
}

func newImportFixture() *importFixture {
	rawRepo := newFakeRawMaterialRepo()
	stockRepo := newFakeStockRepo()
	holdings := &fakeHoldingRepo{}
	movements := &fakeMovementRepo{}
	scope := invapp.NewNoOpTransactionScope(stockRepo, holdings, movements, rawRepo, nil, nil, nil)
	storeService := invapp.NewStoreService(scope, stockRepo, nil, movements)
	return &importFixture{
		service:   NewRawMaterialImportService(scope, storeService),
		rawRepo:   rawRepo,
		stockRepo: stockRepo,
		holdings:  holdings,
	}
}

func TestRawMaterialImportBulkUpsert(t *testing.T) {
	ctx := context.Background()

	t.Run("creates new materials", func(t *testing.T) {
		f := newImportFixture()
		csv := []byte("name,sku,quantity,unit,color_code\nCotton,RM-001,100,kg,#FFFFFF\nThread,RM-002,50,spool,\n")

		result, err := f.service.BulkUpsert(ctx, csv)
		require.NoError(t, err)

		assert.Equal(t, 2, result.TotalRows)
		assert.Equal(t, 2, result.CreatedRows)
		assert.Equal(t, 0, result.ErrorRows)
		assert.Len(t, f.holdings.created, 2)

		material, err := f.rawRepo.FindBySKU(ctx, "RM-001")
		require.NoError(t, err)
		assert.Equal(t, int64(100), material.Quantity)
		assert.Equal(t, "#FFFFFF", material.ColorCode)
	})

	t.Run("updates existing materials by sku", func(t *testing.T) {
		f := newImportFixture()
		existing, err := catalog.NewRawMaterial("Cotton", "RM-001", 40, "kg", "")
		require.NoError(t, err)
		require.NoError(t, f.rawRepo.Create(ctx, existing))
		f.stockRepo.seed(inventory.CanonicalRef(inventory.KindRaw, existing.ID), 40)
		f.stockRepo.seed(inventory.HoldingRef(shared.DeptProcurement, inventory.KindRaw, existing.ID), 40)

		csv := []byte("name,sku,quantity,unit\nOrganic Cotton,RM-001,100,kg\n")
		result, err := f.service.BulkUpsert(ctx, csv)
		require.NoError(t, err)

		assert.Equal(t, 1, result.UpdatedRows)
		assert.Equal(t, 0, result.CreatedRows)

		material, err := f.rawRepo.FindBySKU(ctx, "RM-001")
		require.NoError(t, err)
		assert.Equal(t, "Organic Cotton", material.Name)
		assert.Equal(t, int64(100), material.Quantity)
		assert.Equal(t, int64(100), f.stockRepo.balance(inventory.CanonicalRef(inventory.KindRaw, existing.ID)))
		assert.Equal(t, int64(100), f.stockRepo.balance(inventory.HoldingRef(shared.DeptProcurement, inventory.KindRaw, existing.ID)))
	})

	t.Run("bad rows are reported without blocking good ones", func(t *testing.T) {
		f := newImportFixture()
		csv := []byte("name,sku,quantity,unit\nCotton,RM-001,100,kg\nBad,RM-002,lots,kg\nNegative,RM-003,-5,kg\nThread,RM-004,10,spool\n")

		result, err := f.service.BulkUpsert(ctx, csv)
		require.NoError(t, err)

		assert.Equal(t, 4, result.TotalRows)
		assert.Equal(t, 2, result.CreatedRows)
		assert.Equal(t, 2, result.ErrorRows)
		require.Len(t, result.Errors, 2)
		assert.Equal(t, 3, result.Errors[0].Row)
		assert.Equal(t, "quantity", result.Errors[0].Column)
	})

	t.Run("duplicate sku within file is an error row", func(t *testing.T) {
		f := newImportFixture()
		csv := []byte("name,sku,quantity,unit\nCotton,RM-001,100,kg\nCotton Again,RM-001,90,kg\n")

		result, err := f.service.BulkUpsert(ctx, csv)
		require.NoError(t, err)

		assert.Equal(t, 1, result.CreatedRows)
		assert.Equal(t, 1, result.ErrorRows)

		material, err := f.rawRepo.FindBySKU(ctx, "RM-001")
		require.NoError(t, err)
		assert.Equal(t, int64(100), material.Quantity)
	})

	t.Run("missing required column fails the whole request", func(t *testing.T) {
		f := newImportFixture()
		_, err := f.service.BulkUpsert(ctx, []byte("name,sku\nCotton,RM-001\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quantity")
	})

	t.Run("empty payload fails", func(t *testing.T) {
		f := newImportFixture()
		_, err := f.service.BulkUpsert(ctx, nil)
		assert.Error(t, err)
	})
}
