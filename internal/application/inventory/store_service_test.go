package inventory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
)

// MockEventPublisher collects published events for assertions
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

// fakeStockRepo is an in-memory StockRepository with the same guarded
// semantics as the real one
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

func (f *fakeStockRepo) adjust(ref inventory.StockRef, sku string, delta int64, createOnCredit bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := ref.Key()
	current, exists := f.balances[key]
	if !exists {
		if delta > 0 && createOnCredit {
			f.balances[key] = delta
			f.skus[key] = sku
			return delta, nil
		}
		if delta < 0 && createOnCredit {
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

func (f *fakeStockRepo) AdjustCanonical(_ context.Context, kind inventory.EntityKind, itemID uuid.UUID, delta int64) (int64, error) {
	return f.adjust(inventory.CanonicalRef(kind, itemID), "", delta, false)
}

func (f *fakeStockRepo) AdjustHolding(_ context.Context, dept shared.Department, kind inventory.EntityKind, itemID uuid.UUID, sku string, delta int64) (int64, error) {
	return f.adjust(inventory.HoldingRef(dept, kind, itemID), sku, delta, true)
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
	mu        sync.Mutex
	movements []*inventory.StockMovement
}

func (f *fakeMovementRepo) Create(_ context.Context, movement *inventory.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movements = append(f.movements, movement)
	return nil
}

func (f *fakeMovementRepo) CreateBatch(_ context.Context, movements []*inventory.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.movements = append(f.movements, movements...)
	return nil
}

func (f *fakeMovementRepo) FindByItem(_ context.Context, kind inventory.EntityKind, itemID uuid.UUID, _ shared.Filter) ([]*inventory.StockMovement, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*inventory.StockMovement
	for _, m := range f.movements {
		if m.Kind == kind && m.ItemID == itemID {
			result = append(result, m)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeMovementRepo) FindBySource(_ context.Context, source inventory.MovementSource, sourceID uuid.UUID) ([]*inventory.StockMovement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*inventory.StockMovement
	for _, m := range f.movements {
		if m.Source == source && m.SourceID != nil && *m.SourceID == sourceID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (f *fakeMovementRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.movements)
}

func newStoreService(stockRepo *fakeStockRepo, movementRepo *fakeMovementRepo) *StoreService {
	scope := NewNoOpTransactionScope(stockRepo, nil, movementRepo, nil, nil, nil, nil)
	return NewStoreService(scope, stockRepo, nil, movementRepo)
}

func TestStoreServiceAdjustQuantity(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()
	ref := inventory.CanonicalRef(inventory.KindRaw, itemID)

	t.Run("applies delta and writes ledger line", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		movementRepo := &fakeMovementRepo{}
		stockRepo.seed(ref, "RM-001", 100)
		service := newStoreService(stockRepo, movementRepo)

		newQty, err := service.AdjustQuantity(ctx, inventory.Adjustment{Ref: ref, SKU: "RM-001", Delta: -30},
			inventory.SourceManual, nil, "cycle count correction")
		require.NoError(t, err)
		assert.Equal(t, int64(70), newQty)
		assert.Equal(t, 1, movementRepo.count())
	})

	t.Run("unknown row fails with not found", func(t *testing.T) {
		service := newStoreService(newFakeStockRepo(), &fakeMovementRepo{})
		_, err := service.AdjustQuantity(ctx, inventory.Adjustment{Ref: ref, SKU: "RM-001", Delta: 5},
			inventory.SourceManual, nil, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("debit below zero fails with insufficient stock", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		movementRepo := &fakeMovementRepo{}
		stockRepo.seed(ref, "RM-001", 10)
		service := newStoreService(stockRepo, movementRepo)

		_, err := service.AdjustQuantity(ctx, inventory.Adjustment{Ref: ref, SKU: "RM-001", Delta: -11},
			inventory.SourceManual, nil, "")
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, int64(10), stockRepo.balance(ref))
		assert.Equal(t, 0, movementRepo.count())
	})
}

func TestStoreServiceBatchAdjust(t *testing.T) {
	ctx := context.Background()
	rawID := uuid.New()
	goodID := uuid.New()
	rawRef := inventory.CanonicalRef(inventory.KindRaw, rawID)
	goodRef := inventory.CanonicalRef(inventory.KindProduced, goodID)

	t.Run("applies all adjustments and merges duplicates", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		movementRepo := &fakeMovementRepo{}
		stockRepo.seed(rawRef, "RM-001", 100)
		stockRepo.seed(goodRef, "PG-001", 0)
		service := newStoreService(stockRepo, movementRepo)

		movements, err := service.BatchAdjust(ctx, []inventory.Adjustment{
			{Ref: rawRef, SKU: "RM-001", Delta: -20},
			{Ref: rawRef, SKU: "RM-001", Delta: -10},
			{Ref: goodRef, SKU: "PG-001", Delta: 15},
		}, inventory.SourceProduction, nil, "")
		require.NoError(t, err)

		assert.Len(t, movements, 2)
		assert.Equal(t, int64(70), stockRepo.balance(rawRef))
		assert.Equal(t, int64(15), stockRepo.balance(goodRef))
	})

	t.Run("any failing adjustment fails the whole batch", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		movementRepo := &fakeMovementRepo{}
		stockRepo.seed(rawRef, "RM-001", 5)
		stockRepo.seed(goodRef, "PG-001", 0)
		service := newStoreService(stockRepo, movementRepo)

		_, err := service.BatchAdjust(ctx, []inventory.Adjustment{
			{Ref: rawRef, SKU: "RM-001", Delta: -10},
			{Ref: goodRef, SKU: "PG-001", Delta: 1},
		}, inventory.SourceProduction, nil, "")
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Equal(t, 0, movementRepo.count())
	})

	t.Run("cancelling deltas are a no-op", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		movementRepo := &fakeMovementRepo{}
		stockRepo.seed(rawRef, "RM-001", 5)
		service := newStoreService(stockRepo, movementRepo)

		movements, err := service.BatchAdjust(ctx, []inventory.Adjustment{
			{Ref: rawRef, SKU: "RM-001", Delta: 3},
			{Ref: rawRef, SKU: "RM-001", Delta: -3},
		}, inventory.SourceManual, nil, "")
		require.NoError(t, err)
		assert.Empty(t, movements)
		assert.Equal(t, int64(5), stockRepo.balance(rawRef))
	})

	t.Run("rejects invalid adjustments before touching stock", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		stockRepo.seed(rawRef, "RM-001", 5)
		service := newStoreService(stockRepo, &fakeMovementRepo{})

		_, err := service.BatchAdjust(ctx, []inventory.Adjustment{
			{Ref: rawRef, SKU: "RM-001", Delta: -1},
			{Ref: inventory.StockRef{Kind: "WIDGET", ItemID: uuid.New()}, SKU: "X", Delta: 1},
		}, inventory.SourceManual, nil, "")
		assert.Error(t, err)
		assert.Equal(t, int64(5), stockRepo.balance(rawRef))
	})

	t.Run("publishes adjusted and depleted events", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		stockRepo.seed(rawRef, "RM-001", 10)
		service := newStoreService(stockRepo, &fakeMovementRepo{})
		publisher := NewMockEventPublisher()
		service.SetEventPublisher(publisher)

		_, err := service.BatchAdjust(ctx, []inventory.Adjustment{
			{Ref: rawRef, SKU: "RM-001", Delta: -10},
		}, inventory.SourceSale, nil, "")
		require.NoError(t, err)

		assert.Len(t, publisher.GetEventsByType(inventory.EventTypeStockAdjusted), 1)
		assert.Len(t, publisher.GetEventsByType(inventory.EventTypeStockDepleted), 1)
	})
}

func TestStoreServiceConcurrentAdjust(t *testing.T) {
	ctx := context.Background()

	t.Run("concurrent debits never oversell", func(t *testing.T) {
		itemID := uuid.New()
		ref := inventory.CanonicalRef(inventory.KindRaw, itemID)
		stockRepo := newFakeStockRepo()
		movementRepo := &fakeMovementRepo{}
		stockRepo.seed(ref, "RM-001", 50)
		service := newStoreService(stockRepo, movementRepo)

		const workers = 20
		results := make(chan error, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := service.AdjustQuantity(ctx, inventory.Adjustment{Ref: ref, SKU: "RM-001", Delta: -5},
					inventory.SourceSale, nil, "")
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, shared.ErrInsufficientStock)
			}
		}

		// Opening stock covers exactly 10 of the 20 debits. If two workers
		// both read 50 and each subtracted 5, more would slip through.
		assert.Equal(t, 10, succeeded)
		assert.Equal(t, int64(0), stockRepo.balance(ref))
		assert.Equal(t, succeeded, movementRepo.count())
	})

	t.Run("concurrent batches conserve total stock", func(t *testing.T) {
		rawID := uuid.New()
		goodID := uuid.New()
		rawRef := inventory.CanonicalRef(inventory.KindRaw, rawID)
		goodRef := inventory.CanonicalRef(inventory.KindProduced, goodID)
		stockRepo := newFakeStockRepo()
		movementRepo := &fakeMovementRepo{}
		stockRepo.seed(rawRef, "RM-001", 30)
		stockRepo.seed(goodRef, "PG-001", 0)
		service := newStoreService(stockRepo, movementRepo)

		const workers = 15
		results := make(chan error, workers)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := service.BatchAdjust(ctx, []inventory.Adjustment{
					{Ref: rawRef, SKU: "RM-001", Delta: -4},
					{Ref: goodRef, SKU: "PG-001", Delta: 1},
				}, inventory.SourceProduction, nil, "")
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		succeeded := 0
		for err := range results {
			if err == nil {
				succeeded++
			} else {
				assert.ErrorIs(t, err, shared.ErrInsufficientStock)
			}
		}

		rawLeft := stockRepo.balance(rawRef)
		goodsMade := stockRepo.balance(goodRef)
		assert.GreaterOrEqual(t, rawLeft, int64(0))
		assert.Equal(t, int64(succeeded), goodsMade)
		assert.Equal(t, int64(30), rawLeft+4*goodsMade)
		assert.Equal(t, 2*succeeded, movementRepo.count())
	})
}

func TestStoreServiceGet(t *testing.T) {
	ctx := context.Background()
	itemID := uuid.New()
	ref := inventory.HoldingRef(shared.DeptRetail, inventory.KindProduced, itemID)

	stockRepo := newFakeStockRepo()
	stockRepo.seed(ref, "PG-001", 42)
	service := newStoreService(stockRepo, &fakeMovementRepo{})

	t.Run("returns snapshot", func(t *testing.T) {
		snapshot, err := service.Get(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, int64(42), snapshot.Quantity)
		assert.Equal(t, "PG-001", snapshot.SKU)
	})

	t.Run("missing row is not found", func(t *testing.T) {
		_, err := service.Get(ctx, inventory.CanonicalRef(inventory.KindRaw, uuid.New()))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("invalid ref is rejected", func(t *testing.T) {
		_, err := service.Get(ctx, inventory.StockRef{Kind: "WIDGET", ItemID: itemID})
		assert.Error(t, err)
	})
}
