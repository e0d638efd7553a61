package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	inventoryapp "github.com/supplychain/backend/internal/application/inventory"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
)

// fakeStockRepo keeps guarded quantity rows in a map and enforces the same
// contract as the SQL implementation: missing rows fail lookups, debits
// below zero fail with insufficient stock.
type fakeStockRepo struct {
	rows map[string]int64
	skus map[string]string
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{rows: make(map[string]int64), skus: make(map[string]string)}
}

func stockKey(dept shared.Department, kind inventory.EntityKind, itemID uuid.UUID) string {
	return fmt.Sprintf("%s/%s/%s", dept, kind, itemID)
}

func (r *fakeStockRepo) seed(dept shared.Department, kind inventory.EntityKind, itemID uuid.UUID, sku string, qty int64) {
	key := stockKey(dept, kind, itemID)
	r.rows[key] = qty
	r.skus[key] = sku
}

func (r *fakeStockRepo) AdjustCanonical(_ context.Context, kind inventory.EntityKind, itemID uuid.UUID, delta int64) (int64, error) {
	key := stockKey("", kind, itemID)
	qty, ok := r.rows[key]
	if !ok {
		return 0, shared.ErrNotFound
	}
	if qty+delta < 0 {
		return 0, shared.ErrInsufficientStock
	}
	r.rows[key] = qty + delta
	return qty + delta, nil
}

func (r *fakeStockRepo) AdjustHolding(_ context.Context, dept shared.Department, kind inventory.EntityKind, itemID uuid.UUID, sku string, delta int64) (int64, error) {
	key := stockKey(dept, kind, itemID)
	qty, ok := r.rows[key]
	if !ok {
		if delta < 0 {
			return 0, shared.ErrInsufficientStock
		}
		r.rows[key] = delta
		r.skus[key] = sku
		return delta, nil
	}
	if qty+delta < 0 {
		return 0, shared.ErrInsufficientStock
	}
	r.rows[key] = qty + delta
	return qty + delta, nil
}

func (r *fakeStockRepo) GetCanonical(_ context.Context, kind inventory.EntityKind, itemID uuid.UUID) (*inventory.StockSnapshot, error) {
	key := stockKey("", kind, itemID)
	qty, ok := r.rows[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &inventory.StockSnapshot{
		Ref:       inventory.CanonicalRef(kind, itemID),
		SKU:       r.skus[key],
		Quantity:  qty,
		UpdatedAt: time.Now(),
	}, nil
}

func (r *fakeStockRepo) GetHolding(_ context.Context, dept shared.Department, kind inventory.EntityKind, itemID uuid.UUID) (*inventory.StockSnapshot, error) {
	key := stockKey(dept, kind, itemID)
	qty, ok := r.rows[key]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &inventory.StockSnapshot{
		Ref:       inventory.HoldingRef(dept, kind, itemID),
		SKU:       r.skus[key],
		Quantity:  qty,
		UpdatedAt: time.Now(),
	}, nil
}

// fakeMovementRepo records ledger lines in memory
type fakeMovementRepo struct {
	movements []*inventory.StockMovement
}

func (r *fakeMovementRepo) Create(_ context.Context, movement *inventory.StockMovement) error {
	r.movements = append(r.movements, movement)
	return nil
}

func (r *fakeMovementRepo) CreateBatch(_ context.Context, movements []*inventory.StockMovement) error {
	r.movements = append(r.movements, movements...)
	return nil
}

func (r *fakeMovementRepo) FindByItem(_ context.Context, kind inventory.EntityKind, itemID uuid.UUID, _ shared.Filter) ([]*inventory.StockMovement, int64, error) {
	var result []*inventory.StockMovement
	for _, m := range r.movements {
		if m.Kind == kind && m.ItemID == itemID {
			result = append(result, m)
		}
	}
	return result, int64(len(result)), nil
}

func (r *fakeMovementRepo) FindBySource(_ context.Context, source inventory.MovementSource, sourceID uuid.UUID) ([]*inventory.StockMovement, error) {
	var result []*inventory.StockMovement
	for _, m := range r.movements {
		if m.Source == source && m.SourceID != nil && *m.SourceID == sourceID {
			result = append(result, m)
		}
	}
	return result, nil
}

func newStoreTestRouter(stockRepo *fakeStockRepo, movementRepo *fakeMovementRepo) *gin.Engine {
	scope := inventoryapp.NewNoOpTransactionScope(stockRepo, nil, movementRepo, nil, nil, nil, nil)
	service := inventoryapp.NewStoreService(scope, stockRepo, nil, movementRepo)
	h := NewStoreHandler(service)

	engine := gin.New()
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func performJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestStoreHandler_Adjust(t *testing.T) {
	itemID := uuid.New()

	t.Run("credits canonical row", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		stockRepo.seed("", inventory.KindRaw, itemID, "FLOUR-01", 10)
		movementRepo := &fakeMovementRepo{}
		engine := newStoreTestRouter(stockRepo, movementRepo)

		w := performJSON(t, engine, http.MethodPost, "/api/v1/inventory/adjust", gin.H{
			"kind":    "RAW",
			"item_id": itemID,
			"sku":     "FLOUR-01",
			"delta":   5,
		})

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Success bool `json:"success"`
			Data    struct {
				Quantity int64 `json:"quantity"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, int64(15), resp.Data.Quantity)
		assert.Len(t, movementRepo.movements, 1)
	})

	t.Run("debit below zero returns 422", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		stockRepo.seed("", inventory.KindRaw, itemID, "FLOUR-01", 3)
		engine := newStoreTestRouter(stockRepo, &fakeMovementRepo{})

		w := performJSON(t, engine, http.MethodPost, "/api/v1/inventory/adjust", gin.H{
			"kind":    "RAW",
			"item_id": itemID,
			"sku":     "FLOUR-01",
			"delta":   -5,
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, int64(3), stockRepo.rows[stockKey("", inventory.KindRaw, itemID)])
	})

	t.Run("unknown row returns 404", func(t *testing.T) {
		engine := newStoreTestRouter(newFakeStockRepo(), &fakeMovementRepo{})

		w := performJSON(t, engine, http.MethodPost, "/api/v1/inventory/adjust", gin.H{
			"kind":    "RAW",
			"item_id": uuid.New(),
			"sku":     "GHOST-01",
			"delta":   1,
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("unknown department returns 400", func(t *testing.T) {
		engine := newStoreTestRouter(newFakeStockRepo(), &fakeMovementRepo{})

		w := performJSON(t, engine, http.MethodPost, "/api/v1/inventory/adjust", gin.H{
			"dept":    "WAREHOUSE",
			"kind":    "RAW",
			"item_id": itemID,
			"sku":     "FLOUR-01",
			"delta":   1,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing sku returns 400", func(t *testing.T) {
		engine := newStoreTestRouter(newFakeStockRepo(), &fakeMovementRepo{})

		w := performJSON(t, engine, http.MethodPost, "/api/v1/inventory/adjust", gin.H{
			"kind":    "RAW",
			"item_id": itemID,
			"delta":   1,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStoreHandler_BatchAdjust(t *testing.T) {
	flourID := uuid.New()
	sugarID := uuid.New()

	t.Run("applies all adjustments", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		stockRepo.seed("", inventory.KindRaw, flourID, "FLOUR-01", 10)
		stockRepo.seed("", inventory.KindRaw, sugarID, "SUGAR-01", 20)
		movementRepo := &fakeMovementRepo{}
		engine := newStoreTestRouter(stockRepo, movementRepo)

		w := performJSON(t, engine, http.MethodPost, "/api/v1/inventory/adjust/batch", gin.H{
			"source": "PRODUCTION",
			"adjustments": []gin.H{
				{"kind": "RAW", "item_id": flourID, "sku": "FLOUR-01", "delta": -4},
				{"kind": "RAW", "item_id": sugarID, "sku": "SUGAR-01", "delta": -2},
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(6), stockRepo.rows[stockKey("", inventory.KindRaw, flourID)])
		assert.Equal(t, int64(18), stockRepo.rows[stockKey("", inventory.KindRaw, sugarID)])
		assert.Len(t, movementRepo.movements, 2)
	})

	t.Run("short row fails the batch", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		stockRepo.seed("", inventory.KindRaw, flourID, "FLOUR-01", 10)
		stockRepo.seed("", inventory.KindRaw, sugarID, "SUGAR-01", 1)
		movementRepo := &fakeMovementRepo{}
		engine := newStoreTestRouter(stockRepo, movementRepo)

		w := performJSON(t, engine, http.MethodPost, "/api/v1/inventory/adjust/batch", gin.H{
			"source": "PRODUCTION",
			"adjustments": []gin.H{
				{"kind": "RAW", "item_id": flourID, "sku": "FLOUR-01", "delta": -4},
				{"kind": "RAW", "item_id": sugarID, "sku": "SUGAR-01", "delta": -2},
			},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Empty(t, movementRepo.movements)
	})

	t.Run("empty batch returns 400", func(t *testing.T) {
		engine := newStoreTestRouter(newFakeStockRepo(), &fakeMovementRepo{})

		w := performJSON(t, engine, http.MethodPost, "/api/v1/inventory/adjust/batch", gin.H{
			"adjustments": []gin.H{},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStoreHandler_GetStock(t *testing.T) {
	itemID := uuid.New()

	t.Run("reads canonical row", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		stockRepo.seed("", inventory.KindProduced, itemID, "BREAD-01", 7)
		engine := newStoreTestRouter(stockRepo, &fakeMovementRepo{})

		w := performJSON(t, engine, http.MethodGet,
			"/api/v1/inventory/stock?kind=PRODUCED&item_id="+itemID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				SKU      string `json:"sku"`
				Quantity int64  `json:"quantity"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "BREAD-01", resp.Data.SKU)
		assert.Equal(t, int64(7), resp.Data.Quantity)
	})

	t.Run("reads holding row", func(t *testing.T) {
		stockRepo := newFakeStockRepo()
		stockRepo.seed(shared.DeptRetail, inventory.KindProduced, itemID, "BREAD-01", 4)
		engine := newStoreTestRouter(stockRepo, &fakeMovementRepo{})

		w := performJSON(t, engine, http.MethodGet,
			"/api/v1/inventory/stock?kind=PRODUCED&dept=RETAIL&item_id="+itemID.String(), nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Data struct {
				Quantity int64 `json:"quantity"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(4), resp.Data.Quantity)
	})

	t.Run("missing row returns 404", func(t *testing.T) {
		engine := newStoreTestRouter(newFakeStockRepo(), &fakeMovementRepo{})

		w := performJSON(t, engine, http.MethodGet,
			"/api/v1/inventory/stock?kind=RAW&item_id="+uuid.New().String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("bad item id returns 400", func(t *testing.T) {
		engine := newStoreTestRouter(newFakeStockRepo(), &fakeMovementRepo{})

		w := performJSON(t, engine, http.MethodGet, "/api/v1/inventory/stock?kind=RAW&item_id=nope", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStoreHandler_ListMovements(t *testing.T) {
	itemID := uuid.New()
	stockRepo := newFakeStockRepo()
	stockRepo.seed("", inventory.KindRaw, itemID, "FLOUR-01", 10)
	movementRepo := &fakeMovementRepo{}
	engine := newStoreTestRouter(stockRepo, movementRepo)

	w := performJSON(t, engine, http.MethodPost, "/api/v1/inventory/adjust", gin.H{
		"kind":    "RAW",
		"item_id": itemID,
		"sku":     "FLOUR-01",
		"delta":   -3,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(t, engine, http.MethodGet,
		"/api/v1/inventory/movements?kind=RAW&item_id="+itemID.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []struct {
			Delta         int64 `json:"delta"`
			QuantityAfter int64 `json:"quantity_after"`
		} `json:"data"`
		Meta struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, int64(-3), resp.Data[0].Delta)
	assert.Equal(t, int64(7), resp.Data[0].QuantityAfter)
	assert.Equal(t, int64(1), resp.Meta.Total)
}
