package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/inventory"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormStockRepository_AdjustCanonical(t *testing.T) {
	t.Run("applies delta and returns new quantity", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)

		itemID := uuid.New()
		mock.ExpectQuery(`UPDATE raw_materials SET quantity = quantity \+ .* RETURNING quantity`).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(90))

		newQty, err := repo.AdjustCanonical(context.Background(), inventory.KindRaw, itemID, -10)
		require.NoError(t, err)
		assert.Equal(t, int64(90), newQty)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)

		itemID := uuid.New()
		mock.ExpectQuery(`UPDATE raw_materials SET quantity`).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "raw_materials"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		_, err := repo.AdjustCanonical(context.Background(), inventory.KindRaw, itemID, -10)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("guard rejection maps to insufficient stock", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)

		itemID := uuid.New()
		mock.ExpectQuery(`UPDATE produced_goods SET quantity`).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}))
		mock.ExpectQuery(`SELECT count\(\*\) FROM "produced_goods"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		_, err := repo.AdjustCanonical(context.Background(), inventory.KindProduced, itemID, -100)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("unknown kind is rejected", func(t *testing.T) {
		db, _, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)

		_, err := repo.AdjustCanonical(context.Background(), inventory.EntityKind("BOGUS"), uuid.New(), 5)
		assert.Error(t, err)
	})
}

func TestGormStockRepository_AdjustHolding(t *testing.T) {
	t.Run("applies delta to existing holding", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)

		itemID := uuid.New()
		mock.ExpectQuery(`UPDATE department_holdings SET quantity = quantity \+ .* RETURNING quantity`).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(15))

		newQty, err := repo.AdjustHolding(context.Background(), shared.DeptManufacturing, inventory.KindRaw, itemID, "RM-001", 5)
		require.NoError(t, err)
		assert.Equal(t, int64(15), newQty)
	})

	t.Run("debit against missing holding is insufficient stock", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)

		itemID := uuid.New()
		mock.ExpectQuery(`UPDATE department_holdings SET quantity`).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}))
		mock.ExpectQuery(`SELECT \* FROM "department_holdings"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.AdjustHolding(context.Background(), shared.DeptDistribution, inventory.KindProduced, itemID, "PG-001", -3)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})

	t.Run("guard rejection on existing holding is insufficient stock", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)

		itemID := uuid.New()
		mock.ExpectQuery(`UPDATE department_holdings SET quantity`).
			WillReturnRows(sqlmock.NewRows([]string{"quantity"}))
		mock.ExpectQuery(`SELECT \* FROM "department_holdings"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "dept", "kind", "item_id", "sku", "quantity"}).
				AddRow(uuid.New(), "MANUFACTURING", "RAW", itemID, "RM-001", 2))

		_, err := repo.AdjustHolding(context.Background(), shared.DeptManufacturing, inventory.KindRaw, itemID, "RM-001", -5)
		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	})
}

func TestGormStockRepository_GetCanonical(t *testing.T) {
	t.Run("returns snapshot for existing row", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)

		itemID := uuid.New()
		mock.ExpectQuery(`SELECT "sku","name","quantity","updated_at" FROM "raw_materials"`).
			WillReturnRows(sqlmock.NewRows([]string{"sku", "name", "quantity", "updated_at"}).
				AddRow("RM-COTTON", "Cotton", 100, time.Now()))

		snapshot, err := repo.GetCanonical(context.Background(), inventory.KindRaw, itemID)
		require.NoError(t, err)
		assert.Equal(t, "RM-COTTON", snapshot.SKU)
		assert.Equal(t, int64(100), snapshot.Quantity)
		assert.False(t, snapshot.Ref.IsHolding())
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormStockRepository(db)

		mock.ExpectQuery(`SELECT "sku","name","quantity","updated_at" FROM "produced_goods"`).
			WillReturnRows(sqlmock.NewRows([]string{"sku", "name", "quantity", "updated_at"}))

		_, err := repo.GetCanonical(context.Background(), inventory.KindProduced, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
