package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplychain/backend/internal/domain/shared"
)

func TestNewDepartmentHolding(t *testing.T) {
	itemID := uuid.New()

	t.Run("creates holding with opening quantity", func(t *testing.T) {
		holding, err := NewDepartmentHolding(shared.DeptProcurement, KindRaw, itemID, "RM-001", 50)
		require.NoError(t, err)
		assert.Equal(t, int64(50), holding.Quantity)
		assert.Equal(t, shared.DeptProcurement, holding.Dept)
		assert.True(t, holding.Ref().IsHolding())
	})

	t.Run("rejects negative opening quantity", func(t *testing.T) {
		_, err := NewDepartmentHolding(shared.DeptProcurement, KindRaw, itemID, "RM-001", -1)
		assert.ErrorIs(t, err, shared.ErrInvalidQuantity)
	})

	t.Run("rejects unknown department", func(t *testing.T) {
		_, err := NewDepartmentHolding("LOADING_DOCK", KindRaw, itemID, "RM-001", 1)
		assert.Error(t, err)
	})

	t.Run("rejects empty sku", func(t *testing.T) {
		_, err := NewDepartmentHolding(shared.DeptRetail, KindProduced, itemID, "", 1)
		assert.Error(t, err)
	})
}

func TestDepartmentHoldingApply(t *testing.T) {
	holding, err := NewDepartmentHolding(shared.DeptDistribution, KindProduced, uuid.New(), "PG-010", 10)
	require.NoError(t, err)

	t.Run("debit within balance", func(t *testing.T) {
		require.NoError(t, holding.Apply(-4))
		assert.Equal(t, int64(6), holding.Quantity)
	})

	t.Run("debit to exactly zero", func(t *testing.T) {
		require.NoError(t, holding.Apply(-6))
		assert.Equal(t, int64(0), holding.Quantity)
	})

	t.Run("debit below zero fails and leaves quantity unchanged", func(t *testing.T) {
		err := holding.Apply(-1)
		require.Error(t, err)
		assert.Equal(t, "INSUFFICIENT_STOCK", err.(*shared.DomainError).Code)
		assert.Equal(t, int64(0), holding.Quantity)
	})

	t.Run("credit", func(t *testing.T) {
		require.NoError(t, holding.Apply(25))
		assert.Equal(t, int64(25), holding.Quantity)
	})
}
