package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibooks/backend/internal/domain/shared"
)

func TestNewProduct(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates product successfully", func(t *testing.T) {
		p, err := NewProduct(tenantID, "Paracetamol 500mg", "TAB", "1x10", "3004", decimal.NewFromInt(12))

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, p.ID)
		assert.Equal(t, tenantID, p.TenantID)
		assert.Equal(t, "Paracetamol 500mg", p.Name)
		assert.EqualValues(t, 0, p.Quantity)
	})

	t.Run("fails without name", func(t *testing.T) {
		p, err := NewProduct(tenantID, "", "TAB", "1x10", "3004", decimal.NewFromInt(12))

		require.Error(t, err)
		assert.Nil(t, p)
	})

	t.Run("fails with negative GST rate", func(t *testing.T) {
		_, err := NewProduct(tenantID, "Paracetamol", "TAB", "1x10", "3004", decimal.NewFromInt(-1))

		require.Error(t, err)
	})
}

func TestProduct_ApplyQuantityDelta(t *testing.T) {
	p, err := NewProduct(uuid.New(), "Amoxicillin 250mg", "CAP", "1x10", "3004", decimal.NewFromInt(12))
	require.NoError(t, err)

	require.NoError(t, p.ApplyQuantityDelta(100))
	assert.EqualValues(t, 100, p.Quantity)

	require.NoError(t, p.ApplyQuantityDelta(-30))
	assert.EqualValues(t, 70, p.Quantity)

	err = p.ApplyQuantityDelta(-71)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.EqualValues(t, 70, p.Quantity, "failed delta must not mutate quantity")
}
