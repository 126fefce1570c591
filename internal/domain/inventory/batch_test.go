package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibooks/backend/internal/domain/shared"
)

func testBatchFields() BatchFields {
	return BatchFields{
		BatchNumber:  "B-1001",
		Expiry:       "06/27",
		MRP:          decimal.NewFromFloat(45.50),
		GSTRate:      decimal.NewFromInt(12),
		PurchaseRate: decimal.NewFromFloat(30.00),
		SaleRate:     decimal.NewFromFloat(40.00),
		Pack:         "1x10",
	}
}

func TestNewBatch(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()

	t.Run("creates batch with opening quantity", func(t *testing.T) {
		b, err := NewBatch(tenantID, productID, testBatchFields(), 55)

		require.NoError(t, err)
		assert.Equal(t, tenantID, b.TenantID)
		assert.Equal(t, productID, b.ProductID)
		assert.Equal(t, "B-1001", b.BatchNumber)
		assert.EqualValues(t, 55, b.Quantity)
	})

	t.Run("rejects negative opening quantity", func(t *testing.T) {
		_, err := NewBatch(tenantID, productID, testBatchFields(), -1)
		require.Error(t, err)
	})

	t.Run("rejects missing batch number", func(t *testing.T) {
		fields := testBatchFields()
		fields.BatchNumber = ""
		_, err := NewBatch(tenantID, productID, fields, 10)
		require.Error(t, err)
	})

	t.Run("rejects malformed expiry", func(t *testing.T) {
		fields := testBatchFields()
		fields.Expiry = "13/27"
		_, err := NewBatch(tenantID, productID, fields, 10)
		require.Error(t, err)

		fields.Expiry = "June 2027"
		_, err = NewBatch(tenantID, productID, fields, 10)
		require.Error(t, err)
	})
}

func TestBatch_ApplyDelta(t *testing.T) {
	b, err := NewBatch(uuid.New(), uuid.New(), testBatchFields(), 100)
	require.NoError(t, err)

	require.NoError(t, b.ApplyDelta(-30))
	assert.EqualValues(t, 70, b.Quantity)

	require.NoError(t, b.ApplyDelta(30))
	assert.EqualValues(t, 100, b.Quantity)

	err = b.ApplyDelta(-101)
	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.EqualValues(t, 100, b.Quantity)
}

func TestBatch_ExpiresBy(t *testing.T) {
	b, err := NewBatch(uuid.New(), uuid.New(), testBatchFields(), 10)
	require.NoError(t, err)

	assert.True(t, b.ExpiresBy(time.Date(2027, time.June, 15, 0, 0, 0, 0, time.UTC)))
	assert.True(t, b.ExpiresBy(time.Date(2027, time.July, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, b.ExpiresBy(time.Date(2027, time.May, 31, 0, 0, 0, 0, time.UTC)))

	b.Expiry = ""
	assert.False(t, b.ExpiresBy(time.Date(2099, time.January, 1, 0, 0, 0, 0, time.UTC)))
}
