package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibooks/backend/internal/domain/sequence"
)

func newTestReturn(t *testing.T, invoiceType InvoiceType) *Return {
	t.Helper()
	r, err := NewReturn(uuid.New(), "CN/24/1", invoiceType, uuid.New(), uuid.New(), "Ravi Kumar")
	require.NoError(t, err)
	return r
}

func TestNewReturn(t *testing.T) {
	t.Run("creates return against invoice", func(t *testing.T) {
		r := newTestReturn(t, InvoiceTypeSale)
		assert.True(t, r.GrandTotal.IsZero())
	})

	t.Run("rejects nil invoice reference", func(t *testing.T) {
		_, err := NewReturn(uuid.New(), "CN/24/1", InvoiceTypeSale, uuid.Nil, uuid.New(), "X")
		require.Error(t, err)
	})
}

func TestReturn_StockDelta(t *testing.T) {
	item := ReturnItem{Quantity: 10}

	salesReturn := newTestReturn(t, InvoiceTypeSale)
	assert.EqualValues(t, 10, salesReturn.StockDelta(&item), "sales return brings stock back")

	purchaseReturn := newTestReturn(t, InvoiceTypePurchase)
	assert.EqualValues(t, -10, purchaseReturn.StockDelta(&item), "purchase return ships stock out")
}

func TestReturn_PartyBalanceDelta(t *testing.T) {
	t.Run("sales return credits the customer net of refund", func(t *testing.T) {
		r := newTestReturn(t, InvoiceTypeSale)
		_, err := r.AddItem(uuid.New(), nil, "X", 10, decimal.NewFromInt(100), decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, r.RecordRefund(decimal.NewFromInt(400)))

		assert.True(t, r.PartyBalanceDelta().Equal(decimal.NewFromInt(-600)))
	})

	t.Run("purchase return reduces the payable", func(t *testing.T) {
		r := newTestReturn(t, InvoiceTypePurchase)
		_, err := r.AddItem(uuid.New(), nil, "X", 5, decimal.NewFromInt(100), decimal.Zero)
		require.NoError(t, err)

		assert.True(t, r.PartyBalanceDelta().Equal(decimal.NewFromInt(500)))
	})
}

func TestReturn_RecordRefund(t *testing.T) {
	r := newTestReturn(t, InvoiceTypeSale)
	_, err := r.AddItem(uuid.New(), nil, "X", 1, decimal.NewFromInt(100), decimal.Zero)
	require.NoError(t, err)

	require.Error(t, r.RecordRefund(decimal.NewFromInt(101)), "refund cannot exceed total")
	require.NoError(t, r.RecordRefund(decimal.NewFromInt(100)))
}

func TestReturnSequenceKind(t *testing.T) {
	assert.Equal(t, sequence.KindCreditNote, ReturnSequenceKind(InvoiceTypeSale))
	assert.Equal(t, sequence.KindDebitNote, ReturnSequenceKind(InvoiceTypePurchase))
}
