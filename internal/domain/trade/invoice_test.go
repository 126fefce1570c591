package trade

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medibooks/backend/internal/domain/inventory"
)

func newTestInvoice(t *testing.T, invoiceType InvoiceType) *Invoice {
	t.Helper()
	inv, err := NewInvoice(uuid.New(), invoiceType, "INV/2024-25/1", "2024-25", uuid.New(), "Ravi Kumar")
	require.NoError(t, err)
	return inv
}

func TestNewInvoice(t *testing.T) {
	t.Run("creates active invoice", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceTypeSale)

		assert.Equal(t, InvoiceStatusActive, inv.Status)
		assert.Equal(t, PaymentStateDue, inv.PaymentState)
		assert.True(t, inv.GrandTotal.IsZero())
	})

	t.Run("rejects missing number", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), InvoiceTypeSale, "", "2024-25", uuid.New(), "X")
		require.Error(t, err)
	})

	t.Run("rejects nil party", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), InvoiceTypeSale, "INV/2024-25/1", "2024-25", uuid.Nil, "X")
		require.Error(t, err)
	})
}

func TestInvoice_AddItem(t *testing.T) {
	inv := newTestInvoice(t, InvoiceTypeSale)
	batchID := uuid.New()

	// 10 units at 100, 10% discount, 12% GST: 1000 -> 900 -> 1008
	item, err := inv.AddItem(uuid.New(), &batchID, "B-1", "Paracetamol", 10, 0,
		decimal.NewFromInt(100), decimal.NewFromInt(120), decimal.NewFromInt(10), decimal.NewFromInt(12))

	require.NoError(t, err)
	assert.True(t, item.Amount.Equal(decimal.NewFromInt(1008)), item.Amount.String())
	assert.True(t, inv.GrandTotal.Equal(decimal.NewFromInt(1008)))

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := inv.AddItem(uuid.New(), nil, "", "X", 0, 0,
			decimal.NewFromInt(10), decimal.Zero, decimal.Zero, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects discount above 100", func(t *testing.T) {
		_, err := inv.AddItem(uuid.New(), nil, "", "X", 1, 0,
			decimal.NewFromInt(10), decimal.Zero, decimal.NewFromInt(101), decimal.Zero)
		require.Error(t, err)
	})
}

func TestInvoiceItem_StockDelta(t *testing.T) {
	item := InvoiceItem{Quantity: 50, FreeQuantity: 5}

	assert.EqualValues(t, 55, item.StockDelta(InvoiceTypePurchase), "purchase adds paid plus free")
	assert.EqualValues(t, -50, item.StockDelta(InvoiceTypeSale), "sale removes only sold quantity")
}

func TestInvoice_PartyBalanceDelta(t *testing.T) {
	t.Run("sale raises receivable by unpaid remainder", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceTypeSale)
		_, err := inv.AddItem(uuid.New(), nil, "", "X", 10, 0,
			decimal.NewFromInt(100), decimal.Zero, decimal.Zero, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, inv.RecordPayment(decimal.NewFromInt(200)))

		assert.True(t, inv.PartyBalanceDelta().Equal(decimal.NewFromInt(800)))
	})

	t.Run("purchase raises payable", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceTypePurchase)
		_, err := inv.AddItem(uuid.New(), nil, "", "X", 10, 0,
			decimal.NewFromInt(100), decimal.Zero, decimal.Zero, decimal.Zero)
		require.NoError(t, err)

		assert.True(t, inv.PartyBalanceDelta().Equal(decimal.NewFromInt(-1000)))
	})
}

func TestInvoice_PaymentState(t *testing.T) {
	inv := newTestInvoice(t, InvoiceTypeSale)
	_, err := inv.AddItem(uuid.New(), nil, "", "X", 1, 0,
		decimal.NewFromInt(500), decimal.Zero, decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	assert.Equal(t, PaymentStateDue, inv.PaymentState)

	require.NoError(t, inv.RecordPayment(decimal.NewFromInt(500)))
	assert.Equal(t, PaymentStatePaid, inv.PaymentState)
}

func TestInvoice_StatusTransitions(t *testing.T) {
	t.Run("draft can be finalized then cancelled", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceTypeSale)
		inv.MarkDraft()
		assert.True(t, inv.IsDraft())

		require.NoError(t, inv.Finalize())
		assert.True(t, inv.IsActive())

		require.NoError(t, inv.Cancel())
		require.Error(t, inv.Cancel(), "cancelled is terminal")
	})

	t.Run("active invoice cannot be finalized again", func(t *testing.T) {
		inv := newTestInvoice(t, InvoiceTypeSale)
		require.Error(t, inv.Finalize())
	})
}

func TestInvoiceType_Movements(t *testing.T) {
	assert.Equal(t, inventory.MovementPurchase, InvoiceTypePurchase.StockMovement())
	assert.Equal(t, inventory.MovementSaleEdit, InvoiceTypeSale.EditMovement())
	assert.Equal(t, inventory.MovementPurchaseDelete, InvoiceTypePurchase.DeleteMovement())
	assert.Equal(t, inventory.MovementSaleReturn, InvoiceTypeSale.ReturnMovement())
}
