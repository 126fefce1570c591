package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPayment(t *testing.T) {
	tenantID := uuid.New()
	partyID := uuid.New()
	accountID := uuid.New()

	t.Run("non-cheque payment completes immediately", func(t *testing.T) {
		p, err := NewPayment(tenantID, partyID, &accountID, "PAY-00001",
			decimal.NewFromInt(200), PaymentMethodCash, PaymentIn)

		require.NoError(t, err)
		assert.Equal(t, PaymentStatusCompleted, p.Status)
	})

	t.Run("cheque payment starts pending and needs no account", func(t *testing.T) {
		p, err := NewPayment(tenantID, partyID, nil, "PAY-00002",
			decimal.NewFromInt(500), PaymentMethodCheque, PaymentOut)

		require.NoError(t, err)
		assert.Equal(t, PaymentStatusPending, p.Status)
		assert.Nil(t, p.AccountID)
	})

	t.Run("non-cheque payment requires an account", func(t *testing.T) {
		_, err := NewPayment(tenantID, partyID, nil, "PAY-00003",
			decimal.NewFromInt(100), PaymentMethodUPI, PaymentIn)
		require.Error(t, err)
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewPayment(tenantID, partyID, &accountID, "PAY-00004",
			decimal.Zero, PaymentMethodCash, PaymentIn)
		require.Error(t, err)
	})
}

func TestPayment_Deltas(t *testing.T) {
	tenantID := uuid.New()
	partyID := uuid.New()
	accountID := uuid.New()

	in, err := NewPayment(tenantID, partyID, &accountID, "PAY-00005",
		decimal.NewFromInt(200), PaymentMethodCash, PaymentIn)
	require.NoError(t, err)

	assert.True(t, in.AccountDelta().Equal(decimal.NewFromInt(200)), "money in raises account")
	assert.True(t, in.PartyDelta().Equal(decimal.NewFromInt(-200)), "money in lowers what party owes")

	out, err := NewPayment(tenantID, partyID, &accountID, "PAY-00006",
		decimal.NewFromInt(300), PaymentMethodBank, PaymentOut)
	require.NoError(t, err)

	assert.True(t, out.AccountDelta().Equal(decimal.NewFromInt(-300)))
	assert.True(t, out.PartyDelta().Equal(decimal.NewFromInt(300)))
}

func TestAccount_ApplyDelta(t *testing.T) {
	a, err := NewAccount(uuid.New(), "Main Cash", AccountTypeCash, decimal.NewFromInt(1000))
	require.NoError(t, err)

	got := a.ApplyDelta(decimal.NewFromInt(200))
	assert.True(t, got.Equal(decimal.NewFromInt(1200)))

	got = a.ApplyDelta(decimal.NewFromInt(-1200))
	assert.True(t, got.IsZero())
}

func TestNewAccountTransaction(t *testing.T) {
	tenantID := uuid.New()
	accountID := uuid.New()

	t.Run("records movement with resulting balance", func(t *testing.T) {
		tx, err := NewAccountTransaction(tenantID, accountID,
			decimal.NewFromInt(200), decimal.NewFromInt(1200), nil, "Invoice payment")

		require.NoError(t, err)
		assert.True(t, tx.Delta.Equal(decimal.NewFromInt(200)))
		assert.True(t, tx.Balance.Equal(decimal.NewFromInt(1200)))
	})

	t.Run("rejects zero movement", func(t *testing.T) {
		_, err := NewAccountTransaction(tenantID, accountID, decimal.Zero, decimal.Zero, nil, "")
		require.Error(t, err)
	})
}
