package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParty(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates party with opening balance", func(t *testing.T) {
		p, err := NewParty(tenantID, "City Medicals", PartyTypeDistributor, decimal.NewFromInt(-500))

		require.NoError(t, err)
		assert.Equal(t, PartyTypeDistributor, p.Type)
		assert.True(t, p.CurrentBalance.Equal(decimal.NewFromInt(-500)))
		assert.True(t, p.OpeningBalance.Equal(p.CurrentBalance))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewParty(tenantID, "", PartyTypeCustomer, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects unknown party type", func(t *testing.T) {
		_, err := NewParty(tenantID, "Someone", PartyType("VENDOR"), decimal.Zero)
		require.Error(t, err)
	})
}

func TestParty_ApplyBalanceDelta(t *testing.T) {
	p, err := NewParty(uuid.New(), "Ravi Kumar", PartyTypeCustomer, decimal.Zero)
	require.NoError(t, err)

	got := p.ApplyBalanceDelta(decimal.NewFromInt(300))
	assert.True(t, got.Equal(decimal.NewFromInt(300)))

	got = p.ApplyBalanceDelta(decimal.NewFromInt(-300))
	assert.True(t, got.IsZero())
}

func TestNewLedgerEntry(t *testing.T) {
	tenantID := uuid.New()
	partyID := uuid.New()
	billID := uuid.New()

	t.Run("positive delta is a debit", func(t *testing.T) {
		e, err := NewLedgerEntry(tenantID, partyID, decimal.NewFromInt(450), decimal.NewFromInt(450),
			"Sales invoice", &billID, "INV/2024-25/1")

		require.NoError(t, err)
		assert.True(t, e.Debit.Equal(decimal.NewFromInt(450)))
		assert.True(t, e.Credit.IsZero())
		assert.True(t, e.Delta().Equal(decimal.NewFromInt(450)))
	})

	t.Run("negative delta is a credit", func(t *testing.T) {
		e, err := NewLedgerEntry(tenantID, partyID, decimal.NewFromInt(-200), decimal.NewFromInt(250),
			"Payment received", nil, "")

		require.NoError(t, err)
		assert.True(t, e.Credit.Equal(decimal.NewFromInt(200)))
		assert.True(t, e.Delta().Equal(decimal.NewFromInt(-200)))
	})

	t.Run("rejects zero movement", func(t *testing.T) {
		_, err := NewLedgerEntry(tenantID, partyID, decimal.Zero, decimal.Zero, "", nil, "")
		require.Error(t, err)
	})
}
