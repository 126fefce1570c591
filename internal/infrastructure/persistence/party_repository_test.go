package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/medibooks/backend/internal/domain/partner"
	"github.com/medibooks/backend/internal/domain/shared"
)

func setupPartyTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&partner.Party{}, &partner.LedgerEntry{}))
	return db
}

func TestGormPartyRepository(t *testing.T) {
	db := setupPartyTestDB(t)
	repo := NewGormPartyRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("save and find by id", func(t *testing.T) {
		party, err := partner.NewParty(tenantID, "Apollo Clinic", partner.PartyTypeCustomer, decimal.NewFromInt(150))
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, party))

		found, err := repo.FindByIDForTenant(ctx, tenantID, party.ID)
		require.NoError(t, err)
		assert.Equal(t, "Apollo Clinic", found.Name)
		assert.True(t, found.CurrentBalance.Equal(decimal.NewFromInt(150)))
	})

	t.Run("wrong tenant returns not found", func(t *testing.T) {
		party, err := partner.NewParty(tenantID, "Scoped", partner.PartyTypeCustomer, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, party))

		_, err = repo.FindByIDForTenant(ctx, uuid.New(), party.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("find by type filters and searches", func(t *testing.T) {
		db := setupPartyTestDB(t)
		repo := NewGormPartyRepository(db)

		customer, _ := partner.NewParty(tenantID, "Rainbow Medicals", partner.PartyTypeCustomer, decimal.Zero)
		distributor, _ := partner.NewParty(tenantID, "Rainbow Distributors", partner.PartyTypeDistributor, decimal.Zero)
		require.NoError(t, repo.Save(ctx, customer))
		require.NoError(t, repo.Save(ctx, distributor))

		customers, err := repo.FindByType(ctx, tenantID, partner.PartyTypeCustomer, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, customers, 1)
		assert.Equal(t, "Rainbow Medicals", customers[0].Name)

		filter := shared.DefaultFilter()
		filter.Search = "Distrib"
		matches, err := repo.FindByType(ctx, tenantID, partner.PartyTypeDistributor, filter)
		require.NoError(t, err)
		assert.Len(t, matches, 1)
	})

	t.Run("delete scoped to tenant", func(t *testing.T) {
		party, err := partner.NewParty(tenantID, "Short Lived", partner.PartyTypeCustomer, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, party))

		assert.ErrorIs(t, repo.DeleteForTenant(ctx, uuid.New(), party.ID), shared.ErrNotFound)
		assert.NoError(t, repo.DeleteForTenant(ctx, tenantID, party.ID))
		assert.ErrorIs(t, repo.DeleteForTenant(ctx, tenantID, party.ID), shared.ErrNotFound)
	})
}

func TestGormLedgerRepository(t *testing.T) {
	db := setupPartyTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()
	tenantID := uuid.New()
	partyID := uuid.New()

	appendEntry := func(t *testing.T, delta, balance int64) {
		t.Helper()
		entry, err := partner.NewLedgerEntry(tenantID, partyID,
			decimal.NewFromInt(delta), decimal.NewFromInt(balance), "movement", nil, "")
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, entry))
	}

	t.Run("sum of entries reconciles with the running balance", func(t *testing.T) {
		appendEntry(t, 500, 500)
		appendEntry(t, -200, 300)
		appendEntry(t, 150, 450)

		total, err := repo.SumDeltaByParty(ctx, tenantID, partyID)
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(450)), "got %s", total)
	})

	t.Run("listing is scoped to the party", func(t *testing.T) {
		entries, err := repo.FindByParty(ctx, tenantID, partyID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, entries, 3)

		other, err := repo.FindByParty(ctx, tenantID, uuid.New(), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, other)
	})

	t.Run("empty ledger sums to zero", func(t *testing.T) {
		total, err := repo.SumDeltaByParty(ctx, uuid.New(), uuid.New())
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})
}
