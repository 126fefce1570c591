// Package integration verifies that every repository and service scopes its
// reads and writes to the calling tenant.
package integration

import (
	"context"
	"testing"

	tradeapp "github.com/medibooks/backend/internal/application/trade"
	"github.com/medibooks/backend/internal/domain/catalog"
	"github.com/medibooks/backend/internal/domain/partner"
	"github.com/medibooks/backend/internal/domain/shared"
	"github.com/medibooks/backend/internal/domain/trade"
	"github.com/medibooks/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantIsolation_Repositories(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	ctx := context.Background()

	tenantA := uuid.New()
	tenantB := uuid.New()

	productRepo := persistence.NewGormProductRepository(testDB.DB)
	partyRepo := persistence.NewGormPartyRepository(testDB.DB)

	t.Run("product_created_in_tenant_A_not_visible_to_tenant_B", func(t *testing.T) {
		product, err := catalog.NewProduct(tenantA, "Dolo 650", "TAB", "15x10", "3004", decimal.NewFromInt(12))
		require.NoError(t, err)
		require.NoError(t, productRepo.Save(ctx, product))

		foundA, err := productRepo.FindByIDForTenant(ctx, tenantA, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, foundA.ID)

		foundB, err := productRepo.FindByIDForTenant(ctx, tenantB, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, foundB)
	})

	t.Run("party_listing_is_scoped", func(t *testing.T) {
		party, err := partner.NewParty(tenantA, "Scoped Customer", partner.PartyTypeCustomer, decimal.Zero)
		require.NoError(t, err)
		require.NoError(t, partyRepo.Save(ctx, party))

		listedA, err := partyRepo.FindByType(ctx, tenantA, partner.PartyTypeCustomer, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, listedA, 1)

		listedB, err := partyRepo.FindByType(ctx, tenantB, partner.PartyTypeCustomer, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, listedB)
	})

	t.Run("delete_cannot_cross_tenants", func(t *testing.T) {
		product, err := catalog.NewProduct(tenantA, "Crocin Advance", "TAB", "20x10", "3004", decimal.NewFromInt(12))
		require.NoError(t, err)
		require.NoError(t, productRepo.Save(ctx, product))

		err = productRepo.DeleteForTenant(ctx, tenantB, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		still, err := productRepo.FindByIDForTenant(ctx, tenantA, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, still.ID)
	})
}

func TestTenantIsolation_InvoiceEngine(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewEngineTestSetup(t)
	ctx := context.Background()

	customer := setup.seedParty(t, "Tenant A Customer", partner.PartyTypeCustomer, decimal.Zero)
	product := setup.seedProduct(t, "Tenant A Product")
	batch := setup.seedStock(t, product.ID, "BT-01", 20)

	inv, err := setup.Invoices.Create(ctx, setup.TenantID, tradeapp.CreateInvoiceCommand{
		ActorID: setup.ActorID,
		Type:    trade.InvoiceTypeSale,
		PartyID: customer.ID,
		Items: []tradeapp.LineItemInput{{
			ProductID: product.ID,
			BatchID:   &batch.ID,
			Quantity:  5,
			Rate:      decimal.NewFromInt(10),
		}},
	})
	require.NoError(t, err)

	otherTenant := uuid.New()

	t.Run("foreign_tenant_cannot_read_the_invoice", func(t *testing.T) {
		_, err := setup.Invoices.GetByID(ctx, otherTenant, inv.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("foreign_tenant_cannot_delete_the_invoice", func(t *testing.T) {
		err := setup.Invoices.Delete(ctx, otherTenant, inv.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = setup.Invoices.GetByID(ctx, setup.TenantID, inv.ID)
		assert.NoError(t, err)
	})

	t.Run("foreign_tenant_cannot_sell_from_the_stock", func(t *testing.T) {
		_, err := setup.Invoices.Create(ctx, otherTenant, tradeapp.CreateInvoiceCommand{
			ActorID: setup.ActorID,
			Type:    trade.InvoiceTypeSale,
			PartyID: customer.ID,
			Items: []tradeapp.LineItemInput{{
				ProductID: product.ID,
				BatchID:   &batch.ID,
				Quantity:  1,
				Rate:      decimal.NewFromInt(10),
			}},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("invoice_numbers_restart_per_tenant", func(t *testing.T) {
		other := NewEngineTestSetupOnDB(t, setup.DB)
		customerB := other.seedParty(t, "Tenant B Customer", partner.PartyTypeCustomer, decimal.Zero)
		productB := other.seedProduct(t, "Tenant B Product")
		batchB := other.seedStock(t, productB.ID, "BT-01", 20)

		invB, err := other.Invoices.Create(ctx, other.TenantID, tradeapp.CreateInvoiceCommand{
			ActorID: other.ActorID,
			Type:    trade.InvoiceTypeSale,
			PartyID: customerB.ID,
			Items: []tradeapp.LineItemInput{{
				ProductID: productB.ID,
				BatchID:   &batchB.ID,
				Quantity:  2,
				Rate:      decimal.NewFromInt(10),
			}},
		})
		require.NoError(t, err)

		// Both tenants hold the same first number in the series
		assert.Equal(t, inv.InvoiceNumber, invB.InvoiceNumber)
	})
}
