package integration

import (
	"context"
	"testing"
	"time"

	inventoryapp "github.com/medibooks/backend/internal/application/inventory"
	"github.com/medibooks/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory_OpeningStockImport(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewEngineTestSetup(t)
	ctx := context.Background()

	product := setup.seedProduct(t, "Aspirin 75mg")

	t.Run("import_creates_batches_and_timeline", func(t *testing.T) {
		resp, err := setup.Inventory.ImportOpeningStock(ctx, setup.TenantID, inventoryapp.ImportOpeningStockCommand{
			ActorID:   setup.ActorID,
			ProductID: product.ID,
			Rows: []inventoryapp.OpeningStockRow{
				{BatchNumber: "ASP-01", Expiry: "03/27", MRP: decimal.NewFromInt(20), PurchaseRate: decimal.NewFromInt(12), SaleRate: decimal.NewFromInt(16), Quantity: 30},
				{BatchNumber: "ASP-02", Expiry: "09/28", MRP: decimal.NewFromInt(22), PurchaseRate: decimal.NewFromInt(13), SaleRate: decimal.NewFromInt(17), Quantity: 20},
			},
			Remark: "Stock count at onboarding",
		})
		require.NoError(t, err)

		assert.EqualValues(t, 50, resp.Quantity)
		assert.Len(t, resp.Batches, 2)

		entries, err := setup.Inventory.Timeline(ctx, setup.TenantID, product.ID, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("reimporting_a_batch_number_tops_it_up", func(t *testing.T) {
		resp, err := setup.Inventory.ImportOpeningStock(ctx, setup.TenantID, inventoryapp.ImportOpeningStockCommand{
			ActorID:   setup.ActorID,
			ProductID: product.ID,
			Rows: []inventoryapp.OpeningStockRow{
				{BatchNumber: "ASP-01", Expiry: "03/27", MRP: decimal.NewFromInt(20), PurchaseRate: decimal.NewFromInt(12), SaleRate: decimal.NewFromInt(16), Quantity: 10},
			},
		})
		require.NoError(t, err)

		assert.EqualValues(t, 60, resp.Quantity)
		assert.Len(t, resp.Batches, 2, "no new batch should be opened")
	})

	t.Run("zero_quantity_row_rejected", func(t *testing.T) {
		_, err := setup.Inventory.ImportOpeningStock(ctx, setup.TenantID, inventoryapp.ImportOpeningStockCommand{
			ActorID:   setup.ActorID,
			ProductID: product.ID,
			Rows:      []inventoryapp.OpeningStockRow{{BatchNumber: "ASP-03", Quantity: 0}},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestInventory_Adjustments(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewEngineTestSetup(t)
	ctx := context.Background()

	product := setup.seedProduct(t, "Vitamin D3 60k")
	batch := setup.seedStock(t, product.ID, "VD3-01", 12)

	t.Run("negative_delta_writes_off_stock", func(t *testing.T) {
		resp, err := setup.Inventory.AdjustStock(ctx, setup.TenantID, inventoryapp.AdjustStockCommand{
			ActorID:   setup.ActorID,
			ProductID: product.ID,
			BatchID:   &batch.ID,
			Delta:     -2,
			Remark:    "Damaged strip",
		})
		require.NoError(t, err)
		assert.EqualValues(t, 10, resp.Quantity)
	})

	t.Run("positive_delta_restores_stock", func(t *testing.T) {
		resp, err := setup.Inventory.AdjustStock(ctx, setup.TenantID, inventoryapp.AdjustStockCommand{
			ActorID:   setup.ActorID,
			ProductID: product.ID,
			BatchID:   &batch.ID,
			Delta:     3,
			Remark:    "Found in back room",
		})
		require.NoError(t, err)
		assert.EqualValues(t, 13, resp.Quantity)
	})

	t.Run("cannot_adjust_below_zero", func(t *testing.T) {
		_, err := setup.Inventory.AdjustStock(ctx, setup.TenantID, inventoryapp.AdjustStockCommand{
			ActorID:   setup.ActorID,
			ProductID: product.ID,
			BatchID:   &batch.ID,
			Delta:     -100,
		})
		require.Error(t, err)
		assert.EqualValues(t, 13, setup.productQuantity(t, product.ID))
	})

	t.Run("zero_delta_rejected", func(t *testing.T) {
		_, err := setup.Inventory.AdjustStock(ctx, setup.TenantID, inventoryapp.AdjustStockCommand{
			ActorID:   setup.ActorID,
			ProductID: product.ID,
			Delta:     0,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestInventory_ExpiringBatches(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	setup := NewEngineTestSetup(t)
	ctx := context.Background()

	product := setup.seedProduct(t, "Insulin Glargine")

	_, err := setup.Inventory.ImportOpeningStock(ctx, setup.TenantID, inventoryapp.ImportOpeningStockCommand{
		ActorID:   setup.ActorID,
		ProductID: product.ID,
		Rows: []inventoryapp.OpeningStockRow{
			{BatchNumber: "NEAR", Expiry: "10/26", MRP: decimal.NewFromInt(600), Quantity: 5},
			{BatchNumber: "FAR", Expiry: "10/29", MRP: decimal.NewFromInt(600), Quantity: 5},
		},
	})
	require.NoError(t, err)

	cutoff := time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)
	batches, err := setup.Inventory.ExpiringBatches(ctx, setup.TenantID, cutoff, shared.DefaultFilter())
	require.NoError(t, err)

	require.Len(t, batches, 1)
	assert.Equal(t, "NEAR", batches[0].BatchNumber)

	// Once the near batch is sold out it drops off the expiry report
	_, err = setup.Inventory.AdjustStock(ctx, setup.TenantID, inventoryapp.AdjustStockCommand{
		ActorID:   setup.ActorID,
		ProductID: product.ID,
		BatchID:   &batches[0].ID,
		Delta:     -5,
		Remark:    "Cleared before expiry",
	})
	require.NoError(t, err)

	batches, err = setup.Inventory.ExpiringBatches(ctx, setup.TenantID, cutoff, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, batches)
}
