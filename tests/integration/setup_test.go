package integration

import (
	"context"
	"testing"

	billingapp "github.com/medibooks/backend/internal/application/billing"
	catalogapp "github.com/medibooks/backend/internal/application/catalog"
	inventoryapp "github.com/medibooks/backend/internal/application/inventory"
	partnerapp "github.com/medibooks/backend/internal/application/partner"
	tradeapp "github.com/medibooks/backend/internal/application/trade"
	"github.com/medibooks/backend/internal/domain/billing"
	"github.com/medibooks/backend/internal/domain/partner"
	"github.com/medibooks/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// EngineTestSetup wires the full application service stack against a real
// database, the same way cmd/server does it.
type EngineTestSetup struct {
	DB       *TestDB
	TenantID uuid.UUID
	ActorID  uuid.UUID

	Catalog   *catalogapp.Service
	Inventory *inventoryapp.Service
	Parties   *partnerapp.Service
	Invoices  *tradeapp.InvoiceService
	Returns   *tradeapp.ReturnService
	Payments  *billingapp.PaymentService
	Accounts  *billingapp.AccountService
}

// NewEngineTestSetup creates the service stack on a fresh database
func NewEngineTestSetup(t *testing.T) *EngineTestSetup {
	t.Helper()

	testDB := NewTestDB(t)
	scope := persistence.NewGormTransactionScope(testDB.DB)

	return &EngineTestSetup{
		DB:        testDB,
		TenantID:  uuid.New(),
		ActorID:   uuid.New(),
		Catalog:   catalogapp.NewService(scope),
		Inventory: inventoryapp.NewService(scope),
		Parties:   partnerapp.NewService(scope),
		Invoices:  tradeapp.NewInvoiceService(scope),
		Returns:   tradeapp.NewReturnService(scope),
		Payments:  billingapp.NewPaymentService(scope),
		Accounts:  billingapp.NewAccountService(scope),
	}
}

// NewEngineTestSetupOnDB builds another tenant's service stack on an
// existing test database, for tests that put two tenants side by side.
func NewEngineTestSetupOnDB(t *testing.T, testDB *TestDB) *EngineTestSetup {
	t.Helper()

	scope := persistence.NewGormTransactionScope(testDB.DB)
	return &EngineTestSetup{
		DB:        testDB,
		TenantID:  uuid.New(),
		ActorID:   uuid.New(),
		Catalog:   catalogapp.NewService(scope),
		Inventory: inventoryapp.NewService(scope),
		Parties:   partnerapp.NewService(scope),
		Invoices:  tradeapp.NewInvoiceService(scope),
		Returns:   tradeapp.NewReturnService(scope),
		Payments:  billingapp.NewPaymentService(scope),
		Accounts:  billingapp.NewAccountService(scope),
	}
}

func (s *EngineTestSetup) seedProduct(t *testing.T, name string) catalogapp.ProductResponse {
	t.Helper()

	resp, err := s.Catalog.Create(context.Background(), s.TenantID, catalogapp.CreateProductCommand{
		ActorID: s.ActorID,
		Name:    name,
		Unit:    "TAB",
		Pack:    "10x10",
		GSTRate: decimal.NewFromInt(12),
	})
	require.NoError(t, err)
	return *resp
}

func (s *EngineTestSetup) seedParty(t *testing.T, name string, partyType partner.PartyType, opening decimal.Decimal) partnerapp.PartyResponse {
	t.Helper()

	resp, err := s.Parties.Create(context.Background(), s.TenantID, partnerapp.CreatePartyCommand{
		ActorID:        s.ActorID,
		Name:           name,
		Type:           partyType,
		Phone:          "9000000000",
		OpeningBalance: opening,
	})
	require.NoError(t, err)
	return *resp
}

func (s *EngineTestSetup) seedAccount(t *testing.T, name string, accountType billing.AccountType, opening decimal.Decimal) billingapp.AccountResponse {
	t.Helper()

	resp, err := s.Accounts.Create(context.Background(), s.TenantID, billingapp.CreateAccountCommand{
		ActorID:        s.ActorID,
		Name:           name,
		Type:           accountType,
		OpeningBalance: opening,
	})
	require.NoError(t, err)
	return *resp
}

// seedStock imports one opening-stock batch for a product and returns it
func (s *EngineTestSetup) seedStock(t *testing.T, productID uuid.UUID, batchNumber string, quantity int64) inventoryapp.BatchResponse {
	t.Helper()

	resp, err := s.Inventory.ImportOpeningStock(context.Background(), s.TenantID, inventoryapp.ImportOpeningStockCommand{
		ActorID:   s.ActorID,
		ProductID: productID,
		Rows: []inventoryapp.OpeningStockRow{{
			BatchNumber:  batchNumber,
			Expiry:       "12/28",
			MRP:          decimal.NewFromInt(120),
			GSTRate:      decimal.NewFromInt(12),
			PurchaseRate: decimal.NewFromInt(80),
			SaleRate:     decimal.NewFromInt(100),
			Pack:         "10x10",
			Quantity:     quantity,
		}},
		Remark: "Opening stock",
	})
	require.NoError(t, err)

	for _, b := range resp.Batches {
		if b.BatchNumber == batchNumber {
			return b
		}
	}
	t.Fatalf("imported batch %s not found in stock response", batchNumber)
	return inventoryapp.BatchResponse{}
}

// productQuantity reads the current aggregate stock for a product
func (s *EngineTestSetup) productQuantity(t *testing.T, productID uuid.UUID) int64 {
	t.Helper()

	resp, err := s.Inventory.ProductStock(context.Background(), s.TenantID, productID)
	require.NoError(t, err)
	return resp.Quantity
}

// partyBalance reads the current running balance for a party
func (s *EngineTestSetup) partyBalance(t *testing.T, partyID uuid.UUID) decimal.Decimal {
	t.Helper()

	resp, err := s.Parties.GetByID(context.Background(), s.TenantID, partyID)
	require.NoError(t, err)
	return resp.CurrentBalance
}

// accountBalance reads the current balance for an account
func (s *EngineTestSetup) accountBalance(t *testing.T, accountID uuid.UUID) decimal.Decimal {
	t.Helper()

	resp, err := s.Accounts.GetByID(context.Background(), s.TenantID, accountID)
	require.NoError(t, err)
	return resp.Balance
}
