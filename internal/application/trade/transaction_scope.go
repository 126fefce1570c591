package trade

import (
	"context"

	"github.com/medibooks/backend/internal/domain/billing"
	"github.com/medibooks/backend/internal/domain/catalog"
	"github.com/medibooks/backend/internal/domain/inventory"
	"github.com/medibooks/backend/internal/domain/partner"
	"github.com/medibooks/backend/internal/domain/sequence"
	"github.com/medibooks/backend/internal/domain/trade"
)

// TransactionScope provides transactional access to every repository the
// invoice engine touches. All repository operations performed inside Execute
// share one database transaction: any error aborts the whole unit, and no
// stock, ledger, party or account mutation survives a failed step.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes all repositories bound to the current
// transaction. The sequence allocator is included because number allocation
// must commit or abort together with the document that consumed the number.
type TransactionalRepositories interface {
	Products() catalog.Repository
	Batches() inventory.BatchRepository
	StockEntries() inventory.StockEntryRepository
	Invoices() trade.InvoiceRepository
	Returns() trade.ReturnRepository
	Parties() partner.PartyRepository
	PartyLedger() partner.LedgerRepository
	Accounts() billing.AccountRepository
	AccountTransactions() billing.AccountTransactionRepository
	Payments() billing.PaymentRepository
	Sequences() sequence.Allocator
}
