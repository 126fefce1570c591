package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apptrade "github.com/medibooks/backend/internal/application/trade"
	"github.com/medibooks/backend/internal/domain/billing"
	"github.com/medibooks/backend/internal/domain/catalog"
	"github.com/medibooks/backend/internal/domain/inventory"
	"github.com/medibooks/backend/internal/domain/partner"
	"github.com/medibooks/backend/internal/domain/sequence"
	"github.com/medibooks/backend/internal/domain/shared"
	"github.com/medibooks/backend/internal/domain/trade"
)

// GormTransactionScope implements apptrade.TransactionScope on top of GORM's
// transaction support. Every repository handed to the callback is bound to
// the same *gorm.DB transaction handle.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a single database transaction. A transaction that
// loses a concurrency race is surfaced as ErrTransactionAborted so callers
// can retry it.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newGormTransactionalRepositories(tx))
	})
	if isConcurrencyAbort(err) {
		return fmt.Errorf("%w: %v", shared.ErrTransactionAborted, err)
	}
	return err
}

// isConcurrencyAbort reports whether the error is a serialization failure
// (SQLSTATE 40001) or deadlock (40P01), the two outcomes of losing a race
// against a conflicting concurrent transaction.
func isConcurrencyAbort(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

var _ apptrade.TransactionScope = (*GormTransactionScope)(nil)

// gormTransactionalRepositories binds every repository to one transaction
type gormTransactionalRepositories struct {
	products            *GormProductRepository
	batches             *GormBatchRepository
	stockEntries        *GormStockEntryRepository
	invoices            *GormInvoiceRepository
	returns             *GormReturnRepository
	parties             *GormPartyRepository
	partyLedger         *GormLedgerRepository
	accounts            *GormAccountRepository
	accountTransactions *GormAccountTransactionRepository
	payments            *GormPaymentRepository
	sequences           *GormSequenceAllocator
}

func newGormTransactionalRepositories(tx *gorm.DB) *gormTransactionalRepositories {
	return &gormTransactionalRepositories{
		products:            NewGormProductRepository(tx),
		batches:             NewGormBatchRepository(tx),
		stockEntries:        NewGormStockEntryRepository(tx),
		invoices:            NewGormInvoiceRepository(tx),
		returns:             NewGormReturnRepository(tx),
		parties:             NewGormPartyRepository(tx),
		partyLedger:         NewGormLedgerRepository(tx),
		accounts:            NewGormAccountRepository(tx),
		accountTransactions: NewGormAccountTransactionRepository(tx),
		payments:            NewGormPaymentRepository(tx),
		sequences:           NewGormSequenceAllocator(tx),
	}
}

func (r *gormTransactionalRepositories) Products() catalog.Repository { return r.products }

func (r *gormTransactionalRepositories) Batches() inventory.BatchRepository { return r.batches }

func (r *gormTransactionalRepositories) StockEntries() inventory.StockEntryRepository {
	return r.stockEntries
}

func (r *gormTransactionalRepositories) Invoices() trade.InvoiceRepository { return r.invoices }

func (r *gormTransactionalRepositories) Returns() trade.ReturnRepository { return r.returns }

func (r *gormTransactionalRepositories) Parties() partner.PartyRepository { return r.parties }

func (r *gormTransactionalRepositories) PartyLedger() partner.LedgerRepository {
	return r.partyLedger
}

func (r *gormTransactionalRepositories) Accounts() billing.AccountRepository { return r.accounts }

func (r *gormTransactionalRepositories) AccountTransactions() billing.AccountTransactionRepository {
	return r.accountTransactions
}

func (r *gormTransactionalRepositories) Payments() billing.PaymentRepository { return r.payments }

func (r *gormTransactionalRepositories) Sequences() sequence.Allocator { return r.sequences }

var _ apptrade.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
