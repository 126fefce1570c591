package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/medibooks/backend/internal/domain/shared"
)

// AccountRepository provides access to financial accounts, always tenant-scoped
type AccountRepository interface {
	shared.TenantRepository[Account]
}

// AccountTransactionRepository is the append-only account movement log
type AccountTransactionRepository interface {
	Append(ctx context.Context, tx *AccountTransaction) error
	FindByAccount(ctx context.Context, tenantID, accountID uuid.UUID, filter shared.Filter) ([]AccountTransaction, error)
}

// PaymentRepository provides access to payments, always tenant-scoped
type PaymentRepository interface {
	shared.TenantRepository[Payment]
	FindByParty(ctx context.Context, tenantID, partyID uuid.UUID, filter shared.Filter) ([]Payment, error)
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]Payment, error)
	CountSettlementsByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (int64, error)
}
