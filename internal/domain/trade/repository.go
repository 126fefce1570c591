package trade

import (
	"context"

	"github.com/google/uuid"

	"github.com/medibooks/backend/internal/domain/shared"
)

// InvoiceRepository provides access to invoices, always tenant-scoped
type InvoiceRepository interface {
	shared.TenantRepository[Invoice]
	FindByNumber(ctx context.Context, tenantID uuid.UUID, invoiceType InvoiceType, fiscalYear, invoiceNumber string) (*Invoice, error)
	FindByType(ctx context.Context, tenantID uuid.UUID, invoiceType InvoiceType, filter shared.Filter) ([]Invoice, error)
	FindByParty(ctx context.Context, tenantID, partyID uuid.UUID, filter shared.Filter) ([]Invoice, error)
}

// ReturnRepository provides access to returns, always tenant-scoped
type ReturnRepository interface {
	shared.TenantRepository[Return]
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]Return, error)
	CountByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) (int64, error)
}
