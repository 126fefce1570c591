package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medibooks/backend/internal/domain/shared"
)

// BatchRepository provides access to batches, always tenant-scoped
type BatchRepository interface {
	shared.TenantRepository[Batch]
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID) ([]Batch, error)
	FindByProductAndNumber(ctx context.Context, tenantID, productID uuid.UUID, batchNumber string) (*Batch, error)
	FindExpiringBy(ctx context.Context, tenantID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]Batch, error)
	SumQuantityByProduct(ctx context.Context, tenantID, productID uuid.UUID) (int64, error)
}

// StockEntryRepository is the append-only stock timeline. No update or
// delete operations are exposed.
type StockEntryRepository interface {
	Append(ctx context.Context, entry *StockEntry) error
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]StockEntry, error)
	FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]StockEntry, error)
	LastForProduct(ctx context.Context, tenantID, productID uuid.UUID) (*StockEntry, error)
}
