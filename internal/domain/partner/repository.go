package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/shared"
)

// PartyRepository provides access to parties, always tenant-scoped
type PartyRepository interface {
	shared.TenantRepository[Party]
	FindByType(ctx context.Context, tenantID uuid.UUID, partyType PartyType, filter shared.Filter) ([]Party, error)
}

// LedgerRepository is the append-only party ledger
type LedgerRepository interface {
	Append(ctx context.Context, entry *LedgerEntry) error
	FindByParty(ctx context.Context, tenantID, partyID uuid.UUID, filter shared.Filter) ([]LedgerEntry, error)
	SumDeltaByParty(ctx context.Context, tenantID, partyID uuid.UUID) (decimal.Decimal, error)
}
