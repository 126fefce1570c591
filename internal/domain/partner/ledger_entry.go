package partner

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/shared"
)

// LedgerEntry is one immutable movement on a party's ledger. Exactly one of
// Debit/Credit is non-zero. Debit raises what the party owes the pharmacy,
// credit lowers it; Balance carries the running balance after the movement.
type LedgerEntry struct {
	shared.TenantAggregateRoot
	PartyID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_party_ledger_party"`
	Debit       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Credit      decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Balance     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Description string          `gorm:"type:varchar(255)"`
	BillRef     *uuid.UUID      `gorm:"type:uuid;index"`
	BillNumber  string          `gorm:"type:varchar(64)"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "party_ledger_entries"
}

// NewLedgerEntry records a signed balance movement for a party. Positive
// delta is a debit (party owes more), negative a credit.
func NewLedgerEntry(
	tenantID, partyID uuid.UUID,
	delta decimal.Decimal,
	balance decimal.Decimal,
	description string,
	billRef *uuid.UUID,
	billNumber string,
) (*LedgerEntry, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Party ID cannot be empty")
	}
	if delta.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Ledger movement cannot be zero")
	}

	e := &LedgerEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PartyID:             partyID,
		Balance:             balance,
		Description:         description,
		BillRef:             billRef,
		BillNumber:          billNumber,
	}
	if delta.IsPositive() {
		e.Debit = delta
	} else {
		e.Credit = delta.Neg()
	}
	return e, nil
}

// Delta returns the signed balance movement of this entry
func (e *LedgerEntry) Delta() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}
