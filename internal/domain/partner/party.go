package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/shared"
)

// PartyType distinguishes the two counterparty roles. Customers buy from the
// pharmacy, distributors supply it; both share the same balance mechanics.
type PartyType string

const (
	PartyTypeCustomer    PartyType = "CUSTOMER"
	PartyTypeDistributor PartyType = "DISTRIBUTOR"
)

// IsValid returns true if the party type is known
func (p PartyType) IsValid() bool {
	return p == PartyTypeCustomer || p == PartyTypeDistributor
}

// Party is a generalized counterparty with a running balance.
//
// Sign convention, applied uniformly: positive CurrentBalance means the party
// owes the pharmacy (receivable, "to collect"); negative means the pharmacy
// owes the party (payable). The balance is mutated only through invoice,
// return and payment operations, each of which appends a ledger entry in the
// same transaction.
type Party struct {
	shared.TenantAggregateRoot
	Name           string          `gorm:"type:varchar(255);not null;index"`
	Type           PartyType       `gorm:"type:varchar(16);not null;index"`
	Phone          string          `gorm:"type:varchar(20)"`
	Email          string          `gorm:"type:varchar(255)"`
	Address        string          `gorm:"type:varchar(512)"`
	GSTIN          string          `gorm:"type:varchar(20)"`
	CreditDays     int             `gorm:"not null;default:0"`
	OpeningBalance decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	CurrentBalance decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Party) TableName() string {
	return "parties"
}

// NewParty creates a new party with an optional opening balance. The opening
// balance becomes the first ledger movement.
func NewParty(tenantID uuid.UUID, name string, partyType PartyType, openingBalance decimal.Decimal) (*Party, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Party name is required")
	}
	if !partyType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown party type")
	}
	return &Party{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Type:                partyType,
		OpeningBalance:      openingBalance,
		CurrentBalance:      openingBalance,
	}, nil
}

// ApplyBalanceDelta shifts the running balance and returns the new value.
// Positive delta increases what the party owes the pharmacy.
func (p *Party) ApplyBalanceDelta(delta decimal.Decimal) decimal.Decimal {
	p.CurrentBalance = p.CurrentBalance.Add(delta)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return p.CurrentBalance
}
