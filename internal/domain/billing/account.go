package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/shared"
)

// AccountType classifies a financial account
type AccountType string

const (
	AccountTypeCash  AccountType = "CASH"
	AccountTypeBank  AccountType = "BANK"
	AccountTypeUPI   AccountType = "UPI"
	AccountTypeOther AccountType = "OTHER"
)

// IsValid returns true if the account type is known
func (a AccountType) IsValid() bool {
	switch a {
	case AccountTypeCash, AccountTypeBank, AccountTypeUPI, AccountTypeOther:
		return true
	}
	return false
}

// Account is a financial account (cash drawer, bank account, UPI handle).
// Its balance is mutated only by payment creation and reversal, each of which
// appends an AccountTransaction in the same database transaction.
type Account struct {
	shared.TenantAggregateRoot
	Name    string          `gorm:"type:varchar(255);not null"`
	Type    AccountType     `gorm:"type:varchar(16);not null"`
	Balance decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates a new financial account with an opening balance
func NewAccount(tenantID uuid.UUID, name string, accountType AccountType, openingBalance decimal.Decimal) (*Account, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account name is required")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown account type")
	}
	return &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Type:                accountType,
		Balance:             openingBalance,
	}, nil
}

// ApplyDelta shifts the account balance and returns the new value
func (a *Account) ApplyDelta(delta decimal.Decimal) decimal.Decimal {
	a.Balance = a.Balance.Add(delta)
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return a.Balance
}

// AccountTransaction is one immutable movement on an account. Delta is
// signed; Balance carries the account balance after the movement.
type AccountTransaction struct {
	shared.TenantAggregateRoot
	AccountID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_account_tx_account"`
	Delta       decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Balance     decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	PaymentID   *uuid.UUID      `gorm:"type:uuid;index"`
	Description string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (AccountTransaction) TableName() string {
	return "account_transactions"
}

// NewAccountTransaction records a signed account movement with the resulting
// balance computed at write time.
func NewAccountTransaction(
	tenantID, accountID uuid.UUID,
	delta, balance decimal.Decimal,
	paymentID *uuid.UUID,
	description string,
) (*AccountTransaction, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account ID cannot be empty")
	}
	if delta.IsZero() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account movement cannot be zero")
	}
	return &AccountTransaction{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AccountID:           accountID,
		Delta:               delta,
		Balance:             balance,
		PaymentID:           paymentID,
		Description:         description,
	}, nil
}
