package billing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/shared"
)

// PaymentMethod is the instrument used to move money
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "CASH"
	PaymentMethodUPI    PaymentMethod = "UPI"
	PaymentMethodCard   PaymentMethod = "CARD"
	PaymentMethodCheque PaymentMethod = "CHEQUE"
	PaymentMethodBank   PaymentMethod = "BANK_TRANSFER"
)

// IsValid returns true if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodCard, PaymentMethodCheque, PaymentMethodBank:
		return true
	}
	return false
}

// PaymentDirection distinguishes money received from money paid out
type PaymentDirection string

const (
	// PaymentIn is money received from a party (customer pays the pharmacy)
	PaymentIn PaymentDirection = "IN"
	// PaymentOut is money paid to a party (pharmacy pays a distributor)
	PaymentOut PaymentDirection = "OUT"
)

// IsValid returns true if the direction is known
func (d PaymentDirection) IsValid() bool {
	return d == PaymentIn || d == PaymentOut
}

// PaymentStatus tracks settlement state. Cheques start PENDING; every other
// method settles immediately.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
)

// BillSettlement links a standalone payment to an invoice it settles and the
// portion of the payment applied to that invoice.
type BillSettlement struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PaymentID uuid.UUID       `gorm:"type:uuid;not null;index"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null"`
}

// TableName returns the table name for GORM
func (BillSettlement) TableName() string {
	return "bill_settlements"
}

// Payment records money moved between a party and an account. AccountID is
// required for every method except cheque, which settles later. InvoiceID is
// set when the payment was captured inline with a document; Settlements lists
// the bills a standalone payment was applied against.
type Payment struct {
	shared.TenantAggregateRoot
	PaymentNumber string           `gorm:"type:varchar(32);not null;uniqueIndex:idx_payment_number_tenant,priority:2"`
	PartyID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	AccountID     *uuid.UUID       `gorm:"type:uuid;index"`
	InvoiceID     *uuid.UUID       `gorm:"type:uuid;index"`
	Amount        decimal.Decimal  `gorm:"type:decimal(14,2);not null"`
	Method        PaymentMethod    `gorm:"type:varchar(16);not null"`
	Direction     PaymentDirection `gorm:"type:varchar(4);not null"`
	Status        PaymentStatus    `gorm:"type:varchar(16);not null"`
	ChequeNumber  string           `gorm:"type:varchar(32)"`
	Remark        string           `gorm:"type:varchar(255)"`

	Settlements []BillSettlement `gorm:"foreignKey:PaymentID;references:ID"`
}

// TableName returns the table name for GORM
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment record. The amount must be positive; direction
// and reversal signs are handled by the services that apply it.
func NewPayment(
	tenantID, partyID uuid.UUID,
	accountID *uuid.UUID,
	paymentNumber string,
	amount decimal.Decimal,
	method PaymentMethod,
	direction PaymentDirection,
) (*Payment, error) {
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Party ID cannot be empty")
	}
	if paymentNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment number is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Payment amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown payment method")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown payment direction")
	}
	if method != PaymentMethodCheque && accountID == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Account is required for non-cheque payments")
	}

	status := PaymentStatusCompleted
	if method == PaymentMethodCheque {
		status = PaymentStatusPending
	}

	return &Payment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		PaymentNumber:       paymentNumber,
		PartyID:             partyID,
		AccountID:           accountID,
		Amount:              amount,
		Method:              method,
		Direction:           direction,
		Status:              status,
	}, nil
}

// LinkInvoice attaches the payment to the invoice it was captured with
func (p *Payment) LinkInvoice(invoiceID uuid.UUID) {
	p.InvoiceID = &invoiceID
}

// AddSettlement records the portion of this payment applied against a bill.
// The sum of settlements may not exceed the payment amount.
func (p *Payment) AddSettlement(invoiceID uuid.UUID, amount decimal.Decimal) error {
	if invoiceID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Settled invoice ID cannot be empty")
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("VALIDATION_ERROR", "Settlement amount must be positive")
	}
	total := amount
	for _, s := range p.Settlements {
		total = total.Add(s.Amount)
	}
	if total.GreaterThan(p.Amount) {
		return shared.NewDomainError("VALIDATION_ERROR", "Settlements cannot exceed the payment amount")
	}
	p.Settlements = append(p.Settlements, BillSettlement{
		ID:        uuid.New(),
		PaymentID: p.ID,
		InvoiceID: invoiceID,
		Amount:    amount,
	})
	return nil
}

// Clear settles a pending cheque against an account
func (p *Payment) Clear(accountID uuid.UUID) error {
	if p.Status != PaymentStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending payments can be cleared")
	}
	if accountID == uuid.Nil {
		return shared.NewDomainError("VALIDATION_ERROR", "Account ID cannot be empty")
	}
	p.AccountID = &accountID
	p.Status = PaymentStatusCompleted
	p.IncrementVersion()
	return nil
}

// AccountDelta is the signed effect of this payment on its account balance:
// money in raises the account, money out lowers it.
func (p *Payment) AccountDelta() decimal.Decimal {
	if p.Direction == PaymentOut {
		return p.Amount.Neg()
	}
	return p.Amount
}

// PartyDelta is the signed effect of this payment on the party balance under
// the positive-means-party-owes convention: money received lowers what the
// party owes, money paid out raises it.
func (p *Payment) PartyDelta() decimal.Decimal {
	if p.Direction == PaymentOut {
		return p.Amount
	}
	return p.Amount.Neg()
}
