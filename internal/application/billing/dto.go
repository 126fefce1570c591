package billing

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/billing"
)

// BillAllocationInput allocates part of a payment against one invoice
type BillAllocationInput struct {
	InvoiceID uuid.UUID
	Amount    decimal.Decimal
}

// CreatePaymentCommand records a standalone payment in or out, optionally
// settling specific bills.
type CreatePaymentCommand struct {
	ActorID      uuid.UUID
	PartyID      uuid.UUID
	AccountID    *uuid.UUID
	Amount       decimal.Decimal
	Method       billing.PaymentMethod
	Direction    billing.PaymentDirection
	ChequeNumber string
	Remark       string
	LinkedBills  []BillAllocationInput
}

// CreateAccountCommand opens a financial account
type CreateAccountCommand struct {
	ActorID        uuid.UUID
	Name           string
	Type           billing.AccountType
	OpeningBalance decimal.Decimal
}

// SettlementResponse is one settled bill in API responses
type SettlementResponse struct {
	InvoiceID uuid.UUID       `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// PaymentResponse is the API representation of a payment
type PaymentResponse struct {
	ID            uuid.UUID                `json:"id"`
	PaymentNumber string                   `json:"payment_number"`
	PartyID       uuid.UUID                `json:"party_id"`
	AccountID     *uuid.UUID               `json:"account_id,omitempty"`
	Amount        decimal.Decimal          `json:"amount"`
	Method        billing.PaymentMethod    `json:"method"`
	Direction     billing.PaymentDirection `json:"direction"`
	Status        billing.PaymentStatus    `json:"status"`
	ChequeNumber  string                   `json:"cheque_number,omitempty"`
	Settlements   []SettlementResponse     `json:"settlements,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
}

// ToPaymentResponse maps a payment aggregate to its API representation
func ToPaymentResponse(p *billing.Payment) PaymentResponse {
	settlements := make([]SettlementResponse, 0, len(p.Settlements))
	for _, s := range p.Settlements {
		settlements = append(settlements, SettlementResponse{InvoiceID: s.InvoiceID, Amount: s.Amount})
	}
	return PaymentResponse{
		ID:            p.ID,
		PaymentNumber: p.PaymentNumber,
		PartyID:       p.PartyID,
		AccountID:     p.AccountID,
		Amount:        p.Amount,
		Method:        p.Method,
		Direction:     p.Direction,
		Status:        p.Status,
		ChequeNumber:  p.ChequeNumber,
		Settlements:   settlements,
		CreatedAt:     p.CreatedAt,
	}
}

// AccountResponse is the API representation of a financial account
type AccountResponse struct {
	ID        uuid.UUID           `json:"id"`
	Name      string              `json:"name"`
	Type      billing.AccountType `json:"type"`
	Balance   decimal.Decimal     `json:"balance"`
	CreatedAt time.Time           `json:"created_at"`
}

// ToAccountResponse maps an account aggregate to its API representation
func ToAccountResponse(a *billing.Account) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		Name:      a.Name,
		Type:      a.Type,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
	}
}
