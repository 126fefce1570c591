package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/billing"
	"github.com/medibooks/backend/internal/domain/trade"
)

// LineItemInput is one invoice line as submitted by the caller. BatchID
// selects an existing batch; if it is nil and NewBatch is supplied, a batch
// is opened (purchase only).
type LineItemInput struct {
	ProductID    uuid.UUID
	BatchID      *uuid.UUID
	NewBatch     *NewBatchInput
	Quantity     int64
	FreeQuantity int64
	Rate         decimal.Decimal
	MRP          decimal.Decimal
	DiscountPct  decimal.Decimal
	GSTRate      decimal.Decimal
}

// NewBatchInput carries the fields needed to open a batch on first purchase
type NewBatchInput struct {
	BatchNumber  string
	Expiry       string // MM/YY
	MRP          decimal.Decimal
	GSTRate      decimal.Decimal
	PurchaseRate decimal.Decimal
	SaleRate     decimal.Decimal
	Pack         string
}

// PaymentInput is the payment sub-document captured with an invoice or return
type PaymentInput struct {
	Amount    decimal.Decimal
	Method    billing.PaymentMethod
	AccountID *uuid.UUID
}

// CreateInvoiceCommand creates a purchase or sales invoice
type CreateInvoiceCommand struct {
	ActorID uuid.UUID
	Type    trade.InvoiceType
	PartyID uuid.UUID
	Items   []LineItemInput
	Payment *PaymentInput
	AsDraft bool
	Remark  string
}

// EditInvoiceCommand replaces an invoice's lines and payment
type EditInvoiceCommand struct {
	ActorID   uuid.UUID
	InvoiceID uuid.UUID
	Items     []LineItemInput
	Payment   *PaymentInput
}

// ReturnItemInput is one returned line
type ReturnItemInput struct {
	ProductID uuid.UUID
	BatchID   *uuid.UUID
	Quantity  int64
}

// CreateReturnCommand creates a credit/debit note against an invoice
type CreateReturnCommand struct {
	ActorID   uuid.UUID
	InvoiceID uuid.UUID
	Items     []ReturnItemInput
	Refund    *PaymentInput
	Remark    string
}

// InvoiceItemResponse is one invoice line in API responses
type InvoiceItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	ProductName  string          `json:"product_name"`
	BatchID      *uuid.UUID      `json:"batch_id,omitempty"`
	BatchNumber  string          `json:"batch_number,omitempty"`
	Quantity     int64           `json:"quantity"`
	FreeQuantity int64           `json:"free_quantity"`
	Rate         decimal.Decimal `json:"rate"`
	DiscountPct  decimal.Decimal `json:"discount_pct"`
	GSTRate      decimal.Decimal `json:"gst_rate"`
	Amount       decimal.Decimal `json:"amount"`
}

// InvoiceResponse is the API representation of an invoice
type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	InvoiceNumber string                `json:"invoice_number"`
	Type          trade.InvoiceType     `json:"type"`
	Status        trade.InvoiceStatus   `json:"status"`
	FiscalYear    string                `json:"fiscal_year"`
	PartyID       uuid.UUID             `json:"party_id"`
	PartyName     string                `json:"party_name"`
	InvoiceDate   time.Time             `json:"invoice_date"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
	AmountPaid    decimal.Decimal       `json:"amount_paid"`
	PaymentState  trade.PaymentState    `json:"payment_state"`
	Items         []InvoiceItemResponse `json:"items"`
	CreatedAt     time.Time             `json:"created_at"`
}

// ToInvoiceResponse maps an invoice aggregate to its API representation
func ToInvoiceResponse(inv *trade.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, InvoiceItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			BatchID:      it.BatchID,
			BatchNumber:  it.BatchNumber,
			Quantity:     it.Quantity,
			FreeQuantity: it.FreeQuantity,
			Rate:         it.Rate,
			DiscountPct:  it.DiscountPct,
			GSTRate:      it.GSTRate,
			Amount:       it.Amount,
		})
	}
	return InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		Type:          inv.Type,
		Status:        inv.Status,
		FiscalYear:    inv.FiscalYear,
		PartyID:       inv.PartyID,
		PartyName:     inv.PartyName,
		InvoiceDate:   inv.InvoiceDate,
		GrandTotal:    inv.GrandTotal,
		AmountPaid:    inv.AmountPaid,
		PaymentState:  inv.PaymentState,
		Items:         items,
		CreatedAt:     inv.CreatedAt,
	}
}

// ReturnResponse is the API representation of a return
type ReturnResponse struct {
	ID           uuid.UUID         `json:"id"`
	ReturnNumber string            `json:"return_number"`
	Type         trade.InvoiceType `json:"type"`
	InvoiceID    uuid.UUID         `json:"invoice_id"`
	PartyID      uuid.UUID         `json:"party_id"`
	PartyName    string            `json:"party_name"`
	GrandTotal   decimal.Decimal   `json:"grand_total"`
	RefundAmount decimal.Decimal   `json:"refund_amount"`
	ReturnDate   time.Time         `json:"return_date"`
}

// ToReturnResponse maps a return aggregate to its API representation
func ToReturnResponse(r *trade.Return) ReturnResponse {
	return ReturnResponse{
		ID:           r.ID,
		ReturnNumber: r.ReturnNumber,
		Type:         r.Type,
		InvoiceID:    r.InvoiceID,
		PartyID:      r.PartyID,
		PartyName:    r.PartyName,
		GrandTotal:   r.GrandTotal,
		RefundAmount: r.RefundAmount,
		ReturnDate:   r.ReturnDate,
	}
}
