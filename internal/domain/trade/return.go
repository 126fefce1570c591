package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/sequence"
	"github.com/medibooks/backend/internal/domain/shared"
)

// ReturnItem is one line of a return, mirroring an invoice line
type ReturnItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReturnID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	BatchID     *uuid.UUID      `gorm:"type:uuid"`
	ProductName string          `gorm:"type:varchar(255)"`
	Quantity    int64           `gorm:"not null"`
	Rate        decimal.Decimal `gorm:"type:decimal(12,2)"`
	GSTRate     decimal.Decimal `gorm:"type:decimal(5,2)"`
	Amount      decimal.Decimal `gorm:"type:decimal(14,2)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (ReturnItem) TableName() string {
	return "return_items"
}

// Return is a credit note (sales return) or debit note (purchase return)
// raised against an active invoice. An invoice with returns cannot be
// deleted.
type Return struct {
	shared.TenantAggregateRoot
	ReturnNumber string      `gorm:"type:varchar(64);not null;index"`
	Type         InvoiceType `gorm:"type:varchar(16);not null"` // type of the original invoice
	InvoiceID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	PartyID      uuid.UUID   `gorm:"type:uuid;not null;index"`
	PartyName    string      `gorm:"type:varchar(255)"`
	ReturnDate   time.Time
	GrandTotal   decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	RefundAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Remark       string          `gorm:"type:varchar(255)"`

	Items []ReturnItem `gorm:"foreignKey:ReturnID;references:ID"`
}

// TableName returns the table name for GORM
func (Return) TableName() string {
	return "returns"
}

// SequenceKind returns the number series for returns against the given
// invoice type: credit notes for sales, debit notes for purchases.
func ReturnSequenceKind(invoiceType InvoiceType) sequence.DocumentKind {
	if invoiceType == InvoiceTypePurchase {
		return sequence.KindDebitNote
	}
	return sequence.KindCreditNote
}

// NewReturn creates a return shell against an invoice
func NewReturn(tenantID uuid.UUID, returnNumber string, invoiceType InvoiceType, invoiceID, partyID uuid.UUID, partyName string) (*Return, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Return number is required")
	}
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown invoice type")
	}
	if invoiceID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Original invoice ID cannot be empty")
	}
	return &Return{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ReturnNumber:        returnNumber,
		Type:                invoiceType,
		InvoiceID:           invoiceID,
		PartyID:             partyID,
		PartyName:           partyName,
		ReturnDate:          time.Now(),
		GrandTotal:          decimal.Zero,
		RefundAmount:        decimal.Zero,
		Items:               make([]ReturnItem, 0),
	}, nil
}

// AddItem appends a returned line and recalculates the total
func (r *Return) AddItem(productID uuid.UUID, batchID *uuid.UUID, productName string, quantity int64, rate, gstRate decimal.Decimal) (*ReturnItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Return quantity must be positive")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Rate cannot be negative")
	}

	now := time.Now()
	item := ReturnItem{
		ID:          uuid.New(),
		ReturnID:    r.ID,
		ProductID:   productID,
		BatchID:     batchID,
		ProductName: productName,
		Quantity:    quantity,
		Rate:        rate,
		GSTRate:     gstRate,
		Amount:      computeAmount(rate, quantity, decimal.Zero, gstRate),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.Items = append(r.Items, item)
	r.recalculateTotal()
	return &r.Items[len(r.Items)-1], nil
}

// StockDelta is the signed stock effect of a returned line: sales returns
// bring stock back in, purchase returns send it back out.
func (r *Return) StockDelta(item *ReturnItem) int64 {
	if r.Type == InvoiceTypePurchase {
		return -item.Quantity
	}
	return item.Quantity
}

// PartyBalanceDelta is the signed effect of this return on the party's
// running balance. A sales return credits the customer for the returned value
// net of any cash refund; a purchase return reduces the payable likewise.
func (r *Return) PartyBalanceDelta() decimal.Decimal {
	net := r.GrandTotal.Sub(r.RefundAmount)
	if r.Type == InvoiceTypePurchase {
		return net
	}
	return net.Neg()
}

// RecordRefund notes the cash/bank refund captured with the return
func (r *Return) RecordRefund(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Refund amount cannot be negative")
	}
	if amount.GreaterThan(r.GrandTotal) {
		return shared.NewDomainError("VALIDATION_ERROR", "Refund cannot exceed the return total")
	}
	r.RefundAmount = amount
	r.UpdatedAt = time.Now()
	return nil
}

// recalculateTotal recomputes the return total from line amounts
func (r *Return) recalculateTotal() {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Amount)
	}
	r.GrandTotal = total
	r.UpdatedAt = time.Now()
}
