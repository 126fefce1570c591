package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/inventory"
	"github.com/medibooks/backend/internal/domain/sequence"
	"github.com/medibooks/backend/internal/domain/shared"
)

// InvoiceType distinguishes purchase invoices from sales invoices. A single
// generalized invoice entity serves both; the type drives stock direction,
// party-balance sign and number series.
type InvoiceType string

const (
	InvoiceTypePurchase InvoiceType = "PURCHASE"
	InvoiceTypeSale     InvoiceType = "SALE"
)

// IsValid returns true if the invoice type is known
func (t InvoiceType) IsValid() bool {
	return t == InvoiceTypePurchase || t == InvoiceTypeSale
}

// String returns the string representation of InvoiceType
func (t InvoiceType) String() string {
	return string(t)
}

// SequenceKind returns the number series this invoice type draws from
func (t InvoiceType) SequenceKind() sequence.DocumentKind {
	if t == InvoiceTypePurchase {
		return sequence.KindPurchaseInvoice
	}
	return sequence.KindSalesInvoice
}

// StockMovement returns the timeline movement type for this invoice type
func (t InvoiceType) StockMovement() inventory.MovementType {
	if t == InvoiceTypePurchase {
		return inventory.MovementPurchase
	}
	return inventory.MovementSale
}

// EditMovement returns the timeline movement type for edit reversals
func (t InvoiceType) EditMovement() inventory.MovementType {
	if t == InvoiceTypePurchase {
		return inventory.MovementPurchaseEdit
	}
	return inventory.MovementSaleEdit
}

// DeleteMovement returns the timeline movement type for delete reversals
func (t InvoiceType) DeleteMovement() inventory.MovementType {
	if t == InvoiceTypePurchase {
		return inventory.MovementPurchaseDelete
	}
	return inventory.MovementSaleDelete
}

// ReturnMovement returns the timeline movement type for returns against this
// invoice type
func (t InvoiceType) ReturnMovement() inventory.MovementType {
	if t == InvoiceTypePurchase {
		return inventory.MovementPurchaseReturn
	}
	return inventory.MovementSaleReturn
}

// InvoiceStatus represents the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusActive    InvoiceStatus = "ACTIVE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid returns true if the status is known
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusActive, InvoiceStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s InvoiceStatus) CanTransitionTo(target InvoiceStatus) bool {
	switch s {
	case InvoiceStatusDraft:
		return target == InvoiceStatusActive || target == InvoiceStatusCancelled
	case InvoiceStatusActive:
		return target == InvoiceStatusCancelled
	case InvoiceStatusCancelled:
		return false // terminal
	}
	return false
}

// PaymentState summarizes how much of the invoice is settled
type PaymentState string

const (
	PaymentStatePaid PaymentState = "PAID"
	PaymentStateDue  PaymentState = "DUE"
)

// InvoiceItem is one line of an invoice, referencing a product and a batch.
// Free quantity moves stock on purchases but carries no charge.
type InvoiceItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID       `gorm:"type:uuid;not null"`
	BatchID      *uuid.UUID      `gorm:"type:uuid"`
	BatchNumber  string          `gorm:"type:varchar(64)"`
	ProductName  string          `gorm:"type:varchar(255)"`
	Quantity     int64           `gorm:"not null"`
	FreeQuantity int64           `gorm:"not null;default:0"`
	Rate         decimal.Decimal `gorm:"type:decimal(12,2)"` // charged per loose unit
	MRP          decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiscountPct  decimal.Decimal `gorm:"type:decimal(5,2)"`
	GSTRate      decimal.Decimal `gorm:"type:decimal(5,2)"`
	Amount       decimal.Decimal `gorm:"type:decimal(14,2)"` // line total after discount and GST
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// StockDelta is the signed stock effect of this line for the given invoice
// type: purchases add paid plus free units, sales remove the sold quantity.
func (i *InvoiceItem) StockDelta(invoiceType InvoiceType) int64 {
	if invoiceType == InvoiceTypePurchase {
		return i.Quantity + i.FreeQuantity
	}
	return -i.Quantity
}

// computeAmount calculates the line total: rate * qty, less discount, plus GST
func computeAmount(rate decimal.Decimal, quantity int64, discountPct, gstRate decimal.Decimal) decimal.Decimal {
	gross := rate.Mul(decimal.NewFromInt(quantity))
	discounted := gross.Sub(gross.Mul(discountPct).Div(decimal.NewFromInt(100)))
	withTax := discounted.Add(discounted.Mul(gstRate).Div(decimal.NewFromInt(100)))
	return withTax.Round(2)
}

// Invoice is the generalized purchase/sales invoice aggregate. Stock, party
// and account effects are orchestrated by the invoice engine; the aggregate
// itself only owns document state and totals.
type Invoice struct {
	shared.TenantAggregateRoot
	InvoiceNumber string        `gorm:"type:varchar(64);not null;index"`
	Type          InvoiceType   `gorm:"type:varchar(16);not null;index"`
	Status        InvoiceStatus `gorm:"type:varchar(16);not null;index"`
	FiscalYear    string        `gorm:"type:varchar(8);not null"`
	PartyID       uuid.UUID     `gorm:"type:uuid;not null;index"`
	PartyName     string        `gorm:"type:varchar(255)"`
	InvoiceDate   time.Time
	GrandTotal    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	AmountPaid    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PaymentState  PaymentState    `gorm:"type:varchar(8);not null;default:'DUE'"`
	Remark        string          `gorm:"type:varchar(255)"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// NewInvoice creates an invoice shell; line items are added before the
// engine persists it.
func NewInvoice(tenantID uuid.UUID, invoiceType InvoiceType, invoiceNumber, fiscalYear string, partyID uuid.UUID, partyName string) (*Invoice, error) {
	if !invoiceType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown invoice type")
	}
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invoice number is required")
	}
	if partyID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Party ID cannot be empty")
	}
	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		InvoiceNumber:       invoiceNumber,
		Type:                invoiceType,
		Status:              InvoiceStatusActive,
		FiscalYear:          fiscalYear,
		PartyID:             partyID,
		PartyName:           partyName,
		InvoiceDate:         time.Now(),
		GrandTotal:          decimal.Zero,
		AmountPaid:          decimal.Zero,
		PaymentState:        PaymentStateDue,
		Items:               make([]InvoiceItem, 0),
	}, nil
}

// AddItem appends a line item and recalculates totals
func (inv *Invoice) AddItem(productID uuid.UUID, batchID *uuid.UUID, batchNumber, productName string, quantity, freeQuantity int64, rate, mrp, discountPct, gstRate decimal.Decimal) (*InvoiceItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if freeQuantity < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Free quantity cannot be negative")
	}
	if rate.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Rate cannot be negative")
	}
	if discountPct.IsNegative() || discountPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Discount must be between 0 and 100")
	}

	now := time.Now()
	item := InvoiceItem{
		ID:           uuid.New(),
		InvoiceID:    inv.ID,
		ProductID:    productID,
		BatchID:      batchID,
		BatchNumber:  batchNumber,
		ProductName:  productName,
		Quantity:     quantity,
		FreeQuantity: freeQuantity,
		Rate:         rate,
		MRP:          mrp,
		DiscountPct:  discountPct,
		GSTRate:      gstRate,
		Amount:       computeAmount(rate, quantity, discountPct, gstRate),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	inv.Items = append(inv.Items, item)
	inv.recalculateTotals()
	return &inv.Items[len(inv.Items)-1], nil
}

// ReplaceItems swaps the line set, used by the edit path after effects of the
// old lines were reversed.
func (inv *Invoice) ReplaceItems(items []InvoiceItem) {
	inv.Items = items
	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
	}
	inv.recalculateTotals()
}

// RecordPayment notes the settled amount on the invoice document
func (inv *Invoice) RecordPayment(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Paid amount cannot be negative")
	}
	inv.AmountPaid = amount
	inv.refreshPaymentState()
	inv.UpdatedAt = time.Now()
	return nil
}

// MarkDraft moves a freshly built invoice into draft state. Drafts hold no
// stock and may lack an allocated number.
func (inv *Invoice) MarkDraft() {
	inv.Status = InvoiceStatusDraft
}

// Finalize activates a draft invoice
func (inv *Invoice) Finalize() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusActive) {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be finalized")
	}
	inv.Status = InvoiceStatusActive
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// Cancel moves the invoice to its terminal state
func (inv *Invoice) Cancel() error {
	if !inv.Status.CanTransitionTo(InvoiceStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", "Invoice cannot be cancelled in its current state")
	}
	inv.Status = InvoiceStatusCancelled
	inv.UpdatedAt = time.Now()
	inv.IncrementVersion()
	return nil
}

// IsActive returns true if the invoice is finalized and effective
func (inv *Invoice) IsActive() bool {
	return inv.Status == InvoiceStatusActive
}

// IsDraft returns true if the invoice is in draft state
func (inv *Invoice) IsDraft() bool {
	return inv.Status == InvoiceStatusDraft
}

// CanModify returns true if the invoice accepts edits
func (inv *Invoice) CanModify() bool {
	return inv.Status == InvoiceStatusDraft || inv.Status == InvoiceStatusActive
}

// BalanceDue is the unsettled remainder of the grand total
func (inv *Invoice) BalanceDue() decimal.Decimal {
	return inv.GrandTotal.Sub(inv.AmountPaid)
}

// PartyBalanceDelta is the signed effect of this invoice on the party's
// running balance under the positive-means-party-owes convention: sales raise
// the receivable by the unpaid remainder, purchases raise the payable.
func (inv *Invoice) PartyBalanceDelta() decimal.Decimal {
	due := inv.BalanceDue()
	if inv.Type == InvoiceTypePurchase {
		return due.Neg()
	}
	return due
}

// recalculateTotals recomputes the grand total from line amounts
func (inv *Invoice) recalculateTotals() {
	total := decimal.Zero
	for _, item := range inv.Items {
		total = total.Add(item.Amount)
	}
	inv.GrandTotal = total
	inv.refreshPaymentState()
	inv.UpdatedAt = time.Now()
}

// refreshPaymentState derives PaymentState from the settled amount
func (inv *Invoice) refreshPaymentState() {
	if inv.GrandTotal.IsPositive() && inv.AmountPaid.GreaterThanOrEqual(inv.GrandTotal) {
		inv.PaymentState = PaymentStatePaid
	} else {
		inv.PaymentState = PaymentStateDue
	}
}
