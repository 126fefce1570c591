package inventory

import (
	"github.com/google/uuid"

	"github.com/medibooks/backend/internal/domain/shared"
)

// MovementType classifies a stock timeline entry
type MovementType string

const (
	MovementPurchase       MovementType = "PURCHASE"
	MovementSale           MovementType = "SALE"
	MovementPurchaseEdit   MovementType = "PURCHASE_EDIT"
	MovementSaleEdit       MovementType = "SALE_EDIT"
	MovementPurchaseReturn MovementType = "PURCHASE_RETURN"
	MovementSaleReturn     MovementType = "SALE_RETURN"
	MovementPurchaseDelete MovementType = "PURCHASE_DELETE"
	MovementSaleDelete     MovementType = "SALE_DELETE"
	MovementImport         MovementType = "IMPORT"
	MovementAdjustment     MovementType = "ADJUSTMENT"
)

// String returns the string representation of MovementType
func (m MovementType) String() string {
	return string(m)
}

// IsValid returns true if the movement type is known
func (m MovementType) IsValid() bool {
	switch m {
	case MovementPurchase, MovementSale,
		MovementPurchaseEdit, MovementSaleEdit,
		MovementPurchaseReturn, MovementSaleReturn,
		MovementPurchaseDelete, MovementSaleDelete,
		MovementImport, MovementAdjustment:
		return true
	}
	return false
}

// StockEntry is one immutable record on a product's stock timeline. Exactly
// one of Credit/Debit is non-zero, and Balance holds the product's aggregate
// quantity immediately after the movement. Entries are append-only;
// corrections are new entries with an _EDIT, _DELETE or _RETURN type.
type StockEntry struct {
	shared.TenantAggregateRoot
	ProductID      uuid.UUID    `gorm:"type:uuid;not null;index:idx_stock_entries_product"`
	BatchID        *uuid.UUID   `gorm:"type:uuid;index"`
	InvoiceID      *uuid.UUID   `gorm:"type:uuid;index"`
	Type           MovementType `gorm:"type:varchar(32);not null"`
	Credit         int64        `gorm:"not null;default:0"`
	Debit          int64        `gorm:"not null;default:0"`
	Balance        int64        `gorm:"not null"`
	PartyName      string       `gorm:"type:varchar(255)"`
	DocumentNumber string       `gorm:"type:varchar(64)"`
	Remark         string       `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (StockEntry) TableName() string {
	return "stock_entries"
}

// EntryContext carries the free-text context recorded with a movement
type EntryContext struct {
	PartyName      string
	DocumentNumber string
	Remark         string
}

// NewStockEntry records a signed movement. Positive delta becomes a credit,
// negative a debit. Balance is the aggregate product quantity computed by the
// caller at write time, in the same transaction as the quantity mutation.
func NewStockEntry(
	tenantID, productID uuid.UUID,
	batchID, invoiceID *uuid.UUID,
	movement MovementType,
	delta int64,
	balance int64,
	ctx EntryContext,
) (*StockEntry, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if !movement.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unknown stock movement type")
	}
	if delta == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Stock movement delta cannot be zero")
	}
	if balance < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Resulting stock balance cannot be negative")
	}

	e := &StockEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		BatchID:             batchID,
		InvoiceID:           invoiceID,
		Type:                movement,
		Balance:             balance,
		PartyName:           ctx.PartyName,
		DocumentNumber:      ctx.DocumentNumber,
		Remark:              ctx.Remark,
	}
	if delta > 0 {
		e.Credit = delta
	} else {
		e.Debit = -delta
	}
	return e, nil
}

// Delta returns the signed quantity movement of this entry
func (e *StockEntry) Delta() int64 {
	return e.Credit - e.Debit
}
