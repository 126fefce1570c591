package inventory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/shared"
)

// Batch is a specific lot of a product with its own expiry, rates and
// quantity. Batches are never physically deleted; quantity may reach zero
// but the record persists for audit.
type Batch struct {
	shared.TenantAggregateRoot
	ProductID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_product_number,priority:2"`
	BatchNumber  string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_batch_product_number,priority:3"`
	Expiry       string          `gorm:"type:varchar(5)"` // MM/YY
	MRP          decimal.Decimal `gorm:"type:decimal(12,2)"`
	GSTRate      decimal.Decimal `gorm:"type:decimal(5,2)"`
	PurchaseRate decimal.Decimal `gorm:"type:decimal(12,2)"`
	SaleRate     decimal.Decimal `gorm:"type:decimal(12,2)"`
	Pack         string          `gorm:"type:varchar(32)"`
	Quantity     int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "batches"
}

// BatchFields holds the attributes needed to open a new batch on first purchase
type BatchFields struct {
	BatchNumber  string
	Expiry       string // MM/YY
	MRP          decimal.Decimal
	GSTRate      decimal.Decimal
	PurchaseRate decimal.Decimal
	SaleRate     decimal.Decimal
	Pack         string
}

// NewBatch opens a new batch for a product. The opening quantity must not be
// negative; a batch cannot be born owing stock.
func NewBatch(tenantID, productID uuid.UUID, fields BatchFields, quantity int64) (*Batch, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if fields.BatchNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Batch number is required")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cannot create a batch with negative stock")
	}
	if fields.Expiry != "" {
		if _, err := parseExpiry(fields.Expiry); err != nil {
			return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Invalid expiry %q, expected MM/YY", fields.Expiry))
		}
	}
	return &Batch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		BatchNumber:         fields.BatchNumber,
		Expiry:              fields.Expiry,
		MRP:                 fields.MRP,
		GSTRate:             fields.GSTRate,
		PurchaseRate:        fields.PurchaseRate,
		SaleRate:            fields.SaleRate,
		Pack:                fields.Pack,
		Quantity:            quantity,
	}, nil
}

// ApplyDelta adjusts the batch quantity. A delta that would take the
// quantity below zero is rejected rather than clamped.
func (b *Batch) ApplyDelta(delta int64) error {
	next := b.Quantity + delta
	if next < 0 {
		return shared.ErrInsufficientStock
	}
	b.Quantity = next
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// CanFulfill returns true if the batch can supply the requested quantity
func (b *Batch) CanFulfill(quantity int64) bool {
	return b.Quantity >= quantity
}

// HasStock returns true if the batch holds any quantity
func (b *Batch) HasStock() bool {
	return b.Quantity > 0
}

// ExpiresBy returns true if the batch expiry falls on or before the given
// month. Batches without an expiry never report as expiring.
func (b *Batch) ExpiresBy(t time.Time) bool {
	exp, err := parseExpiry(b.Expiry)
	if err != nil {
		return false
	}
	cutoff := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return !exp.After(cutoff)
}

// parseExpiry parses an MM/YY expiry string into the first day of that month
func parseExpiry(expiry string) (time.Time, error) {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("malformed expiry %q", expiry)
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("malformed expiry month %q", parts[0])
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed expiry year %q", parts[1])
	}
	return time.Date(2000+year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}
