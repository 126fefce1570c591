package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/shared"
)

// Product is a pharmacy inventory item. It carries the aggregate quantity
// across all of its batches; after every committed transaction the aggregate
// must equal the sum of batch quantities.
type Product struct {
	shared.TenantAggregateRoot
	Name     string          `gorm:"type:varchar(255);not null;index"`
	Unit     string          `gorm:"type:varchar(32)"`  // e.g. TAB, CAP, ML
	Pack     string          `gorm:"type:varchar(32)"`  // pack description, e.g. 1x10
	HSNCode  string          `gorm:"type:varchar(16)"`  // HSN classification code
	GSTRate  decimal.Decimal `gorm:"type:decimal(5,2)"` // GST percentage
	Quantity int64           `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product for a tenant
func NewProduct(tenantID uuid.UUID, name, unit, pack, hsnCode string, gstRate decimal.Decimal) (*Product, error) {
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name is required")
	}
	if gstRate.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "GST rate cannot be negative")
	}
	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Unit:                unit,
		Pack:                pack,
		HSNCode:             hsnCode,
		GSTRate:             gstRate,
	}, nil
}

// ApplyQuantityDelta adjusts the aggregate quantity. A negative delta may
// never drive the aggregate below zero; callers are expected to have checked
// batch availability, so a violation here is a loud failure, not a clamp.
func (p *Product) ApplyQuantityDelta(delta int64) error {
	next := p.Quantity + delta
	if next < 0 {
		return shared.ErrInsufficientStock
	}
	p.Quantity = next
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// HasStock returns true if the aggregate quantity is positive
func (p *Product) HasStock() bool {
	return p.Quantity > 0
}

// Repository provides access to products, always tenant-scoped
type Repository interface {
	shared.TenantRepository[Product]
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (*Product, error)
}
