package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentKind identifies the document series a counter belongs to.
// Each (tenant, kind, fiscal year) triple owns an independent series.
type DocumentKind string

const (
	// KindSalesInvoice numbers sales invoices
	KindSalesInvoice DocumentKind = "SALES_INVOICE"
	// KindPurchaseInvoice numbers purchase invoices
	KindPurchaseInvoice DocumentKind = "PURCHASE_INVOICE"
	// KindCreditNote numbers sales returns (credit notes)
	KindCreditNote DocumentKind = "CREDIT_NOTE"
	// KindDebitNote numbers purchase returns (debit notes)
	KindDebitNote DocumentKind = "DEBIT_NOTE"
	// KindPayment numbers payment vouchers
	KindPayment DocumentKind = "PAYMENT"
)

// IsValid returns true if the document kind is known
func (k DocumentKind) IsValid() bool {
	switch k {
	case KindSalesInvoice, KindPurchaseInvoice, KindCreditNote, KindDebitNote, KindPayment:
		return true
	}
	return false
}

// Counter is the per-tenant, per-kind, per-fiscal-year number source.
// It is the sole authority for "next number"; the repository increments it
// with a single atomic upsert, never read-then-write.
type Counter struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey"`
	TenantID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_seq_counter_scope,priority:1"`
	Kind       DocumentKind `gorm:"type:varchar(32);not null;uniqueIndex:idx_seq_counter_scope,priority:2"`
	FiscalYear string       `gorm:"type:varchar(8);not null;uniqueIndex:idx_seq_counter_scope,priority:3"`
	Value      int64        `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for GORM
func (Counter) TableName() string {
	return "sequence_counters"
}

// Allocator hands out the next number in a series. Implementations must
// perform the increment as one atomic read-modify-write inside the caller's
// transaction, so two concurrent allocations can never observe the same value.
type Allocator interface {
	Next(ctx context.Context, tenantID uuid.UUID, kind DocumentKind, fiscalYear string) (int64, error)
}

// FiscalYearAt returns the April-March fiscal year label containing t,
// e.g. 2024-06-15 -> "2024-25", 2025-02-01 -> "2024-25".
func FiscalYearAt(t time.Time) string {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// CurrentFiscalYear returns the fiscal year label for the current date
func CurrentFiscalYear() string {
	return FiscalYearAt(time.Now())
}

// shortYear extracts the two-digit opening year from a fiscal year label
func shortYear(fiscalYear string) string {
	if len(fiscalYear) >= 4 {
		return fiscalYear[2:4]
	}
	return fiscalYear
}

// Format renders an allocated number in the kind's document format.
// The numeric allocation itself is format-agnostic.
func Format(kind DocumentKind, fiscalYear string, n int64) string {
	switch kind {
	case KindSalesInvoice:
		return fmt.Sprintf("INV/%s/%d", fiscalYear, n)
	case KindPurchaseInvoice:
		return fmt.Sprintf("PI/%s/%d", fiscalYear, n)
	case KindCreditNote:
		return fmt.Sprintf("CN/%s/%d", shortYear(fiscalYear), n)
	case KindDebitNote:
		return fmt.Sprintf("DN/%s/%d", shortYear(fiscalYear), n)
	case KindPayment:
		return fmt.Sprintf("PAY-%05d", n)
	default:
		return fmt.Sprintf("%s/%s/%d", kind, fiscalYear, n)
	}
}
