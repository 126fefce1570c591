package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFiscalYearAt(t *testing.T) {
	t.Run("April starts a new fiscal year", func(t *testing.T) {
		d := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, "2024-25", FiscalYearAt(d))
	})

	t.Run("March belongs to the previous fiscal year", func(t *testing.T) {
		d := time.Date(2025, time.March, 31, 23, 59, 0, 0, time.UTC)
		assert.Equal(t, "2024-25", FiscalYearAt(d))
	})

	t.Run("mid year", func(t *testing.T) {
		d := time.Date(2024, time.November, 12, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, "2024-25", FiscalYearAt(d))
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name string
		kind DocumentKind
		n    int64
		want string
	}{
		{"sales invoice", KindSalesInvoice, 7, "INV/2024-25/7"},
		{"purchase invoice", KindPurchaseInvoice, 12, "PI/2024-25/12"},
		{"credit note uses short year", KindCreditNote, 3, "CN/24/3"},
		{"debit note uses short year", KindDebitNote, 9, "DN/24/9"},
		{"payment is zero padded", KindPayment, 42, "PAY-00042"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.kind, "2024-25", tt.n))
		})
	}
}

func TestDocumentKindIsValid(t *testing.T) {
	assert.True(t, KindSalesInvoice.IsValid())
	assert.True(t, KindPayment.IsValid())
	assert.False(t, DocumentKind("QUOTE").IsValid())
}
