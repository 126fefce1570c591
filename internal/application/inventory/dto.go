package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/medibooks/backend/internal/domain/inventory"
)

// OpeningStockRow is one batch of opening stock to import
type OpeningStockRow struct {
	BatchNumber  string
	Expiry       string // MM/YY
	MRP          decimal.Decimal
	GSTRate      decimal.Decimal
	PurchaseRate decimal.Decimal
	SaleRate     decimal.Decimal
	Pack         string
	Quantity     int64
}

// ImportOpeningStockCommand seeds batches for a product outside the invoice
// flow, typically during onboarding.
type ImportOpeningStockCommand struct {
	ActorID   uuid.UUID
	ProductID uuid.UUID
	Rows      []OpeningStockRow
	Remark    string
}

// AdjustStockCommand corrects stock by a signed delta outside the invoice flow
type AdjustStockCommand struct {
	ActorID   uuid.UUID
	ProductID uuid.UUID
	BatchID   *uuid.UUID
	Delta     int64
	Remark    string
}

// BatchResponse is the API representation of a batch
type BatchResponse struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	BatchNumber  string          `json:"batch_number"`
	Expiry       string          `json:"expiry,omitempty"`
	MRP          decimal.Decimal `json:"mrp"`
	GSTRate      decimal.Decimal `json:"gst_rate"`
	PurchaseRate decimal.Decimal `json:"purchase_rate"`
	SaleRate     decimal.Decimal `json:"sale_rate"`
	Pack         string          `json:"pack,omitempty"`
	Quantity     int64           `json:"quantity"`
}

// ToBatchResponse maps a batch aggregate to its API representation
func ToBatchResponse(b *inventory.Batch) BatchResponse {
	return BatchResponse{
		ID:           b.ID,
		ProductID:    b.ProductID,
		BatchNumber:  b.BatchNumber,
		Expiry:       b.Expiry,
		MRP:          b.MRP,
		GSTRate:      b.GSTRate,
		PurchaseRate: b.PurchaseRate,
		SaleRate:     b.SaleRate,
		Pack:         b.Pack,
		Quantity:     b.Quantity,
	}
}

// ProductStockResponse is a product's aggregate quantity with its batches
type ProductStockResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int64           `json:"quantity"`
	Batches   []BatchResponse `json:"batches"`
}

// StockEntryResponse is one timeline record in API responses
type StockEntryResponse struct {
	ID             uuid.UUID              `json:"id"`
	ProductID      uuid.UUID              `json:"product_id"`
	BatchID        *uuid.UUID             `json:"batch_id,omitempty"`
	InvoiceID      *uuid.UUID             `json:"invoice_id,omitempty"`
	Type           inventory.MovementType `json:"type"`
	Credit         int64                  `json:"credit"`
	Debit          int64                  `json:"debit"`
	Balance        int64                  `json:"balance"`
	PartyName      string                 `json:"party_name,omitempty"`
	DocumentNumber string                 `json:"document_number,omitempty"`
	Remark         string                 `json:"remark,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// ToStockEntryResponse maps a timeline record to its API representation
func ToStockEntryResponse(e *inventory.StockEntry) StockEntryResponse {
	return StockEntryResponse{
		ID:             e.ID,
		ProductID:      e.ProductID,
		BatchID:        e.BatchID,
		InvoiceID:      e.InvoiceID,
		Type:           e.Type,
		Credit:         e.Credit,
		Debit:          e.Debit,
		Balance:        e.Balance,
		PartyName:      e.PartyName,
		DocumentNumber: e.DocumentNumber,
		Remark:         e.Remark,
		CreatedAt:      e.CreatedAt,
	}
}
