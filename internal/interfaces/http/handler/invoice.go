package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	tradeapp "github.com/medibooks/backend/internal/application/trade"
	"github.com/medibooks/backend/internal/domain/billing"
	"github.com/medibooks/backend/internal/domain/trade"
)

// InvoiceHandler handles purchase and sales invoice endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *tradeapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *tradeapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// NewBatchRequest carries the fields to open a batch on first purchase
type NewBatchRequest struct {
	BatchNumber  string  `json:"batch_number" binding:"required,min=1,max=64"`
	Expiry       string  `json:"expiry" binding:"omitempty,len=5"`
	MRP          float64 `json:"mrp" binding:"omitempty,gte=0"`
	GSTRate      float64 `json:"gst_rate" binding:"omitempty,gte=0,lte=100"`
	PurchaseRate float64 `json:"purchase_rate" binding:"omitempty,gte=0"`
	SaleRate     float64 `json:"sale_rate" binding:"omitempty,gte=0"`
	Pack         string  `json:"pack" binding:"omitempty,max=32"`
}

// LineItemRequest is one invoice line in create/edit requests
type LineItemRequest struct {
	ProductID    string           `json:"product_id" binding:"required,uuid"`
	BatchID      *string          `json:"batch_id" binding:"omitempty,uuid"`
	NewBatch     *NewBatchRequest `json:"new_batch"`
	Quantity     int64            `json:"quantity" binding:"required,gt=0"`
	FreeQuantity int64            `json:"free_quantity" binding:"omitempty,gte=0"`
	Rate         float64          `json:"rate" binding:"omitempty,gte=0"`
	MRP          float64          `json:"mrp" binding:"omitempty,gte=0"`
	DiscountPct  float64          `json:"discount_pct" binding:"omitempty,gte=0,lte=100"`
	GSTRate      float64          `json:"gst_rate" binding:"omitempty,gte=0,lte=100"`
}

// PaymentRequest is the payment sub-document captured with a document
type PaymentRequest struct {
	Amount    float64 `json:"amount" binding:"required,gt=0"`
	Method    string  `json:"method" binding:"required,oneof=CASH UPI CARD CHEQUE BANK_TRANSFER"`
	AccountID *string `json:"account_id" binding:"omitempty,uuid"`
}

// CreateInvoiceRequest creates a purchase or sales invoice
type CreateInvoiceRequest struct {
	Type    string            `json:"type" binding:"required,oneof=SALE PURCHASE"`
	PartyID string            `json:"party_id" binding:"required,uuid"`
	Items   []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Payment *PaymentRequest   `json:"payment"`
	AsDraft bool              `json:"as_draft"`
	Remark  string            `json:"remark" binding:"omitempty,max=255"`
}

// EditInvoiceRequest replaces an invoice's lines and payment
type EditInvoiceRequest struct {
	Items   []LineItemRequest `json:"items" binding:"required,min=1,dive"`
	Payment *PaymentRequest   `json:"payment"`
}

// FinalizeInvoiceRequest promotes a draft, optionally recording a payment
type FinalizeInvoiceRequest struct {
	Payment *PaymentRequest `json:"payment"`
}

// Create handles POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}

	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	partyID, err := uuid.Parse(req.PartyID)
	if err != nil {
		h.BadRequest(c, "Invalid party ID format")
		return
	}

	items, err := toLineItemInputs(req.Items)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := toPaymentInput(req.Payment)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := tradeapp.CreateInvoiceCommand{
		ActorID: actorID,
		Type:    trade.InvoiceType(req.Type),
		PartyID: partyID,
		Items:   items,
		Payment: payment,
		AsDraft: req.AsDraft,
		Remark:  req.Remark,
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), tenantID, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Edit handles PUT /invoices/:id
func (h *InvoiceHandler) Edit(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	actorID, err := getActorID(c)
	if err != nil {
		h.Unauthorized(c, "Actor identity required")
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req EditInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	items, err := toLineItemInputs(req.Items)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := toPaymentInput(req.Payment)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := tradeapp.EditInvoiceCommand{
		ActorID:   actorID,
		InvoiceID: invoiceID,
		Items:     items,
		Payment:   payment,
	}

	invoice, err := h.invoiceService.Edit(c.Request.Context(), tenantID, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// Delete handles DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, invoiceID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Finalize handles POST /invoices/:id/finalize
func (h *InvoiceHandler) Finalize(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	var req FinalizeInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	payment, err := toPaymentInput(req.Payment)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	invoice, err := h.invoiceService.Finalize(c.Request.Context(), tenantID, invoiceID, payment)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// GetByID handles GET /invoices/:id
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	invoiceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	invoice, err := h.invoiceService.GetByID(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoice)
}

// List handles GET /invoices?type=SALE
func (h *InvoiceHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	invoiceType := trade.InvoiceType(c.Query("type"))
	if invoiceType != trade.InvoiceTypeSale && invoiceType != trade.InvoiceTypePurchase {
		h.BadRequest(c, "Query parameter 'type' must be SALE or PURCHASE")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), tenantID, invoiceType, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, invoices)
}

func toLineItemInputs(items []LineItemRequest) ([]tradeapp.LineItemInput, error) {
	inputs := make([]tradeapp.LineItemInput, 0, len(items))
	for _, item := range items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, errInvalidProductID
		}

		input := tradeapp.LineItemInput{
			ProductID:    productID,
			Quantity:     item.Quantity,
			FreeQuantity: item.FreeQuantity,
			Rate:         decimal.NewFromFloat(item.Rate),
			MRP:          decimal.NewFromFloat(item.MRP),
			DiscountPct:  decimal.NewFromFloat(item.DiscountPct),
			GSTRate:      decimal.NewFromFloat(item.GSTRate),
		}

		if item.BatchID != nil && *item.BatchID != "" {
			batchID, err := uuid.Parse(*item.BatchID)
			if err != nil {
				return nil, errInvalidBatchID
			}
			input.BatchID = &batchID
		}

		if item.NewBatch != nil {
			input.NewBatch = &tradeapp.NewBatchInput{
				BatchNumber:  item.NewBatch.BatchNumber,
				Expiry:       item.NewBatch.Expiry,
				MRP:          decimal.NewFromFloat(item.NewBatch.MRP),
				GSTRate:      decimal.NewFromFloat(item.NewBatch.GSTRate),
				PurchaseRate: decimal.NewFromFloat(item.NewBatch.PurchaseRate),
				SaleRate:     decimal.NewFromFloat(item.NewBatch.SaleRate),
				Pack:         item.NewBatch.Pack,
			}
		}

		inputs = append(inputs, input)
	}
	return inputs, nil
}

func toPaymentInput(req *PaymentRequest) (*tradeapp.PaymentInput, error) {
	if req == nil {
		return nil, nil
	}

	input := &tradeapp.PaymentInput{
		Amount: decimal.NewFromFloat(req.Amount),
		Method: billing.PaymentMethod(req.Method),
	}
	if req.AccountID != nil && *req.AccountID != "" {
		accountID, err := uuid.Parse(*req.AccountID)
		if err != nil {
			return nil, errInvalidAccountID
		}
		input.AccountID = &accountID
	}
	return input, nil
}
