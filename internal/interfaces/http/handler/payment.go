package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/medibooks/backend/internal/application/billing"
	"github.com/medibooks/backend/internal/domain/billing"
)

// PaymentHandler handles payment voucher endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *billingapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *billingapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// BillAllocationRequest allocates part of a payment to one bill
type BillAllocationRequest struct {
	InvoiceID string  `json:"invoice_id" binding:"required,uuid"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

// CreatePaymentRequest records a standalone payment in or out
type CreatePaymentRequest struct {
	PartyID      string                  `json:"party_id" binding:"required,uuid"`
	AccountID    *string                 `json:"account_id" binding:"omitempty,uuid"`
	Amount       float64                 `json:"amount" binding:"required,gt=0"`
	Method       string                  `json:"method" binding:"required,oneof=CASH UPI CARD CHEQUE BANK_TRANSFER"`
	Direction    string                  `json:"direction" binding:"required,oneof=IN OUT"`
	ChequeNumber string                  `json:"cheque_number" binding:"omitempty,max=32"`
	Remark       string                  `json:"remark" binding:"omitempty,max=255"`
	LinkedBills  []BillAllocationRequest `json:"linked_bills" binding:"omitempty,dive"`
}

// ClearChequeRequest clears a pending cheque into an account
type ClearChequeRequest struct {
	AccountID string `json:"account_id" binding:"required,uuid"`
}

// Create handles POST /payments
func (h *PaymentHandler) Create(c *gin.Context) {
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

	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	partyID, err := uuid.Parse(req.PartyID)
	if err != nil {
		h.BadRequest(c, "Invalid party ID format")
		return
	}

	cmd := billingapp.CreatePaymentCommand{
		ActorID:      actorID,
		PartyID:      partyID,
		Amount:       decimal.NewFromFloat(req.Amount),
		Method:       billing.PaymentMethod(req.Method),
		Direction:    billing.PaymentDirection(req.Direction),
		ChequeNumber: req.ChequeNumber,
		Remark:       req.Remark,
	}

	if req.AccountID != nil && *req.AccountID != "" {
		accountID, err := uuid.Parse(*req.AccountID)
		if err != nil {
			h.BadRequest(c, errInvalidAccountID.Error())
			return
		}
		cmd.AccountID = &accountID
	}

	for _, bill := range req.LinkedBills {
		invoiceID, err := uuid.Parse(bill.InvoiceID)
		if err != nil {
			h.BadRequest(c, "Invalid invoice ID format in linked bills")
			return
		}
		cmd.LinkedBills = append(cmd.LinkedBills, billingapp.BillAllocationInput{
			InvoiceID: invoiceID,
			Amount:    decimal.NewFromFloat(bill.Amount),
		})
	}

	payment, err := h.paymentService.Create(c.Request.Context(), tenantID, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, payment)
}

// Delete handles DELETE /payments/:id
func (h *PaymentHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	if err := h.paymentService.Delete(c.Request.Context(), tenantID, paymentID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ClearCheque handles POST /payments/:id/clear
func (h *PaymentHandler) ClearCheque(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req ClearChequeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		h.BadRequest(c, errInvalidAccountID.Error())
		return
	}

	payment, err := h.paymentService.ClearCheque(c.Request.Context(), tenantID, paymentID, accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// GetByID handles GET /payments/:id
func (h *PaymentHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	paymentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	payment, err := h.paymentService.GetByID(c.Request.Context(), tenantID, paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payment)
}

// ListByParty handles GET /parties/:id/payments
func (h *PaymentHandler) ListByParty(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	partyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid party ID format")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	payments, err := h.paymentService.ListByParty(c.Request.Context(), tenantID, partyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, payments)
}
