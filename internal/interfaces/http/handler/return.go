package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	tradeapp "github.com/medibooks/backend/internal/application/trade"
)

// ReturnHandler handles credit/debit note endpoints
type ReturnHandler struct {
	BaseHandler
	returnService *tradeapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *tradeapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{returnService: returnService}
}

// ReturnItemRequest is one returned line
type ReturnItemRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	BatchID   *string `json:"batch_id" binding:"omitempty,uuid"`
	Quantity  int64   `json:"quantity" binding:"required,gt=0"`
}

// CreateReturnRequest records a return against an invoice
type CreateReturnRequest struct {
	InvoiceID string              `json:"invoice_id" binding:"required,uuid"`
	Items     []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
	Refund    *PaymentRequest     `json:"refund"`
	Remark    string              `json:"remark" binding:"omitempty,max=255"`
}

// Create handles POST /returns
func (h *ReturnHandler) Create(c *gin.Context) {
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

	var req CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	invoiceID, err := uuid.Parse(req.InvoiceID)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID format")
		return
	}

	items := make([]tradeapp.ReturnItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			h.BadRequest(c, errInvalidProductID.Error())
			return
		}
		input := tradeapp.ReturnItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
		}
		if item.BatchID != nil && *item.BatchID != "" {
			batchID, err := uuid.Parse(*item.BatchID)
			if err != nil {
				h.BadRequest(c, errInvalidBatchID.Error())
				return
			}
			input.BatchID = &batchID
		}
		items = append(items, input)
	}

	refund, err := toPaymentInput(req.Refund)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cmd := tradeapp.CreateReturnCommand{
		ActorID:   actorID,
		InvoiceID: invoiceID,
		Items:     items,
		Refund:    refund,
		Remark:    req.Remark,
	}

	ret, err := h.returnService.Create(c.Request.Context(), tenantID, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, ret)
}

// Delete handles DELETE /returns/:id
func (h *ReturnHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	if err := h.returnService.Delete(c.Request.Context(), tenantID, returnID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetByID handles GET /returns/:id
func (h *ReturnHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	ret, err := h.returnService.GetByID(c.Request.Context(), tenantID, returnID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// ListByInvoice handles GET /invoices/:id/returns
func (h *ReturnHandler) ListByInvoice(c *gin.Context) {
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

	returns, err := h.returnService.ListByInvoice(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, returns)
}
