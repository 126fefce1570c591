package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingapp "github.com/medibooks/backend/internal/application/billing"
	"github.com/medibooks/backend/internal/domain/billing"
)

// AccountHandler handles financial account endpoints
type AccountHandler struct {
	BaseHandler
	accountService *billingapp.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *billingapp.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest opens a financial account
type CreateAccountRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=255"`
	Type           string  `json:"type" binding:"required,oneof=CASH BANK UPI OTHER"`
	OpeningBalance float64 `json:"opening_balance"`
}

// Create handles POST /accounts
func (h *AccountHandler) Create(c *gin.Context) {
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

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cmd := billingapp.CreateAccountCommand{
		ActorID:        actorID,
		Name:           req.Name,
		Type:           billing.AccountType(req.Type),
		OpeningBalance: decimal.NewFromFloat(req.OpeningBalance),
	}

	account, err := h.accountService.Create(c.Request.Context(), tenantID, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, account)
}

// GetByID handles GET /accounts/:id
func (h *AccountHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, errInvalidAccountID.Error())
		return
	}

	account, err := h.accountService.GetByID(c.Request.Context(), tenantID, accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, account)
}

// List handles GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	accounts, err := h.accountService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, accounts)
}

// Transactions handles GET /accounts/:id/transactions
func (h *AccountHandler) Transactions(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, errInvalidAccountID.Error())
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	transactions, err := h.accountService.Transactions(c.Request.Context(), tenantID, accountID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, transactions)
}
