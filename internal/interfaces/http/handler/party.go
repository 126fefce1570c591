package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	partnerapp "github.com/medibooks/backend/internal/application/partner"
	"github.com/medibooks/backend/internal/domain/partner"
)

// PartyHandler handles customer and distributor endpoints
type PartyHandler struct {
	BaseHandler
	partyService *partnerapp.Service
}

// NewPartyHandler creates a new PartyHandler
func NewPartyHandler(partyService *partnerapp.Service) *PartyHandler {
	return &PartyHandler{partyService: partyService}
}

// CreatePartyRequest creates a customer or distributor
type CreatePartyRequest struct {
	Name           string  `json:"name" binding:"required,min=1,max=255"`
	Type           string  `json:"type" binding:"required,oneof=CUSTOMER DISTRIBUTOR"`
	Phone          string  `json:"phone" binding:"omitempty,max=20"`
	Email          string  `json:"email" binding:"omitempty,email,max=255"`
	Address        string  `json:"address" binding:"omitempty,max=512"`
	GSTIN          string  `json:"gstin" binding:"omitempty,max=20"`
	CreditDays     int     `json:"credit_days" binding:"omitempty,gte=0"`
	OpeningBalance float64 `json:"opening_balance"`
}

// UpdatePartyRequest edits a party's contact details
type UpdatePartyRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=255"`
	Phone      string `json:"phone" binding:"omitempty,max=20"`
	Email      string `json:"email" binding:"omitempty,email,max=255"`
	Address    string `json:"address" binding:"omitempty,max=512"`
	GSTIN      string `json:"gstin" binding:"omitempty,max=20"`
	CreditDays int    `json:"credit_days" binding:"omitempty,gte=0"`
}

// Create handles POST /parties
func (h *PartyHandler) Create(c *gin.Context) {
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

	var req CreatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cmd := partnerapp.CreatePartyCommand{
		ActorID:        actorID,
		Name:           req.Name,
		Type:           partner.PartyType(req.Type),
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		GSTIN:          req.GSTIN,
		CreditDays:     req.CreditDays,
		OpeningBalance: decimal.NewFromFloat(req.OpeningBalance),
	}

	party, err := h.partyService.Create(c.Request.Context(), tenantID, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, party)
}

// Update handles PUT /parties/:id
func (h *PartyHandler) Update(c *gin.Context) {
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

	var req UpdatePartyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cmd := partnerapp.UpdatePartyCommand{
		PartyID:    partyID,
		Name:       req.Name,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		GSTIN:      req.GSTIN,
		CreditDays: req.CreditDays,
	}

	party, err := h.partyService.Update(c.Request.Context(), tenantID, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, party)
}

// GetByID handles GET /parties/:id
func (h *PartyHandler) GetByID(c *gin.Context) {
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

	party, err := h.partyService.GetByID(c.Request.Context(), tenantID, partyID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, party)
}

// List handles GET /parties?type=CUSTOMER
func (h *PartyHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	partyType := partner.PartyType(c.Query("type"))
	if !partyType.IsValid() {
		h.BadRequest(c, "Query parameter 'type' must be CUSTOMER or DISTRIBUTOR")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	parties, err := h.partyService.ListByType(c.Request.Context(), tenantID, partyType, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, parties)
}

// Ledger handles GET /parties/:id/ledger
func (h *PartyHandler) Ledger(c *gin.Context) {
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

	entries, err := h.partyService.Ledger(c.Request.Context(), tenantID, partyID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}
