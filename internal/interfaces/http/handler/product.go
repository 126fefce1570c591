package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogapp "github.com/medibooks/backend/internal/application/catalog"
)

// ProductHandler handles product master endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.Service
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.Service) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// CreateProductRequest creates a product
type CreateProductRequest struct {
	Name    string  `json:"name" binding:"required,min=1,max=255"`
	Unit    string  `json:"unit" binding:"omitempty,max=32"`
	Pack    string  `json:"pack" binding:"omitempty,max=32"`
	HSNCode string  `json:"hsn_code" binding:"omitempty,max=16"`
	GSTRate float64 `json:"gst_rate" binding:"omitempty,gte=0,lte=100"`
}

// UpdateProductRequest edits product master data
type UpdateProductRequest struct {
	Name    string  `json:"name" binding:"required,min=1,max=255"`
	Unit    string  `json:"unit" binding:"omitempty,max=32"`
	Pack    string  `json:"pack" binding:"omitempty,max=32"`
	HSNCode string  `json:"hsn_code" binding:"omitempty,max=16"`
	GSTRate float64 `json:"gst_rate" binding:"omitempty,gte=0,lte=100"`
}

// Create handles POST /products
func (h *ProductHandler) Create(c *gin.Context) {
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

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cmd := catalogapp.CreateProductCommand{
		ActorID: actorID,
		Name:    req.Name,
		Unit:    req.Unit,
		Pack:    req.Pack,
		HSNCode: req.HSNCode,
		GSTRate: decimal.NewFromFloat(req.GSTRate),
	}

	product, err := h.productService.Create(c.Request.Context(), tenantID, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, product)
}

// Update handles PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, errInvalidProductID.Error())
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	cmd := catalogapp.UpdateProductCommand{
		ProductID: productID,
		Name:      req.Name,
		Unit:      req.Unit,
		Pack:      req.Pack,
		HSNCode:   req.HSNCode,
		GSTRate:   decimal.NewFromFloat(req.GSTRate),
	}

	product, err := h.productService.Update(c.Request.Context(), tenantID, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// GetByID handles GET /products/:id
func (h *ProductHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, errInvalidProductID.Error())
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// List handles GET /products
func (h *ProductHandler) List(c *gin.Context) {
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

	page, err := h.productService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
