package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inventoryapp "github.com/medibooks/backend/internal/application/inventory"
)

// InventoryHandler handles stock import, adjustment and reporting endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.Service) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// OpeningStockRowRequest is one batch of opening stock
type OpeningStockRowRequest struct {
	BatchNumber  string  `json:"batch_number" binding:"required,min=1,max=64"`
	Expiry       string  `json:"expiry" binding:"omitempty,len=5"`
	MRP          float64 `json:"mrp" binding:"omitempty,gte=0"`
	GSTRate      float64 `json:"gst_rate" binding:"omitempty,gte=0,lte=100"`
	PurchaseRate float64 `json:"purchase_rate" binding:"omitempty,gte=0"`
	SaleRate     float64 `json:"sale_rate" binding:"omitempty,gte=0"`
	Pack         string  `json:"pack" binding:"omitempty,max=32"`
	Quantity     int64   `json:"quantity" binding:"required,gt=0"`
}

// ImportOpeningStockRequest seeds batches for a product
type ImportOpeningStockRequest struct {
	ProductID string                   `json:"product_id" binding:"required,uuid"`
	Rows      []OpeningStockRowRequest `json:"rows" binding:"required,min=1,dive"`
	Remark    string                   `json:"remark" binding:"omitempty,max=255"`
}

// AdjustStockRequest corrects stock by a signed delta
type AdjustStockRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	BatchID   *string `json:"batch_id" binding:"omitempty,uuid"`
	Delta     int64   `json:"delta" binding:"required"`
	Remark    string  `json:"remark" binding:"omitempty,max=255"`
}

// ImportOpeningStock handles POST /inventory/opening-stock
func (h *InventoryHandler) ImportOpeningStock(c *gin.Context) {
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

	var req ImportOpeningStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, errInvalidProductID.Error())
		return
	}

	rows := make([]inventoryapp.OpeningStockRow, 0, len(req.Rows))
	for _, row := range req.Rows {
		rows = append(rows, inventoryapp.OpeningStockRow{
			BatchNumber:  row.BatchNumber,
			Expiry:       row.Expiry,
			MRP:          decimal.NewFromFloat(row.MRP),
			GSTRate:      decimal.NewFromFloat(row.GSTRate),
			PurchaseRate: decimal.NewFromFloat(row.PurchaseRate),
			SaleRate:     decimal.NewFromFloat(row.SaleRate),
			Pack:         row.Pack,
			Quantity:     row.Quantity,
		})
	}

	cmd := inventoryapp.ImportOpeningStockCommand{
		ActorID:   actorID,
		ProductID: productID,
		Rows:      rows,
		Remark:    req.Remark,
	}

	stock, err := h.inventoryService.ImportOpeningStock(c.Request.Context(), tenantID, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, stock)
}

// AdjustStock handles POST /inventory/adjustments
func (h *InventoryHandler) AdjustStock(c *gin.Context) {
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

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		h.BadRequest(c, errInvalidProductID.Error())
		return
	}

	cmd := inventoryapp.AdjustStockCommand{
		ActorID:   actorID,
		ProductID: productID,
		Delta:     req.Delta,
		Remark:    req.Remark,
	}
	if req.BatchID != nil && *req.BatchID != "" {
		batchID, err := uuid.Parse(*req.BatchID)
		if err != nil {
			h.BadRequest(c, errInvalidBatchID.Error())
			return
		}
		cmd.BatchID = &batchID
	}

	stock, err := h.inventoryService.AdjustStock(c.Request.Context(), tenantID, cmd)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stock)
}

// ProductStock handles GET /inventory/products/:id/stock
func (h *InventoryHandler) ProductStock(c *gin.Context) {
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

	stock, err := h.inventoryService.ProductStock(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, stock)
}

// Timeline handles GET /inventory/products/:id/timeline
func (h *InventoryHandler) Timeline(c *gin.Context) {
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

	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	entries, err := h.inventoryService.Timeline(c.Request.Context(), tenantID, productID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// ExpiringBatches handles GET /inventory/expiring?before=2026-12-31
func (h *InventoryHandler) ExpiringBatches(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	cutoff := time.Now().AddDate(0, 3, 0)
	if before := c.Query("before"); before != "" {
		parsed, err := time.Parse("2006-01-02", before)
		if err != nil {
			h.BadRequest(c, "Query parameter 'before' must be YYYY-MM-DD")
			return
		}
		cutoff = parsed
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BindingError(c, err)
		return
	}

	batches, err := h.inventoryService.ExpiringBatches(c.Request.Context(), tenantID, cutoff, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, batches)
}
