package router

import (
	"github.com/gin-gonic/gin"

	"github.com/medibooks/backend/internal/interfaces/http/handler"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	System    *handler.SystemHandler
	Product   *handler.ProductHandler
	Party     *handler.PartyHandler
	Inventory *handler.InventoryHandler
	Invoice   *handler.InvoiceHandler
	Return    *handler.ReturnHandler
	Payment   *handler.PaymentHandler
	Account   *handler.AccountHandler
}

// Setup registers all API routes on the engine. Health endpoints live at the
// root; everything else under /api/v1, already behind the auth, tenant and
// idempotency middleware installed on the engine.
func Setup(engine *gin.Engine, h Handlers) {
	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	api := engine.Group("/api/v1")

	products := api.Group("/products")
	{
		products.POST("", h.Product.Create)
		products.GET("", h.Product.List)
		products.GET("/:id", h.Product.GetByID)
		products.PUT("/:id", h.Product.Update)
	}

	parties := api.Group("/parties")
	{
		parties.POST("", h.Party.Create)
		parties.GET("", h.Party.List)
		parties.GET("/:id", h.Party.GetByID)
		parties.PUT("/:id", h.Party.Update)
		parties.GET("/:id/ledger", h.Party.Ledger)
		parties.GET("/:id/payments", h.Payment.ListByParty)
	}

	inventory := api.Group("/inventory")
	{
		inventory.POST("/opening-stock", h.Inventory.ImportOpeningStock)
		inventory.POST("/adjustments", h.Inventory.AdjustStock)
		inventory.GET("/products/:id/stock", h.Inventory.ProductStock)
		inventory.GET("/products/:id/timeline", h.Inventory.Timeline)
		inventory.GET("/expiring", h.Inventory.ExpiringBatches)
	}

	invoices := api.Group("/invoices")
	{
		invoices.POST("", h.Invoice.Create)
		invoices.GET("", h.Invoice.List)
		invoices.GET("/:id", h.Invoice.GetByID)
		invoices.PUT("/:id", h.Invoice.Edit)
		invoices.DELETE("/:id", h.Invoice.Delete)
		invoices.POST("/:id/finalize", h.Invoice.Finalize)
		invoices.GET("/:id/returns", h.Return.ListByInvoice)
	}

	returns := api.Group("/returns")
	{
		returns.POST("", h.Return.Create)
		returns.GET("/:id", h.Return.GetByID)
		returns.DELETE("/:id", h.Return.Delete)
	}

	payments := api.Group("/payments")
	{
		payments.POST("", h.Payment.Create)
		payments.GET("/:id", h.Payment.GetByID)
		payments.DELETE("/:id", h.Payment.Delete)
		payments.POST("/:id/clear", h.Payment.ClearCheque)
	}

	accounts := api.Group("/accounts")
	{
		accounts.POST("", h.Account.Create)
		accounts.GET("", h.Account.List)
		accounts.GET("/:id", h.Account.GetByID)
		accounts.GET("/:id/transactions", h.Account.Transactions)
	}
}
