package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	billingapp "github.com/medibooks/backend/internal/application/billing"
	catalogapp "github.com/medibooks/backend/internal/application/catalog"
	inventoryapp "github.com/medibooks/backend/internal/application/inventory"
	partnerapp "github.com/medibooks/backend/internal/application/partner"
	tradeapp "github.com/medibooks/backend/internal/application/trade"
	"github.com/medibooks/backend/internal/infrastructure/auth"
	"github.com/medibooks/backend/internal/infrastructure/cache"
	"github.com/medibooks/backend/internal/infrastructure/config"
	"github.com/medibooks/backend/internal/infrastructure/logger"
	"github.com/medibooks/backend/internal/infrastructure/persistence"
	"github.com/medibooks/backend/internal/interfaces/http/handler"
	"github.com/medibooks/backend/internal/interfaces/http/middleware"
	"github.com/medibooks/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services all share one transaction scope
	scope := persistence.NewGormTransactionScope(db.DB)
	invoiceService := tradeapp.NewInvoiceService(scope)
	returnService := tradeapp.NewReturnService(scope)
	paymentService := billingapp.NewPaymentService(scope)
	accountService := billingapp.NewAccountService(scope)
	productService := catalogapp.NewService(scope)
	partyService := partnerapp.NewService(scope)
	inventoryService := inventoryapp.NewService(scope)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.AuthMiddleware(jwtService))
	engine.Use(middleware.TenantMiddleware())
	engine.Use(middleware.IdempotencyMiddleware(idempotencyStore))

	router.Setup(engine, router.Handlers{
		System:    handler.NewSystemHandler(db),
		Product:   handler.NewProductHandler(productService),
		Party:     handler.NewPartyHandler(partyService),
		Inventory: handler.NewInventoryHandler(inventoryService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		Return:    handler.NewReturnHandler(returnService),
		Payment:   handler.NewPaymentHandler(paymentService),
		Account:   handler.NewAccountHandler(accountService),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
