package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/gstbooks/backend/internal/application/billing"
	catalogapp "github.com/gstbooks/backend/internal/application/catalog"
	inventoryapp "github.com/gstbooks/backend/internal/application/inventory"
	partyapp "github.com/gstbooks/backend/internal/application/party"
	reportapp "github.com/gstbooks/backend/internal/application/report"
	"github.com/gstbooks/backend/internal/infrastructure/config"
	"github.com/gstbooks/backend/internal/infrastructure/logger"
	"github.com/gstbooks/backend/internal/infrastructure/persistence"
	"github.com/gstbooks/backend/internal/interfaces/http/handler"
	"github.com/gstbooks/backend/internal/interfaces/http/middleware"
	"github.com/gstbooks/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const appVersion = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting GST books backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("business_state", cfg.Business.StateCode),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	partyRepo := persistence.NewGormPartyRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	purchaseRepo := persistence.NewGormPurchaseRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	stockLevelRepo := persistence.NewGormStockLevelRepository(db.DB)
	stockMovementRepo := persistence.NewGormStockMovementRepository(db.DB)
	cashflowRepo := persistence.NewGormCashflowRepository(db.DB)

	// Application services
	productService := catalogapp.NewProductService(productRepo)
	partyService := partyapp.NewPartyService(partyRepo)
	stockService := inventoryapp.NewStockService(stockLevelRepo, stockMovementRepo, productRepo)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, productRepo, partyRepo, stockService, cfg.Business.StateCode)
	purchaseService := billingapp.NewPurchaseService(purchaseRepo, productRepo, partyRepo, stockService, cfg.Business.StateCode)
	expenseService := billingapp.NewExpenseService(expenseRepo)
	cashflowService := reportapp.NewCashflowService(cashflowRepo)

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to set up request validator", zap.Error(err))
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Fatal("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithOrigins(cfg.HTTP.CORSAllowOrigins))

	engine.GET("/health", healthHandler(db))

	// Handlers
	productHandler := handler.NewProductHandler(productService)
	partyHandler := handler.NewPartyHandler(partyService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	stockHandler := handler.NewStockHandler(stockService)
	reportHandler := handler.NewReportHandler(cashflowService)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, appVersion)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/products", productHandler.Create)
	catalogRoutes.GET("/products", productHandler.List)
	catalogRoutes.GET("/products/:id", productHandler.GetByID)
	catalogRoutes.PUT("/products/:id", productHandler.Update)
	catalogRoutes.DELETE("/products/:id", productHandler.Delete)

	partyRoutes := router.NewDomainGroup("party", "/parties")
	partyRoutes.POST("", partyHandler.Create)
	partyRoutes.GET("", partyHandler.List)
	partyRoutes.GET("/:id", partyHandler.GetByID)
	partyRoutes.PUT("/:id", partyHandler.Update)
	partyRoutes.DELETE("/:id", partyHandler.Delete)

	billingRoutes := router.NewDomainGroup("billing", "/billing")
	billingRoutes.POST("/invoices", invoiceHandler.Create)
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/:id", invoiceHandler.GetByID)
	billingRoutes.POST("/invoices/:id/issue", invoiceHandler.Issue)
	billingRoutes.POST("/invoices/:id/payments", invoiceHandler.RecordPayment)
	billingRoutes.POST("/invoices/:id/cancel", invoiceHandler.Cancel)
	billingRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	billingRoutes.POST("/purchases", purchaseHandler.Create)
	billingRoutes.GET("/purchases", purchaseHandler.List)
	billingRoutes.GET("/purchases/:id", purchaseHandler.GetByID)
	billingRoutes.POST("/purchases/:id/record", purchaseHandler.Record)
	billingRoutes.POST("/purchases/:id/payments", purchaseHandler.RecordPayment)
	billingRoutes.POST("/purchases/:id/cancel", purchaseHandler.Cancel)
	billingRoutes.DELETE("/purchases/:id", purchaseHandler.Delete)
	billingRoutes.POST("/expenses", expenseHandler.Create)
	billingRoutes.GET("/expenses", expenseHandler.List)
	billingRoutes.GET("/expenses/:id", expenseHandler.GetByID)
	billingRoutes.DELETE("/expenses/:id", expenseHandler.Delete)

	inventoryRoutes := router.NewDomainGroup("inventory", "/inventory")
	inventoryRoutes.POST("/adjustments", stockHandler.Adjust)
	inventoryRoutes.GET("/levels", stockHandler.Levels)
	inventoryRoutes.GET("/levels/:id", stockHandler.Level)
	inventoryRoutes.GET("/levels/:id/movements", stockHandler.Movements)

	reportRoutes := router.NewDomainGroup("report", "/reports")
	reportRoutes.GET("/cashflow", reportHandler.CashflowSummary)
	reportRoutes.GET("/expenses-by-category", reportHandler.ExpensesByCategory)
	reportRoutes.GET("/low-stock", reportHandler.LowStock)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.Info)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(catalogRoutes).
		Register(partyRoutes).
		Register(billingRoutes).
		Register(inventoryRoutes).
		Register(reportRoutes).
		Register(systemRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
