package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"inventory-ledger-service/internal/config"
	"inventory-ledger-service/internal/events"
	"inventory-ledger-service/internal/handlers"
	"inventory-ledger-service/internal/middleware"
	"inventory-ledger-service/internal/models"
	"inventory-ledger-service/internal/repository"
	"inventory-ledger-service/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.InventoryItem{},
		&models.Supplier{},
		&models.StockMovement{},
		&models.PurchaseOrder{},
		&models.PurchaseItem{},
		&models.DocumentSequence{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize logrus logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Initialize NATS event publisher (optional - graceful degradation if NATS unavailable)
	var eventPublisher *events.Publisher
	if cfg.NATSURL != "" {
		eventPublisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("Warning: Failed to initialize NATS event publisher: %v", err)
			log.Println("Continuing without event publishing...")
		} else {
			log.Println("Connected to NATS JetStream for event publishing")
			defer eventPublisher.Close()
		}
	} else {
		log.Println("NATS_URL not configured, event publishing disabled")
	}

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)

	// Initialize services
	catalogService := services.NewCatalogService(catalogRepo, logger)
	ledgerService := services.NewLedgerService(ledgerRepo, eventPublisher, logger)
	purchaseService := services.NewPurchaseService(purchaseRepo, catalogRepo, ledgerService, eventPublisher, logger)
	analyticsService := services.NewAnalyticsService(catalogRepo, ledgerRepo, purchaseRepo, logger)
	reorderService := services.NewReorderService(catalogRepo, ledgerRepo, logger)

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	movementHandler := handlers.NewMovementHandler(ledgerService)
	purchaseHandler := handlers.NewPurchaseHandler(purchaseService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService, reorderService)
	importHandler := handlers.NewImportHandler(catalogService, analyticsService)
	healthHandler := handlers.NewHealthHandler(db, eventPublisher)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS())

	// Health check endpoints
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", healthHandler.ReadyCheck)

	api := router.Group("/api/v1")

	// Item routes
	items := api.Group("/items")
	{
		items.POST("", catalogHandler.CreateItem)
		items.GET("", catalogHandler.ListItems)
		items.GET("/:id", catalogHandler.GetItem)
		items.PUT("/:id", catalogHandler.UpdateItem)
		items.DELETE("/:id", catalogHandler.DeleteItem)

		// Import
		items.GET("/import/template", importHandler.GetItemImportTemplate)
		items.POST("/import", importHandler.ImportItems)
	}

	// Supplier routes
	suppliers := api.Group("/suppliers")
	{
		suppliers.POST("", catalogHandler.CreateSupplier)
		suppliers.GET("", catalogHandler.ListSuppliers)
		suppliers.GET("/:id", catalogHandler.GetSupplier)
		suppliers.PUT("/:id", catalogHandler.UpdateSupplier)
		suppliers.DELETE("/:id", catalogHandler.DeleteSupplier)

		// Import
		suppliers.GET("/import/template", importHandler.GetSupplierImportTemplate)
		suppliers.POST("/import", importHandler.ImportSuppliers)
	}

	// Stock ledger routes
	movements := api.Group("/movements")
	{
		movements.POST("", movementHandler.PostMovement)
		movements.GET("", movementHandler.ListMovements)
		movements.GET("/:id", movementHandler.GetMovement)
		movements.POST("/:id/reverse", movementHandler.ReverseMovement)
	}

	// Purchase order routes
	purchaseOrders := api.Group("/purchase-orders")
	{
		purchaseOrders.POST("", purchaseHandler.CreateOrder)
		purchaseOrders.GET("", purchaseHandler.ListOrders)
		purchaseOrders.GET("/:id", purchaseHandler.GetOrder)
		purchaseOrders.PUT("/:id", purchaseHandler.UpdateOrder)
		purchaseOrders.DELETE("/:id", purchaseHandler.DeleteOrder)
		purchaseOrders.POST("/:id/payments", purchaseHandler.RecordPayment)
	}

	// Analytics routes
	analytics := api.Group("/analytics")
	{
		analytics.GET("/dashboard", analyticsHandler.Dashboard)
		analytics.GET("/full", analyticsHandler.FullReport)
		analytics.GET("/valuation", analyticsHandler.Valuation)
		analytics.GET("/valuation/export", importHandler.ExportValuation)
		analytics.GET("/turnover", analyticsHandler.Turnover)
		analytics.GET("/reorder-suggestions", analyticsHandler.ReorderSuggestions)
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Inventory ledger service starting on port %s", cfg.Port)
		if err := router.Run(":" + cfg.Port); err != nil {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-quit
	log.Println("Shutting down inventory-ledger-service...")
	log.Println("Inventory ledger service stopped")
}
