package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"admin-service/internal/config"
	"admin-service/internal/events"
	"admin-service/internal/handlers"
	"admin-service/internal/middleware"
	"admin-service/internal/models"
	"admin-service/internal/repository"
	"admin-service/internal/services"
)

// @title Admin Service API
// @version 1.0
// @description Back-office API for catalog, orders, customers, wallet and fulfillment.
// @BasePath /api/v1

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	db, err := initDatabase(cfg)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migrateDatabase(db); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	logger.Info("Database connected and migrated")

	redisClient := initRedis(cfg, logger)

	publisher, err := events.NewPublisher(logger)
	if err != nil {
		logger.WithError(err).Warn("Event publisher unavailable, continuing without events")
		publisher = nil
	}
	defer publisher.Close()

	// Repositories
	productRepo := repository.NewProductRepository(db, redisClient)
	orderRepo := repository.NewOrderRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	walletRepo := repository.NewWalletRepository(db)
	notificationRepo := repository.NewStockNotificationRepository(db)
	rechargeRepo := repository.NewRechargeRepository(db)
	partnerRepo := repository.NewPartnerRepository(db)

	// Services
	reconcileService := services.NewReconcileService(productRepo, notificationRepo, publisher, logger)
	orderService := services.NewOrderService(orderRepo, reconcileService, publisher, logger)
	walletService := services.NewWalletService(walletRepo, rechargeRepo, logger)

	// Handlers
	orderHandler := handlers.NewOrderHandler(orderService)
	productHandler := handlers.NewProductHandler(productRepo, reconcileService, publisher)
	catalogHandler := handlers.NewCatalogHandler(catalogRepo)
	customerHandler := handlers.NewCustomerHandler(customerRepo)
	walletHandler := handlers.NewWalletHandler(walletService, rechargeRepo)
	partnerHandler := handlers.NewPartnerHandler(partnerRepo)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo, productRepo)
	importHandler := handlers.NewImportHandler(productRepo)
	healthHandler := handlers.NewHealthHandler(db)

	router := setupRouter(cfg,
		orderHandler, productHandler, catalogHandler, customerHandler,
		walletHandler, partnerHandler, notificationHandler, importHandler,
		healthHandler)

	server := &http.Server{
		Addr:    cfg.GetServerAddress(),
		Handler: router,
	}

	go func() {
		logger.WithField("address", server.Addr).Info("Starting admin service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Errorf("Forced shutdown: %v", err)
	}
	logger.Info("Server exited")
}

func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func migrateDatabase(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Category{},
		&models.Brand{},
		&models.Product{},
		&models.Banner{},
		&models.Video{},
		&models.StockNotification{},
		&models.Customer{},
		&models.Address{},
		&models.WalletTransaction{},
		&models.RechargeProvider{},
		&models.RechargePlan{},
		&models.RechargeTransaction{},
		&models.Partner{},
		&models.Order{},
	)
}

func initRedis(cfg *config.Config, logger *logrus.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, product cache disabled")
		return nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("Invalid REDIS_URL, product cache disabled")
		return nil
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Redis unreachable, product cache disabled")
		return nil
	}

	logger.Info("Redis connected")
	return client
}

func setupRouter(cfg *config.Config,
	orders *handlers.OrderHandler,
	products *handlers.ProductHandler,
	catalog *handlers.CatalogHandler,
	customers *handlers.CustomerHandler,
	wallet *handlers.WalletHandler,
	partners *handlers.PartnerHandler,
	notifications *handlers.NotificationHandler,
	imports *handlers.ImportHandler,
	health *handlers.HealthHandler,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RequestID())
	router.Use(middleware.SetupCORS())

	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.HealthCheck)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	api.Use(middleware.AdminUser())
	{
		productRoutes := api.Group("/products")
		{
			productRoutes.GET("", products.ListProducts)
			productRoutes.POST("", products.CreateProduct)
			productRoutes.GET("/low-stock", products.ListLowStock)
			productRoutes.GET("/import/template", imports.GetProductImportTemplate)
			productRoutes.POST("/import", imports.ImportProducts)
			productRoutes.GET("/:id", products.GetProduct)
			productRoutes.PUT("/:id", products.UpdateProduct)
			productRoutes.POST("/:id/adjust-stock", products.AdjustStock)
			productRoutes.DELETE("/:id", products.DeleteProduct)
		}

		categoryRoutes := api.Group("/categories")
		{
			categoryRoutes.GET("", catalog.ListCategories)
			categoryRoutes.POST("", catalog.CreateCategory)
			categoryRoutes.PUT("/:id", catalog.UpdateCategory)
			categoryRoutes.DELETE("/:id", catalog.DeleteCategory)
		}

		brandRoutes := api.Group("/brands")
		{
			brandRoutes.GET("", catalog.ListBrands)
			brandRoutes.POST("", catalog.CreateBrand)
			brandRoutes.PUT("/:id", catalog.UpdateBrand)
			brandRoutes.DELETE("/:id", catalog.DeleteBrand)
		}

		bannerRoutes := api.Group("/banners")
		{
			bannerRoutes.GET("", catalog.ListBanners)
			bannerRoutes.POST("", catalog.CreateBanner)
			bannerRoutes.PUT("/:id", catalog.UpdateBanner)
			bannerRoutes.DELETE("/:id", catalog.DeleteBanner)
		}

		videoRoutes := api.Group("/videos")
		{
			videoRoutes.GET("", catalog.ListVideos)
			videoRoutes.POST("", catalog.CreateVideo)
			videoRoutes.PUT("/:id", catalog.UpdateVideo)
			videoRoutes.DELETE("/:id", catalog.DeleteVideo)
		}

		customerRoutes := api.Group("/customers")
		{
			customerRoutes.GET("", customers.ListCustomers)
			customerRoutes.GET("/:customerId", customers.GetCustomer)
			customerRoutes.PUT("/:customerId", customers.UpdateCustomer)
			customerRoutes.DELETE("/:customerId", customers.DeleteCustomer)
			customerRoutes.GET("/:customerId/addresses", customers.ListAddresses)

			customerRoutes.GET("/:customerId/wallet", wallet.History)
			customerRoutes.POST("/:customerId/wallet/credit", wallet.Credit)
			customerRoutes.POST("/:customerId/wallet/debit", wallet.Debit)

			customerRoutes.POST("/:customerId/recharges", wallet.CreateRecharge)
			customerRoutes.GET("/:customerId/recharges", wallet.ListRecharges)

			orderRoutes := customerRoutes.Group("/:customerId/orders")
			{
				orderRoutes.GET("", orders.ListCustomerOrders)
				orderRoutes.GET("/:id", orders.GetOrder)
				orderRoutes.GET("/:id/reconcile", orders.Reconcile)
				orderRoutes.POST("/:id/accept", orders.Accept)
				orderRoutes.PATCH("/:id/status", orders.UpdateStatus)
				orderRoutes.DELETE("/:id", orders.DeleteOrder)
			}
		}

		api.GET("/orders", orders.ListOrders)

		rechargeRoutes := api.Group("/recharge")
		{
			rechargeRoutes.GET("/providers", wallet.ListProviders)
			rechargeRoutes.POST("/providers", wallet.CreateProvider)
			rechargeRoutes.PUT("/providers/:id", wallet.UpdateProvider)
			rechargeRoutes.DELETE("/providers/:id", wallet.DeleteProvider)
			rechargeRoutes.GET("/plans", wallet.ListPlans)
			rechargeRoutes.POST("/plans", wallet.CreatePlan)
			rechargeRoutes.PUT("/plans/:id", wallet.UpdatePlan)
			rechargeRoutes.DELETE("/plans/:id", wallet.DeletePlan)
			rechargeRoutes.POST("/transactions/:id/settle", wallet.SettleRecharge)
		}

		partnerRoutes := api.Group("/partners")
		{
			partnerRoutes.GET("", partners.ListPartners)
			partnerRoutes.POST("", partners.CreatePartner)
			partnerRoutes.GET("/:id", partners.GetPartner)
			partnerRoutes.PUT("/:id", partners.UpdatePartner)
			partnerRoutes.DELETE("/:id", partners.DeletePartner)
		}

		notificationRoutes := api.Group("/stock-notifications")
		{
			notificationRoutes.GET("", notifications.List)
			notificationRoutes.POST("", notifications.Subscribe)
		}
	}

	return router
}
