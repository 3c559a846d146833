package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/printhaus/printhaus_api/internal/cache"
	"github.com/printhaus/printhaus_api/internal/config"
	"github.com/printhaus/printhaus_api/internal/database"
	"github.com/printhaus/printhaus_api/internal/handler"
	"github.com/printhaus/printhaus_api/internal/middleware"
	"github.com/printhaus/printhaus_api/internal/repository"
	"github.com/printhaus/printhaus_api/internal/service"
	"github.com/printhaus/printhaus_api/internal/sse"
	"github.com/printhaus/printhaus_api/internal/worker"
	"github.com/printhaus/printhaus_api/pkg/mailer"
	"github.com/printhaus/printhaus_api/pkg/payform"
)

// main is the application entrypoint for the Printhaus API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting printhaus api")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 4. Initialize external clients
	paymentClient := payform.NewClient(cfg.Payment.BaseURL, cfg.Payment.APIKey)
	mailClient := mailer.NewClient(cfg.Mail.RelayURL, cfg.Mail.APIKey, cfg.Mail.FromAddr)

	// 5. Initialize repositories
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	queueRepo := repository.NewQueueRepository(db)
	printerRepo := repository.NewPrinterRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	adminRepo := repository.NewAdminUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	eventRepo := repository.NewPaymentEventRepository(db)

	// 6. Initialize services
	hub := sse.NewHub()
	cartStore := cache.NewCartStore(redisClient)

	notifSvc := service.NewNotificationService(notifRepo, mailClient, cfg.Mail.ShopName)
	productSvc := service.NewProductService(productRepo)
	productMgmtSvc := service.NewProductManagementService(productRepo)
	cartSvc := service.NewCartService(cartStore, productRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, queueRepo, notifSvc, paymentClient, cfg.Payment.Currency, hub)
	paymentSvc := service.NewPaymentService(eventRepo, orderRepo, orderSvc)
	queueSvc := service.NewQueueService(queueRepo, hub)
	adminAuthSvc := service.NewAdminAuthService(adminRepo)

	uploadSvc, err := service.NewUploadService(&cfg.S3)
	if err != nil {
		log.Warn().Err(err).Msg("upload service initialization failed - file customizations will be disabled")
	}

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:            handler.NewHealthHandler(db, redisClient),
		Product:           handler.NewProductHandler(productSvc),
		Cart:              handler.NewCartHandler(cartSvc),
		Order:             handler.NewOrderHandler(orderSvc, cartSvc),
		Webhook:           handler.NewWebhookHandler(paymentSvc, cfg.Payment.WebhookSecret),
		Message:           handler.NewMessageHandler(messageRepo, orderRepo),
		Upload:            handler.NewUploadHandler(uploadSvc),
		Auth:              handler.NewAuthHandler(adminAuthSvc),
		AdminOrder:        handler.NewAdminOrderHandler(orderSvc),
		Queue:             handler.NewQueueHandler(queueSvc),
		ProductManagement: handler.NewProductManagementHandler(productMgmtSvc),
		Resource:          handler.NewResourceHandler(printerRepo, materialRepo, adminRepo),
		SSE:               handler.NewSSEHandler(hub),
	}

	// 8. Initialize middleware
	jwtMw := middleware.NewJWTMiddleware()
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, jwtMw, rateLimiter)

	// 10. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 11. Start workers
	go worker.NewNotificationWorker(notifSvc, cfg.Worker.NotifyInterval).Start(ctx)
	go worker.NewPendingOrderWorker(orderRepo, cfg.Worker.PendingInterval, cfg.Worker.PendingMaxAge).Start(ctx)

	// 12. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 14. Cancel context to stop workers
	cancel()

	// 15. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health            *handler.HealthHandler
	Product           *handler.ProductHandler
	Cart              *handler.CartHandler
	Order             *handler.OrderHandler
	Webhook           *handler.WebhookHandler
	Message           *handler.MessageHandler
	Upload            *handler.UploadHandler
	Auth              *handler.AuthHandler
	AdminOrder        *handler.AdminOrderHandler
	Queue             *handler.QueueHandler
	ProductManagement *handler.ProductManagementHandler
	Resource          *handler.ResourceHandler
	SSE               *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, jwtMiddleware *middleware.JWTMiddleware, rateLimiter *middleware.RateLimiter) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Payment gateway webhook (signature-verified, no session)
	router.POST("/v1/webhooks/payment", handlers.Webhook.HandlePayment)

	// Public storefront routes (anonymous cart session)
	shop := router.Group("/v1")
	shop.Use(middleware.CartSession())
	{
		shop.GET("/products", handlers.Product.GetProducts)
		shop.GET("/products/categories", handlers.Product.GetCategories)
		shop.GET("/products/:slug", handlers.Product.GetProduct)

		shop.GET("/cart", handlers.Cart.GetCart)
		shop.POST("/cart/items", handlers.Cart.AddItem)
		shop.PUT("/cart/items/:itemId/quantity", handlers.Cart.UpdateQuantity)
		shop.PUT("/cart/items/:itemId/customizations", handlers.Cart.UpdateCustomizations)
		shop.PUT("/cart/items/:itemId/accept", handlers.Cart.AcceptNonRefundable)
		shop.DELETE("/cart/items/:itemId", handlers.Cart.RemoveItem)

		shop.POST("/uploads", handlers.Upload.Upload)

		shop.POST("/checkout", handlers.Order.Checkout)
		shop.GET("/orders/:orderNumber", handlers.Order.GetOrder)

		shop.POST("/messages", rateLimiter.Limit("messages", 5, time.Minute), handlers.Message.CreateMessage)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/login", rateLimiter.Limit("login", 10, time.Minute), handlers.Auth.Login)
	admin.GET("/events", handlers.SSE.Stream)
	admin.Use(jwtMiddleware.Handle())
	{
		// Order board
		admin.GET("/orders", handlers.AdminOrder.GetOrders)
		admin.GET("/orders/stats", handlers.AdminOrder.GetStats)
		admin.GET("/orders/:orderNumber", handlers.AdminOrder.GetOrder)
		admin.PUT("/orders/:orderNumber/status", handlers.AdminOrder.UpdateStatus)
		admin.PATCH("/orders/:orderNumber", handlers.AdminOrder.Annotate)

		// Production queue
		admin.GET("/queue", handlers.Queue.GetQueue)
		admin.GET("/queue/:id", handlers.Queue.GetQueueItem)
		admin.PUT("/queue/:id", handlers.Queue.UpdateQueueItem)

		// Catalog management
		admin.GET("/products", handlers.ProductManagement.GetProducts)
		admin.POST("/products", handlers.ProductManagement.CreateProduct)
		admin.GET("/products/:id", handlers.ProductManagement.GetProduct)
		admin.PUT("/products/:id", handlers.ProductManagement.UpdateProduct)
		admin.DELETE("/products/:id", handlers.ProductManagement.DeactivateProduct)
		admin.POST("/products/:id/options", handlers.ProductManagement.CreateOption)
		admin.PUT("/products/:id/options/:optionId", handlers.ProductManagement.UpdateOption)
		admin.DELETE("/products/:id/options/:optionId", handlers.ProductManagement.DeleteOption)

		// Workshop resources
		admin.GET("/printers", handlers.Resource.GetPrinters)
		admin.POST("/printers", handlers.Resource.CreatePrinter)
		admin.PUT("/printers/:id", handlers.Resource.UpdatePrinter)
		admin.GET("/materials", handlers.Resource.GetMaterials)
		admin.POST("/materials", handlers.Resource.CreateMaterial)
		admin.PUT("/materials/:id", handlers.Resource.UpdateMaterial)
		admin.GET("/staff", handlers.Resource.GetStaff)

		// Inbox
		admin.GET("/messages", handlers.Message.GetMessages)
		admin.PUT("/messages/:id/read", handlers.Message.MarkRead)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
