package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"readverse/pkg/config"
	"readverse/pkg/entitlement"
	"readverse/pkg/jwt"
	"readverse/pkg/logger"
	"readverse/pkg/middleware"
	"readverse/pkg/queue"
	"readverse/pkg/s3"
	walletHTTP "readverse/services/wallet/internal/controller/http"
	"readverse/services/wallet/internal/repo/persistent"
	"readverse/services/wallet/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "readverse/services/wallet/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client, s3Client *s3.Client, queueClient *queue.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	// Optional collaborators stay untyped nil when their client is missing
	var publisher usecase.EventPublisher
	if queueClient != nil {
		publisher = queueClient
		startAuditConsumer(queueClient, log.With("component", "audit"))
	}
	var receipts usecase.ReceiptStorage
	if s3Client != nil {
		receipts = s3Client
	}

	// Initialize repositories
	store := persistent.NewStore(db)

	// Initialize use cases
	prices := usecase.Prices{
		VIPMonth: cfg.VIPMonthCostCoins,
		VIPDay:   cfg.VIPDayCostCoins,
		Author:   cfg.AuthorCostCoins,
	}
	walletUseCase := usecase.NewWalletUseCase(store, publisher, log)
	topupUseCase := usecase.NewTopupUseCase(store, receipts, publisher, log)
	donationUseCase := usecase.NewDonationUseCase(store, redisClient, publisher, log)
	purchaseUseCase := usecase.NewPurchaseUseCase(store, prices, publisher, log)
	withdrawalUseCase := usecase.NewWithdrawalUseCase(store, publisher, log)

	// Initialize HTTP handlers
	walletHandler := walletHTTP.NewWalletHandler(walletUseCase, log)
	topupHandler := walletHTTP.NewTopupHandler(topupUseCase, log)
	donationHandler := walletHTTP.NewDonationHandler(donationUseCase, log)
	entitlementHandler := walletHTTP.NewEntitlementHandler(purchaseUseCase, log)
	withdrawalHandler := walletHTTP.NewWithdrawalHandler(withdrawalUseCase, log)

	// Setup router
	r := gin.Default()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Error("Invalid TRUSTED_PROXIES: %v", err)
		panic(err)
	}

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))
	r.Use(middleware.MetricsMiddleware("wallet"))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	resolver := entitlement.NewResolver(entitlement.NewUserStore(db))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(jwtService))
	api.Use(middleware.EntitlementMiddleware(resolver, log))
	api.Use(middleware.RequireAccount())
	api.Use(middleware.RateLimitMiddleware(redisClient, 100, time.Minute))

	{
		api.GET("/wallet", walletHandler.GetWallet)
		api.GET("/wallet/transactions", walletHandler.GetTransactions)
		api.POST("/wallet/topups", topupHandler.Submit)
		api.GET("/wallet/topups", topupHandler.List)

		api.POST("/stories/:story_id/donations", donationHandler.Donate)

		api.POST("/entitlements/vip", entitlementHandler.PurchaseVIP)
		api.POST("/entitlements/author", entitlementHandler.PurchaseAuthor)
		api.GET("/entitlements/me", entitlementHandler.Me)

		api.POST("/withdrawals", withdrawalHandler.Request)
		api.GET("/withdrawals", withdrawalHandler.List)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.RequireRoles(entitlement.RoleAdmin))
	{
		admin.POST("/topups/:id/approve", topupHandler.Approve)
		admin.POST("/topups/:id/reject", topupHandler.Reject)
		admin.POST("/wallets/:user_id/credit", walletHandler.AdminCredit)
		admin.PUT("/users/:user_id/role", entitlementHandler.SetRole)
		admin.POST("/withdrawals/:id/resolve", withdrawalHandler.Resolve)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Wallet service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down wallet service...")

	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server before closing the stores it depends on
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("Error closing database: %v", err)
		}
	}

	// Close Redis connection
	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	// Close RabbitMQ connection if it was initialized
	if queueClient != nil {
		queueClient.Close()
	}

	log.Info("Wallet service exited")
}

// startAuditConsumer writes every committed money movement to the service log.
func startAuditConsumer(queueClient *queue.Client, log *logger.Logger) {
	err := queueClient.ConsumeEvents(func(event queue.Event) error {
		log.Info("[AUDIT] %s user=%s amount=%d ref=%s attrs=%v",
			event.Type, event.UserID, event.Amount, event.ReferenceID, event.Attributes)
		return nil
	})
	if err != nil {
		log.Error("Error starting audit consumer: %v", err)
	}
}
