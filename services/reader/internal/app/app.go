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
	"readverse/pkg/identity"
	"readverse/pkg/jwt"
	"readverse/pkg/logger"
	"readverse/pkg/middleware"
	readerHTTP "readverse/services/reader/internal/controller/http"
	"readverse/services/reader/internal/repo/persistent"
	"readverse/services/reader/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "readverse/services/reader/docs" // Swagger docs
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret)

	location, err := time.LoadLocation(cfg.ReaderTimezone)
	if err != nil {
		log.Error("Unknown READER_TIMEZONE %q, falling back to UTC: %v", cfg.ReaderTimezone, err)
		location = time.UTC
	}

	// Initialize repositories
	store := persistent.NewStore(db)

	// Initialize use cases
	readerUseCase := usecase.NewReaderUseCase(store, usecase.Limits{
		Guest:    cfg.GuestDailyLimit,
		User:     cfg.UserDailyLimit,
		Location: location,
	}, log)

	// Initialize HTTP handlers
	chapterHandler := readerHTTP.NewChapterHandler(readerUseCase, identity.NewVisitorKeyer(cfg.VisitorKeySalt), log)

	// Setup router
	r := gin.Default()
	// Guests are keyed by client address, so only configured proxies may set it
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Error("Invalid TRUSTED_PROXIES: %v", err)
		panic(err)
	}

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000", "*"},
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))
	r.Use(middleware.MetricsMiddleware("reader"))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	resolver := entitlement.NewResolver(entitlement.NewUserStore(db))

	api := r.Group("/api/v1")
	api.Use(middleware.OptionalAuthMiddleware(jwtService))
	api.Use(middleware.EntitlementMiddleware(resolver, log))
	api.Use(middleware.RateLimitMiddleware(redisClient, 300, time.Minute))

	{
		api.GET("/stories/:story_id/chapters/:chapter_id", chapterHandler.ReadChapter)
		api.GET("/reading/quota", chapterHandler.Quota)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Reader service starting on port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down reader service...")

	// The context is used to inform the server it has 5 seconds to finish
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

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

	log.Info("Reader service exited")
}
