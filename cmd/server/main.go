package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/affablelink/service-partner/internal/auth"
	"github.com/affablelink/service-partner/internal/clients"
	"github.com/affablelink/service-partner/internal/config"
	"github.com/affablelink/service-partner/internal/domain/affiliate"
	"github.com/affablelink/service-partner/internal/events"
	"github.com/affablelink/service-partner/internal/handlers"
	"github.com/affablelink/service-partner/internal/logger"
	"github.com/affablelink/service-partner/internal/middleware"
	"github.com/affablelink/service-partner/internal/providers"
	"github.com/affablelink/service-partner/internal/providers/clickwave"
	"github.com/affablelink/service-partner/internal/repository"
	"github.com/affablelink/service-partner/internal/routes"
	"github.com/affablelink/service-partner/internal/services"
)

func main() {
	// Load .env file in development
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Connect to database
	db, err := repository.Connect(repository.PostgresConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
		SSLMode:  cfg.Database.SSLMode,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	if err := repository.Migrate(db); err != nil {
		zapLogger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize JWT manager for auth middleware
	jwtManager := auth.NewJWTManager(
		cfg.JWT.Secret,
		15*time.Minute,
		168*time.Hour,
	)

	// Initialize repositories
	partnerRepo := repository.NewPartnerRepository(db)
	campaignRepo := repository.NewCampaignRepository(db)
	linkRepo := repository.NewLinkRepository(db)
	conversionRepo := repository.NewConversionRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	leadRepo := repository.NewLeadRepository(db)

	// Initialize ClickWave tracker provider (optional)
	var trackerProvider providers.TrackerProvider
	if cfg.Tracker.APIKey != "" {
		clickwaveClient, err := clickwave.NewClient(&clickwave.ClientConfig{
			APIKey:    cfg.Tracker.APIKey,
			APISecret: cfg.Tracker.APISecret,
			IsSandbox: cfg.Tracker.IsSandbox,
			Logger:    zapLogger,
		})
		if err != nil {
			zapLogger.Warn("Failed to initialize ClickWave client, tracker analytics disabled", zap.Error(err))
		} else {
			trackerProvider = clickwave.NewProvider(clickwaveClient, zapLogger)
		}
	}

	// Connect to Redis for analytics caching (optional)
	var analyticsCache *services.AnalyticsCacheService
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	{
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			zapLogger.Warn("Failed to connect to Redis, analytics caching disabled", zap.Error(err))
			analyticsCache = nil
		} else {
			zapLogger.Info("Connected to Redis", zap.String("host", cfg.Redis.Host))
			analyticsCache = services.NewAnalyticsCacheService(redisClient, 10*time.Minute, zapLogger)
		}
	}

	// Initialize billing client
	billingClient := clients.NewBillingClient(cfg.Services.BillingURL, zapLogger)

	// Connect to NATS (optional - only if configured)
	var natsConn *nats.Conn
	var eventPublisher *events.Publisher

	if cfg.NATS.URL != "" {
		natsConn, err = nats.Connect(cfg.NATS.URL)
		if err != nil {
			zapLogger.Warn("Failed to connect to NATS, event publishing disabled", zap.Error(err))
		} else {
			zapLogger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
			eventPublisher = events.NewPublisher(natsConn, zapLogger)
		}
	}

	// Initialize services
	partnerService := services.NewPartnerService(partnerRepo, zapLogger)
	campaignService := services.NewCampaignService(campaignRepo, zapLogger)
	linkService := services.NewLinkService(linkRepo, campaignRepo, zapLogger)
	analyticsService := services.NewAnalyticsService(conversionRepo, trackerProvider, zapLogger)
	dashboardService := services.NewDashboardService(partnerRepo, linkRepo, conversionRepo, analyticsService, zapLogger)
	conversionService := services.NewConversionService(conversionRepo, linkRepo, campaignRepo, eventPublisher, zapLogger)
	payoutService := services.NewPayoutService(payoutRepo, partnerRepo, conversionRepo, billingClient, eventPublisher, zapLogger)
	leadService := services.NewLeadService(leadRepo, zapLogger)

	// Start NATS subscriber if connected
	var eventSubscriber *events.Subscriber
	if natsConn != nil {
		reactor := services.NewEventReactor(linkRepo, analyticsService, analyticsCache, zapLogger)
		eventSubscriber = events.NewSubscriber(natsConn, reactor, zapLogger)
		if err := eventSubscriber.Start(); err != nil {
			zapLogger.Warn("Failed to start event subscriber", zap.Error(err))
		}
	}

	// Initialize handlers
	partnerHandler := handlers.NewPartnerHandler(partnerService, zapLogger)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, zapLogger)
	analyticsHandler := handlers.NewAnalyticsHandler(partnerService, analyticsService, analyticsCache, zapLogger)
	campaignHandler := handlers.NewCampaignHandler(campaignService, zapLogger)
	linkHandler := handlers.NewLinkHandler(linkService, zapLogger)
	var postbackVerifier *affiliate.Signature
	if cfg.Tracker.PostbackSecret != "" {
		postbackVerifier = affiliate.NewSignature(cfg.Tracker.PostbackSecret)
	} else {
		zapLogger.Warn("No postback secret configured, conversion postbacks accepted unsigned")
	}
	conversionHandler := handlers.NewConversionHandler(conversionService, postbackVerifier, zapLogger)
	payoutHandler := handlers.NewPayoutHandler(payoutService, zapLogger)
	leadHandler := handlers.NewLeadHandler(leadService, zapLogger)

	// Set Gin mode
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.CORSWithOrigins(cfg.HTTP.AllowedOrigins))
	router.Use(middleware.SecurityHeaders())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "partner",
			"time":    time.Now().UTC(),
		})
	})

	// Setup routes using the routes package
	routes.SetupRoutes(router, &routes.RouteConfig{
		PartnerHandler:    partnerHandler,
		DashboardHandler:  dashboardHandler,
		AnalyticsHandler:  analyticsHandler,
		CampaignHandler:   campaignHandler,
		LinkHandler:       linkHandler,
		ConversionHandler: conversionHandler,
		PayoutHandler:     payoutHandler,
		LeadHandler:       leadHandler,
		JWTManager:        jwtManager,
	})

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		zapLogger.Info("🚀 Partner service starting on port " + cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	if eventSubscriber != nil {
		eventSubscriber.Stop()
	}
	if natsConn != nil {
		natsConn.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}
