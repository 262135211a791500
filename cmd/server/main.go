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

	"github.com/archway-discovery/service-routes/internal/application"
	"github.com/archway-discovery/service-routes/internal/config"
	"github.com/archway-discovery/service-routes/internal/directions"
	"github.com/archway-discovery/service-routes/internal/events/consumer"
	"github.com/archway-discovery/service-routes/internal/handler"
	"github.com/archway-discovery/service-routes/internal/platform/auth"
	"github.com/archway-discovery/service-routes/internal/platform/cache"
	"github.com/archway-discovery/service-routes/internal/platform/database"
	"github.com/archway-discovery/service-routes/internal/platform/health"
	"github.com/archway-discovery/service-routes/internal/platform/kafka"
	"github.com/archway-discovery/service-routes/internal/platform/logger"
	"github.com/archway-discovery/service-routes/internal/platform/middleware"
	"github.com/archway-discovery/service-routes/internal/repository"
	"github.com/archway-discovery/service-routes/internal/suggest"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-routes")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-routes",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	dbConfig := database.PostgresConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		DBName:   cfg.DB.DBName,
		SSLMode:  cfg.DB.SSLMode,
	}
	db, err := database.Connect(dbConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.RouteModel{}, &repository.PlaceModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(cfg.DB.DatabaseURL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, 15*time.Minute)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize Redis cache
	mapCache := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
	defer func() { _ = mapCache.Close() }()

	// Initialize repositories
	routeRepo := repository.NewGormRouteRepository(db)
	placeRepo := repository.NewGormPlaceRepository(db)

	// Initialize outbound clients
	directionsClient := directions.NewClient(cfg.Mapbox.BaseURL, cfg.Mapbox.AccessToken, nil, log)
	suggestClient := suggest.NewClient(cfg.Suggester.URL, cfg.Suggester.Model, cfg.Suggester.APIKey, nil, log)

	// Initialize application services
	routeService := application.NewRouteService(routeRepo, directionsClient, kafkaProducer, log)
	mapService := application.NewMapService(routeRepo, mapCache, log)
	generationService := application.NewGenerationService(routeRepo, directionsClient, suggestClient, kafkaProducer, log)
	placeService := application.NewPlaceService(placeRepo, log)

	// Initialize and start moderation event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	groupID := cfg.Kafka.GroupPrefix + "routes-service"
	moderationConsumer := consumer.NewModerationEventConsumer(
		cfg.Kafka.Brokers,
		groupID,
		routeService,
		log,
	)
	defer func() { _ = moderationConsumer.Close() }()

	go func() {
		log.Info("starting moderation event consumer")
		if err := moderationConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("moderation event consumer error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	routeHandler := handler.NewRouteHandler(routeService, generationService)
	mapHandler := handler.NewMapHandler(mapService)
	placeHandler := handler.NewPlaceHandler(placeService)
	adminHandler := handler.NewAdminRouteHandler(routeService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-routes")
	healthHandler.RegisterRoutes(router)

	// Register routes
	routeHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	mapHandler.RegisterRoutes(&router.RouterGroup)
	placeHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-routes...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-routes stopped")
}
