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

	"patchpulse/internal/ai"
	"patchpulse/internal/api/config"
	delivery "patchpulse/internal/api/delivery/http"
	"patchpulse/internal/api/service"
	"patchpulse/internal/enrich"
	"patchpulse/internal/queue"
	"patchpulse/internal/repository"
	"patchpulse/pkg/logger"
	"patchpulse/pkg/postgres"
	"patchpulse/pkg/redis"

	"google.golang.org/genai"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the API service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting API Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis
	redisCfg := redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	}
	redisClient, err := redis.NewClient(redisCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
	}
	defer redisClient.Close()

	// Initialize repositories
	gameRepo := repository.NewGameRepository(db.DB)
	patchRepo := repository.NewPatchNoteRepository(db.DB)
	newsRepo := repository.NewNewsItemRepository(db.DB)
	sentimentRepo := repository.NewSentimentRepository(db.DB)
	whatsNewCacheRepo := repository.NewWhatsNewCacheRepository(db.DB)
	digestCacheRepo := repository.NewDigestCacheRepository(db.DB)
	ruleRepo := repository.NewAlertRuleRepository(db.DB)
	suggestionRepo := repository.NewReturnSuggestionRepository(db.DB)
	userGameRepo := repository.NewUserGameRepository(db.DB)
	similarityRepo := repository.NewGameSimilarityRepository(db.DB)
	jobRepo := repository.NewEnrichmentJobRepository(db.DB)

	// Initialize the AI client
	genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: cfg.Gemini.APIKey,
	})
	if err != nil {
		appLogger.Fatal("Failed to initialize Gemini AI client", logger.ErrorField(err))
	}
	aiClient, err := ai.NewGeminiClient(cfg.Gemini, appLogger, genAiClient)
	if err != nil {
		appLogger.Fatal("Failed to initialize AI client", logger.ErrorField(err))
	}

	// Initialize enrichment jobs and the queue publisher
	publisher := queue.NewPublisher(jobRepo, redisClient.Client, appLogger, cfg.Redis.StreamMaxLen)
	patchEnricher := enrich.NewPatchEnricher(patchRepo, gameRepo, aiClient, appLogger)
	newsEnricher := enrich.NewNewsEnricher(newsRepo, aiClient, appLogger)
	sentimentAnalyzer := enrich.NewSentimentAnalyzer(sentimentRepo, gameRepo, patchRepo, newsRepo, aiClient, appLogger)
	whatsNewGen := enrich.NewWhatsNewGenerator(whatsNewCacheRepo, gameRepo, patchRepo, newsRepo, aiClient, appLogger)
	digestGen := enrich.NewDigestGenerator(digestCacheRepo, userGameRepo, patchRepo, newsRepo, aiClient, appLogger)

	// Initialize services
	gameSvc := service.NewGameService(gameRepo, userGameRepo, similarityRepo, appLogger)
	contentSvc := service.NewContentService(patchRepo, newsRepo, gameRepo, patchEnricher, newsEnricher, publisher, appLogger)
	ruleSvc := service.NewAlertRuleService(ruleRepo, userGameRepo, appLogger)
	insightSvc := service.NewInsightService(whatsNewGen, digestGen, sentimentAnalyzer, sentimentRepo, suggestionRepo, userGameRepo, appLogger)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	gameHandler := delivery.NewGameHandler(gameSvc, appLogger)
	gamesGroup := apiV1.Group("/games")
	gameHandler.RegisterRoutes(gamesGroup)

	contentHandler := delivery.NewContentHandler(contentSvc, appLogger)
	patchesGroup := apiV1.Group("/patch-notes")
	newsGroup := apiV1.Group("/news-items")
	contentHandler.RegisterRoutes(patchesGroup, newsGroup)

	usersGroup := apiV1.Group("/users/:userID")

	ruleHandler := delivery.NewAlertRuleHandler(ruleSvc, appLogger)
	rulesGroup := usersGroup.Group("/alert-rules")
	ruleHandler.RegisterRoutes(rulesGroup)

	insightHandler := delivery.NewInsightHandler(insightSvc, gameSvc, appLogger)
	insightHandler.RegisterRoutes(usersGroup, gamesGroup)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "api-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-api.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing api-service CLI: %s\n", err)
		os.Exit(1)
	}
}
