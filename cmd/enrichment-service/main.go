package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"patchpulse/internal/ai"
	"patchpulse/internal/enrich"
	"patchpulse/internal/notify"
	"patchpulse/internal/queue"
	"patchpulse/internal/repository"
	"patchpulse/internal/worker/config"
	"patchpulse/internal/worker/delivery/consumer"
	"patchpulse/internal/worker/service"
	"patchpulse/internal/worker/strategy"
	"patchpulse/pkg/logger"
	"patchpulse/pkg/notifier"
	"patchpulse/pkg/postgres"
	"patchpulse/pkg/redis"

	"google.golang.org/genai"

	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the enrichment service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	appLogger.Info("Starting Enrichment Service", logger.Field("name", cfg.App.Name))

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

	// Create the consumer group if it doesn't exist
	if err := consumer.EnsureConsumerGroup(context.Background(), redisClient.Client, appLogger); err != nil {
		appLogger.Fatal("Failed to create consumer group", logger.ErrorField(err))
	}

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

	// Initialize the push transport
	var push notifier.Notifier = notifier.NewNopNotifier()
	if cfg.Notifications.Enabled {
		push, err = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize enrichment jobs
	patchEnricher := enrich.NewPatchEnricher(patchRepo, gameRepo, aiClient, appLogger)
	newsEnricher := enrich.NewNewsEnricher(newsRepo, aiClient, appLogger)
	sentimentAnalyzer := enrich.NewSentimentAnalyzer(sentimentRepo, gameRepo, patchRepo, newsRepo, aiClient, appLogger)
	whatsNewGen := enrich.NewWhatsNewGenerator(whatsNewCacheRepo, gameRepo, patchRepo, newsRepo, aiClient, appLogger)
	digestGen := enrich.NewDigestGenerator(digestCacheRepo, userGameRepo, patchRepo, newsRepo, aiClient, appLogger)
	returnMatcher := enrich.NewReturnMatcher(suggestionRepo, userGameRepo, patchRepo, aiClient, appLogger)
	similarityAnalyzer := enrich.NewSimilarityAnalyzer(similarityRepo, gameRepo, aiClient, appLogger)

	// Initialize the queue publisher and notification dispatcher
	publisher := queue.NewPublisher(jobRepo, redisClient.Client, appLogger, cfg.Redis.StreamMaxLen)
	dispatcher := notify.NewDispatcher(ruleRepo, userGameRepo, aiClient, push, appLogger, cfg.Notifications.SmartCopy)

	// Initialize strategies
	strategies := []strategy.JobExecutionStrategy{
		strategy.NewPatchSummaryStrategy(patchEnricher, patchRepo, dispatcher, publisher, appLogger),
		strategy.NewNewsSummaryStrategy(newsEnricher, newsRepo, dispatcher),
		strategy.NewSentimentStrategy(sentimentAnalyzer),
		strategy.NewWhatsNewStrategy(whatsNewGen),
		strategy.NewDigestStrategy(digestGen),
		strategy.NewReturnMatchStrategy(returnMatcher),
		strategy.NewSimilarityStrategy(similarityAnalyzer),
		strategy.NewFeedIngestStrategy(gameRepo, newsRepo, publisher, appLogger, cfg.Worker.FeedMaxItems, cfg.Worker.FeedFetchPageMs),
	}

	// Initialize the worker service and start the consumer
	workerSvc := service.NewWorkerService(redisClient.Client, jobRepo, appLogger, cfg.Worker.JobTimeout, strategies)
	redisConsumer := consumer.NewRedisConsumer(redisClient.Client, workerSvc, appLogger)
	redisConsumer.Start(ctx)

	// Start the periodic job scheduler
	scheduler := service.NewScheduler(cfg, gameRepo, publisher, appLogger)
	if err := scheduler.Start(ctx); err != nil {
		appLogger.Fatal("Failed to start scheduler", logger.ErrorField(err))
	}

	appLogger.Info("Enrichment service started. Waiting for jobs...")

	// Wait for interrupt signal to gracefully shut down the service
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down enrichment service...")
	cancel()
	scheduler.Stop()
	redisConsumer.Stop()
	appLogger.Info("Enrichment service stopped.")
}

func main() {
	rootCmd := &cobra.Command{Use: "enrichment-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-enrichment.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing enrichment-service CLI: %s\n", err)
		os.Exit(1)
	}
}
