package service

import (
	"context"
	"fmt"

	"patchpulse/internal/entity"
	"patchpulse/internal/queue"
	"patchpulse/internal/repository"
	"patchpulse/internal/worker/config"
	"patchpulse/internal/worker/strategy"
	"patchpulse/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler enqueues the periodic enrichment jobs: feed polling, sentiment
// refreshes and similarity rescoring.
type Scheduler struct {
	cfg       *config.Config
	gameRepo  repository.GameRepository
	publisher *queue.Publisher
	logger    *logger.Logger
	cron      *cron.Cron
}

// NewScheduler creates a new Scheduler.
func NewScheduler(cfg *config.Config, gameRepo repository.GameRepository, publisher *queue.Publisher, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cfg:       cfg,
		gameRepo:  gameRepo,
		publisher: publisher,
		logger:    log,
		cron:      cron.New(),
	}
}

// Start registers the cron entries and starts the scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.Worker.FeedPollCron, func() {
		if _, err := s.publisher.Enqueue(ctx, entity.JobTypeFeedIngest, strategy.FeedIngestPayload{}); err != nil {
			s.logger.Error("Failed to enqueue feed ingest job", logger.ErrorField(err))
		}
	}); err != nil {
		return fmt.Errorf("failed to register feed poll cron: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.Worker.SentimentCron, func() {
		s.enqueuePerGame(ctx, entity.JobTypeSentiment)
	}); err != nil {
		return fmt.Errorf("failed to register sentiment cron: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.Worker.SimilarityCron, func() {
		s.enqueuePerGame(ctx, entity.JobTypeSimilarity)
	}); err != nil {
		return fmt.Errorf("failed to register similarity cron: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started",
		logger.StringField("feed_poll_cron", s.cfg.Worker.FeedPollCron),
		logger.StringField("sentiment_cron", s.cfg.Worker.SentimentCron),
		logger.StringField("similarity_cron", s.cfg.Worker.SimilarityCron),
	)
	return nil
}

// Stop stops the scheduler and waits for running entries to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) enqueuePerGame(ctx context.Context, jobType entity.JobType) {
	games, err := s.gameRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list games for periodic jobs", logger.ErrorField(err), logger.StringField("type", string(jobType)))
		return
	}
	for _, game := range games {
		var payload any
		switch jobType {
		case entity.JobTypeSentiment:
			payload = strategy.SentimentPayload{GameID: game.ID}
		case entity.JobTypeSimilarity:
			payload = strategy.SimilarityPayload{GameID: game.ID}
		default:
			continue
		}
		if _, err := s.publisher.Enqueue(ctx, jobType, payload); err != nil {
			s.logger.Error("Failed to enqueue periodic job", logger.ErrorField(err), logger.Field("game_id", game.ID), logger.StringField("type", string(jobType)))
		}
	}
}
