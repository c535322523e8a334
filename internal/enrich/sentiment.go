package enrich

import (
	"context"
	"fmt"
	"time"

	"patchpulse/internal/ai"
	"patchpulse/internal/entity"
	"patchpulse/internal/repository"
	"patchpulse/pkg/logger"
)

// SentimentTTL is how long a sentiment record stays valid for reads.
const SentimentTTL = 24 * time.Hour

const sentimentSourceWindow = 30 * 24 * time.Hour

// SentimentAnalyzer derives community sentiment for a game from its recently
// enriched patches and news.
type SentimentAnalyzer struct {
	sentimentRepo repository.SentimentRepository
	gameRepo      repository.GameRepository
	patchRepo     repository.PatchNoteRepository
	newsRepo      repository.NewsItemRepository
	aiClient      ai.Client
	logger        *logger.Logger
}

// NewSentimentAnalyzer creates a new SentimentAnalyzer.
func NewSentimentAnalyzer(
	sentimentRepo repository.SentimentRepository,
	gameRepo repository.GameRepository,
	patchRepo repository.PatchNoteRepository,
	newsRepo repository.NewsItemRepository,
	aiClient ai.Client,
	log *logger.Logger,
) *SentimentAnalyzer {
	return &SentimentAnalyzer{
		sentimentRepo: sentimentRepo,
		gameRepo:      gameRepo,
		patchRepo:     patchRepo,
		newsRepo:      newsRepo,
		aiClient:      aiClient,
		logger:        log,
	}
}

// Analyze returns the current sentiment record for a game, regenerating it
// when the stored one is older than SentimentTTL or force is set.
func (a *SentimentAnalyzer) Analyze(ctx context.Context, gameID uint, force bool) (*entity.GameSentiment, error) {
	game, err := a.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load game %d: %v", ErrPersistence, gameID, err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}

	existing, err := a.sentimentRepo.FindByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to check existing sentiment: %v", ErrPersistence, err)
	}
	if existing != nil && !force && time.Since(existing.LastAnalyzedAt) < SentimentTTL {
		return existing, nil
	}

	items, err := a.collectSourceItems(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no enriched content to analyze for game %d", ErrInvalidInput, gameID)
	}

	system, user := ai.BuildSentimentPrompt(game.Name, items)

	var result ai.SentimentSchema
	if err := a.aiClient.GenerateJSON(ctx, system, user, ai.Options{}, &result); err != nil {
		return nil, fmt.Errorf("%w: sentiment analysis: %v", ErrUpstream, err)
	}
	result.Sanitize()

	sentiment := &entity.GameSentiment{
		GameID:          gameID,
		Level:           result.Level,
		Score:           result.Score,
		Trend:           result.Trend,
		PositiveFactors: result.PositiveFactors,
		NegativeFactors: result.NegativeFactors,
		AnalysisCount:   1,
		LastAnalyzedAt:  time.Now(),
	}
	if existing != nil {
		sentiment.AnalysisCount = existing.AnalysisCount + 1
	}

	if err := a.sentimentRepo.Upsert(ctx, sentiment); err != nil {
		return nil, fmt.Errorf("%w: failed to save sentiment: %v", ErrPersistence, err)
	}

	a.logger.Info("Game sentiment analyzed",
		logger.Field("game_id", gameID),
		logger.StringField("level", sentiment.Level),
		logger.Field("score", sentiment.Score))

	return sentiment, nil
}

func (a *SentimentAnalyzer) collectSourceItems(ctx context.Context, gameID uint) ([]string, error) {
	since := time.Now().Add(-sentimentSourceWindow)

	patches, err := a.patchRepo.FindByGameSince(ctx, gameID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load patches: %v", ErrPersistence, err)
	}
	news, err := a.newsRepo.FindByGameSince(ctx, gameID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load news: %v", ErrPersistence, err)
	}

	var items []string
	for _, p := range patches {
		if p.Summary != nil {
			items = append(items, fmt.Sprintf("[patch] %s: %s", p.Title, p.Summary.Summary))
		}
	}
	for _, n := range news {
		if n.Summary != nil {
			items = append(items, fmt.Sprintf("[news] %s: %s", n.Title, n.Summary.Summary))
		}
	}
	return items, nil
}
