package service

import (
	"context"
	"fmt"
	"time"

	"patchpulse/internal/api/dto"
	"patchpulse/internal/enrich"
	"patchpulse/internal/entity"
	"patchpulse/internal/repository"
	"patchpulse/pkg/logger"
)

// InsightService defines the interface for reader-facing enriched content:
// whats-new summaries, digests, sentiment and return suggestions.
type InsightService interface {
	WhatsNew(ctx context.Context, userID, gameID uint, since *time.Time, force bool) (*dto.WhatsNewResponse, error)
	Digest(ctx context.Context, userID uint, date time.Time, digestType string, force bool) (*dto.DigestResponse, error)
	Sentiment(ctx context.Context, gameID uint, refresh bool) (*entity.GameSentiment, error)
	Suggestions(ctx context.Context, userID uint, includeDismissed bool) ([]entity.ReturnSuggestion, error)
	DismissSuggestion(ctx context.Context, userID, id uint) error
	ActOnSuggestion(ctx context.Context, userID, id uint) error
}

// NewInsightService creates a new insight service.
func NewInsightService(
	whatsNew *enrich.WhatsNewGenerator,
	digest *enrich.DigestGenerator,
	sentimentAnalyzer *enrich.SentimentAnalyzer,
	sentimentRepo repository.SentimentRepository,
	suggestionRepo repository.ReturnSuggestionRepository,
	userGameRepo repository.UserGameRepository,
	log *logger.Logger,
) InsightService {
	return &insightService{
		whatsNew:          whatsNew,
		digest:            digest,
		sentimentAnalyzer: sentimentAnalyzer,
		sentimentRepo:     sentimentRepo,
		suggestionRepo:    suggestionRepo,
		userGameRepo:      userGameRepo,
		logger:            log,
	}
}

type insightService struct {
	whatsNew          *enrich.WhatsNewGenerator
	digest            *enrich.DigestGenerator
	sentimentAnalyzer *enrich.SentimentAnalyzer
	sentimentRepo     repository.SentimentRepository
	suggestionRepo    repository.ReturnSuggestionRepository
	userGameRepo      repository.UserGameRepository
	logger            *logger.Logger
}

// WhatsNew builds the catch-up summary. When no since date is given it falls
// back to the user's backlog last-played date for the game.
func (s *insightService) WhatsNew(ctx context.Context, userID, gameID uint, since *time.Time, force bool) (*dto.WhatsNewResponse, error) {
	if since == nil {
		entry, err := s.userGameRepo.FindBacklogEntry(ctx, userID, gameID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to find backlog entry: %v", enrich.ErrPersistence, err)
		}
		if entry == nil || entry.LastPlayedAt == nil {
			return nil, fmt.Errorf("%w: no since date and no last played date on record", enrich.ErrInvalidInput)
		}
		since = entry.LastPlayedAt
	}

	result, err := s.whatsNew.Generate(ctx, userID, gameID, *since, force)
	if err != nil {
		return nil, err
	}
	return &dto.WhatsNewResponse{
		Summary:    result.Summary,
		PatchCount: result.PatchCount,
		NewsCount:  result.NewsCount,
		FromCache:  result.FromCache,
		Degraded:   result.Degraded,
	}, nil
}

func (s *insightService) Digest(ctx context.Context, userID uint, date time.Time, digestType string, force bool) (*dto.DigestResponse, error) {
	result, err := s.digest.Generate(ctx, userID, date, digestType, force)
	if err != nil {
		return nil, err
	}
	return &dto.DigestResponse{
		Content:     result.Content,
		SourceCount: result.SourceCount,
		FromCache:   result.FromCache,
		Degraded:    result.Degraded,
	}, nil
}

// Sentiment returns the stored rollup, refreshing it through the analyzer
// when asked, when nothing is stored yet, or when the stored record has aged
// past its read validity window.
func (s *insightService) Sentiment(ctx context.Context, gameID uint, refresh bool) (*entity.GameSentiment, error) {
	if refresh {
		return s.sentimentAnalyzer.Analyze(ctx, gameID, true)
	}
	stored, err := s.sentimentRepo.FindByGameID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find sentiment: %v", enrich.ErrPersistence, err)
	}
	if stored != nil && time.Since(stored.LastAnalyzedAt) < enrich.SentimentTTL {
		return stored, nil
	}
	return s.sentimentAnalyzer.Analyze(ctx, gameID, false)
}

func (s *insightService) Suggestions(ctx context.Context, userID uint, includeDismissed bool) ([]entity.ReturnSuggestion, error) {
	return s.suggestionRepo.FindByUser(ctx, userID, includeDismissed)
}

func (s *insightService) DismissSuggestion(ctx context.Context, userID, id uint) error {
	if err := s.suggestionRepo.SetDismissed(ctx, userID, id); err != nil {
		return fmt.Errorf("%w: failed to dismiss suggestion: %v", enrich.ErrPersistence, err)
	}
	return nil
}

func (s *insightService) ActOnSuggestion(ctx context.Context, userID, id uint) error {
	if err := s.suggestionRepo.SetActedOn(ctx, userID, id); err != nil {
		return fmt.Errorf("%w: failed to mark suggestion acted on: %v", enrich.ErrPersistence, err)
	}
	return nil
}
