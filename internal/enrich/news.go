package enrich

import (
	"context"
	"fmt"
	"strings"

	"patchpulse/internal/ai"
	"patchpulse/internal/entity"
	"patchpulse/internal/repository"
	"patchpulse/pkg/logger"
)

// NewsEnricher turns raw news items into structured summaries.
type NewsEnricher struct {
	newsRepo repository.NewsItemRepository
	aiClient ai.Client
	logger   *logger.Logger
}

// NewNewsEnricher creates a new NewsEnricher.
func NewNewsEnricher(
	newsRepo repository.NewsItemRepository,
	aiClient ai.Client,
	log *logger.Logger,
) *NewsEnricher {
	return &NewsEnricher{
		newsRepo: newsRepo,
		aiClient: aiClient,
		logger:   log,
	}
}

// Enrich generates and persists the summary for a news item. Idempotent for
// an already-enriched id unless force is set. Upstream failures surface.
func (e *NewsEnricher) Enrich(ctx context.Context, newsItemID uint, force bool) (*entity.NewsSummary, error) {
	item, err := e.newsRepo.FindByID(ctx, newsItemID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load news item %d: %v", ErrPersistence, newsItemID, err)
	}
	if item == nil {
		return nil, fmt.Errorf("%w: news item %d", ErrNotFound, newsItemID)
	}

	if !force {
		existing, err := e.newsRepo.FindSummary(ctx, newsItemID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to check existing summary: %v", ErrPersistence, err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	if len(strings.TrimSpace(item.RawText)) < MinSourceTextLen {
		return nil, fmt.Errorf("%w: news item %d raw text below %d characters", ErrInvalidInput, newsItemID, MinSourceTextLen)
	}

	gameName := ""
	if item.Game != nil {
		gameName = item.Game.Name
	}

	system, user := ai.BuildNewsSummaryPrompt(gameName, item.Title, item.RawText)

	var result ai.NewsSummarySchema
	if err := e.aiClient.GenerateJSON(ctx, system, user, ai.Options{}, &result); err != nil {
		return nil, fmt.Errorf("%w: news summary generation: %v", ErrUpstream, err)
	}
	result.Sanitize()

	summary := &entity.NewsSummary{
		NewsItemID:  newsItemID,
		Summary:     result.Summary,
		Topics:      result.Topics,
		ImpactScore: result.ImpactScore,
		Priority:    result.Priority,
		IsRumor:     result.IsRumor,
	}

	if err := e.newsRepo.UpsertSummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("%w: failed to save news summary: %v", ErrPersistence, err)
	}

	e.logger.Info("News item enriched",
		logger.Field("news_item_id", newsItemID),
		logger.Field("is_rumor", summary.IsRumor))

	return summary, nil
}
