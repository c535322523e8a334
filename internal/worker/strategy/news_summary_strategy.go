package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"patchpulse/internal/alert"
	"patchpulse/internal/enrich"
	"patchpulse/internal/entity"
	"patchpulse/internal/notify"
	"patchpulse/internal/repository"
)

type newsSummaryStrategy struct {
	enricher   *enrich.NewsEnricher
	newsRepo   repository.NewsItemRepository
	dispatcher *notify.Dispatcher
}

// NewNewsSummaryStrategy creates the strategy that summarizes a news item and
// fans out notifications when the item belongs to a game.
func NewNewsSummaryStrategy(
	enricher *enrich.NewsEnricher,
	newsRepo repository.NewsItemRepository,
	dispatcher *notify.Dispatcher,
) JobExecutionStrategy {
	return &newsSummaryStrategy{
		enricher:   enricher,
		newsRepo:   newsRepo,
		dispatcher: dispatcher,
	}
}

func (s *newsSummaryStrategy) GetType() entity.JobType {
	return entity.JobTypeNewsSummary
}

func (s *newsSummaryStrategy) Execute(ctx context.Context, job *entity.EnrichmentJob) (string, error) {
	var payload NewsSummaryPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return "", fmt.Errorf("%w: invalid news summary payload: %v", enrich.ErrInvalidInput, err)
	}

	summary, err := s.enricher.Enrich(ctx, payload.NewsItemID, payload.Force)
	if err != nil {
		return "", err
	}

	item, err := s.newsRepo.FindByID(ctx, payload.NewsItemID)
	if err == nil && item != nil && item.Game != nil && !summary.IsRumor {
		ev := alert.ContentEvent{
			GameID:      item.Game.ID,
			ImpactScore: summary.ImpactScore,
			Priority:    summary.Priority,
		}
		s.dispatcher.DispatchContentEvent(ctx, item.Game, item.Title, summary.Summary, ev)
	}

	out, _ := json.Marshal(summary)
	return string(out), nil
}
