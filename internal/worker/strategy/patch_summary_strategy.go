package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"patchpulse/internal/alert"
	"patchpulse/internal/enrich"
	"patchpulse/internal/entity"
	"patchpulse/internal/notify"
	"patchpulse/internal/queue"
	"patchpulse/internal/repository"
	"patchpulse/pkg/logger"
)

type patchSummaryStrategy struct {
	enricher   *enrich.PatchEnricher
	patchRepo  repository.PatchNoteRepository
	dispatcher *notify.Dispatcher
	publisher  *queue.Publisher
	logger     *logger.Logger
}

// NewPatchSummaryStrategy creates the strategy that summarizes a patch note,
// fans out notifications to followers and chains a return-match job.
func NewPatchSummaryStrategy(
	enricher *enrich.PatchEnricher,
	patchRepo repository.PatchNoteRepository,
	dispatcher *notify.Dispatcher,
	publisher *queue.Publisher,
	log *logger.Logger,
) JobExecutionStrategy {
	return &patchSummaryStrategy{
		enricher:   enricher,
		patchRepo:  patchRepo,
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *patchSummaryStrategy) GetType() entity.JobType {
	return entity.JobTypePatchSummary
}

func (s *patchSummaryStrategy) Execute(ctx context.Context, job *entity.EnrichmentJob) (string, error) {
	var payload PatchSummaryPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return "", fmt.Errorf("%w: invalid patch summary payload: %v", enrich.ErrInvalidInput, err)
	}

	summary, err := s.enricher.Enrich(ctx, payload.PatchNoteID, payload.Force)
	if err != nil {
		return "", err
	}

	patch, err := s.patchRepo.FindByID(ctx, payload.PatchNoteID)
	if err == nil && patch != nil && patch.Game != nil {
		ev := alert.ContentEvent{
			GameID:      patch.GameID,
			ImpactScore: summary.ImpactScore,
			Priority:    summary.Priority,
			DiffStats: alert.DiffStats{
				Buffs:      summary.Buffs,
				Nerfs:      summary.Nerfs,
				NewSystems: summary.NewSystems,
			},
		}
		s.dispatcher.DispatchContentEvent(ctx, patch.Game, patch.Title, summary.TLDR, ev)
	}

	if _, err := s.publisher.Enqueue(ctx, entity.JobTypeReturnMatch, ReturnMatchPayload{PatchNoteID: payload.PatchNoteID}); err != nil {
		s.logger.Warn("Failed to enqueue return match job", logger.ErrorField(err), logger.Field("patch_note_id", payload.PatchNoteID))
	}

	out, _ := json.Marshal(summary)
	return string(out), nil
}
