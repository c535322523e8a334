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

// PatchEnricher turns raw patch notes into structured summaries.
type PatchEnricher struct {
	patchRepo repository.PatchNoteRepository
	gameRepo  repository.GameRepository
	aiClient  ai.Client
	logger    *logger.Logger
}

// NewPatchEnricher creates a new PatchEnricher.
func NewPatchEnricher(
	patchRepo repository.PatchNoteRepository,
	gameRepo repository.GameRepository,
	aiClient ai.Client,
	log *logger.Logger,
) *PatchEnricher {
	return &PatchEnricher{
		patchRepo: patchRepo,
		gameRepo:  gameRepo,
		aiClient:  aiClient,
		logger:    log,
	}
}

// Enrich generates and persists the summary for a patch note. When a summary
// already exists and force is false, the stored one is returned without a
// model call. An upstream failure propagates to the caller; this job has no
// degraded fallback.
func (e *PatchEnricher) Enrich(ctx context.Context, patchNoteID uint, force bool) (*entity.PatchSummary, error) {
	patch, err := e.patchRepo.FindByID(ctx, patchNoteID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load patch note %d: %v", ErrPersistence, patchNoteID, err)
	}
	if patch == nil {
		return nil, fmt.Errorf("%w: patch note %d", ErrNotFound, patchNoteID)
	}

	if !force {
		existing, err := e.patchRepo.FindSummary(ctx, patchNoteID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to check existing summary: %v", ErrPersistence, err)
		}
		if existing != nil {
			return existing, nil
		}
	}

	if len(strings.TrimSpace(patch.RawText)) < MinSourceTextLen {
		return nil, fmt.Errorf("%w: patch note %d raw text below %d characters", ErrInvalidInput, patchNoteID, MinSourceTextLen)
	}

	gameName := ""
	if patch.Game != nil {
		gameName = patch.Game.Name
	}

	system, user := ai.BuildPatchSummaryPrompt(gameName, patch.Title, patch.RawText)

	var result ai.PatchSummarySchema
	if err := e.aiClient.GenerateJSON(ctx, system, user, ai.Options{}, &result); err != nil {
		return nil, fmt.Errorf("%w: patch summary generation: %v", ErrUpstream, err)
	}
	result.Sanitize()

	summary := &entity.PatchSummary{
		PatchNoteID: patchNoteID,
		Summary:     result.Summary,
		TLDR:        result.TLDR,
		ChangeTags:  result.ChangeTags,
		ImpactScore: result.ImpactScore,
		Priority:    result.Priority,
		Buffs:       result.Buffs,
		Nerfs:       result.Nerfs,
		NewSystems:  result.NewSystems,
	}

	if err := e.patchRepo.UpsertSummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("%w: failed to save patch summary: %v", ErrPersistence, err)
	}

	// Secondary bookkeeping must not block returning the summary.
	if patch.PublishedAt != nil {
		if err := e.gameRepo.UpdateLastPatchAt(ctx, patch.GameID, *patch.PublishedAt); err != nil {
			e.logger.Warn("Failed to update game last patch timestamp",
				logger.ErrorField(err), logger.Field("game_id", patch.GameID))
		}
	}

	e.logger.Info("Patch note enriched",
		logger.Field("patch_note_id", patchNoteID),
		logger.Field("impact_score", summary.ImpactScore))

	return summary, nil
}
