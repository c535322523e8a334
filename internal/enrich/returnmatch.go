package enrich

import (
	"context"
	"fmt"

	"patchpulse/internal/ai"
	"patchpulse/internal/entity"
	"patchpulse/internal/repository"
	"patchpulse/pkg/logger"
)

// ReturnMatcher creates return-to-game suggestions when a new patch plausibly
// addresses why a player shelved the game.
type ReturnMatcher struct {
	suggestionRepo repository.ReturnSuggestionRepository
	userGameRepo   repository.UserGameRepository
	patchRepo      repository.PatchNoteRepository
	aiClient       ai.Client
	logger         *logger.Logger
}

// NewReturnMatcher creates a new ReturnMatcher.
func NewReturnMatcher(
	suggestionRepo repository.ReturnSuggestionRepository,
	userGameRepo repository.UserGameRepository,
	patchRepo repository.PatchNoteRepository,
	aiClient ai.Client,
	log *logger.Logger,
) *ReturnMatcher {
	return &ReturnMatcher{
		suggestionRepo: suggestionRepo,
		userGameRepo:   userGameRepo,
		patchRepo:      patchRepo,
		aiClient:       aiClient,
		logger:         log,
	}
}

// MatchPatch evaluates every shelved backlog entry for the patch's game and
// creates suggestions for matches above the confidence floor. A per-entry
// model failure skips that entry rather than aborting the scan. Returns the
// suggestions actually created.
func (m *ReturnMatcher) MatchPatch(ctx context.Context, patchNoteID uint) ([]entity.ReturnSuggestion, error) {
	patch, err := m.patchRepo.FindByID(ctx, patchNoteID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load patch note %d: %v", ErrPersistence, patchNoteID, err)
	}
	if patch == nil {
		return nil, fmt.Errorf("%w: patch note %d", ErrNotFound, patchNoteID)
	}
	if patch.Summary == nil {
		return nil, fmt.Errorf("%w: patch note %d has not been enriched yet", ErrInvalidInput, patchNoteID)
	}

	gameName := ""
	if patch.Game != nil {
		gameName = patch.Game.Name
	}

	entries, err := m.userGameRepo.FindShelvedBacklogByGame(ctx, patch.GameID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load backlog entries: %v", ErrPersistence, err)
	}

	var created []entity.ReturnSuggestion
	for _, entry := range entries {
		exists, err := m.suggestionRepo.Exists(ctx, entry.UserID, entry.GameID, patchNoteID)
		if err != nil {
			m.logger.Warn("Suggestion existence check failed", logger.ErrorField(err))
			continue
		}
		if exists {
			continue
		}

		system, user := ai.BuildReturnMatchPrompt(gameName, entry.Status, entry.Notes, patch.Summary.Summary)

		var match ai.ReturnMatchSchema
		if err := m.aiClient.GenerateJSON(ctx, system, user, ai.Options{}, &match); err != nil {
			m.logger.Error("Return-match generation failed for entry", logger.ErrorField(err),
				logger.Field("user_id", entry.UserID), logger.Field("game_id", entry.GameID))
			continue
		}
		match.Sanitize()

		if match.Confidence <= entity.MinReturnMatchConfidence {
			continue
		}

		suggestion := entity.ReturnSuggestion{
			UserID:         entry.UserID,
			GameID:         entry.GameID,
			PatchNoteID:    patchNoteID,
			BacklogEntryID: entry.ID,
			MatchReason:    match.MatchReason,
			Confidence:     match.Confidence,
		}
		inserted, err := m.suggestionRepo.CreateIfAbsent(ctx, &suggestion)
		if err != nil {
			m.logger.Error("Failed to save return suggestion", logger.ErrorField(err))
			continue
		}
		if inserted {
			created = append(created, suggestion)
		}
	}

	m.logger.Info("Return-match scan completed",
		logger.Field("patch_note_id", patchNoteID),
		logger.IntField("candidates", len(entries)),
		logger.IntField("created", len(created)))

	return created, nil
}
