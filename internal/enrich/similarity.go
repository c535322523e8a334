package enrich

import (
	"context"
	"fmt"

	"patchpulse/internal/ai"
	"patchpulse/internal/entity"
	"patchpulse/internal/repository"
	"patchpulse/pkg/logger"
)

// maxSimilarityComparisons caps model calls for one similarity scan.
const maxSimilarityComparisons = 10

// SimilarityAnalyzer scores how similar a game is to the rest of the catalog.
type SimilarityAnalyzer struct {
	similarityRepo repository.GameSimilarityRepository
	gameRepo       repository.GameRepository
	aiClient       ai.Client
	logger         *logger.Logger
}

// NewSimilarityAnalyzer creates a new SimilarityAnalyzer.
func NewSimilarityAnalyzer(
	similarityRepo repository.GameSimilarityRepository,
	gameRepo repository.GameRepository,
	aiClient ai.Client,
	log *logger.Logger,
) *SimilarityAnalyzer {
	return &SimilarityAnalyzer{
		similarityRepo: similarityRepo,
		gameRepo:       gameRepo,
		aiClient:       aiClient,
		logger:         log,
	}
}

// Analyze compares a game against other catalog entries it has no stored
// similarity for yet, capped per scan. Already-scored pairs are skipped, so
// repeated scans converge without extra model calls.
func (a *SimilarityAnalyzer) Analyze(ctx context.Context, gameID uint) ([]entity.GameSimilarity, error) {
	game, err := a.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load game %d: %v", ErrPersistence, gameID, err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}

	others, err := a.gameRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load catalog: %v", ErrPersistence, err)
	}

	var scored []entity.GameSimilarity
	comparisons := 0
	for i := range others {
		other := &others[i]
		if other.ID == gameID {
			continue
		}
		if comparisons >= maxSimilarityComparisons {
			break
		}

		exists, err := a.similarityRepo.Exists(ctx, gameID, other.ID)
		if err != nil {
			a.logger.Warn("Similarity existence check failed", logger.ErrorField(err))
			continue
		}
		if exists {
			continue
		}
		comparisons++

		system, user := ai.BuildSimilarityPrompt(game, other)

		var result ai.SimilaritySchema
		if err := a.aiClient.GenerateJSON(ctx, system, user, ai.Options{}, &result); err != nil {
			a.logger.Error("Similarity scoring failed", logger.ErrorField(err),
				logger.Field("game_id", gameID), logger.Field("other_game_id", other.ID))
			continue
		}
		result.Sanitize()

		sim := entity.GameSimilarity{
			GameID:        gameID,
			SimilarGameID: other.ID,
			Score:         result.Score,
			Reason:        result.Reason,
		}
		if err := a.similarityRepo.Upsert(ctx, &sim); err != nil {
			a.logger.Error("Failed to save similarity", logger.ErrorField(err))
			continue
		}
		scored = append(scored, sim)
	}

	return scored, nil
}
