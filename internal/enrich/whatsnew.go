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

// WhatsNewTTL is how long a cached whats-new summary stays valid.
const WhatsNewTTL = 24 * time.Hour

// WhatsNewEmptyFallback is returned, and cached, when nothing happened for
// the game since the player last played.
const WhatsNewEmptyFallback = "No major updates since you last played! Jump back in and pick up where you left off."

// WhatsNewResult is the outcome of a whats-new generation. Degraded marks a
// deterministic fallback produced after an upstream failure; FromCache marks
// a verbatim cache hit.
type WhatsNewResult struct {
	Summary    string `json:"summary"`
	PatchCount int    `json:"patch_count"`
	NewsCount  int    `json:"news_count"`
	FromCache  bool   `json:"from_cache"`
	Degraded   bool   `json:"degraded"`
}

// WhatsNewGenerator produces the "what changed since you last played" summary.
type WhatsNewGenerator struct {
	cacheRepo repository.WhatsNewCacheRepository
	gameRepo  repository.GameRepository
	patchRepo repository.PatchNoteRepository
	newsRepo  repository.NewsItemRepository
	aiClient  ai.Client
	logger    *logger.Logger
}

// NewWhatsNewGenerator creates a new WhatsNewGenerator.
func NewWhatsNewGenerator(
	cacheRepo repository.WhatsNewCacheRepository,
	gameRepo repository.GameRepository,
	patchRepo repository.PatchNoteRepository,
	newsRepo repository.NewsItemRepository,
	aiClient ai.Client,
	log *logger.Logger,
) *WhatsNewGenerator {
	return &WhatsNewGenerator{
		cacheRepo: cacheRepo,
		gameRepo:  gameRepo,
		patchRepo: patchRepo,
		newsRepo:  newsRepo,
		aiClient:  aiClient,
		logger:    log,
	}
}

// Generate returns the whats-new summary for a (user, game) pair since the
// given timestamp. A valid cache row is returned verbatim. An upstream
// failure degrades to a templated string built from the known counts instead
// of surfacing an error; degraded output is not cached so a later call can
// try the model again.
func (g *WhatsNewGenerator) Generate(ctx context.Context, userID, gameID uint, since time.Time, force bool) (*WhatsNewResult, error) {
	game, err := g.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load game %d: %v", ErrPersistence, gameID, err)
	}
	if game == nil {
		return nil, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}

	if !force {
		cached, err := g.cacheRepo.Find(ctx, userID, gameID)
		if err != nil {
			g.logger.Warn("Whats-new cache lookup failed", logger.ErrorField(err))
		} else if cached != nil && cached.IsValidFor(time.Now(), since) {
			return &WhatsNewResult{
				Summary:    cached.Summary,
				PatchCount: cached.PatchCount,
				NewsCount:  cached.NewsCount,
				FromCache:  true,
			}, nil
		}
	}

	patches, err := g.patchRepo.FindByGameSince(ctx, gameID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load patches: %v", ErrPersistence, err)
	}
	news, err := g.newsRepo.FindByGameSince(ctx, gameID, since)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load news: %v", ErrPersistence, err)
	}

	result := &WhatsNewResult{
		PatchCount: len(patches),
		NewsCount:  len(news),
	}

	if len(patches) == 0 && len(news) == 0 {
		result.Summary = WhatsNewEmptyFallback
		g.writeCache(ctx, userID, gameID, since, result)
		return result, nil
	}

	patchLines := make([]string, 0, len(patches))
	for _, p := range patches {
		if p.Summary != nil {
			patchLines = append(patchLines, fmt.Sprintf("%s: %s", p.Title, p.Summary.Summary))
		} else {
			patchLines = append(patchLines, p.Title)
		}
	}
	newsLines := make([]string, 0, len(news))
	for _, n := range news {
		if n.Summary != nil {
			newsLines = append(newsLines, fmt.Sprintf("%s: %s", n.Title, n.Summary.Summary))
		} else {
			newsLines = append(newsLines, n.Title)
		}
	}

	system, user := ai.BuildWhatsNewPrompt(game.Name, since, patchLines, newsLines)

	var generated ai.WhatsNewSchema
	if err := g.aiClient.GenerateJSON(ctx, system, user, ai.Options{}, &generated); err != nil {
		g.logger.Error("Whats-new generation degraded to fallback", logger.ErrorField(err),
			logger.Field("game_id", gameID))
		result.Summary = fmt.Sprintf("%s shipped %d patch(es) and made %d news headline(s) since you last played. Worth a look!",
			game.Name, len(patches), len(news))
		result.Degraded = true
		return result, nil
	}
	generated.Sanitize()
	result.Summary = generated.Summary

	g.writeCache(ctx, userID, gameID, since, result)
	return result, nil
}

// writeCache upserts the cache row; failures are logged only, never surfaced.
func (g *WhatsNewGenerator) writeCache(ctx context.Context, userID, gameID uint, since time.Time, result *WhatsNewResult) {
	row := &entity.WhatsNewCache{
		UserID:     userID,
		GameID:     gameID,
		SinceDate:  since,
		Summary:    result.Summary,
		PatchCount: result.PatchCount,
		NewsCount:  result.NewsCount,
		ExpiresAt:  time.Now().Add(WhatsNewTTL),
	}
	if err := g.cacheRepo.Upsert(ctx, row); err != nil {
		g.logger.Warn("Failed to write whats-new cache", logger.ErrorField(err),
			logger.Field("user_id", userID), logger.Field("game_id", gameID))
	}
}
