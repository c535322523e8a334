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

// DigestTTL is how long a cached digest stays valid.
const DigestTTL = 24 * time.Hour

// Digest types.
const (
	DigestTypeDaily  = "daily"
	DigestTypeWeekly = "weekly"
)

// DigestResult is the outcome of a digest generation.
type DigestResult struct {
	Content     string `json:"content"`
	SourceCount int    `json:"source_count"`
	FromCache   bool   `json:"from_cache"`
	Degraded    bool   `json:"degraded"`
}

// DigestGenerator produces per-user digests across followed games.
type DigestGenerator struct {
	cacheRepo    repository.DigestCacheRepository
	userGameRepo repository.UserGameRepository
	patchRepo    repository.PatchNoteRepository
	newsRepo     repository.NewsItemRepository
	aiClient     ai.Client
	logger       *logger.Logger
}

// NewDigestGenerator creates a new DigestGenerator.
func NewDigestGenerator(
	cacheRepo repository.DigestCacheRepository,
	userGameRepo repository.UserGameRepository,
	patchRepo repository.PatchNoteRepository,
	newsRepo repository.NewsItemRepository,
	aiClient ai.Client,
	log *logger.Logger,
) *DigestGenerator {
	return &DigestGenerator{
		cacheRepo:    cacheRepo,
		userGameRepo: userGameRepo,
		patchRepo:    patchRepo,
		newsRepo:     newsRepo,
		aiClient:     aiClient,
		logger:       log,
	}
}

// Generate returns the digest for a user and date. Valid cache rows are
// served verbatim; an upstream failure degrades to a templated count summary
// that is not cached.
func (g *DigestGenerator) Generate(ctx context.Context, userID uint, date time.Time, digestType string, force bool) (*DigestResult, error) {
	if digestType != DigestTypeDaily && digestType != DigestTypeWeekly {
		return nil, fmt.Errorf("%w: unknown digest type %q", ErrInvalidInput, digestType)
	}
	dateKey := date.Format("2006-01-02")

	if !force {
		cached, err := g.cacheRepo.Find(ctx, userID, dateKey, digestType)
		if err != nil {
			g.logger.Warn("Digest cache lookup failed", logger.ErrorField(err))
		} else if cached != nil && cached.IsValid(time.Now()) {
			return &DigestResult{
				Content:     cached.Content,
				SourceCount: cached.SourceCount,
				FromCache:   true,
			}, nil
		}
	}

	window := 24 * time.Hour
	if digestType == DigestTypeWeekly {
		window = 7 * 24 * time.Hour
	}
	since := date.Add(-window)

	gameIDs, err := g.userGameRepo.FindFollowedGameIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load followed games: %v", ErrPersistence, err)
	}

	var items []string
	for _, gameID := range gameIDs {
		patches, err := g.patchRepo.FindByGameSince(ctx, gameID, since)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load patches: %v", ErrPersistence, err)
		}
		for _, p := range patches {
			if p.Summary != nil {
				items = append(items, fmt.Sprintf("[patch] %s: %s", p.Title, p.Summary.Summary))
			}
		}
		news, err := g.newsRepo.FindByGameSince(ctx, gameID, since)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load news: %v", ErrPersistence, err)
		}
		for _, n := range news {
			if n.Summary != nil {
				items = append(items, fmt.Sprintf("[news] %s: %s", n.Title, n.Summary.Summary))
			}
		}
	}

	result := &DigestResult{SourceCount: len(items)}

	if len(items) == 0 {
		result.Content = "Nothing new across your followed games. Check back later!"
		g.writeCache(ctx, userID, dateKey, digestType, result)
		return result, nil
	}

	system, user := ai.BuildDigestPrompt(digestType, items)

	var generated ai.DigestSchema
	if err := g.aiClient.GenerateJSON(ctx, system, user, ai.Options{}, &generated); err != nil {
		g.logger.Error("Digest generation degraded to fallback", logger.ErrorField(err),
			logger.Field("user_id", userID))
		result.Content = fmt.Sprintf("%d update(s) landed across your followed games. Open the app for details.", len(items))
		result.Degraded = true
		return result, nil
	}
	generated.Sanitize()
	result.Content = generated.Content

	g.writeCache(ctx, userID, dateKey, digestType, result)
	return result, nil
}

func (g *DigestGenerator) writeCache(ctx context.Context, userID uint, dateKey, digestType string, result *DigestResult) {
	row := &entity.DigestCache{
		UserID:      userID,
		DigestDate:  dateKey,
		DigestType:  digestType,
		Content:     result.Content,
		SourceCount: result.SourceCount,
		ExpiresAt:   time.Now().Add(DigestTTL),
	}
	if err := g.cacheRepo.Upsert(ctx, row); err != nil {
		g.logger.Warn("Failed to write digest cache", logger.ErrorField(err),
			logger.Field("user_id", userID))
	}
}
