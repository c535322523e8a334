package enrich

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchpulse/internal/entity"
)

func whatsNewFixture(t *testing.T, aiClient *fakeAIClient) (*WhatsNewGenerator, *fakeWhatsNewCacheRepo, *fakePatchRepo, *fakeNewsRepo) {
	t.Helper()
	cacheRepo := &fakeWhatsNewCacheRepo{}
	gameRepo := newFakeGameRepo(&entity.Game{ID: 1, Name: "Starfall"})
	patchRepo := newFakePatchRepo()
	newsRepo := newFakeNewsRepo()
	gen := NewWhatsNewGenerator(cacheRepo, gameRepo, patchRepo, newsRepo, aiClient, testLogger(t))
	return gen, cacheRepo, patchRepo, newsRepo
}

func TestWhatsNewUnknownGame(t *testing.T) {
	gen, _, _, _ := whatsNewFixture(t, &fakeAIClient{})

	_, err := gen.Generate(context.Background(), 1, 77, time.Now(), false)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWhatsNewCacheHitServedVerbatim(t *testing.T) {
	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	aiClient := &fakeAIClient{response: `{"summary": "fresh"}`}
	gen, cacheRepo, _, _ := whatsNewFixture(t, aiClient)
	cacheRepo.row = &entity.WhatsNewCache{
		UserID:     1,
		GameID:     1,
		SinceDate:  since,
		Summary:    "Two patches landed.",
		PatchCount: 2,
		NewsCount:  1,
		ExpiresAt:  time.Now().Add(time.Hour),
	}

	result, err := gen.Generate(context.Background(), 1, 1, since, false)

	require.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Equal(t, "Two patches landed.", result.Summary)
	assert.Equal(t, 2, result.PatchCount)
	assert.Zero(t, aiClient.calls)
}

func TestWhatsNewCacheInvalidForDifferentSince(t *testing.T) {
	cachedSince := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	aiClient := &fakeAIClient{response: `{"summary": "regenerated"}`}
	gen, cacheRepo, patchRepo, _ := whatsNewFixture(t, aiClient)
	cacheRepo.row = &entity.WhatsNewCache{
		UserID:    1,
		GameID:    1,
		SinceDate: cachedSince,
		Summary:   "stale",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	patchRepo.sinceRows = []entity.PatchNote{{ID: 1, GameID: 1, Title: "Patch 2.1"}}

	result, err := gen.Generate(context.Background(), 1, 1, cachedSince.Add(48*time.Hour), false)

	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, "regenerated", result.Summary)
	assert.Equal(t, 1, aiClient.calls)
}

func TestWhatsNewEmptySourcesFallbackIsCached(t *testing.T) {
	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	aiClient := &fakeAIClient{response: `{"summary": "unused"}`}
	gen, cacheRepo, _, _ := whatsNewFixture(t, aiClient)

	result, err := gen.Generate(context.Background(), 1, 1, since, false)

	require.NoError(t, err)
	assert.Equal(t, WhatsNewEmptyFallback, result.Summary)
	assert.False(t, result.Degraded)
	assert.Zero(t, aiClient.calls, "no model call for an empty window")
	require.Len(t, cacheRepo.upserts, 1)
	assert.Equal(t, WhatsNewEmptyFallback, cacheRepo.upserts[0].Summary)
	assert.True(t, cacheRepo.upserts[0].SinceDate.Equal(since))
}

func TestWhatsNewDegradesOnUpstreamFailureWithoutCaching(t *testing.T) {
	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	gen, cacheRepo, patchRepo, newsRepo := whatsNewFixture(t, &fakeAIClient{err: errors.New("timeout")})
	patchRepo.sinceRows = []entity.PatchNote{
		{ID: 1, GameID: 1, Title: "Patch 2.1"},
		{ID: 2, GameID: 1, Title: "Patch 2.2"},
	}
	newsRepo.sinceRows = []entity.NewsItem{{ID: 1, Title: "Expansion teased"}}

	result, err := gen.Generate(context.Background(), 1, 1, since, false)

	require.NoError(t, err, "degraded output is not an error")
	assert.True(t, result.Degraded)
	expected := fmt.Sprintf("%s shipped %d patch(es) and made %d news headline(s) since you last played. Worth a look!",
		"Starfall", 2, 1)
	assert.Equal(t, expected, result.Summary)
	assert.Empty(t, cacheRepo.upserts, "degraded output must not be cached")
}

func TestWhatsNewSuccessIsCached(t *testing.T) {
	since := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	aiClient := &fakeAIClient{response: `{"summary": "A lot changed."}`}
	gen, cacheRepo, patchRepo, _ := whatsNewFixture(t, aiClient)
	patchRepo.sinceRows = []entity.PatchNote{{ID: 1, GameID: 1, Title: "Patch 2.1",
		Summary: &entity.PatchSummary{PatchNoteID: 1, Summary: "Balance pass."}}}

	result, err := gen.Generate(context.Background(), 1, 1, since, false)

	require.NoError(t, err)
	assert.Equal(t, "A lot changed.", result.Summary)
	assert.Equal(t, 1, result.PatchCount)
	require.Len(t, cacheRepo.upserts, 1)
	assert.Equal(t, "A lot changed.", cacheRepo.upserts[0].Summary)
}
