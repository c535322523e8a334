package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchpulse/internal/ai"
	"patchpulse/internal/entity"
)

const patchResponse = `{
	"summary": "Big balance pass across all classes.",
	"tldr": "Balance pass.",
	"change_tags": ["balance", "bugfix"],
	"impact_score": 8,
	"priority": 4,
	"buffs": 6,
	"nerfs": 3,
	"new_systems": 0
}`

func testPatchNote(id uint) *entity.PatchNote {
	published := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &entity.PatchNote{
		ID:          id,
		GameID:      1,
		Title:       "Patch 2.1",
		RawText:     "Buffed six classes, nerfed three, fixed a dozen crash bugs.",
		PublishedAt: &published,
		Game:        &entity.Game{ID: 1, Name: "Starfall"},
	}
}

func TestPatchEnricherNotFound(t *testing.T) {
	aiClient := &fakeAIClient{response: patchResponse}
	enricher := NewPatchEnricher(newFakePatchRepo(), newFakeGameRepo(), aiClient, testLogger(t))

	_, err := enricher.Enrich(context.Background(), 42, false)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, aiClient.calls)
}

func TestPatchEnricherShortSourceFailsWithoutModelCall(t *testing.T) {
	patchRepo := newFakePatchRepo()
	patch := testPatchNote(1)
	patch.RawText = "tiny"
	patchRepo.patches[1] = patch
	aiClient := &fakeAIClient{response: patchResponse}
	enricher := NewPatchEnricher(patchRepo, newFakeGameRepo(), aiClient, testLogger(t))

	_, err := enricher.Enrich(context.Background(), 1, false)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, aiClient.calls)
}

func TestPatchEnricherClampsImpactScore(t *testing.T) {
	patchRepo := newFakePatchRepo()
	patchRepo.patches[1] = testPatchNote(1)
	aiClient := &fakeAIClient{response: `{
		"summary": "Huge patch.",
		"tldr": "Huge.",
		"change_tags": ["balance"],
		"impact_score": 15,
		"priority": 9,
		"buffs": 1,
		"nerfs": 0,
		"new_systems": 0
	}`}
	enricher := NewPatchEnricher(patchRepo, newFakeGameRepo(), aiClient, testLogger(t))

	summary, err := enricher.Enrich(context.Background(), 1, false)

	require.NoError(t, err)
	assert.Equal(t, float64(ai.MaxImpactScore), summary.ImpactScore)
	assert.Equal(t, ai.MaxPriority, summary.Priority)
}

func TestPatchEnricherIdempotent(t *testing.T) {
	patchRepo := newFakePatchRepo()
	patchRepo.patches[1] = testPatchNote(1)
	aiClient := &fakeAIClient{response: patchResponse}
	enricher := NewPatchEnricher(patchRepo, newFakeGameRepo(), aiClient, testLogger(t))

	first, err := enricher.Enrich(context.Background(), 1, false)
	require.NoError(t, err)
	require.Equal(t, 1, aiClient.calls)

	second, err := enricher.Enrich(context.Background(), 1, false)
	require.NoError(t, err)

	assert.Equal(t, 1, aiClient.calls, "second call must not hit the model")
	assert.Equal(t, first, second)
}

func TestPatchEnricherForceRegenerates(t *testing.T) {
	patchRepo := newFakePatchRepo()
	patchRepo.patches[1] = testPatchNote(1)
	aiClient := &fakeAIClient{response: patchResponse}
	enricher := NewPatchEnricher(patchRepo, newFakeGameRepo(), aiClient, testLogger(t))

	_, err := enricher.Enrich(context.Background(), 1, false)
	require.NoError(t, err)

	_, err = enricher.Enrich(context.Background(), 1, true)
	require.NoError(t, err)

	assert.Equal(t, 2, aiClient.calls)
}

func TestPatchEnricherUpstreamFailure(t *testing.T) {
	patchRepo := newFakePatchRepo()
	patchRepo.patches[1] = testPatchNote(1)
	aiClient := &fakeAIClient{err: errors.New("model unavailable")}
	enricher := NewPatchEnricher(patchRepo, newFakeGameRepo(), aiClient, testLogger(t))

	_, err := enricher.Enrich(context.Background(), 1, false)

	assert.ErrorIs(t, err, ErrUpstream)
	assert.Empty(t, patchRepo.summaries, "nothing persisted on upstream failure")
}

func TestPatchEnricherPersistenceFailure(t *testing.T) {
	patchRepo := newFakePatchRepo()
	patchRepo.patches[1] = testPatchNote(1)
	patchRepo.upsertErr = errors.New("connection reset")
	enricher := NewPatchEnricher(patchRepo, newFakeGameRepo(), &fakeAIClient{response: patchResponse}, testLogger(t))

	_, err := enricher.Enrich(context.Background(), 1, false)

	assert.ErrorIs(t, err, ErrPersistence)
}

func TestPatchEnricherUpdatesGameLastPatchAt(t *testing.T) {
	patchRepo := newFakePatchRepo()
	patch := testPatchNote(1)
	patchRepo.patches[1] = patch
	gameRepo := newFakeGameRepo(&entity.Game{ID: 1, Name: "Starfall"})
	enricher := NewPatchEnricher(patchRepo, gameRepo, &fakeAIClient{response: patchResponse}, testLogger(t))

	_, err := enricher.Enrich(context.Background(), 1, false)

	require.NoError(t, err)
	assert.Equal(t, *patch.PublishedAt, gameRepo.lastPatchAt[1])
}
