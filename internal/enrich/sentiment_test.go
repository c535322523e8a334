package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchpulse/internal/entity"
)

const sentimentResponse = `{
	"level": "positive",
	"score": 0.7,
	"trend": "improving",
	"positive_factors": ["balance pass landed well", "fast bugfixes"],
	"negative_factors": ["server queues"]
}`

func sentimentFixture(t *testing.T, aiClient *fakeAIClient) (*SentimentAnalyzer, *fakeSentimentRepo, *fakePatchRepo, *fakeNewsRepo) {
	t.Helper()
	sentimentRepo := &fakeSentimentRepo{}
	gameRepo := newFakeGameRepo(&entity.Game{ID: 1, Name: "Starfall"})
	patchRepo := newFakePatchRepo()
	newsRepo := newFakeNewsRepo()
	analyzer := NewSentimentAnalyzer(sentimentRepo, gameRepo, patchRepo, newsRepo, aiClient, testLogger(t))
	return analyzer, sentimentRepo, patchRepo, newsRepo
}

func enrichedPatchRows() []entity.PatchNote {
	return []entity.PatchNote{{ID: 1, GameID: 1, Title: "Patch 2.1",
		Summary: &entity.PatchSummary{PatchNoteID: 1, Summary: "Balance pass."}}}
}

func TestSentimentUnknownGame(t *testing.T) {
	analyzer, _, _, _ := sentimentFixture(t, &fakeAIClient{})

	_, err := analyzer.Analyze(context.Background(), 99, false)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSentimentFreshRecordServedWithoutModelCall(t *testing.T) {
	aiClient := &fakeAIClient{response: sentimentResponse}
	analyzer, sentimentRepo, _, _ := sentimentFixture(t, aiClient)
	sentimentRepo.row = &entity.GameSentiment{
		GameID:         1,
		Level:          "neutral",
		AnalysisCount:  3,
		LastAnalyzedAt: time.Now().Add(-time.Hour),
	}

	result, err := analyzer.Analyze(context.Background(), 1, false)

	require.NoError(t, err)
	assert.Equal(t, "neutral", result.Level)
	assert.Equal(t, 3, result.AnalysisCount)
	assert.Zero(t, aiClient.calls)
}

func TestSentimentNoEnrichedContent(t *testing.T) {
	aiClient := &fakeAIClient{response: sentimentResponse}
	analyzer, _, patchRepo, _ := sentimentFixture(t, aiClient)
	patchRepo.sinceRows = []entity.PatchNote{{ID: 1, GameID: 1, Title: "Raw only"}}

	_, err := analyzer.Analyze(context.Background(), 1, false)

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, aiClient.calls)
}

func TestSentimentForceRegeneratesAndIncrementsCount(t *testing.T) {
	aiClient := &fakeAIClient{response: sentimentResponse}
	analyzer, sentimentRepo, patchRepo, _ := sentimentFixture(t, aiClient)
	sentimentRepo.row = &entity.GameSentiment{
		GameID:         1,
		AnalysisCount:  3,
		LastAnalyzedAt: time.Now().Add(-time.Hour),
	}
	patchRepo.sinceRows = enrichedPatchRows()

	result, err := analyzer.Analyze(context.Background(), 1, true)

	require.NoError(t, err)
	assert.Equal(t, 1, aiClient.calls)
	assert.Equal(t, 4, result.AnalysisCount)
	assert.Equal(t, "positive", result.Level)
	assert.Equal(t, "improving", result.Trend)
}

func TestSentimentStaleRecordRegenerated(t *testing.T) {
	aiClient := &fakeAIClient{response: sentimentResponse}
	analyzer, sentimentRepo, patchRepo, _ := sentimentFixture(t, aiClient)
	sentimentRepo.row = &entity.GameSentiment{
		GameID:         1,
		AnalysisCount:  1,
		LastAnalyzedAt: time.Now().Add(-SentimentTTL - time.Minute),
	}
	patchRepo.sinceRows = enrichedPatchRows()

	result, err := analyzer.Analyze(context.Background(), 1, false)

	require.NoError(t, err)
	assert.Equal(t, 1, aiClient.calls)
	assert.Equal(t, 2, result.AnalysisCount)
}

func TestSentimentInvalidEnumsDefaulted(t *testing.T) {
	aiClient := &fakeAIClient{response: `{
		"level": "ecstatic",
		"score": -3,
		"trend": "sideways",
		"positive_factors": [],
		"negative_factors": []
	}`}
	analyzer, _, patchRepo, _ := sentimentFixture(t, aiClient)
	patchRepo.sinceRows = enrichedPatchRows()

	result, err := analyzer.Analyze(context.Background(), 1, false)

	require.NoError(t, err)
	assert.Equal(t, "neutral", result.Level)
	assert.Equal(t, "stable", result.Trend)
	assert.Equal(t, -1.0, result.Score)
}

func TestSentimentUpstreamFailure(t *testing.T) {
	analyzer, sentimentRepo, patchRepo, _ := sentimentFixture(t, &fakeAIClient{err: errors.New("timeout")})
	patchRepo.sinceRows = enrichedPatchRows()

	_, err := analyzer.Analyze(context.Background(), 1, false)

	assert.ErrorIs(t, err, ErrUpstream)
	assert.Nil(t, sentimentRepo.row)
}
