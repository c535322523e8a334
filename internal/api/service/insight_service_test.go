package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchpulse/internal/ai"
	"patchpulse/internal/enrich"
	"patchpulse/internal/entity"
	"patchpulse/pkg/logger"
)

type stubAIClient struct {
	response string
	calls    int
}

func (c *stubAIClient) GenerateCompletion(_ context.Context, _, _ string, _ ai.Options) (string, error) {
	c.calls++
	return c.response, nil
}

func (c *stubAIClient) GenerateJSON(_ context.Context, _, _ string, _ ai.Options, out any) error {
	c.calls++
	return json.Unmarshal([]byte(c.response), out)
}

func (c *stubAIClient) Embed(_ string) []float32 { return nil }

type stubSentimentRepo struct {
	row *entity.GameSentiment
}

func (r *stubSentimentRepo) FindByGameID(_ context.Context, _ uint) (*entity.GameSentiment, error) {
	return r.row, nil
}

func (r *stubSentimentRepo) Upsert(_ context.Context, sentiment *entity.GameSentiment) error {
	r.row = sentiment
	return nil
}

type stubGameRepo struct {
	game *entity.Game
}

func (r *stubGameRepo) Create(_ context.Context, _ *entity.Game) error { return nil }

func (r *stubGameRepo) FindByID(_ context.Context, _ uint) (*entity.Game, error) {
	return r.game, nil
}

func (r *stubGameRepo) FindAll(_ context.Context) ([]entity.Game, error)       { return nil, nil }
func (r *stubGameRepo) FindWithFeeds(_ context.Context) ([]entity.Game, error) { return nil, nil }

func (r *stubGameRepo) UpdateLastPatchAt(_ context.Context, _ uint, _ time.Time) error { return nil }

type stubPatchRepo struct {
	sinceRows []entity.PatchNote
}

func (r *stubPatchRepo) Create(_ context.Context, _ *entity.PatchNote) error { return nil }

func (r *stubPatchRepo) FindByID(_ context.Context, _ uint) (*entity.PatchNote, error) {
	return nil, nil
}

func (r *stubPatchRepo) FindByGameSince(_ context.Context, _ uint, _ time.Time) ([]entity.PatchNote, error) {
	return r.sinceRows, nil
}

func (r *stubPatchRepo) FindLatestEnriched(_ context.Context, _ uint, _ int) ([]entity.PatchNote, error) {
	return nil, nil
}

func (r *stubPatchRepo) FindSummary(_ context.Context, _ uint) (*entity.PatchSummary, error) {
	return nil, nil
}

func (r *stubPatchRepo) UpsertSummary(_ context.Context, _ *entity.PatchSummary) error { return nil }

type stubNewsRepo struct{}

func (r *stubNewsRepo) Create(_ context.Context, _ *entity.NewsItem) error { return nil }

func (r *stubNewsRepo) FindByID(_ context.Context, _ uint) (*entity.NewsItem, error) {
	return nil, nil
}

func (r *stubNewsRepo) FindByGameSince(_ context.Context, _ uint, _ time.Time) ([]entity.NewsItem, error) {
	return nil, nil
}

func (r *stubNewsRepo) ExistsByHash(_ context.Context, _ string) (bool, error) { return false, nil }

func (r *stubNewsRepo) FindSummary(_ context.Context, _ uint) (*entity.NewsSummary, error) {
	return nil, nil
}

func (r *stubNewsRepo) UpsertSummary(_ context.Context, _ *entity.NewsSummary) error { return nil }

const stubSentimentResponse = `{
	"level": "positive",
	"score": 0.6,
	"trend": "improving",
	"positive_factors": ["good patch cadence"],
	"negative_factors": []
}`

func insightFixture(t *testing.T, aiClient *stubAIClient) (InsightService, *stubSentimentRepo) {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	sentimentRepo := &stubSentimentRepo{}
	patchRepo := &stubPatchRepo{sinceRows: []entity.PatchNote{{ID: 1, GameID: 1, Title: "Patch 2.1",
		Summary: &entity.PatchSummary{PatchNoteID: 1, Summary: "Balance pass."}}}}
	analyzer := enrich.NewSentimentAnalyzer(sentimentRepo, &stubGameRepo{game: &entity.Game{ID: 1, Name: "Starfall"}},
		patchRepo, &stubNewsRepo{}, aiClient, log)
	svc := NewInsightService(nil, nil, analyzer, sentimentRepo, nil, &fakeFollowRepo{}, log)
	return svc, sentimentRepo
}

func TestSentimentFreshRecordServed(t *testing.T) {
	aiClient := &stubAIClient{response: stubSentimentResponse}
	svc, sentimentRepo := insightFixture(t, aiClient)
	sentimentRepo.row = &entity.GameSentiment{
		GameID:         1,
		Level:          "neutral",
		AnalysisCount:  2,
		LastAnalyzedAt: time.Now().Add(-time.Hour),
	}

	result, err := svc.Sentiment(context.Background(), 1, false)

	require.NoError(t, err)
	assert.Equal(t, "neutral", result.Level)
	assert.Zero(t, aiClient.calls)
}

func TestSentimentStaleRecordRegeneratedOnRead(t *testing.T) {
	aiClient := &stubAIClient{response: stubSentimentResponse}
	svc, sentimentRepo := insightFixture(t, aiClient)
	sentimentRepo.row = &entity.GameSentiment{
		GameID:         1,
		Level:          "neutral",
		AnalysisCount:  2,
		LastAnalyzedAt: time.Now().Add(-48 * time.Hour),
	}

	result, err := svc.Sentiment(context.Background(), 1, false)

	require.NoError(t, err)
	assert.Equal(t, 1, aiClient.calls, "a record past its validity window must be regenerated")
	assert.Equal(t, "positive", result.Level)
	assert.Equal(t, 3, result.AnalysisCount)
}

func TestSentimentMissingRecordGenerated(t *testing.T) {
	aiClient := &stubAIClient{response: stubSentimentResponse}
	svc, _ := insightFixture(t, aiClient)

	result, err := svc.Sentiment(context.Background(), 1, false)

	require.NoError(t, err)
	assert.Equal(t, 1, aiClient.calls)
	assert.Equal(t, 1, result.AnalysisCount)
}

func TestSentimentRefreshForcesRegeneration(t *testing.T) {
	aiClient := &stubAIClient{response: stubSentimentResponse}
	svc, sentimentRepo := insightFixture(t, aiClient)
	sentimentRepo.row = &entity.GameSentiment{
		GameID:         1,
		Level:          "neutral",
		AnalysisCount:  2,
		LastAnalyzedAt: time.Now().Add(-time.Minute),
	}

	result, err := svc.Sentiment(context.Background(), 1, true)

	require.NoError(t, err)
	assert.Equal(t, 1, aiClient.calls)
	assert.Equal(t, "positive", result.Level)
}
