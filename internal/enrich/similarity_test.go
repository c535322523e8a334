package enrich

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchpulse/internal/entity"
)

type fakeSimilarityRepo struct {
	pairs map[string]entity.GameSimilarity
}

func newFakeSimilarityRepo() *fakeSimilarityRepo {
	return &fakeSimilarityRepo{pairs: map[string]entity.GameSimilarity{}}
}

func pairKey(gameID, similarGameID uint) string {
	return fmt.Sprintf("%d/%d", gameID, similarGameID)
}

func (r *fakeSimilarityRepo) Upsert(_ context.Context, sim *entity.GameSimilarity) error {
	r.pairs[pairKey(sim.GameID, sim.SimilarGameID)] = *sim
	return nil
}

func (r *fakeSimilarityRepo) FindByGame(_ context.Context, _ uint, _ int) ([]entity.GameSimilarity, error) {
	return nil, nil
}

func (r *fakeSimilarityRepo) Exists(_ context.Context, gameID, similarGameID uint) (bool, error) {
	_, ok := r.pairs[pairKey(gameID, similarGameID)]
	return ok, nil
}

func catalog(n int) []*entity.Game {
	games := make([]*entity.Game, 0, n)
	for i := 1; i <= n; i++ {
		games = append(games, &entity.Game{ID: uint(i), Name: fmt.Sprintf("Game %d", i)})
	}
	return games
}

func TestSimilarityUnknownGame(t *testing.T) {
	analyzer := NewSimilarityAnalyzer(newFakeSimilarityRepo(), newFakeGameRepo(), &fakeAIClient{}, testLogger(t))

	_, err := analyzer.Analyze(context.Background(), 7)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSimilarityScoresUnscoredPairs(t *testing.T) {
	aiClient := &fakeAIClient{response: `{"score": 0.8, "reason": "same genre and pacing"}`}
	analyzer := NewSimilarityAnalyzer(newFakeSimilarityRepo(), newFakeGameRepo(catalog(4)...), aiClient, testLogger(t))

	scored, err := analyzer.Analyze(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, scored, 3, "every other catalog entry scored, self excluded")
	assert.Equal(t, 3, aiClient.calls)
	for _, sim := range scored {
		assert.Equal(t, uint(1), sim.GameID)
		assert.NotEqual(t, uint(1), sim.SimilarGameID)
		assert.InDelta(t, 0.8, sim.Score, 1e-9)
	}
}

func TestSimilarityRescansConvergeWithoutModelCalls(t *testing.T) {
	aiClient := &fakeAIClient{response: `{"score": 0.5, "reason": "some overlap"}`}
	analyzer := NewSimilarityAnalyzer(newFakeSimilarityRepo(), newFakeGameRepo(catalog(3)...), aiClient, testLogger(t))

	first, err := analyzer.Analyze(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, first, 2)
	callsAfterFirst := aiClient.calls

	second, err := analyzer.Analyze(context.Background(), 1)
	require.NoError(t, err)

	assert.Empty(t, second)
	assert.Equal(t, callsAfterFirst, aiClient.calls)
}

func TestSimilarityComparisonCap(t *testing.T) {
	aiClient := &fakeAIClient{response: `{"score": 0.4, "reason": "loose match"}`}
	analyzer := NewSimilarityAnalyzer(newFakeSimilarityRepo(), newFakeGameRepo(catalog(20)...), aiClient, testLogger(t))

	scored, err := analyzer.Analyze(context.Background(), 1)

	require.NoError(t, err)
	assert.Len(t, scored, maxSimilarityComparisons)
	assert.Equal(t, maxSimilarityComparisons, aiClient.calls)
}
