package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"patchpulse/internal/enrich"
	"patchpulse/internal/entity"
)

type similarityStrategy struct {
	analyzer *enrich.SimilarityAnalyzer
}

// NewSimilarityStrategy creates the strategy that scores a game against the
// rest of the catalog.
func NewSimilarityStrategy(analyzer *enrich.SimilarityAnalyzer) JobExecutionStrategy {
	return &similarityStrategy{analyzer: analyzer}
}

func (s *similarityStrategy) GetType() entity.JobType {
	return entity.JobTypeSimilarity
}

func (s *similarityStrategy) Execute(ctx context.Context, job *entity.EnrichmentJob) (string, error) {
	var payload SimilarityPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return "", fmt.Errorf("%w: invalid similarity payload: %v", enrich.ErrInvalidInput, err)
	}

	similarities, err := s.analyzer.Analyze(ctx, payload.GameID)
	if err != nil {
		return "", err
	}

	out, _ := json.Marshal(map[string]int{"pairs_scored": len(similarities)})
	return string(out), nil
}
