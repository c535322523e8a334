package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"patchpulse/internal/enrich"
	"patchpulse/internal/entity"
)

type sentimentStrategy struct {
	analyzer *enrich.SentimentAnalyzer
}

// NewSentimentStrategy creates the strategy that refreshes a game's community
// sentiment rollup.
func NewSentimentStrategy(analyzer *enrich.SentimentAnalyzer) JobExecutionStrategy {
	return &sentimentStrategy{analyzer: analyzer}
}

func (s *sentimentStrategy) GetType() entity.JobType {
	return entity.JobTypeSentiment
}

func (s *sentimentStrategy) Execute(ctx context.Context, job *entity.EnrichmentJob) (string, error) {
	var payload SentimentPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return "", fmt.Errorf("%w: invalid sentiment payload: %v", enrich.ErrInvalidInput, err)
	}

	sentiment, err := s.analyzer.Analyze(ctx, payload.GameID, payload.Force)
	if err != nil {
		return "", err
	}

	out, _ := json.Marshal(sentiment)
	return string(out), nil
}
