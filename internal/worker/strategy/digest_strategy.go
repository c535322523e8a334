package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"patchpulse/internal/enrich"
	"patchpulse/internal/entity"
)

type digestStrategy struct {
	generator *enrich.DigestGenerator
}

// NewDigestStrategy creates the strategy that pre-warms a user's daily or
// weekly digest.
func NewDigestStrategy(generator *enrich.DigestGenerator) JobExecutionStrategy {
	return &digestStrategy{generator: generator}
}

func (s *digestStrategy) GetType() entity.JobType {
	return entity.JobTypeDigest
}

func (s *digestStrategy) Execute(ctx context.Context, job *entity.EnrichmentJob) (string, error) {
	var payload DigestPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return "", fmt.Errorf("%w: invalid digest payload: %v", enrich.ErrInvalidInput, err)
	}

	result, err := s.generator.Generate(ctx, payload.UserID, payload.Date, payload.DigestType, false)
	if err != nil {
		return "", err
	}

	out, _ := json.Marshal(result)
	return string(out), nil
}
