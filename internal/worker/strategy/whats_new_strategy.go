package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"patchpulse/internal/enrich"
	"patchpulse/internal/entity"
)

type whatsNewStrategy struct {
	generator *enrich.WhatsNewGenerator
}

// NewWhatsNewStrategy creates the strategy that pre-warms a user's
// whats-new summary for a game.
func NewWhatsNewStrategy(generator *enrich.WhatsNewGenerator) JobExecutionStrategy {
	return &whatsNewStrategy{generator: generator}
}

func (s *whatsNewStrategy) GetType() entity.JobType {
	return entity.JobTypeWhatsNew
}

func (s *whatsNewStrategy) Execute(ctx context.Context, job *entity.EnrichmentJob) (string, error) {
	var payload WhatsNewPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return "", fmt.Errorf("%w: invalid whats new payload: %v", enrich.ErrInvalidInput, err)
	}

	result, err := s.generator.Generate(ctx, payload.UserID, payload.GameID, payload.Since, false)
	if err != nil {
		return "", err
	}

	out, _ := json.Marshal(result)
	return string(out), nil
}
