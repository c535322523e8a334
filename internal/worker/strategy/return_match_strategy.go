package strategy

import (
	"context"
	"encoding/json"
	"fmt"

	"patchpulse/internal/enrich"
	"patchpulse/internal/entity"
)

type returnMatchStrategy struct {
	matcher *enrich.ReturnMatcher
}

// NewReturnMatchStrategy creates the strategy that matches a fresh patch
// against shelved backlog entries of the same game.
func NewReturnMatchStrategy(matcher *enrich.ReturnMatcher) JobExecutionStrategy {
	return &returnMatchStrategy{matcher: matcher}
}

func (s *returnMatchStrategy) GetType() entity.JobType {
	return entity.JobTypeReturnMatch
}

func (s *returnMatchStrategy) Execute(ctx context.Context, job *entity.EnrichmentJob) (string, error) {
	var payload ReturnMatchPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		return "", fmt.Errorf("%w: invalid return match payload: %v", enrich.ErrInvalidInput, err)
	}

	suggestions, err := s.matcher.MatchPatch(ctx, payload.PatchNoteID)
	if err != nil {
		return "", err
	}

	out, _ := json.Marshal(map[string]int{"suggestions_created": len(suggestions)})
	return string(out), nil
}
