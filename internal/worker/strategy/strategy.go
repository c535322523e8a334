package strategy

import (
	"context"
	"time"

	"patchpulse/internal/entity"
)

// JobExecutionStrategy defines the interface for enrichment job strategies.
type JobExecutionStrategy interface {
	Execute(ctx context.Context, job *entity.EnrichmentJob) (string, error)
	GetType() entity.JobType
}

// PatchSummaryPayload is the payload for a patch summary job.
type PatchSummaryPayload struct {
	PatchNoteID uint `json:"patch_note_id"`
	Force       bool `json:"force"`
}

// NewsSummaryPayload is the payload for a news summary job.
type NewsSummaryPayload struct {
	NewsItemID uint `json:"news_item_id"`
	Force      bool `json:"force"`
}

// SentimentPayload is the payload for a sentiment analysis job.
type SentimentPayload struct {
	GameID uint `json:"game_id"`
	Force  bool `json:"force"`
}

// WhatsNewPayload is the payload for a whats-new pre-generation job.
type WhatsNewPayload struct {
	UserID uint      `json:"user_id"`
	GameID uint      `json:"game_id"`
	Since  time.Time `json:"since"`
}

// DigestPayload is the payload for a digest generation job.
type DigestPayload struct {
	UserID     uint      `json:"user_id"`
	Date       time.Time `json:"date"`
	DigestType string    `json:"digest_type"`
}

// ReturnMatchPayload is the payload for a return-match scan job.
type ReturnMatchPayload struct {
	PatchNoteID uint `json:"patch_note_id"`
}

// SimilarityPayload is the payload for a similarity scan job.
type SimilarityPayload struct {
	GameID uint `json:"game_id"`
}

// FeedIngestPayload is the payload for a feed ingest job. A zero GameID
// ingests every game with a configured feed.
type FeedIngestPayload struct {
	GameID uint `json:"game_id"`
}
