package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// JobType identifies which enrichment strategy handles a queued job.
type JobType string

const (
	JobTypePatchSummary JobType = "patch_summary"
	JobTypeNewsSummary  JobType = "news_summary"
	JobTypeSentiment    JobType = "sentiment"
	JobTypeWhatsNew     JobType = "whats_new"
	JobTypeDigest       JobType = "digest"
	JobTypeReturnMatch  JobType = "return_match"
	JobTypeSimilarity   JobType = "similarity"
	JobTypeFeedIngest   JobType = "feed_ingest"
)

// Job statuses.
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// EnrichmentJob is a queued unit of enrichment work. The API service inserts a
// row and publishes its id to the Redis stream; the enrichment service picks
// it up and records the outcome on the same row.
type EnrichmentJob struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Type         JobType        `gorm:"type:varchar(30);not null" json:"type"`
	Payload      datatypes.JSON `gorm:"type:jsonb" json:"payload"`
	Status       string         `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Output       sql.NullString `gorm:"type:text" json:"-"`
	ErrorMessage sql.NullString `gorm:"type:text" json:"-"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	StartedAt    sql.NullTime   `json:"-"`
	CompletedAt  sql.NullTime   `json:"-"`
}

// TableName specifies the table name for the EnrichmentJob model.
func (EnrichmentJob) TableName() string {
	return "enrichment_jobs"
}
