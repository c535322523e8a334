package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"patchpulse/internal/entity"
	"patchpulse/internal/repository"
	"patchpulse/pkg/common"
	"patchpulse/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

// Publisher enqueues enrichment jobs: a durable row in the jobs table plus a
// message on the Redis stream the worker reads. The row is the source of
// truth; the stream message only carries its id.
type Publisher struct {
	jobRepo      repository.EnrichmentJobRepository
	redisClient  *redis.Client
	logger       *logger.Logger
	streamMaxLen int64
}

// NewPublisher creates a new Publisher.
func NewPublisher(jobRepo repository.EnrichmentJobRepository, redisClient *redis.Client, log *logger.Logger, streamMaxLen int64) *Publisher {
	return &Publisher{
		jobRepo:      jobRepo,
		redisClient:  redisClient,
		logger:       log,
		streamMaxLen: streamMaxLen,
	}
}

// Enqueue persists the job and publishes its id. The payload must marshal to
// JSON.
func (p *Publisher) Enqueue(ctx context.Context, jobType entity.JobType, payload any) (*entity.EnrichmentJob, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job payload: %w", err)
	}

	job := &entity.EnrichmentJob{
		Type:    jobType,
		Payload: datatypes.JSON(raw),
		Status:  entity.JobStatusPending,
	}
	if err := p.jobRepo.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist job: %w", err)
	}

	err = p.redisClient.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamEnrichmentJobs,
		MaxLen: p.streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{"job_id": job.ID},
	}).Err()
	if err != nil {
		// The row stays pending; a requeue sweep or manual retry can pick
		// it up. Callers still get the job handle.
		p.logger.Error("Failed to publish job to stream", logger.ErrorField(err),
			logger.Field("job_id", job.ID))
		return job, fmt.Errorf("failed to publish job %d: %w", job.ID, err)
	}

	p.logger.Debug("Job enqueued",
		logger.Field("job_id", job.ID),
		logger.StringField("type", string(jobType)))
	return job, nil
}
