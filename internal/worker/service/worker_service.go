package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"patchpulse/internal/entity"
	"patchpulse/internal/repository"
	"patchpulse/internal/worker/strategy"
	"patchpulse/pkg/common"
	"patchpulse/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// WorkerService consumes enrichment jobs from the Redis stream and runs them.
type WorkerService interface {
	ProcessJob(ctx context.Context)
}

// NewWorkerService creates a new WorkerService.
func NewWorkerService(
	redisClient *redis.Client,
	jobRepo repository.EnrichmentJobRepository,
	log *logger.Logger,
	jobTimeout time.Duration,
	strategies []strategy.JobExecutionStrategy,
) WorkerService {
	strategyMap := make(map[entity.JobType]strategy.JobExecutionStrategy)
	for _, s := range strategies {
		strategyMap[s.GetType()] = s
	}

	return &workerService{
		redisClient: redisClient,
		jobRepo:     jobRepo,
		logger:      log,
		jobTimeout:  jobTimeout,
		strategies:  strategyMap,
	}
}

type workerService struct {
	redisClient *redis.Client
	jobRepo     repository.EnrichmentJobRepository
	logger      *logger.Logger
	jobTimeout  time.Duration
	strategies  map[entity.JobType]strategy.JobExecutionStrategy
}

// ProcessJob dequeues and executes a single enrichment job.
func (s *workerService) ProcessJob(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamEnrichmentJobs, ">"}, // ">" means only new messages
		Count:    1,
		Block:    2 * time.Second, // Block for 2 seconds to allow graceful shutdown
		NoAck:    true,
	}).Result()

	if err != nil {
		// Context cancellation and redis.Nil are expected during shutdown or idle periods.
		if err == context.Canceled || err == redis.Nil {
			return
		}
		s.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}

	message := streams[0].Messages[0]

	rawJobID, ok := message.Values["job_id"].(string)
	if !ok {
		s.logger.Error("field 'job_id' not found or not a string in stream message", logger.Field("message_id", message.ID))
		return
	}
	jobID, err := strconv.ParseUint(rawJobID, 10, 64)
	if err != nil {
		s.logger.Error("Failed to parse job id", logger.ErrorField(err), logger.Field("message_id", message.ID))
		// Acknowledge so a malformed message is not reprocessed.
		if err := s.redisClient.XAck(ctx, common.RedisStreamEnrichmentJobs, common.RedisStreamGroup, message.ID).Err(); err != nil {
			s.logger.Error("Failed to acknowledge malformed message", logger.ErrorField(err), logger.Field("message_id", message.ID))
		}
		return
	}

	job, err := s.jobRepo.FindByID(ctx, uint(jobID))
	if err != nil {
		s.logger.Error("Failed to find job", logger.ErrorField(err), logger.Field("job_id", jobID))
		return
	}
	if job == nil {
		s.logger.Warn("Job not found, skipping", logger.Field("job_id", jobID))
		return
	}

	s.logger.Info("Processing job", logger.Field("job_id", job.ID), logger.StringField("type", string(job.Type)))

	execCtx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	s.executeAndUpdate(execCtx, job)
}

func (s *workerService) executeAndUpdate(ctx context.Context, job *entity.EnrichmentJob) {
	if err := s.jobRepo.MarkRunning(ctx, job.ID); err != nil {
		s.logger.Error("Failed to mark job running", logger.ErrorField(err), logger.Field("job_id", job.ID))
	}

	st, ok := s.strategies[job.Type]
	if !ok {
		err := fmt.Errorf("no strategy found for job type: %s", job.Type)
		s.logger.Error("Job execution failed", logger.ErrorField(err), logger.Field("job_id", job.ID))
		if err := s.jobRepo.MarkFailed(ctx, job.ID, err.Error()); err != nil {
			s.logger.Error("Failed to mark job failed", logger.ErrorField(err), logger.Field("job_id", job.ID))
		}
		return
	}

	output, err := st.Execute(ctx, job)
	if err != nil {
		s.logger.Error("Job execution failed", logger.ErrorField(err), logger.Field("job_id", job.ID), logger.StringField("type", string(job.Type)))
		if err := s.jobRepo.MarkFailed(ctx, job.ID, err.Error()); err != nil {
			s.logger.Error("Failed to mark job failed", logger.ErrorField(err), logger.Field("job_id", job.ID))
		}
		return
	}

	if err := s.jobRepo.MarkCompleted(ctx, job.ID, output); err != nil {
		s.logger.Error("Failed to mark job completed", logger.ErrorField(err), logger.Field("job_id", job.ID))
		return
	}
	s.logger.Info("Job executed successfully", logger.Field("job_id", job.ID), logger.StringField("type", string(job.Type)))
}
