package consumer

import (
	"context"
	"sync"
	"time"

	"patchpulse/internal/worker/service"
	"patchpulse/pkg/common"
	"patchpulse/pkg/logger"
	"patchpulse/pkg/utils"

	"github.com/redis/go-redis/v9"
)

// RedisConsumer manages the consumption of enrichment jobs from the Redis
// stream.
type RedisConsumer struct {
	redisClient   *redis.Client
	workerService service.WorkerService
	logger        *logger.Logger
	stopChan      chan struct{}
	wg            sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(redisClient *redis.Client, workerService service.WorkerService, log *logger.Logger) *RedisConsumer {
	return &RedisConsumer{
		redisClient:   redisClient,
		workerService: workerService,
		logger:        log,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the consumer's job processing loop.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started")
	c.RegisterStreamHandler(ctx, c.workerService.ProcessJob, common.RedisStreamEnrichmentJobs)
}

func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string) {
	c.logger.Info("Registering stream handler", logger.Field("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Redis consumer stopping due to context cancellation")
				return
			case <-c.stopChan:
				c.logger.Info("Redis consumer stopping")
				return
			default:
				fn(ctx)
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}

// EnsureConsumerGroup creates the stream consumer group if it does not exist.
func EnsureConsumerGroup(ctx context.Context, redisClient *redis.Client, log *logger.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err := redisClient.XGroupCreateMkStream(ctx, common.RedisStreamEnrichmentJobs, common.RedisStreamGroup, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	log.Info("Consumer group ready", logger.Field("stream", common.RedisStreamEnrichmentJobs), logger.Field("group", common.RedisStreamGroup))
	return nil
}
