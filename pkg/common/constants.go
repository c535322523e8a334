package common

const (
	RedisStreamEnrichmentJobs = "enrichment.jobs"

	RedisStreamGroup    = "enrichment-group"
	RedisStreamConsumer = "enrichment-consumer"
)
