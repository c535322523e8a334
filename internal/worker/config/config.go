package config

import (
	"time"

	"patchpulse/pkg/config"
)

// Worker holds enrichment-worker specific configuration.
type Worker struct {
	JobTimeout      time.Duration `mapstructure:"job_timeout"`
	FeedPollCron    string        `mapstructure:"feed_poll_cron"`
	SentimentCron   string        `mapstructure:"sentiment_cron"`
	SimilarityCron  string        `mapstructure:"similarity_cron"`
	FeedMaxItems    int           `mapstructure:"feed_max_items"`
	FeedFetchPageMs int           `mapstructure:"feed_fetch_page_ms"`
}

// Notifications holds notification dispatch configuration.
type Notifications struct {
	Enabled   bool `mapstructure:"enabled"`
	SmartCopy bool `mapstructure:"smart_copy"`
}

// Config holds the full configuration for the enrichment service.
type Config struct {
	App           config.App      `mapstructure:"app"`
	Logger        config.Logger   `mapstructure:"logger"`
	Database      config.Database `mapstructure:"database"`
	Redis         config.Redis    `mapstructure:"redis"`
	Gemini        config.Gemini   `mapstructure:"gemini"`
	Telegram      config.Telegram `mapstructure:"telegram"`
	Worker        Worker          `mapstructure:"worker"`
	Notifications Notifications   `mapstructure:"notifications"`
}

// Load loads the enrichment service configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Worker.JobTimeout == 0 {
		cfg.Worker.JobTimeout = 5 * time.Minute
	}
	return &cfg, nil
}
