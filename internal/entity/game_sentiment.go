package entity

import (
	"time"

	"github.com/lib/pq"
)

// Sentiment levels and trends are restricted enums; anything else coming back
// from the model is coerced before persistence.
const (
	SentimentVeryNegative = "very_negative"
	SentimentNegative     = "negative"
	SentimentNeutral      = "neutral"
	SentimentPositive     = "positive"
	SentimentVeryPositive = "very_positive"

	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// GameSentiment is the community-sentiment record for a game, regenerated at
// most once per 24 hours.
type GameSentiment struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	GameID          uint           `gorm:"uniqueIndex;not null" json:"game_id"`
	Level           string         `gorm:"type:varchar(20)" json:"level"`
	Score           float64        `json:"score"`
	Trend           string         `gorm:"type:varchar(20)" json:"trend"`
	PositiveFactors pq.StringArray `gorm:"type:text[]" json:"positive_factors"`
	NegativeFactors pq.StringArray `gorm:"type:text[]" json:"negative_factors"`
	AnalysisCount   int            `json:"analysis_count"`
	LastAnalyzedAt  time.Time      `json:"last_analyzed_at"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the GameSentiment model.
func (GameSentiment) TableName() string {
	return "game_sentiments"
}
