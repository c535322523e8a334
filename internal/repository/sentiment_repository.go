package repository

import (
	"context"

	"patchpulse/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SentimentRepository defines the interface for game sentiment records.
type SentimentRepository interface {
	FindByGameID(ctx context.Context, gameID uint) (*entity.GameSentiment, error)
	Upsert(ctx context.Context, sentiment *entity.GameSentiment) error
}

// NewSentimentRepository creates a new instance of SentimentRepository.
func NewSentimentRepository(db *gorm.DB) SentimentRepository {
	return &sentimentRepository{db: db}
}

type sentimentRepository struct {
	db *gorm.DB
}

func (r *sentimentRepository) FindByGameID(ctx context.Context, gameID uint) (*entity.GameSentiment, error) {
	var sentiment entity.GameSentiment
	result := r.db.WithContext(ctx).Where("game_id = ?", gameID).First(&sentiment)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &sentiment, nil
}

func (r *sentimentRepository) Upsert(ctx context.Context, sentiment *entity.GameSentiment) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"level", "score", "trend", "positive_factors", "negative_factors",
			"analysis_count", "last_analyzed_at",
		}),
	}).Create(sentiment).Error
}
