package repository

import (
	"context"

	"patchpulse/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GameSimilarityRepository defines the interface for game similarity records.
type GameSimilarityRepository interface {
	Upsert(ctx context.Context, sim *entity.GameSimilarity) error
	FindByGame(ctx context.Context, gameID uint, limit int) ([]entity.GameSimilarity, error)
	Exists(ctx context.Context, gameID, similarGameID uint) (bool, error)
}

// NewGameSimilarityRepository creates a new instance of GameSimilarityRepository.
func NewGameSimilarityRepository(db *gorm.DB) GameSimilarityRepository {
	return &gameSimilarityRepository{db: db}
}

type gameSimilarityRepository struct {
	db *gorm.DB
}

func (r *gameSimilarityRepository) Upsert(ctx context.Context, sim *entity.GameSimilarity) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "game_id"}, {Name: "similar_game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "reason", "updated_at"}),
	}).Create(sim).Error
}

func (r *gameSimilarityRepository) FindByGame(ctx context.Context, gameID uint, limit int) ([]entity.GameSimilarity, error) {
	var sims []entity.GameSimilarity
	err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("score desc").
		Limit(limit).
		Find(&sims).Error
	if err != nil {
		return nil, err
	}
	return sims, nil
}

func (r *gameSimilarityRepository) Exists(ctx context.Context, gameID, similarGameID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.GameSimilarity{}).
		Where("game_id = ? AND similar_game_id = ?", gameID, similarGameID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
