package repository

import (
	"context"
	"time"

	"patchpulse/internal/entity"

	"gorm.io/gorm"
)

// GameRepository defines the interface for interacting with game data.
type GameRepository interface {
	Create(ctx context.Context, game *entity.Game) error
	FindByID(ctx context.Context, id uint) (*entity.Game, error)
	FindAll(ctx context.Context) ([]entity.Game, error)
	FindWithFeeds(ctx context.Context) ([]entity.Game, error)
	UpdateLastPatchAt(ctx context.Context, gameID uint, at time.Time) error
}

// NewGameRepository creates a new instance of GameRepository.
func NewGameRepository(db *gorm.DB) GameRepository {
	return &gameRepository{db: db}
}

type gameRepository struct {
	db *gorm.DB
}

func (r *gameRepository) Create(ctx context.Context, game *entity.Game) error {
	return r.db.WithContext(ctx).Create(game).Error
}

func (r *gameRepository) FindByID(ctx context.Context, id uint) (*entity.Game, error) {
	var game entity.Game
	result := r.db.WithContext(ctx).First(&game, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &game, nil
}

func (r *gameRepository) FindAll(ctx context.Context) ([]entity.Game, error) {
	var games []entity.Game
	if err := r.db.WithContext(ctx).Order("name asc").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

// FindWithFeeds returns games that have an RSS feed configured.
func (r *gameRepository) FindWithFeeds(ctx context.Context) ([]entity.Game, error) {
	var games []entity.Game
	if err := r.db.WithContext(ctx).Where("feed_url <> ''").Find(&games).Error; err != nil {
		return nil, err
	}
	return games, nil
}

func (r *gameRepository) UpdateLastPatchAt(ctx context.Context, gameID uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.Game{}).
		Where("id = ?", gameID).
		Update("last_patch_at", at).Error
}
