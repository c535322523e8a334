package repository

import (
	"context"

	"patchpulse/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserGameRepository defines the interface for follow and backlog relations.
type UserGameRepository interface {
	Follow(ctx context.Context, follow *entity.UserGameFollow) error
	Unfollow(ctx context.Context, userID, gameID uint) error
	FindFollowedGameIDs(ctx context.Context, userID uint) ([]uint, error)
	FindFollowerIDs(ctx context.Context, gameID uint) ([]uint, error)
	UpsertBacklogEntry(ctx context.Context, e *entity.BacklogEntry) error
	FindBacklogByUser(ctx context.Context, userID uint) ([]entity.BacklogEntry, error)
	FindBacklogEntry(ctx context.Context, userID, gameID uint) (*entity.BacklogEntry, error)
	FindShelvedBacklogByGame(ctx context.Context, gameID uint) ([]entity.BacklogEntry, error)
}

// NewUserGameRepository creates a new instance of UserGameRepository.
func NewUserGameRepository(db *gorm.DB) UserGameRepository {
	return &userGameRepository{db: db}
}

type userGameRepository struct {
	db *gorm.DB
}

func (r *userGameRepository) Follow(ctx context.Context, follow *entity.UserGameFollow) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"notify_enabled"}),
	}).Create(follow).Error
}

func (r *userGameRepository) Unfollow(ctx context.Context, userID, gameID uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		Delete(&entity.UserGameFollow{}).Error
}

func (r *userGameRepository) FindFollowedGameIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&entity.UserGameFollow{}).
		Where("user_id = ?", userID).
		Pluck("game_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userGameRepository) FindFollowerIDs(ctx context.Context, gameID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&entity.UserGameFollow{}).
		Where("game_id = ? AND notify_enabled = true", gameID).
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *userGameRepository) UpsertBacklogEntry(ctx context.Context, e *entity.BacklogEntry) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"status", "hours_played", "last_played_at", "notes", "updated_at",
		}),
	}).Create(e).Error
}

func (r *userGameRepository) FindBacklogByUser(ctx context.Context, userID uint) ([]entity.BacklogEntry, error) {
	var entries []entity.BacklogEntry
	err := r.db.WithContext(ctx).
		Preload("Game").
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *userGameRepository) FindBacklogEntry(ctx context.Context, userID, gameID uint) (*entity.BacklogEntry, error) {
	var e entity.BacklogEntry
	result := r.db.WithContext(ctx).Where("user_id = ? AND game_id = ?", userID, gameID).First(&e)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &e, nil
}

// FindShelvedBacklogByGame returns backlog entries for a game whose owners
// set it aside, the candidate pool for return suggestions.
func (r *userGameRepository) FindShelvedBacklogByGame(ctx context.Context, gameID uint) ([]entity.BacklogEntry, error) {
	var entries []entity.BacklogEntry
	err := r.db.WithContext(ctx).
		Where("game_id = ? AND status IN ?", gameID,
			[]string{entity.BacklogStatusPaused, entity.BacklogStatusDropped, entity.BacklogStatusBacklog}).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
