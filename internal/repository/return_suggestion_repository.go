package repository

import (
	"context"

	"patchpulse/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReturnSuggestionRepository defines the interface for return suggestions.
type ReturnSuggestionRepository interface {
	CreateIfAbsent(ctx context.Context, suggestion *entity.ReturnSuggestion) (bool, error)
	FindByUser(ctx context.Context, userID uint, includeDismissed bool) ([]entity.ReturnSuggestion, error)
	Exists(ctx context.Context, userID, gameID, patchNoteID uint) (bool, error)
	SetDismissed(ctx context.Context, userID, id uint) error
	SetActedOn(ctx context.Context, userID, id uint) error
}

// NewReturnSuggestionRepository creates a new instance of ReturnSuggestionRepository.
func NewReturnSuggestionRepository(db *gorm.DB) ReturnSuggestionRepository {
	return &returnSuggestionRepository{db: db}
}

type returnSuggestionRepository struct {
	db *gorm.DB
}

// CreateIfAbsent inserts the suggestion unless one already exists for the same
// (user, game, patch) triple. Returns whether a row was created.
func (r *returnSuggestionRepository) CreateIfAbsent(ctx context.Context, suggestion *entity.ReturnSuggestion) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "game_id"}, {Name: "patch_note_id"}},
		DoNothing: true,
	}).Create(suggestion)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *returnSuggestionRepository) FindByUser(ctx context.Context, userID uint, includeDismissed bool) ([]entity.ReturnSuggestion, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if !includeDismissed {
		q = q.Where("is_dismissed = false")
	}
	var suggestions []entity.ReturnSuggestion
	if err := q.Order("created_at desc").Find(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (r *returnSuggestionRepository) Exists(ctx context.Context, userID, gameID, patchNoteID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.ReturnSuggestion{}).
		Where("user_id = ? AND game_id = ? AND patch_note_id = ?", userID, gameID, patchNoteID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *returnSuggestionRepository) SetDismissed(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.ReturnSuggestion{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("is_dismissed", true).Error
}

func (r *returnSuggestionRepository) SetActedOn(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.ReturnSuggestion{}).
		Where("user_id = ? AND id = ?", userID, id).
		Update("is_acted_on", true).Error
}
