package repository

import (
	"context"

	"patchpulse/internal/entity"

	"gorm.io/gorm"
)

// AlertRuleRepository defines the interface for priority alert rules.
type AlertRuleRepository interface {
	Create(ctx context.Context, rule *entity.PriorityAlertRule) error
	Update(ctx context.Context, rule *entity.PriorityAlertRule) error
	Delete(ctx context.Context, userID, id uint) error
	FindByID(ctx context.Context, userID, id uint) (*entity.PriorityAlertRule, error)
	FindByUser(ctx context.Context, userID uint) ([]entity.PriorityAlertRule, error)
	FindEnabledByUser(ctx context.Context, userID uint) ([]entity.PriorityAlertRule, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
}

// NewAlertRuleRepository creates a new instance of AlertRuleRepository.
func NewAlertRuleRepository(db *gorm.DB) AlertRuleRepository {
	return &alertRuleRepository{db: db}
}

type alertRuleRepository struct {
	db *gorm.DB
}

func (r *alertRuleRepository) Create(ctx context.Context, rule *entity.PriorityAlertRule) error {
	return r.db.WithContext(ctx).Create(rule).Error
}

func (r *alertRuleRepository) Update(ctx context.Context, rule *entity.PriorityAlertRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

func (r *alertRuleRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, id).
		Delete(&entity.PriorityAlertRule{}).Error
}

func (r *alertRuleRepository) FindByID(ctx context.Context, userID, id uint) (*entity.PriorityAlertRule, error) {
	var rule entity.PriorityAlertRule
	result := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, id).First(&rule)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &rule, nil
}

func (r *alertRuleRepository) FindByUser(ctx context.Context, userID uint) ([]entity.PriorityAlertRule, error) {
	var rules []entity.PriorityAlertRule
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *alertRuleRepository) FindEnabledByUser(ctx context.Context, userID uint) ([]entity.PriorityAlertRule, error) {
	var rules []entity.PriorityAlertRule
	if err := r.db.WithContext(ctx).Where("user_id = ? AND enabled = true", userID).Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *alertRuleRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.PriorityAlertRule{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}
