package repository

import (
	"context"

	"patchpulse/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DigestCacheRepository defines the interface for digest cache rows.
type DigestCacheRepository interface {
	Find(ctx context.Context, userID uint, digestDate, digestType string) (*entity.DigestCache, error)
	Upsert(ctx context.Context, row *entity.DigestCache) error
}

// NewDigestCacheRepository creates a new instance of DigestCacheRepository.
func NewDigestCacheRepository(db *gorm.DB) DigestCacheRepository {
	return &digestCacheRepository{db: db}
}

type digestCacheRepository struct {
	db *gorm.DB
}

func (r *digestCacheRepository) Find(ctx context.Context, userID uint, digestDate, digestType string) (*entity.DigestCache, error) {
	var row entity.DigestCache
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND digest_date = ? AND digest_type = ?", userID, digestDate, digestType).
		First(&row)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &row, nil
}

func (r *digestCacheRepository) Upsert(ctx context.Context, row *entity.DigestCache) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "digest_date"}, {Name: "digest_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"content", "source_count", "expires_at", "updated_at",
		}),
	}).Create(row).Error
}

// WhatsNewCacheRepository defines the interface for whats-new cache rows.
type WhatsNewCacheRepository interface {
	Find(ctx context.Context, userID, gameID uint) (*entity.WhatsNewCache, error)
	Upsert(ctx context.Context, row *entity.WhatsNewCache) error
}

// NewWhatsNewCacheRepository creates a new instance of WhatsNewCacheRepository.
func NewWhatsNewCacheRepository(db *gorm.DB) WhatsNewCacheRepository {
	return &whatsNewCacheRepository{db: db}
}

type whatsNewCacheRepository struct {
	db *gorm.DB
}

func (r *whatsNewCacheRepository) Find(ctx context.Context, userID, gameID uint) (*entity.WhatsNewCache, error) {
	var row entity.WhatsNewCache
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&row)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &row, nil
}

func (r *whatsNewCacheRepository) Upsert(ctx context.Context, row *entity.WhatsNewCache) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "game_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"since_date", "summary", "patch_count", "news_count", "expires_at", "updated_at",
		}),
	}).Create(row).Error
}
