package repository

import (
	"context"
	"time"

	"patchpulse/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsItemRepository defines the interface for interacting with news items
// and their enriched summaries.
type NewsItemRepository interface {
	Create(ctx context.Context, item *entity.NewsItem) error
	FindByID(ctx context.Context, id uint) (*entity.NewsItem, error)
	FindByGameSince(ctx context.Context, gameID uint, since time.Time) ([]entity.NewsItem, error)
	ExistsByHash(ctx context.Context, hash string) (bool, error)
	FindSummary(ctx context.Context, newsItemID uint) (*entity.NewsSummary, error)
	UpsertSummary(ctx context.Context, summary *entity.NewsSummary) error
}

// NewNewsItemRepository creates a new instance of NewsItemRepository.
func NewNewsItemRepository(db *gorm.DB) NewsItemRepository {
	return &newsItemRepository{db: db}
}

type newsItemRepository struct {
	db *gorm.DB
}

func (r *newsItemRepository) Create(ctx context.Context, item *entity.NewsItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *newsItemRepository) FindByID(ctx context.Context, id uint) (*entity.NewsItem, error) {
	var item entity.NewsItem
	result := r.db.WithContext(ctx).Preload("Game").Preload("Summary").First(&item, id)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &item, nil
}

func (r *newsItemRepository) FindByGameSince(ctx context.Context, gameID uint, since time.Time) ([]entity.NewsItem, error) {
	var items []entity.NewsItem
	err := r.db.WithContext(ctx).
		Preload("Summary").
		Where("game_id = ? AND published_at > ?", gameID, since).
		Order("published_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *newsItemRepository) ExistsByHash(ctx context.Context, hash string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.NewsItem{}).
		Where("hash_identifier = ?", hash).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *newsItemRepository) FindSummary(ctx context.Context, newsItemID uint) (*entity.NewsSummary, error) {
	var summary entity.NewsSummary
	result := r.db.WithContext(ctx).Where("news_item_id = ?", newsItemID).First(&summary)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, result.Error
	}
	return &summary, nil
}

// UpsertSummary writes the summary, converging concurrent enrichments on the
// news_item_id unique index.
func (r *newsItemRepository) UpsertSummary(ctx context.Context, summary *entity.NewsSummary) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "news_item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"summary", "topics", "impact_score", "priority", "is_rumor", "updated_at",
		}),
	}).Create(summary).Error
}
