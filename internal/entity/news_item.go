package entity

import (
	"time"

	"github.com/lib/pq"
)

// NewsItem is a raw news article. GameID is nullable for general industry news.
type NewsItem struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	GameID         *uint      `gorm:"index" json:"game_id,omitempty"`
	Title          string     `gorm:"not null" json:"title"`
	RawText        string     `gorm:"type:text" json:"raw_text"`
	Link           string     `gorm:"unique;not null" json:"link"`
	Source         string     `json:"source"`
	HashIdentifier string     `gorm:"unique;not null" json:"hash_identifier"`
	PublishedAt    *time.Time `json:"published_at,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Game    *Game        `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Summary *NewsSummary `gorm:"foreignKey:NewsItemID" json:"summary,omitempty"`
}

// TableName specifies the table name for the NewsItem model.
func (NewsItem) TableName() string {
	return "news_items"
}

// NewsSummary holds the AI-enriched view of a news item.
type NewsSummary struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	NewsItemID  uint           `gorm:"uniqueIndex;not null" json:"news_item_id"`
	Summary     string         `gorm:"type:text" json:"summary"`
	Topics      pq.StringArray `gorm:"type:text[]" json:"topics"`
	ImpactScore float64        `json:"impact_score"`
	Priority    int            `json:"priority"`
	IsRumor     bool           `gorm:"default:false" json:"is_rumor"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the NewsSummary model.
func (NewsSummary) TableName() string {
	return "news_summaries"
}
