package entity

import (
	"time"

	"github.com/lib/pq"
)

// Game represents a tracked game in the catalog.
type Game struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Slug        string         `gorm:"unique;not null" json:"slug"`
	Developer   string         `json:"developer"`
	Genres      pq.StringArray `gorm:"type:text[]" json:"genres"`
	FeedURL     string         `json:"feed_url"`
	LastPatchAt *time.Time     `json:"last_patch_at,omitempty"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the Game model.
func (Game) TableName() string {
	return "games"
}
