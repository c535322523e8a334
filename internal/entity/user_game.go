package entity

import "time"

// UserGameFollow marks a user as following a game's patches and news.
type UserGameFollow struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:uniq_user_game_follow" json:"user_id"`
	GameID        uint      `gorm:"not null;uniqueIndex:uniq_user_game_follow" json:"game_id"`
	NotifyEnabled bool      `gorm:"default:true" json:"notify_enabled"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the UserGameFollow model.
func (UserGameFollow) TableName() string {
	return "user_game_follows"
}

// Backlog statuses.
const (
	BacklogStatusPlaying  = "playing"
	BacklogStatusPaused   = "paused"
	BacklogStatusBacklog  = "backlog"
	BacklogStatusFinished = "finished"
	BacklogStatusDropped  = "dropped"
)

// BacklogEntry is a user's personal backlog record for a game.
type BacklogEntry struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UserID       uint       `gorm:"not null;uniqueIndex:uniq_backlog_entry" json:"user_id"`
	GameID       uint       `gorm:"not null;uniqueIndex:uniq_backlog_entry" json:"game_id"`
	Status       string     `gorm:"type:varchar(20);not null" json:"status"`
	HoursPlayed  float64    `json:"hours_played"`
	LastPlayedAt *time.Time `json:"last_played_at,omitempty"`
	Notes        string     `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Game *Game `gorm:"foreignKey:GameID" json:"game,omitempty"`
}

// TableName specifies the table name for the BacklogEntry model.
func (BacklogEntry) TableName() string {
	return "backlog_entries"
}
