package entity

import "time"

// ReturnSuggestion proposes that a user picks a backlogged game back up
// because a recent patch matches why they shelved it. Only created when the
// match confidence clears the minimum and no suggestion exists for the same
// (user, game, patch) triple.
type ReturnSuggestion struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:uniq_return_suggestion" json:"user_id"`
	GameID         uint      `gorm:"not null;uniqueIndex:uniq_return_suggestion" json:"game_id"`
	PatchNoteID    uint      `gorm:"not null;uniqueIndex:uniq_return_suggestion" json:"patch_note_id"`
	BacklogEntryID uint      `gorm:"not null" json:"backlog_entry_id"`
	MatchReason    string    `gorm:"type:text" json:"match_reason"`
	Confidence     float64   `json:"confidence"`
	IsDismissed    bool      `gorm:"default:false" json:"is_dismissed"`
	IsActedOn      bool      `gorm:"default:false" json:"is_acted_on"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the ReturnSuggestion model.
func (ReturnSuggestion) TableName() string {
	return "return_suggestions"
}

// MinReturnMatchConfidence is the floor below which no suggestion is created.
const MinReturnMatchConfidence = 0.6
