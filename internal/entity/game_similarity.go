package entity

import "time"

// GameSimilarity records an AI-judged similarity between two games, used for
// "players of X also follow Y" recommendations. Stored once per ordered pair.
type GameSimilarity struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	GameID        uint      `gorm:"not null;uniqueIndex:uniq_game_similarity" json:"game_id"`
	SimilarGameID uint      `gorm:"not null;uniqueIndex:uniq_game_similarity" json:"similar_game_id"`
	Score         float64   `json:"score"`
	Reason        string    `gorm:"type:text" json:"reason"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the GameSimilarity model.
func (GameSimilarity) TableName() string {
	return "game_similarities"
}
