package dto

import "time"

// CreateGameRequest is the payload for registering a game.
type CreateGameRequest struct {
	Name      string   `json:"name"`
	Slug      string   `json:"slug"`
	Developer string   `json:"developer"`
	Genres    []string `json:"genres"`
	FeedURL   string   `json:"feed_url"`
}

// FollowRequest marks a user as following a game.
type FollowRequest struct {
	UserID        uint `json:"user_id"`
	NotifyEnabled bool `json:"notify_enabled"`
}

// BacklogRequest upserts a user's backlog entry for a game.
type BacklogRequest struct {
	UserID       uint       `json:"user_id"`
	Status       string     `json:"status"`
	HoursPlayed  float64    `json:"hours_played"`
	LastPlayedAt *time.Time `json:"last_played_at"`
	Notes        string     `json:"notes"`
}
