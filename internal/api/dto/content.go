package dto

import "time"

// CreatePatchNoteRequest is the payload for submitting a raw patch note.
type CreatePatchNoteRequest struct {
	GameID      uint       `json:"game_id"`
	Title       string     `json:"title"`
	RawText     string     `json:"raw_text"`
	SourceURL   string     `json:"source_url"`
	PublishedAt *time.Time `json:"published_at"`
	// Enrich schedules an async summary job right after creation.
	Enrich bool `json:"enrich"`
}

// CreateNewsItemRequest is the payload for submitting a raw news item.
type CreateNewsItemRequest struct {
	GameID      *uint      `json:"game_id"`
	Title       string     `json:"title"`
	RawText     string     `json:"raw_text"`
	Link        string     `json:"link"`
	Source      string     `json:"source"`
	PublishedAt *time.Time `json:"published_at"`
	Enrich      bool       `json:"enrich"`
}

// EnrichRequest triggers a synchronous enrichment of stored content.
type EnrichRequest struct {
	Force bool `json:"force"`
}
