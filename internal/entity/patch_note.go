package entity

import (
	"time"

	"github.com/lib/pq"
)

// PatchNote is a raw patch note as ingested or entered by an admin. AI fields
// live on PatchSummary; a patch note without one is still pending enrichment.
type PatchNote struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	GameID      uint       `gorm:"not null;index" json:"game_id"`
	Title       string     `gorm:"not null" json:"title"`
	RawText     string     `gorm:"type:text" json:"raw_text"`
	SourceURL   string     `json:"source_url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Game    *Game         `gorm:"foreignKey:GameID" json:"game,omitempty"`
	Summary *PatchSummary `gorm:"foreignKey:PatchNoteID" json:"summary,omitempty"`
}

// TableName specifies the table name for the PatchNote model.
func (PatchNote) TableName() string {
	return "patch_notes"
}

// PatchSummary holds the AI-enriched view of a patch note. At most one row per
// patch note; the unique index makes concurrent enrichment converge.
type PatchSummary struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PatchNoteID uint           `gorm:"uniqueIndex;not null" json:"patch_note_id"`
	Summary     string         `gorm:"type:text" json:"summary"`
	TLDR        string         `gorm:"type:varchar(280)" json:"tldr"`
	ChangeTags  pq.StringArray `gorm:"type:text[]" json:"change_tags"`
	ImpactScore float64        `json:"impact_score"`
	Priority    int            `json:"priority"`
	Buffs       int            `json:"buffs"`
	Nerfs       int            `json:"nerfs"`
	NewSystems  int            `json:"new_systems"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the PatchSummary model.
func (PatchSummary) TableName() string {
	return "patch_summaries"
}
