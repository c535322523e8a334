package entity

import "time"

// DigestCache stores a generated per-user digest, valid until ExpiresAt.
type DigestCache struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:uniq_digest_key" json:"user_id"`
	DigestDate  string    `gorm:"type:varchar(10);not null;uniqueIndex:uniq_digest_key" json:"digest_date"`
	DigestType  string    `gorm:"type:varchar(20);not null;uniqueIndex:uniq_digest_key" json:"digest_type"`
	Content     string    `gorm:"type:text" json:"content"`
	SourceCount int       `json:"source_count"`
	ExpiresAt   time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the DigestCache model.
func (DigestCache) TableName() string {
	return "digest_caches"
}

// IsValid reports whether the cache row may still be served.
func (d *DigestCache) IsValid(now time.Time) bool {
	return now.Before(d.ExpiresAt)
}

// WhatsNewCache stores the "what's new since you last played" summary for a
// (user, game) pair. A row is only served when it is unexpired and was built
// for the same since-played timestamp.
type WhatsNewCache struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;uniqueIndex:uniq_whats_new_key" json:"user_id"`
	GameID     uint      `gorm:"not null;uniqueIndex:uniq_whats_new_key" json:"game_id"`
	SinceDate  time.Time `gorm:"not null" json:"since_date"`
	Summary    string    `gorm:"type:text" json:"summary"`
	PatchCount int       `json:"patch_count"`
	NewsCount  int       `json:"news_count"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the WhatsNewCache model.
func (WhatsNewCache) TableName() string {
	return "whats_new_caches"
}

// IsValidFor reports whether the cache row may be served for the given
// since-played timestamp.
func (w *WhatsNewCache) IsValidFor(now, since time.Time) bool {
	return now.Before(w.ExpiresAt) && w.SinceDate.Equal(since)
}
