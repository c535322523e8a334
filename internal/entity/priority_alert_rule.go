package entity

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// RuleType identifies which predicate a priority alert rule evaluates.
type RuleType string

const (
	RuleTypeMajorPatch     RuleType = "major_patch"
	RuleTypeBalanceChanges RuleType = "balance_changes"
	RuleTypeResurfacing    RuleType = "resurfacing"
	RuleTypeNewContent     RuleType = "new_content"
	RuleTypeHighPriority   RuleType = "high_priority"
	RuleTypeCustom         RuleType = "custom"
)

// RuleScope limits which games a rule applies to.
type RuleScope string

const (
	ScopeAllGames      RuleScope = "all_games"
	ScopeFollowedGames RuleScope = "followed_games"
	ScopeSpecificGames RuleScope = "specific_games"
)

// MaxRulesPerUser caps how many alert rules one user may keep.
const MaxRulesPerUser = 10

// PriorityAlertRule is a user-defined predicate over content metadata that
// boosts notification priority or forces push delivery when matched.
type PriorityAlertRule struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	UserID        uint              `gorm:"not null;index" json:"user_id"`
	Name          string            `gorm:"not null" json:"name"`
	Enabled       bool              `gorm:"default:true" json:"enabled"`
	RuleType      RuleType          `gorm:"type:varchar(20);not null" json:"rule_type"`
	Scope         RuleScope         `gorm:"type:varchar(20);not null" json:"scope"`
	GameIDs       pq.Int64Array     `gorm:"type:bigint[]" json:"game_ids"`
	Thresholds    datatypes.JSONMap `gorm:"type:jsonb" json:"thresholds"`
	PriorityBoost int               `json:"priority_boost"`
	ForcePush     bool              `gorm:"default:false" json:"force_push"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for the PriorityAlertRule model.
func (PriorityAlertRule) TableName() string {
	return "priority_alert_rules"
}

// Threshold returns the named numeric threshold, or the given default when the
// rule does not override it. Thresholds arrive as JSON numbers.
func (r *PriorityAlertRule) Threshold(key string, def float64) float64 {
	if r.Thresholds == nil {
		return def
	}
	v, ok := r.Thresholds[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return def
	}
}
