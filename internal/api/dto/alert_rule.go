package dto

// CreateAlertRuleRequest is the payload for creating a priority alert rule.
type CreateAlertRuleRequest struct {
	UserID        uint               `json:"user_id"`
	Name          string             `json:"name"`
	Enabled       *bool              `json:"enabled"`
	RuleType      string             `json:"rule_type"`
	Scope         string             `json:"scope"`
	GameIDs       []int64            `json:"game_ids"`
	Thresholds    map[string]float64 `json:"thresholds"`
	PriorityBoost int                `json:"priority_boost"`
	ForcePush     bool               `json:"force_push"`
}

// UpdateAlertRuleRequest is the payload for updating a priority alert rule.
// Nil fields are left unchanged.
type UpdateAlertRuleRequest struct {
	Name          *string            `json:"name"`
	Enabled       *bool              `json:"enabled"`
	RuleType      *string            `json:"rule_type"`
	Scope         *string            `json:"scope"`
	GameIDs       []int64            `json:"game_ids"`
	Thresholds    map[string]float64 `json:"thresholds"`
	PriorityBoost *int               `json:"priority_boost"`
	ForcePush     *bool              `json:"force_push"`
}

// EvaluateRulesRequest describes a hypothetical content event to run a user's
// rules against.
type EvaluateRulesRequest struct {
	GameID        uint    `json:"game_id"`
	ImpactScore   float64 `json:"impact_score"`
	Priority      int     `json:"priority"`
	IsResurfacing bool    `json:"is_resurfacing"`
	Buffs         int     `json:"buffs"`
	Nerfs         int     `json:"nerfs"`
	NewSystems    int     `json:"new_systems"`
}

// EvaluateRulesResponse is the aggregate decision over the user's rules.
type EvaluateRulesResponse struct {
	Matched       bool `json:"matched"`
	PriorityBoost int  `json:"priority_boost"`
	ForcePush     bool `json:"force_push"`
}
