package alert

import "patchpulse/internal/entity"

// DiffStats carries the change counters extracted during enrichment.
type DiffStats struct {
	Buffs      int `json:"buffs"`
	Nerfs      int `json:"nerfs"`
	NewSystems int `json:"new_systems"`
}

// ContentEvent is the metadata of an enriched patch or news item that alert
// rules are evaluated against.
type ContentEvent struct {
	GameID        uint      `json:"game_id"`
	ImpactScore   float64   `json:"impact_score"`
	Priority      int       `json:"priority"`
	IsResurfacing bool      `json:"is_resurfacing"`
	DiffStats     DiffStats `json:"diff_stats"`
}

// Decision is the aggregate outcome of evaluating a user's rules for an event.
type Decision struct {
	Matched       bool `json:"matched"`
	PriorityBoost int  `json:"priority_boost"`
	ForcePush     bool `json:"force_push"`
}

// MaxPriorityBoost caps the aggregate boost regardless of rule settings.
const MaxPriorityBoost = 2

// Default thresholds used when a rule does not override them.
const (
	DefaultImpactScoreThreshold = 7
	DefaultBuffsMin             = 3
	DefaultNerfsMin             = 3
	DefaultNewSystemsMin        = 1
	DefaultPriorityThreshold    = 4
)

// RuleMatches reports whether a single rule matches the event. The scope gate
// is evaluated first; the type predicate only runs when scope passes.
func RuleMatches(rule *entity.PriorityAlertRule, ev ContentEvent, followedGameIDs []uint) bool {
	if !scopePasses(rule, ev, followedGameIDs) {
		return false
	}

	switch rule.RuleType {
	case entity.RuleTypeMajorPatch:
		return ev.ImpactScore >= rule.Threshold("impact_score", DefaultImpactScoreThreshold)
	case entity.RuleTypeBalanceChanges:
		return float64(ev.DiffStats.Buffs) >= rule.Threshold("buffs_min", DefaultBuffsMin) ||
			float64(ev.DiffStats.Nerfs) >= rule.Threshold("nerfs_min", DefaultNerfsMin)
	case entity.RuleTypeResurfacing:
		return ev.IsResurfacing
	case entity.RuleTypeNewContent:
		return float64(ev.DiffStats.NewSystems) >= rule.Threshold("new_systems_min", DefaultNewSystemsMin)
	case entity.RuleTypeHighPriority:
		return float64(ev.Priority) >= rule.Threshold("priority", DefaultPriorityThreshold)
	case entity.RuleTypeCustom:
		// Custom rules are stored but never match. Known gap carried over
		// from the product definition; do not infer matching logic here.
		return false
	default:
		return false
	}
}

func scopePasses(rule *entity.PriorityAlertRule, ev ContentEvent, followedGameIDs []uint) bool {
	switch rule.Scope {
	case entity.ScopeAllGames:
		return true
	case entity.ScopeFollowedGames:
		return containsID(followedGameIDs, ev.GameID)
	case entity.ScopeSpecificGames:
		for _, id := range rule.GameIDs {
			if uint(id) == ev.GameID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Apply evaluates all of a user's rules against the event and aggregates:
// maximum priority boost among matches (capped), logical OR of force_push.
// Disabled rules are skipped; zero rules or zero matches yields the zero
// Decision.
func Apply(rules []entity.PriorityAlertRule, ev ContentEvent, followedGameIDs []uint) Decision {
	var d Decision
	for i := range rules {
		rule := &rules[i]
		if !rule.Enabled {
			continue
		}
		if !RuleMatches(rule, ev, followedGameIDs) {
			continue
		}
		d.Matched = true
		if rule.PriorityBoost > d.PriorityBoost {
			d.PriorityBoost = rule.PriorityBoost
		}
		d.ForcePush = d.ForcePush || rule.ForcePush
	}
	if d.PriorityBoost > MaxPriorityBoost {
		d.PriorityBoost = MaxPriorityBoost
	}
	return d
}
