package alert

import (
	"testing"

	"patchpulse/internal/entity"

	"github.com/stretchr/testify/assert"
)

func rule(ruleType entity.RuleType, scope entity.RuleScope, boost int, forcePush bool) entity.PriorityAlertRule {
	return entity.PriorityAlertRule{
		Enabled:       true,
		RuleType:      ruleType,
		Scope:         scope,
		PriorityBoost: boost,
		ForcePush:     forcePush,
	}
}

func TestRuleMatchesMajorPatch(t *testing.T) {
	r := rule(entity.RuleTypeMajorPatch, entity.ScopeAllGames, 1, false)

	assert.True(t, RuleMatches(&r, ContentEvent{ImpactScore: 7}, nil))
	assert.True(t, RuleMatches(&r, ContentEvent{ImpactScore: 9.5}, nil))
	assert.False(t, RuleMatches(&r, ContentEvent{ImpactScore: 6.9}, nil))
}

func TestRuleMatchesMajorPatchCustomThreshold(t *testing.T) {
	r := rule(entity.RuleTypeMajorPatch, entity.ScopeAllGames, 1, false)
	r.Thresholds = map[string]interface{}{"impact_score": 9.0}

	assert.False(t, RuleMatches(&r, ContentEvent{ImpactScore: 8}, nil))
	assert.True(t, RuleMatches(&r, ContentEvent{ImpactScore: 9}, nil))
}

func TestRuleMatchesBalanceChanges(t *testing.T) {
	r := rule(entity.RuleTypeBalanceChanges, entity.ScopeAllGames, 1, false)

	assert.True(t, RuleMatches(&r, ContentEvent{DiffStats: DiffStats{Buffs: 3}}, nil))
	assert.True(t, RuleMatches(&r, ContentEvent{DiffStats: DiffStats{Nerfs: 4}}, nil))
	assert.False(t, RuleMatches(&r, ContentEvent{DiffStats: DiffStats{Buffs: 2, Nerfs: 2}}, nil))
}

func TestRuleMatchesResurfacing(t *testing.T) {
	r := rule(entity.RuleTypeResurfacing, entity.ScopeAllGames, 1, false)

	assert.True(t, RuleMatches(&r, ContentEvent{IsResurfacing: true}, nil))
	assert.False(t, RuleMatches(&r, ContentEvent{IsResurfacing: false}, nil))
}

func TestRuleMatchesNewContent(t *testing.T) {
	r := rule(entity.RuleTypeNewContent, entity.ScopeAllGames, 1, false)

	assert.True(t, RuleMatches(&r, ContentEvent{DiffStats: DiffStats{NewSystems: 1}}, nil))
	assert.False(t, RuleMatches(&r, ContentEvent{}, nil))
}

func TestRuleMatchesHighPriority(t *testing.T) {
	r := rule(entity.RuleTypeHighPriority, entity.ScopeAllGames, 1, false)

	assert.True(t, RuleMatches(&r, ContentEvent{Priority: 4}, nil))
	assert.False(t, RuleMatches(&r, ContentEvent{Priority: 3}, nil))
}

func TestRuleMatchesCustomNeverMatches(t *testing.T) {
	r := rule(entity.RuleTypeCustom, entity.ScopeAllGames, 2, true)

	assert.False(t, RuleMatches(&r, ContentEvent{ImpactScore: 10, Priority: 5}, nil))
}

func TestScopeFollowedGames(t *testing.T) {
	r := rule(entity.RuleTypeMajorPatch, entity.ScopeFollowedGames, 1, false)
	ev := ContentEvent{GameID: 7, ImpactScore: 10}

	assert.True(t, RuleMatches(&r, ev, []uint{3, 7}))
	assert.False(t, RuleMatches(&r, ev, []uint{3, 4}))
	assert.False(t, RuleMatches(&r, ev, nil))
}

func TestScopeSpecificGames(t *testing.T) {
	r := rule(entity.RuleTypeMajorPatch, entity.ScopeSpecificGames, 1, false)
	r.GameIDs = []int64{5, 9}
	ev := ContentEvent{GameID: 9, ImpactScore: 10}

	assert.True(t, RuleMatches(&r, ev, nil))
	ev.GameID = 4
	assert.False(t, RuleMatches(&r, ev, nil))
}

func TestApplyZeroRules(t *testing.T) {
	d := Apply(nil, ContentEvent{ImpactScore: 10, Priority: 5}, nil)

	assert.Equal(t, Decision{}, d)
}

func TestApplySkipsDisabledRules(t *testing.T) {
	r := rule(entity.RuleTypeMajorPatch, entity.ScopeAllGames, 2, true)
	r.Enabled = false

	d := Apply([]entity.PriorityAlertRule{r}, ContentEvent{ImpactScore: 10}, nil)

	assert.Equal(t, Decision{}, d)
}

// A balance rule with forced push plus a major-patch rule with a boost must
// aggregate into a single boosted, force-pushed decision.
func TestApplyAggregatesBoostAndForcePush(t *testing.T) {
	rules := []entity.PriorityAlertRule{
		rule(entity.RuleTypeMajorPatch, entity.ScopeAllGames, 2, false),
		rule(entity.RuleTypeBalanceChanges, entity.ScopeAllGames, 1, true),
	}
	ev := ContentEvent{ImpactScore: 8, DiffStats: DiffStats{Nerfs: 5}}

	d := Apply(rules, ev, nil)

	assert.True(t, d.Matched)
	assert.Equal(t, 2, d.PriorityBoost)
	assert.True(t, d.ForcePush)
}

func TestApplyCapsBoost(t *testing.T) {
	r := rule(entity.RuleTypeMajorPatch, entity.ScopeAllGames, 5, false)

	d := Apply([]entity.PriorityAlertRule{r}, ContentEvent{ImpactScore: 10}, nil)

	assert.Equal(t, MaxPriorityBoost, d.PriorityBoost)
}

// Raising the impact score of an event must never turn a matching decision
// into a non-matching one.
func TestApplyMonotonicInImpactScore(t *testing.T) {
	rules := []entity.PriorityAlertRule{
		rule(entity.RuleTypeMajorPatch, entity.ScopeAllGames, 1, false),
	}

	matchedBefore := false
	for score := 0.0; score <= 10.0; score += 0.5 {
		d := Apply(rules, ContentEvent{ImpactScore: score}, nil)
		if matchedBefore {
			assert.True(t, d.Matched, "match lost at impact score %.1f", score)
		}
		if d.Matched {
			matchedBefore = true
		}
	}
	assert.True(t, matchedBefore)
}

func TestApplyIdempotent(t *testing.T) {
	rules := []entity.PriorityAlertRule{
		rule(entity.RuleTypeHighPriority, entity.ScopeAllGames, 1, true),
	}
	ev := ContentEvent{Priority: 5}

	first := Apply(rules, ev, nil)
	second := Apply(rules, ev, nil)

	assert.Equal(t, first, second)
}
