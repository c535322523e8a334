package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patchpulse/internal/ai"
	"patchpulse/internal/alert"
	"patchpulse/internal/entity"
	"patchpulse/pkg/logger"
	"patchpulse/pkg/notifier"
)

type fakeAIClient struct {
	response string
	err      error
	calls    int
}

func (c *fakeAIClient) GenerateCompletion(_ context.Context, _, _ string, _ ai.Options) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.response, nil
}

func (c *fakeAIClient) GenerateJSON(_ context.Context, _, _ string, _ ai.Options, out any) error {
	c.calls++
	if c.err != nil {
		return c.err
	}
	return json.Unmarshal([]byte(c.response), out)
}

func (c *fakeAIClient) Embed(_ string) []float32 { return nil }

type fakeRuleRepo struct {
	rulesByUser map[uint][]entity.PriorityAlertRule
}

func (r *fakeRuleRepo) Create(_ context.Context, _ *entity.PriorityAlertRule) error { return nil }
func (r *fakeRuleRepo) Update(_ context.Context, _ *entity.PriorityAlertRule) error { return nil }
func (r *fakeRuleRepo) Delete(_ context.Context, _, _ uint) error                   { return nil }

func (r *fakeRuleRepo) FindByID(_ context.Context, _, _ uint) (*entity.PriorityAlertRule, error) {
	return nil, nil
}

func (r *fakeRuleRepo) FindByUser(_ context.Context, userID uint) ([]entity.PriorityAlertRule, error) {
	return r.rulesByUser[userID], nil
}

func (r *fakeRuleRepo) FindEnabledByUser(_ context.Context, userID uint) ([]entity.PriorityAlertRule, error) {
	var out []entity.PriorityAlertRule
	for _, rule := range r.rulesByUser[userID] {
		if rule.Enabled {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (r *fakeRuleRepo) CountByUser(_ context.Context, userID uint) (int64, error) {
	return int64(len(r.rulesByUser[userID])), nil
}

type fakeFollowerRepo struct {
	followerIDs []uint
	followedIDs []uint
	backlog     map[uint]*entity.BacklogEntry
}

func (r *fakeFollowerRepo) Follow(_ context.Context, _ *entity.UserGameFollow) error { return nil }
func (r *fakeFollowerRepo) Unfollow(_ context.Context, _, _ uint) error              { return nil }

func (r *fakeFollowerRepo) FindFollowedGameIDs(_ context.Context, _ uint) ([]uint, error) {
	return r.followedIDs, nil
}

func (r *fakeFollowerRepo) FindFollowerIDs(_ context.Context, _ uint) ([]uint, error) {
	return r.followerIDs, nil
}

func (r *fakeFollowerRepo) UpsertBacklogEntry(_ context.Context, _ *entity.BacklogEntry) error {
	return nil
}

func (r *fakeFollowerRepo) FindBacklogByUser(_ context.Context, _ uint) ([]entity.BacklogEntry, error) {
	return nil, nil
}

func (r *fakeFollowerRepo) FindBacklogEntry(_ context.Context, userID, _ uint) (*entity.BacklogEntry, error) {
	return r.backlog[userID], nil
}

func (r *fakeFollowerRepo) FindShelvedBacklogByGame(_ context.Context, _ uint) ([]entity.BacklogEntry, error) {
	return nil, nil
}

type capturingNotifier struct {
	sent []notifier.Notification
	err  error
}

func (n *capturingNotifier) Send(notification notifier.Notification) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, notification)
	return nil
}

func enabledRule(userID uint, ruleType entity.RuleType, boost int, forcePush bool) entity.PriorityAlertRule {
	return entity.PriorityAlertRule{
		UserID:        userID,
		Name:          fmt.Sprintf("%s rule", ruleType),
		Enabled:       true,
		RuleType:      ruleType,
		Scope:         entity.ScopeAllGames,
		PriorityBoost: boost,
		ForcePush:     forcePush,
	}
}

func dispatcherFixture(t *testing.T, ruleRepo *fakeRuleRepo, followerRepo *fakeFollowerRepo, aiClient *fakeAIClient, smartCopy bool) (*Dispatcher, *capturingNotifier) {
	t.Helper()
	log, err := logger.New("error", "console")
	require.NoError(t, err)
	push := &capturingNotifier{}
	return NewDispatcher(ruleRepo, followerRepo, aiClient, push, log, smartCopy), push
}

func testGame() *entity.Game {
	return &entity.Game{ID: 1, Name: "Starfall"}
}

func TestDispatchSendsOnMatchedRule(t *testing.T) {
	ruleRepo := &fakeRuleRepo{rulesByUser: map[uint][]entity.PriorityAlertRule{
		5: {enabledRule(5, entity.RuleTypeMajorPatch, 1, true)},
	}}
	followerRepo := &fakeFollowerRepo{followerIDs: []uint{5}}
	d, push := dispatcherFixture(t, ruleRepo, followerRepo, &fakeAIClient{}, false)

	d.DispatchContentEvent(context.Background(), testGame(), "Patch 2.1", "Balance pass.",
		alert.ContentEvent{GameID: 1, ImpactScore: 9, Priority: 3})

	require.Len(t, push.sent, 1)
	assert.Equal(t, 4, push.sent[0].Priority, "base priority plus rule boost")
	assert.True(t, push.sent[0].ForcePush)
	assert.Equal(t, "Starfall: Patch 2.1", push.sent[0].Title)
	assert.Equal(t, "Balance pass.", push.sent[0].Body)
}

func TestDispatchSkipsLowPriorityUnmatched(t *testing.T) {
	ruleRepo := &fakeRuleRepo{rulesByUser: map[uint][]entity.PriorityAlertRule{}}
	followerRepo := &fakeFollowerRepo{followerIDs: []uint{5}}
	d, push := dispatcherFixture(t, ruleRepo, followerRepo, &fakeAIClient{}, false)

	d.DispatchContentEvent(context.Background(), testGame(), "Patch 2.1", "Minor fixes.",
		alert.ContentEvent{GameID: 1, ImpactScore: 2, Priority: alert.DefaultPriorityThreshold - 1})

	assert.Empty(t, push.sent)
}

func TestDispatchSendsHighBasePriorityWithoutRules(t *testing.T) {
	ruleRepo := &fakeRuleRepo{rulesByUser: map[uint][]entity.PriorityAlertRule{}}
	followerRepo := &fakeFollowerRepo{followerIDs: []uint{5}}
	d, push := dispatcherFixture(t, ruleRepo, followerRepo, &fakeAIClient{}, false)

	d.DispatchContentEvent(context.Background(), testGame(), "Patch 2.1", "Huge rework.",
		alert.ContentEvent{GameID: 1, ImpactScore: 9, Priority: alert.DefaultPriorityThreshold})

	require.Len(t, push.sent, 1)
	assert.Equal(t, alert.DefaultPriorityThreshold, push.sent[0].Priority)
	assert.False(t, push.sent[0].ForcePush)
}

func TestDispatchCapsBoostedPriority(t *testing.T) {
	ruleRepo := &fakeRuleRepo{rulesByUser: map[uint][]entity.PriorityAlertRule{
		5: {enabledRule(5, entity.RuleTypeMajorPatch, alert.MaxPriorityBoost, false)},
	}}
	followerRepo := &fakeFollowerRepo{followerIDs: []uint{5}}
	d, push := dispatcherFixture(t, ruleRepo, followerRepo, &fakeAIClient{}, false)

	d.DispatchContentEvent(context.Background(), testGame(), "Patch 2.1", "Overhaul.",
		alert.ContentEvent{GameID: 1, ImpactScore: 10, Priority: ai.MaxPriority})

	require.Len(t, push.sent, 1)
	assert.Equal(t, ai.MaxPriority, push.sent[0].Priority)
}

func TestDispatchDetectsResurfacing(t *testing.T) {
	longAgo := time.Now().Add(-ResurfacingInactivity - 24*time.Hour)
	ruleRepo := &fakeRuleRepo{rulesByUser: map[uint][]entity.PriorityAlertRule{
		5: {enabledRule(5, entity.RuleTypeResurfacing, 1, false)},
	}}
	followerRepo := &fakeFollowerRepo{
		followerIDs: []uint{5},
		backlog:     map[uint]*entity.BacklogEntry{5: {UserID: 5, GameID: 1, LastPlayedAt: &longAgo}},
	}
	d, push := dispatcherFixture(t, ruleRepo, followerRepo, &fakeAIClient{}, false)

	d.DispatchContentEvent(context.Background(), testGame(), "Patch 2.1", "New season.",
		alert.ContentEvent{GameID: 1, ImpactScore: 3, Priority: 2})

	require.Len(t, push.sent, 1, "resurfacing rule must match a long-inactive follower")
	assert.Equal(t, 3, push.sent[0].Priority)
}

func TestDispatchSmartCopyFallsBackOnModelFailure(t *testing.T) {
	ruleRepo := &fakeRuleRepo{rulesByUser: map[uint][]entity.PriorityAlertRule{
		5: {enabledRule(5, entity.RuleTypeMajorPatch, 0, false)},
	}}
	followerRepo := &fakeFollowerRepo{followerIDs: []uint{5}}
	d, push := dispatcherFixture(t, ruleRepo, followerRepo, &fakeAIClient{err: errors.New("timeout")}, true)

	d.DispatchContentEvent(context.Background(), testGame(), "Patch 2.1", "Balance pass.",
		alert.ContentEvent{GameID: 1, ImpactScore: 9, Priority: 3})

	require.Len(t, push.sent, 1)
	assert.Equal(t, "Starfall: Patch 2.1", push.sent[0].Title)
}

func TestDispatchSmartCopyUsesGeneratedTitle(t *testing.T) {
	ruleRepo := &fakeRuleRepo{rulesByUser: map[uint][]entity.PriorityAlertRule{
		5: {enabledRule(5, entity.RuleTypeMajorPatch, 0, false)},
	}}
	followerRepo := &fakeFollowerRepo{followerIDs: []uint{5}}
	aiClient := &fakeAIClient{response: `{"title": "Starfall just got rebalanced", "body": "Six classes buffed."}`}
	d, push := dispatcherFixture(t, ruleRepo, followerRepo, aiClient, true)

	d.DispatchContentEvent(context.Background(), testGame(), "Patch 2.1", "Balance pass.",
		alert.ContentEvent{GameID: 1, ImpactScore: 9, Priority: 3})

	require.Len(t, push.sent, 1)
	assert.Equal(t, "Starfall just got rebalanced", push.sent[0].Title)
	assert.Equal(t, "Six classes buffed.", push.sent[0].Body)
}
