package notify

import (
	"context"
	"fmt"
	"time"

	"patchpulse/internal/ai"
	"patchpulse/internal/alert"
	"patchpulse/internal/entity"
	"patchpulse/internal/repository"
	"patchpulse/pkg/logger"
	"patchpulse/pkg/notifier"

	gocache "github.com/patrickmn/go-cache"
)

// ResurfacingInactivity is how long a player must have been away from a game
// before its content events count as resurfacing for them.
const ResurfacingInactivity = 30 * 24 * time.Hour

// Dispatcher decides, per follower, whether a content event is worth a push
// and at what priority, then hands the copy to the transport.
type Dispatcher struct {
	alertRuleRepo repository.AlertRuleRepository
	userGameRepo  repository.UserGameRepository
	aiClient      ai.Client
	push          notifier.Notifier
	logger        *logger.Logger
	smartCopy     bool
	followedCache *gocache.Cache
}

// NewDispatcher creates a new Dispatcher. When smartCopy is set, notification
// copy is model-generated with a templated fallback; otherwise it is always
// templated.
func NewDispatcher(
	alertRuleRepo repository.AlertRuleRepository,
	userGameRepo repository.UserGameRepository,
	aiClient ai.Client,
	push notifier.Notifier,
	log *logger.Logger,
	smartCopy bool,
) *Dispatcher {
	return &Dispatcher{
		alertRuleRepo: alertRuleRepo,
		userGameRepo:  userGameRepo,
		aiClient:      aiClient,
		push:          push,
		logger:        log,
		smartCopy:     smartCopy,
		followedCache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// DispatchContentEvent fans a content event out to the game's followers.
// Delivery failures are logged per user and never abort the fan-out.
func (d *Dispatcher) DispatchContentEvent(ctx context.Context, game *entity.Game, contentTitle, summaryText string, ev alert.ContentEvent) {
	followerIDs, err := d.userGameRepo.FindFollowerIDs(ctx, game.ID)
	if err != nil {
		d.logger.Error("Failed to load followers", logger.ErrorField(err), logger.Field("game_id", game.ID))
		return
	}

	for _, userID := range followerIDs {
		userEv := ev
		userEv.IsResurfacing = d.isResurfacing(ctx, userID, game.ID)

		decision, err := d.decide(ctx, userID, userEv)
		if err != nil {
			d.logger.Error("Rule evaluation failed", logger.ErrorField(err), logger.Field("user_id", userID))
			continue
		}

		priority := userEv.Priority + decision.PriorityBoost
		if priority > ai.MaxPriority {
			priority = ai.MaxPriority
		}
		if !decision.Matched && userEv.Priority < alert.DefaultPriorityThreshold {
			continue
		}

		title, body := d.buildCopy(ctx, game.Name, contentTitle, summaryText)
		n := notifier.Notification{
			Title:     title,
			Body:      body,
			Priority:  priority,
			ForcePush: decision.ForcePush,
		}
		if err := d.push.Send(n); err != nil {
			d.logger.Error("Failed to deliver notification", logger.ErrorField(err), logger.Field("user_id", userID))
		}
	}
}

// decide loads the user's enabled rules and followed games and applies them.
func (d *Dispatcher) decide(ctx context.Context, userID uint, ev alert.ContentEvent) (alert.Decision, error) {
	rules, err := d.alertRuleRepo.FindEnabledByUser(ctx, userID)
	if err != nil {
		return alert.Decision{}, err
	}
	followed, err := d.followedGameIDs(ctx, userID)
	if err != nil {
		return alert.Decision{}, err
	}
	return alert.Apply(rules, ev, followed), nil
}

func (d *Dispatcher) followedGameIDs(ctx context.Context, userID uint) ([]uint, error) {
	key := fmt.Sprintf("followed:%d", userID)
	if v, ok := d.followedCache.Get(key); ok {
		return v.([]uint), nil
	}
	ids, err := d.userGameRepo.FindFollowedGameIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	d.followedCache.Set(key, ids, gocache.DefaultExpiration)
	return ids, nil
}

func (d *Dispatcher) isResurfacing(ctx context.Context, userID, gameID uint) bool {
	entry, err := d.userGameRepo.FindBacklogEntry(ctx, userID, gameID)
	if err != nil || entry == nil || entry.LastPlayedAt == nil {
		return false
	}
	return time.Since(*entry.LastPlayedAt) >= ResurfacingInactivity
}

// buildCopy produces the notification title/body, via the model when smart
// copy is enabled and falling back to a deterministic template on any
// failure.
func (d *Dispatcher) buildCopy(ctx context.Context, gameName, contentTitle, summaryText string) (string, string) {
	fallbackTitle := ai.Truncate(fmt.Sprintf("%s: %s", gameName, contentTitle), ai.MaxNotifTitleLen)
	fallbackBody := ai.Truncate(summaryText, ai.MaxNotifBodyLen)

	if !d.smartCopy {
		return fallbackTitle, fallbackBody
	}

	system, user := ai.BuildNotificationPrompt(gameName, contentTitle, summaryText)
	var copyResult ai.NotificationSchema
	if err := d.aiClient.GenerateJSON(ctx, system, user, ai.Options{}, &copyResult); err != nil {
		d.logger.Warn("Notification copy generation failed, using template", logger.ErrorField(err))
		return fallbackTitle, fallbackBody
	}
	copyResult.Sanitize()
	if copyResult.Title == "" {
		return fallbackTitle, fallbackBody
	}
	return copyResult.Title, copyResult.Body
}
