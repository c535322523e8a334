package service

import (
	"context"
	"fmt"
	"strings"

	"patchpulse/internal/alert"
	"patchpulse/internal/api/dto"
	"patchpulse/internal/enrich"
	"patchpulse/internal/entity"
	"patchpulse/internal/repository"
	"patchpulse/pkg/logger"
)

// AlertRuleService defines the interface for managing priority alert rules
// and evaluating them against content events.
type AlertRuleService interface {
	CreateRule(ctx context.Context, req *dto.CreateAlertRuleRequest) (*entity.PriorityAlertRule, error)
	GetRule(ctx context.Context, userID, id uint) (*entity.PriorityAlertRule, error)
	GetRulesByUser(ctx context.Context, userID uint) ([]entity.PriorityAlertRule, error)
	UpdateRule(ctx context.Context, userID, id uint, req *dto.UpdateAlertRuleRequest) (*entity.PriorityAlertRule, error)
	DeleteRule(ctx context.Context, userID, id uint) error
	Evaluate(ctx context.Context, userID uint, req *dto.EvaluateRulesRequest) (*dto.EvaluateRulesResponse, error)
}

// NewAlertRuleService creates a new alert rule service.
func NewAlertRuleService(
	ruleRepo repository.AlertRuleRepository,
	userGameRepo repository.UserGameRepository,
	log *logger.Logger,
) AlertRuleService {
	return &alertRuleService{
		ruleRepo:     ruleRepo,
		userGameRepo: userGameRepo,
		logger:       log,
	}
}

type alertRuleService struct {
	ruleRepo     repository.AlertRuleRepository
	userGameRepo repository.UserGameRepository
	logger       *logger.Logger
}

func (s *alertRuleService) CreateRule(ctx context.Context, req *dto.CreateAlertRuleRequest) (*entity.PriorityAlertRule, error) {
	if req.UserID == 0 {
		return nil, fmt.Errorf("%w: user_id is required", enrich.ErrInvalidInput)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", enrich.ErrInvalidInput)
	}
	ruleType := entity.RuleType(req.RuleType)
	scope := entity.RuleScope(req.Scope)
	if err := validateRuleShape(ruleType, scope, req.GameIDs, req.PriorityBoost); err != nil {
		return nil, err
	}

	count, err := s.ruleRepo.CountByUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count rules: %v", enrich.ErrPersistence, err)
	}
	if count >= entity.MaxRulesPerUser {
		return nil, fmt.Errorf("%w: at most %d rules per user", enrich.ErrInvalidInput, entity.MaxRulesPerUser)
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	rule := &entity.PriorityAlertRule{
		UserID:        req.UserID,
		Name:          req.Name,
		Enabled:       enabled,
		RuleType:      ruleType,
		Scope:         scope,
		GameIDs:       req.GameIDs,
		Thresholds:    thresholdsToJSONMap(req.Thresholds),
		PriorityBoost: req.PriorityBoost,
		ForcePush:     req.ForcePush,
	}
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("%w: failed to create rule: %v", enrich.ErrPersistence, err)
	}
	return rule, nil
}

func (s *alertRuleService) GetRule(ctx context.Context, userID, id uint) (*entity.PriorityAlertRule, error) {
	rule, err := s.ruleRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find rule: %v", enrich.ErrPersistence, err)
	}
	if rule == nil {
		return nil, fmt.Errorf("%w: rule %d", enrich.ErrNotFound, id)
	}
	return rule, nil
}

func (s *alertRuleService) GetRulesByUser(ctx context.Context, userID uint) ([]entity.PriorityAlertRule, error) {
	return s.ruleRepo.FindByUser(ctx, userID)
}

func (s *alertRuleService) UpdateRule(ctx context.Context, userID, id uint, req *dto.UpdateAlertRuleRequest) (*entity.PriorityAlertRule, error) {
	rule, err := s.GetRule(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		rule.Name = *req.Name
	}
	if req.Enabled != nil {
		rule.Enabled = *req.Enabled
	}
	if req.RuleType != nil {
		rule.RuleType = entity.RuleType(*req.RuleType)
	}
	if req.Scope != nil {
		rule.Scope = entity.RuleScope(*req.Scope)
	}
	if req.GameIDs != nil {
		rule.GameIDs = req.GameIDs
	}
	if req.Thresholds != nil {
		rule.Thresholds = thresholdsToJSONMap(req.Thresholds)
	}
	if req.PriorityBoost != nil {
		rule.PriorityBoost = *req.PriorityBoost
	}
	if req.ForcePush != nil {
		rule.ForcePush = *req.ForcePush
	}

	if err := validateRuleShape(rule.RuleType, rule.Scope, rule.GameIDs, rule.PriorityBoost); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Update(ctx, rule); err != nil {
		return nil, fmt.Errorf("%w: failed to update rule: %v", enrich.ErrPersistence, err)
	}
	return rule, nil
}

func (s *alertRuleService) DeleteRule(ctx context.Context, userID, id uint) error {
	if _, err := s.GetRule(ctx, userID, id); err != nil {
		return err
	}
	if err := s.ruleRepo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("%w: failed to delete rule: %v", enrich.ErrPersistence, err)
	}
	return nil
}

// Evaluate runs the user's enabled rules against a hypothetical content
// event and returns the aggregate decision.
func (s *alertRuleService) Evaluate(ctx context.Context, userID uint, req *dto.EvaluateRulesRequest) (*dto.EvaluateRulesResponse, error) {
	rules, err := s.ruleRepo.FindEnabledByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load rules: %v", enrich.ErrPersistence, err)
	}
	followed, err := s.userGameRepo.FindFollowedGameIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load followed games: %v", enrich.ErrPersistence, err)
	}

	ev := alert.ContentEvent{
		GameID:        req.GameID,
		ImpactScore:   req.ImpactScore,
		Priority:      req.Priority,
		IsResurfacing: req.IsResurfacing,
		DiffStats: alert.DiffStats{
			Buffs:      req.Buffs,
			Nerfs:      req.Nerfs,
			NewSystems: req.NewSystems,
		},
	}
	decision := alert.Apply(rules, ev, followed)
	return &dto.EvaluateRulesResponse{
		Matched:       decision.Matched,
		PriorityBoost: decision.PriorityBoost,
		ForcePush:     decision.ForcePush,
	}, nil
}

func validateRuleShape(ruleType entity.RuleType, scope entity.RuleScope, gameIDs []int64, boost int) error {
	switch ruleType {
	case entity.RuleTypeMajorPatch, entity.RuleTypeBalanceChanges, entity.RuleTypeResurfacing,
		entity.RuleTypeNewContent, entity.RuleTypeHighPriority, entity.RuleTypeCustom:
	default:
		return fmt.Errorf("%w: invalid rule_type %q", enrich.ErrInvalidInput, ruleType)
	}
	switch scope {
	case entity.ScopeAllGames, entity.ScopeFollowedGames:
	case entity.ScopeSpecificGames:
		if len(gameIDs) == 0 {
			return fmt.Errorf("%w: specific_games scope requires game_ids", enrich.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: invalid scope %q", enrich.ErrInvalidInput, scope)
	}
	if boost < 0 || boost > alert.MaxPriorityBoost {
		return fmt.Errorf("%w: priority_boost must be between 0 and %d", enrich.ErrInvalidInput, alert.MaxPriorityBoost)
	}
	return nil
}

func thresholdsToJSONMap(thresholds map[string]float64) map[string]interface{} {
	if thresholds == nil {
		return nil
	}
	m := make(map[string]interface{}, len(thresholds))
	for k, v := range thresholds {
		m[k] = v
	}
	return m
}
