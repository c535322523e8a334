package http

import (
	"net/http"

	"patchpulse/internal/api/dto"
	"patchpulse/internal/api/service"
	"patchpulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AlertRuleHandler handles HTTP requests for priority alert rules.
type AlertRuleHandler struct {
	ruleService service.AlertRuleService
	logger      *logger.Logger
}

// NewAlertRuleHandler creates a new AlertRuleHandler.
func NewAlertRuleHandler(ruleService service.AlertRuleService, logger *logger.Logger) *AlertRuleHandler {
	return &AlertRuleHandler{ruleService: ruleService, logger: logger}
}

// RegisterRoutes registers the alert rule routes to the Echo group. The
// group is expected to be mounted under a :userID path segment.
func (h *AlertRuleHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateRule)
	g.GET("", h.GetRules)
	g.GET("/:id", h.GetRule)
	g.PUT("/:id", h.UpdateRule)
	g.DELETE("/:id", h.DeleteRule)
	g.POST("/evaluate", h.Evaluate)
}

// CreateRule creates a new priority alert rule for the user.
func (h *AlertRuleHandler) CreateRule(c echo.Context) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}
	var req dto.CreateAlertRuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	req.UserID = userID

	rule, err := h.ruleService.CreateRule(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, rule)
}

// GetRules lists the user's rules.
func (h *AlertRuleHandler) GetRules(c echo.Context) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	rules, err := h.ruleService.GetRulesByUser(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get rules", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get rules"})
	}
	return c.JSON(http.StatusOK, rules)
}

// GetRule returns one of the user's rules.
func (h *AlertRuleHandler) GetRule(c echo.Context) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid rule ID"})
	}

	rule, err := h.ruleService.GetRule(c.Request().Context(), userID, id)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, rule)
}

// UpdateRule updates one of the user's rules.
func (h *AlertRuleHandler) UpdateRule(c echo.Context) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid rule ID"})
	}
	var req dto.UpdateAlertRuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	rule, err := h.ruleService.UpdateRule(c.Request().Context(), userID, id, &req)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, rule)
}

// DeleteRule deletes one of the user's rules.
func (h *AlertRuleHandler) DeleteRule(c echo.Context) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid rule ID"})
	}

	if err := h.ruleService.DeleteRule(c.Request().Context(), userID, id); err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// Evaluate runs the user's enabled rules against a hypothetical content
// event.
func (h *AlertRuleHandler) Evaluate(c echo.Context) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}
	var req dto.EvaluateRulesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	decision, err := h.ruleService.Evaluate(c.Request().Context(), userID, &req)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, decision)
}
