package http

import (
	"net/http"
	"time"

	"patchpulse/internal/api/dto"
	"patchpulse/internal/api/service"
	"patchpulse/internal/enrich"
	"patchpulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// InsightHandler handles HTTP requests for enriched reader-facing content.
type InsightHandler struct {
	insightService service.InsightService
	gameService    service.GameService
	logger         *logger.Logger
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService service.InsightService, gameService service.GameService, logger *logger.Logger) *InsightHandler {
	return &InsightHandler{insightService: insightService, gameService: gameService, logger: logger}
}

// RegisterRoutes registers the insight routes. users is mounted under a
// :userID segment, games under the game catalog.
func (h *InsightHandler) RegisterRoutes(users, games *echo.Group) {
	users.GET("/games/:gameID/whats-new", h.WhatsNew)
	users.GET("/digest", h.Digest)
	users.GET("/backlog", h.Backlog)
	users.GET("/suggestions", h.Suggestions)
	users.POST("/suggestions/:id/dismiss", h.DismissSuggestion)
	users.POST("/suggestions/:id/act", h.ActOnSuggestion)

	games.GET("/:id/sentiment", h.Sentiment)
}

// WhatsNew returns the catch-up summary for a user and game.
func (h *InsightHandler) WhatsNew(c echo.Context) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}
	gameID, err := parseUintParam(c, "gameID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid game ID"})
	}

	var since *time.Time
	if raw := c.QueryParam("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid since date, expected RFC3339"})
		}
		since = &t
	}
	force := c.QueryParam("force") == "true"

	result, err := h.insightService.WhatsNew(c.Request().Context(), userID, gameID, since, force)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

// Digest returns the user's daily or weekly digest.
func (h *InsightHandler) Digest(c echo.Context) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	digestType := c.QueryParam("type")
	if digestType == "" {
		digestType = enrich.DigestTypeDaily
	}
	date := time.Now()
	if raw := c.QueryParam("date"); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid date, expected YYYY-MM-DD"})
		}
		date = d
	}
	force := c.QueryParam("force") == "true"

	result, err := h.insightService.Digest(c.Request().Context(), userID, date, digestType, force)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, result)
}

// Backlog lists the user's backlog entries.
func (h *InsightHandler) Backlog(c echo.Context) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	entries, err := h.gameService.GetBacklog(c.Request().Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get backlog", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get backlog"})
	}
	return c.JSON(http.StatusOK, entries)
}

// Sentiment returns the community sentiment rollup for a game.
func (h *InsightHandler) Sentiment(c echo.Context) error {
	gameID, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid game ID"})
	}
	refresh := c.QueryParam("refresh") == "true"

	sentiment, err := h.insightService.Sentiment(c.Request().Context(), gameID, refresh)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, sentiment)
}

// Suggestions lists the user's return suggestions.
func (h *InsightHandler) Suggestions(c echo.Context) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}
	includeDismissed := c.QueryParam("include_dismissed") == "true"

	suggestions, err := h.insightService.Suggestions(c.Request().Context(), userID, includeDismissed)
	if err != nil {
		h.logger.Error("Failed to get suggestions", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get suggestions"})
	}
	return c.JSON(http.StatusOK, suggestions)
}

// DismissSuggestion marks a suggestion as dismissed.
func (h *InsightHandler) DismissSuggestion(c echo.Context) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid suggestion ID"})
	}

	if err := h.insightService.DismissSuggestion(c.Request().Context(), userID, id); err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// ActOnSuggestion marks a suggestion as acted on.
func (h *InsightHandler) ActOnSuggestion(c echo.Context) error {
	userID, err := parseUintParam(c, "userID")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid suggestion ID"})
	}

	if err := h.insightService.ActOnSuggestion(c.Request().Context(), userID, id); err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
