package http

import (
	"net/http"
	"strconv"

	"patchpulse/internal/api/dto"
	"patchpulse/internal/api/service"
	"patchpulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GameHandler handles HTTP requests for the game catalog, follows and
// backlog.
type GameHandler struct {
	gameService service.GameService
	logger      *logger.Logger
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(gameService service.GameService, logger *logger.Logger) *GameHandler {
	return &GameHandler{gameService: gameService, logger: logger}
}

// RegisterRoutes registers the game routes to the Echo group.
func (h *GameHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateGame)
	g.GET("", h.GetAllGames)
	g.GET("/:id", h.GetGameByID)
	g.GET("/:id/similar", h.GetSimilarGames)
	g.POST("/:id/follow", h.Follow)
	g.DELETE("/:id/follow", h.Unfollow)
	g.PUT("/:id/backlog", h.UpsertBacklog)
}

// CreateGame registers a new game in the catalog.
func (h *GameHandler) CreateGame(c echo.Context) error {
	var req dto.CreateGameRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	game, err := h.gameService.CreateGame(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, game)
}

// GetAllGames lists the catalog.
func (h *GameHandler) GetAllGames(c echo.Context) error {
	games, err := h.gameService.GetAllGames(c.Request().Context())
	if err != nil {
		h.logger.Error("Failed to get all games", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to get games"})
	}
	return c.JSON(http.StatusOK, games)
}

// GetGameByID returns a single game.
func (h *GameHandler) GetGameByID(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid game ID"})
	}

	game, err := h.gameService.GetGameByID(c.Request().Context(), id)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, game)
}

// GetSimilarGames lists the top similar games for a game.
func (h *GameHandler) GetSimilarGames(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid game ID"})
	}
	limit := 5
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	similar, err := h.gameService.GetSimilarGames(c.Request().Context(), id, limit)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, similar)
}

// Follow marks a user as following a game.
func (h *GameHandler) Follow(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid game ID"})
	}
	var req dto.FollowRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	if err := h.gameService.Follow(c.Request().Context(), id, &req); err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// Unfollow removes a user's follow of a game.
func (h *GameHandler) Unfollow(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid game ID"})
	}
	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	if err := h.gameService.Unfollow(c.Request().Context(), uint(userID), id); err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// UpsertBacklog creates or updates a user's backlog entry for a game.
func (h *GameHandler) UpsertBacklog(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid game ID"})
	}
	var req dto.BacklogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	entry, err := h.gameService.UpsertBacklog(c.Request().Context(), id, &req)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, entry)
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(v), nil
}
