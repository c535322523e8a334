package http

import (
	"net/http"

	"patchpulse/internal/api/dto"
	"patchpulse/internal/api/service"
	"patchpulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ContentHandler handles HTTP requests for raw patch notes and news items
// and their enrichment.
type ContentHandler struct {
	contentService service.ContentService
	logger         *logger.Logger
}

// NewContentHandler creates a new ContentHandler.
func NewContentHandler(contentService service.ContentService, logger *logger.Logger) *ContentHandler {
	return &ContentHandler{contentService: contentService, logger: logger}
}

// RegisterRoutes registers the content routes to the Echo groups.
func (h *ContentHandler) RegisterRoutes(patches, news *echo.Group) {
	patches.POST("", h.CreatePatchNote)
	patches.GET("/:id", h.GetPatchNote)
	patches.POST("/:id/enrich", h.EnrichPatchNote)

	news.POST("", h.CreateNewsItem)
	news.GET("/:id", h.GetNewsItem)
	news.POST("/:id/enrich", h.EnrichNewsItem)
}

// CreatePatchNote stores a raw patch note, optionally scheduling enrichment.
func (h *ContentHandler) CreatePatchNote(c echo.Context) error {
	var req dto.CreatePatchNoteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	patch, err := h.contentService.CreatePatchNote(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, patch)
}

// GetPatchNote returns a patch note with its summary when available.
func (h *ContentHandler) GetPatchNote(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid patch note ID"})
	}

	patch, err := h.contentService.GetPatchNote(c.Request().Context(), id)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, patch)
}

// EnrichPatchNote summarizes a patch note synchronously.
func (h *ContentHandler) EnrichPatchNote(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid patch note ID"})
	}
	var req dto.EnrichRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	summary, err := h.contentService.EnrichPatchNote(c.Request().Context(), id, req.Force)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, summary)
}

// CreateNewsItem stores a raw news item, optionally scheduling enrichment.
func (h *ContentHandler) CreateNewsItem(c echo.Context) error {
	var req dto.CreateNewsItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	item, err := h.contentService.CreateNewsItem(c.Request().Context(), &req)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, item)
}

// GetNewsItem returns a news item with its summary when available.
func (h *ContentHandler) GetNewsItem(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid news item ID"})
	}

	item, err := h.contentService.GetNewsItem(c.Request().Context(), id)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, item)
}

// EnrichNewsItem summarizes a news item synchronously.
func (h *ContentHandler) EnrichNewsItem(c echo.Context) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid news item ID"})
	}
	var req dto.EnrichRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	summary, err := h.contentService.EnrichNewsItem(c.Request().Context(), id, req.Force)
	if err != nil {
		return c.JSON(statusFromError(err), dto.ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusOK, summary)
}
