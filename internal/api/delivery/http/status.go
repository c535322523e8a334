package http

import (
	"errors"
	"net/http"

	"patchpulse/internal/enrich"
)

// statusFromError maps the enrichment error taxonomy onto HTTP status codes.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, enrich.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, enrich.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, enrich.ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
