package utils

import (
	"context"

	"patchpulse/pkg/logger"
)

// ShouldContinue reports whether the context is still live, logging once when
// it is not. Use it to bail out of long loops on shutdown.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Warn("Context cancelled, stopping work", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}
