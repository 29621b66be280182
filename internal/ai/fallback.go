package ai

import (
	"context"

	"github.com/xtendafinance/loanbot/internal/engine"
	"github.com/xtendafinance/loanbot/pkg/logging"
)

// FallbackAnswerer wraps a primary answerer with a fallback provider.
// If the primary fails, it automatically retries with the fallback.
type FallbackAnswerer struct {
	primary  engine.Answerer
	fallback engine.Answerer
	logger   *logging.Logger
}

// NewFallbackAnswerer creates a fallback-enabled answerer. If fallback is
// nil, only the primary provider is used.
func NewFallbackAnswerer(primary, fallback engine.Answerer, logger *logging.Logger) *FallbackAnswerer {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackAnswerer{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Answer asks the primary provider, falling back on error.
func (c *FallbackAnswerer) Answer(ctx context.Context, userID, question string) (string, error) {
	reply, err := c.primary.Answer(ctx, userID, question)
	if err == nil {
		return reply, nil
	}

	c.logger.Warn("primary answerer failed, attempting fallback",
		"error", err.Error(),
		"fallback_available", c.fallback != nil,
	)

	if c.fallback == nil {
		return "", err
	}

	reply, fallbackErr := c.fallback.Answer(ctx, userID, question)
	if fallbackErr != nil {
		c.logger.Error("fallback answerer also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return "", fallbackErr
	}

	c.logger.Info("fallback answerer succeeded after primary failure")
	return reply, nil
}
