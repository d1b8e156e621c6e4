package embeddings

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Chain resolves a query embedding by trying providers in order, first
// success wins. A provider failure of any kind (transport error, bad
// status, malformed payload, timeout, empty vector) advances the chain;
// it is never surfaced to the caller.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	logger    *zap.Logger
}

// NewChain creates a resolution chain over the given providers. timeout
// bounds each individual provider attempt.
func NewChain(providers []Provider, timeout time.Duration, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{
		providers: providers,
		timeout:   timeout,
		logger:    logger,
	}
}

// Resolve returns the first embedding any provider produces for the query.
// The second return value is false on chain exhaustion, which is a signal
// to fall back to lexical ranking, not an error.
func (c *Chain) Resolve(ctx context.Context, query string) ([]float64, bool) {
	for _, p := range c.providers {
		vector, err := c.attempt(ctx, p, query)
		if err != nil {
			c.logger.Warn("embedding provider failed",
				zap.String("provider", p.Name()),
				zap.Error(err))
			continue
		}

		c.logger.Debug("embedding resolved",
			zap.String("provider", p.Name()),
			zap.Int("dimension", len(vector)))
		return vector, true
	}

	c.logger.Warn("embedding chain exhausted, falling back to lexical ranking",
		zap.Int("providers", len(c.providers)))
	return nil, false
}

func (c *Chain) attempt(ctx context.Context, p Provider, query string) ([]float64, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	vector, err := p.Embed(attemptCtx, query)
	if err != nil {
		return nil, err
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("provider returned an empty vector")
	}
	return vector, nil
}

// ResolveBatch embeds a document batch through the first provider that can
// handle it. Unlike Resolve, exhaustion is an error: offline preprocessing
// has no lexical fallback to degrade to.
func (c *Chain) ResolveBatch(ctx context.Context, texts []string) ([][]float64, error) {
	for _, p := range c.providers {
		vectors, err := p.EmbedBatch(ctx, texts)
		if err != nil {
			c.logger.Warn("batch embedding provider failed",
				zap.String("provider", p.Name()),
				zap.Error(err))
			continue
		}
		if len(vectors) != len(texts) {
			c.logger.Warn("batch embedding provider returned wrong count",
				zap.String("provider", p.Name()),
				zap.Int("want", len(texts)),
				zap.Int("got", len(vectors)))
			continue
		}
		return vectors, nil
	}
	return nil, fmt.Errorf("all %d embedding providers failed", len(c.providers))
}
