package crawler

import (
	"context"
	"fmt"

	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
	"github.com/newsline-hq/chinapress-sentinel/internal/logger"
	"github.com/newsline-hq/chinapress-sentinel/pkg/strategies"
)

// Coordinator produces a non-empty list of normalized articles using the
// cheapest acquisition strategy that works. Strategies are tried strictly in
// registration order; a strategy returning an error is treated exactly like
// one returning nothing, and the next one is attempted.
type Coordinator struct {
	chain []strategies.Strategy
}

// NewCoordinator wires a coordinator over the given strategy chain.
func NewCoordinator(chain []strategies.Strategy) *Coordinator {
	kept := make([]strategies.Strategy, 0, len(chain))
	for _, s := range chain {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &Coordinator{chain: kept}
}

// DefaultChain returns the fixed fallback order, lightest and most reliable
// first, full browser rendering last: feed, sitemap, static HTML, REST,
// rendered HTML.
func DefaultChain(site strategies.Site, client strategies.HTTPClient, browser bool) []strategies.Strategy {
	if client == nil {
		client = strategies.DefaultHTTPClient()
	}
	chain := []strategies.Strategy{
		strategies.NewFeedStrategy(site, client),
		strategies.NewSitemapStrategy(site, client),
		strategies.NewStaticHTMLStrategy(site, client),
		strategies.NewRestStrategy(site, client),
	}
	if browser {
		chain = append(chain, strategies.NewRenderedHTMLStrategy(site))
	}
	return chain
}

// Acquire runs the fallback chain and returns the first non-empty result. An
// empty result from every strategy yields an empty list, not an error.
func (c *Coordinator) Acquire(ctx context.Context, maxItems int) ([]domain.Article, error) {
	if c == nil || len(c.chain) == 0 {
		return nil, fmt.Errorf("coordinator has no strategies configured")
	}

	for _, strat := range c.chain {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		articles, err := strat.Fetch(ctx, maxItems)
		if err != nil {
			logger.WarnObj("strategy failed, falling through", "strategy_error", map[string]any{
				"strategy": strat.Name(),
				"error":    err.Error(),
			})
			continue
		}
		if len(articles) == 0 {
			logger.DebugObj("strategy yielded nothing", "strategy", strat.Name())
			continue
		}

		logger.InfoObj("strategy produced articles", "strategy_result", map[string]any{
			"strategy": strat.Name(),
			"count":    len(articles),
		})
		return articles, nil
	}

	logger.InfoObj("all strategies empty", "strategies_tried", len(c.chain))
	return nil, nil
}
