package strategies

import (
	"context"

	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
	"github.com/newsline-hq/chinapress-sentinel/pkg/httpclient"
)

// Strategy is one self-contained way of acquiring candidate articles from the
// target site. Implementations return zero or more normalized articles; any
// error is treated by the coordinator exactly like an empty result, so a
// strategy never has to absorb its own failures.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, maxItems int) ([]domain.Article, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within strategies.
type HTTPClient = httpclient.Client
