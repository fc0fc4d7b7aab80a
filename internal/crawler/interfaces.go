package crawler

import (
	"context"

	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
)

// ArticleEnricher fills missing article metadata (summary, image) from the
// article pages themselves.
type ArticleEnricher interface {
	Enrich(ctx context.Context, articles []domain.Article) []domain.Article
}
