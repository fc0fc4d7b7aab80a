package strategies

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
	"github.com/newsline-hq/chinapress-sentinel/internal/logger"
)

const sitemapStrategyName = "sitemap"

// sitemapURLSet matches the http://www.sitemaps.org/schemas/sitemap/0.9 urlset.
type sitemapURLSet struct {
	URLs []sitemapLoc `xml:"url"`
}

// sitemapIndex matches the sitemap-of-sitemaps indirection document.
type sitemapIndex struct {
	Sitemaps []sitemapLoc `xml:"sitemap"`
}

type sitemapLoc struct {
	Loc string `xml:"loc"`
}

// sitemapStrategy resolves article URLs from the site's XML sitemaps: the
// direct post sitemap first, then the sitemap index when that yields nothing.
type sitemapStrategy struct {
	site   Site
	client HTTPClient
}

// NewSitemapStrategy builds the sitemap-based acquisition strategy.
func NewSitemapStrategy(site Site, client HTTPClient) Strategy {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &sitemapStrategy{site: site, client: client}
}

func (s *sitemapStrategy) Name() string { return sitemapStrategyName }

func (s *sitemapStrategy) Fetch(ctx context.Context, maxItems int) ([]domain.Article, error) {
	locs := s.locsFromDocument(ctx, s.site.PostSitemapURL)
	if len(locs) == 0 {
		var err error
		locs, err = s.locsFromIndex(ctx)
		if err != nil {
			return nil, err
		}
	}

	articles := make([]domain.Article, 0, len(locs))
	for _, loc := range locs {
		if maxItems > 0 && len(articles) >= maxItems {
			break
		}
		parsed, err := url.Parse(loc)
		if err != nil {
			continue
		}
		if !sameDomain(parsed, s.site.Host) || !articleLikeSitemapURL(parsed) {
			continue
		}
		articles = append(articles, domain.Article{
			Title: titleFromSlug(loc),
			URL:   loc,
		})
	}
	return articles, nil
}

// locsFromDocument fetches and parses one sitemap document. Fetch or parse
// failure is non-fatal: the document simply contributes no URLs.
func (s *sitemapStrategy) locsFromDocument(ctx context.Context, docURL string) []string {
	raw, err := fetchBody(ctx, s.client, docURL, "sitemap")
	if err != nil {
		logger.WarnObj("sitemap document fetch failed", "sitemap_error", map[string]any{
			"url":   docURL,
			"error": err.Error(),
		})
		return nil
	}

	var set sitemapURLSet
	if err := xml.Unmarshal(raw, &set); err != nil {
		logger.WarnObj("sitemap document parse failed", "sitemap_error", map[string]any{
			"url":   docURL,
			"error": err.Error(),
		})
		return nil
	}

	locs := make([]string, 0, len(set.URLs))
	for _, entry := range set.URLs {
		if loc := strings.TrimSpace(entry.Loc); loc != "" {
			locs = append(locs, loc)
		}
	}
	return locs
}

// locsFromIndex consults the sitemap index, picks the post sitemaps it lists,
// and walks them newest-first until one yields URLs.
func (s *sitemapStrategy) locsFromIndex(ctx context.Context) ([]string, error) {
	raw, err := fetchBody(ctx, s.client, s.site.SitemapIndexURL, "sitemap index")
	if err != nil {
		return nil, err
	}

	var idx sitemapIndex
	if err := xml.Unmarshal(raw, &idx); err != nil {
		return nil, fmt.Errorf("decode sitemap index: %w", err)
	}

	candidates := make([]string, 0, len(idx.Sitemaps))
	for _, entry := range idx.Sitemaps {
		loc := strings.TrimSpace(entry.Loc)
		if loc == "" || !strings.Contains(loc, s.site.PostSitemapHint) {
			continue
		}
		candidates = append(candidates, loc)
	}

	// Post sitemap filenames are date- or index-ordered, so descending lexical
	// order approximates newest-first. Best effort only.
	sort.Sort(sort.Reverse(sort.StringSlice(candidates)))

	for _, candidate := range candidates {
		if locs := s.locsFromDocument(ctx, candidate); len(locs) > 0 {
			return locs, nil
		}
	}
	return nil, nil
}
