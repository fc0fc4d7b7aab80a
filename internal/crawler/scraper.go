package crawler

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
	"github.com/newsline-hq/chinapress-sentinel/internal/logger"
	"github.com/newsline-hq/chinapress-sentinel/pkg/httpclient"
	"github.com/newsline-hq/chinapress-sentinel/pkg/strategies"
)

const (
	maxHTMLBodyBytes = 1 << 20 // 1 MiB

	// scrapeDelay throttles page fetches so enrichment does not hammer a site
	// that already blocks aggressive clients.
	scrapeDelay = 500 * time.Millisecond
)

// Scraper fetches article pages and fills missing metadata from OG tags.
type Scraper struct {
	client httpclient.Client
}

// NewScraper constructs a scraper with the provided HTTP client (or default).
func NewScraper(client httpclient.Client) *Scraper {
	if client == nil {
		client = strategies.DefaultHTTPClient()
	}
	return &Scraper{client: client}
}

// Enrich iterates articles, fetching each page (with throttling) and merging
// OG metadata into empty fields. Per-page failure keeps the original article.
func (s *Scraper) Enrich(ctx context.Context, articles []domain.Article) []domain.Article {
	// seed output with originals so we can return what we have on abort
	out := append([]domain.Article(nil), articles...)

	for i, art := range articles {
		select {
		case <-ctx.Done():
			return out
		default:
		}

		if art.Summary != "" && len(art.Images) > 0 {
			continue
		}

		enriched, err := s.fetchAndParse(ctx, art)
		if err != nil {
			logger.WarnObj("article metadata scrape failed", "metadata_error", map[string]any{
				"url":   art.URL,
				"error": err.Error(),
			})
		} else {
			out[i] = enriched
		}

		if i < len(articles)-1 {
			timer := time.NewTimer(scrapeDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return out
			case <-timer.C:
			}
		}
	}

	return out
}

func (s *Scraper) fetchAndParse(ctx context.Context, art domain.Article) (domain.Article, error) {
	resp, err := s.client.Get(ctx, art.URL, nil)
	if err != nil {
		return art, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != 200 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return art, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return art, err
	}
	updated := art
	if updated.Summary == "" && meta.Description != "" {
		updated.Summary = meta.Description
	}
	if len(updated.Images) == 0 && meta.ImageURL != "" {
		updated.Images = []string{meta.ImageURL}
	}

	return updated, nil
}

func parseMeta(body []byte) (pageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return pageMeta{}, fmt.Errorf("parse html: %w", err)
	}

	pm := pageMeta{}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	pm.Description = firstNonEmpty(
		extract(`meta[property="og:description"]`),
		extract(`meta[name="description"]`),
	)
	pm.ImageURL = extract(`meta[property="og:image"]`)

	return pm, nil
}

type pageMeta struct {
	Description string
	ImageURL    string
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
