package strategies

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
)

const staticHTMLStrategyName = "static-html"

// minAnchorTextRunes filters icon-only and navigational links; counted in
// runes because the site's headlines are CJK.
const minAnchorTextRunes = 6

// articleContainerSelector locates the enclosing article-like node for the
// best-effort nearby-image lookup.
const articleContainerSelector = "article, .post, .jeg_post, .entry"

// staticHTMLStrategy extracts article links from the home page HTML as served.
type staticHTMLStrategy struct {
	site   Site
	client HTTPClient
}

// NewStaticHTMLStrategy builds the plain-HTTP home page scan strategy.
func NewStaticHTMLStrategy(site Site, client HTTPClient) Strategy {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &staticHTMLStrategy{site: site, client: client}
}

func (s *staticHTMLStrategy) Name() string { return staticHTMLStrategyName }

func (s *staticHTMLStrategy) Fetch(ctx context.Context, maxItems int) ([]domain.Article, error) {
	raw, err := fetchBody(ctx, s.client, s.site.HomeURL, "home page")
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}

	return scanArticleAnchors(doc, s.site, maxItems, false), nil
}

// scanArticleAnchors walks every anchor in the document and keeps the ones
// classified as article-like: same-domain target, an article-shaped URL, and
// visible text long enough to be a headline. Duplicate URLs within the pass
// are suppressed; withImages additionally tries a nearby-image lookup scoped
// to the closest article-like container, tolerating failure silently.
func scanArticleAnchors(doc *goquery.Document, site Site, maxItems int, withImages bool) []domain.Article {
	base, err := url.Parse(site.HomeURL)
	if err != nil {
		return nil
	}

	var articles []domain.Article
	seen := make(map[string]struct{})

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			return true
		}
		target := base.ResolveReference(ref)
		if !sameDomain(target, site.Host) || !articleLikeLink(target) {
			return true
		}

		text := strings.TrimSpace(sel.Text())
		if utf8.RuneCountInString(text) < minAnchorTextRunes {
			return true
		}

		link := target.String()
		if _, dup := seen[link]; dup {
			return true
		}
		seen[link] = struct{}{}

		art := domain.Article{Title: text, URL: link}
		if withImages {
			if img := nearbyImage(sel, base); img != "" {
				art.Images = []string{img}
			}
		}
		articles = append(articles, art)

		return maxItems <= 0 || len(articles) < maxItems
	})

	return articles
}

// nearbyImage returns the first usable image inside the anchor's closest
// article-like container, resolved against the page base so relative src
// values come out absolute, or empty when there is none.
func nearbyImage(sel *goquery.Selection, base *url.URL) string {
	container := sel.Closest(articleContainerSelector)
	if container.Length() == 0 {
		return ""
	}
	img := container.Find("img").First()
	if img.Length() == 0 {
		return ""
	}
	for _, attr := range []string{"src", "data-src"} {
		v, ok := img.Attr(attr)
		if !ok {
			continue
		}
		if v = strings.TrimSpace(v); v == "" {
			continue
		}
		ref, err := url.Parse(v)
		if err != nil {
			continue
		}
		return base.ResolveReference(ref).String()
	}
	return ""
}
