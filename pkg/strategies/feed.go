package strategies

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
)

const feedStrategyName = "feed"

var reInlineImg = regexp.MustCompile(`<img[^>]+src="([^"]+)"`)

// feedStrategy parses the site's syndication feed.
type feedStrategy struct {
	site   Site
	client HTTPClient
	parser *gofeed.Parser
}

// NewFeedStrategy builds the feed-based acquisition strategy.
func NewFeedStrategy(site Site, client HTTPClient) Strategy {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &feedStrategy{
		site:   site,
		client: client,
		parser: gofeed.NewParser(),
	}
}

func (f *feedStrategy) Name() string { return feedStrategyName }

func (f *feedStrategy) Fetch(ctx context.Context, maxItems int) ([]domain.Article, error) {
	raw, err := fetchBody(ctx, f.client, f.site.FeedURL, "feed")
	if err != nil {
		return nil, err
	}

	feed, err := f.parser.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	articles := make([]domain.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if maxItems > 0 && len(articles) >= maxItems {
			break
		}
		link := strings.TrimSpace(item.Link)
		title := strings.TrimSpace(item.Title)
		if link == "" || title == "" {
			continue
		}

		published := strings.TrimSpace(item.Published)
		if published == "" {
			published = strings.TrimSpace(item.Updated)
		}

		articles = append(articles, domain.Article{
			Title:       title,
			URL:         link,
			PublishedAt: published,
			Summary:     item.Description,
			Images:      feedEntryImages(item),
		})
	}
	return articles, nil
}

// feedEntryImages collects image URLs for a feed entry, checking in order:
// media-extension attachments, enclosures with an image MIME type, and inline
// <img src> occurrences inside the summary HTML. Duplicates are dropped
// preserving first-occurrence order.
func feedEntryImages(item *gofeed.Item) []string {
	var images []string

	if media, ok := item.Extensions["media"]; ok {
		for _, name := range []string{"content", "thumbnail"} {
			for _, entry := range media[name] {
				if u := strings.TrimSpace(entry.Attrs["url"]); u != "" {
					images = append(images, u)
				}
			}
		}
	}

	for _, enc := range item.Enclosures {
		if enc == nil {
			continue
		}
		if strings.HasPrefix(enc.Type, "image/") {
			if u := strings.TrimSpace(enc.URL); u != "" {
				images = append(images, u)
			}
		}
	}

	for _, m := range reInlineImg.FindAllStringSubmatch(item.Description, -1) {
		images = append(images, m[1])
	}

	return dedupeStrings(images)
}
