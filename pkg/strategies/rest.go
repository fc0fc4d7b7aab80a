package strategies

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
)

const (
	restStrategyName = "rest"
	restMaxPageSize  = 50
)

// restPost mirrors the fields requested from the WP REST posts endpoint.
type restPost struct {
	Link  string `json:"link"`
	Title struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	Excerpt struct {
		Rendered string `json:"rendered"`
	} `json:"excerpt"`
	Date string `json:"date"`
}

// restStrategy queries the site's structured content API.
type restStrategy struct {
	site   Site
	client HTTPClient
}

// NewRestStrategy builds the REST API acquisition strategy.
func NewRestStrategy(site Site, client HTTPClient) Strategy {
	if client == nil {
		client = DefaultHTTPClient()
	}
	return &restStrategy{site: site, client: client}
}

func (r *restStrategy) Name() string { return restStrategyName }

func (r *restStrategy) Fetch(ctx context.Context, maxItems int) ([]domain.Article, error) {
	raw, err := fetchBody(ctx, r.client, r.postsURL(maxItems), "rest posts")
	if err != nil {
		return nil, err
	}

	var posts []restPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("decode rest posts: %w", err)
	}

	articles := make([]domain.Article, 0, len(posts))
	for _, post := range posts {
		if maxItems > 0 && len(articles) >= maxItems {
			break
		}
		link := strings.TrimSpace(post.Link)
		if link == "" {
			continue
		}
		// The API delivers the title as an HTML fragment.
		title := plainText(post.Title.Rendered)
		if title == "" {
			continue
		}
		articles = append(articles, domain.Article{
			Title:       title,
			URL:         link,
			PublishedAt: strings.TrimSpace(post.Date),
		})
	}
	return articles, nil
}

// postsURL builds the posts query: newest first, page size capped by the API,
// only the fields actually consumed to keep the payload small.
func (r *restStrategy) postsURL(maxItems int) string {
	perPage := maxItems
	if perPage <= 0 || perPage > restMaxPageSize {
		perPage = restMaxPageSize
	}

	q := url.Values{}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", "1")
	q.Set("orderby", "date")
	q.Set("order", "desc")
	q.Set("_fields", "link,title,excerpt,date")

	return r.site.RestPostsURL + "?" + q.Encode()
}

// plainText strips an HTML fragment down to its trimmed text content.
func plainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
