package strategies

import (
	"time"

	"github.com/newsline-hq/chinapress-sentinel/pkg/httpclient"
)

// Site groups the fixed endpoints of the watched news site. A single value is
// shared by every strategy; tests point it at local servers.
type Site struct {
	// Host is the bare domain used for same-domain filtering (no scheme, no www).
	Host string
	// HomeURL is the rendered front page scanned by the HTML strategies.
	HomeURL string
	// FeedURL is the syndication feed.
	FeedURL string
	// PostSitemapURL is the direct post sitemap tried first.
	PostSitemapURL string
	// SitemapIndexURL is the index-of-sitemaps consulted when the direct
	// sitemap yields nothing.
	SitemapIndexURL string
	// PostSitemapHint is the substring identifying post sitemaps inside the index.
	PostSitemapHint string
	// RestPostsURL is the structured content API posts endpoint.
	RestPostsURL string
}

// DefaultSite returns the endpoints for chinapress.com.my, a WordPress site.
func DefaultSite() Site {
	return Site{
		Host:            "chinapress.com.my",
		HomeURL:         "https://www.chinapress.com.my/",
		FeedURL:         "https://www.chinapress.com.my/feed/",
		PostSitemapURL:  "https://www.chinapress.com.my/post-sitemap.xml",
		SitemapIndexURL: "https://www.chinapress.com.my/sitemap_index.xml",
		PostSitemapHint: "post-sitemap",
		RestPostsURL:    "https://www.chinapress.com.my/wp-json/wp/v2/posts",
	}
}

// DefaultHTTPClient returns a tuned HTTP client for strategies.
func DefaultHTTPClient() HTTPClient { return httpclient.NewRestyClient(15 * time.Second) }
