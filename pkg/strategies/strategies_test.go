package strategies

import (
	"context"
	"errors"

	"github.com/newsline-hq/chinapress-sentinel/pkg/httpclient"
)

// fakeResponse lets us stub the httpclient.Client interface.
type fakeResponse struct {
	body       []byte
	statusCode int
}

func (f fakeResponse) Body() []byte    { return f.body }
func (f fakeResponse) StatusCode() int { return f.statusCode }

// fakeHTTPClient returns canned responses per URL to avoid network calls.
type fakeHTTPClient struct {
	responses map[string]fakeResponse
	calls     []string
}

func (f *fakeHTTPClient) Get(_ context.Context, url string, _ map[string]string) (httpclient.Response, error) {
	f.calls = append(f.calls, url)
	resp, ok := f.responses[url]
	if !ok {
		return nil, errors.New("not found")
	}
	return resp, nil
}

// testSite points every endpoint at stable fake URLs.
func testSite() Site {
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
