package strategies

import (
	"context"
	"net/url"
	"strings"
	"testing"
)

const samplePosts = `[
  {"link": "https://www.chinapress.com.my/20240501/alpha/", "title": {"rendered": "Alpha &amp; <em>Beta</em>"}, "excerpt": {"rendered": "<p>ignored</p>"}, "date": "2024-05-01T08:30:00"},
  {"link": "https://www.chinapress.com.my/20240502/bravo/", "title": {"rendered": "   "}, "date": "2024-05-02T09:00:00"},
  {"link": "", "title": {"rendered": "No link"}},
  {"link": "https://www.chinapress.com.my/20240503/charlie/", "title": {"rendered": "Charlie"}, "date": "2024-05-03T10:15:00"}
]`

func TestRestStrategyFetch(t *testing.T) {
	site := testSite()
	strat := &restStrategy{site: site}
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		strat.postsURL(10): {body: []byte(samplePosts), statusCode: 200},
	}}
	strat.client = client

	articles, err := strat.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d: %#v", len(articles), articles)
	}

	// HTML fragments get stripped to plain text.
	if articles[0].Title != "Alpha & Beta" {
		t.Errorf("Title = %q", articles[0].Title)
	}
	if articles[0].PublishedAt != "2024-05-01T08:30:00" {
		t.Errorf("PublishedAt = %q", articles[0].PublishedAt)
	}
	if articles[1].URL != "https://www.chinapress.com.my/20240503/charlie/" {
		t.Errorf("URL = %q", articles[1].URL)
	}
}

func TestRestStrategyMaxItems(t *testing.T) {
	site := testSite()
	strat := &restStrategy{site: site}
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		strat.postsURL(1): {body: []byte(samplePosts), statusCode: 200},
	}}
	strat.client = client

	articles, err := strat.Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(articles))
	}
}

func TestRestStrategyPostsURL(t *testing.T) {
	strat := &restStrategy{site: testSite()}

	for _, tc := range []struct {
		maxItems    int
		wantPerPage string
	}{
		{10, "10"},
		{0, "50"},
		{500, "50"},
	} {
		raw := strat.postsURL(tc.maxItems)
		if !strings.HasPrefix(raw, testSite().RestPostsURL+"?") {
			t.Fatalf("postsURL(%d) = %q", tc.maxItems, raw)
		}
		parsed, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		q := parsed.Query()
		if got := q.Get("per_page"); got != tc.wantPerPage {
			t.Errorf("per_page for maxItems=%d: got %q want %q", tc.maxItems, got, tc.wantPerPage)
		}
		if q.Get("order") != "desc" || q.Get("orderby") != "date" {
			t.Errorf("ordering params wrong in %q", raw)
		}
		if q.Get("_fields") != "link,title,excerpt,date" {
			t.Errorf("_fields = %q", q.Get("_fields"))
		}
	}
}

func TestRestStrategyBadJSON(t *testing.T) {
	site := testSite()
	strat := &restStrategy{site: site}
	client := &fakeHTTPClient{responses: map[string]fakeResponse{
		strat.postsURL(5): {body: []byte("<html>maintenance</html>"), statusCode: 200},
	}}
	strat.client = client

	if _, err := strat.Fetch(context.Background(), 5); err == nil {
		t.Fatal("expected decode error")
	}
}
