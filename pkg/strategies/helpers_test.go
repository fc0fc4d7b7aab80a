package strategies

import (
	"net/url"
	"testing"
)

func mustParse(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return u
}

func TestArticleLikeLink(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"https://www.chinapress.com.my/2024/5/1/some-story", true},
		{"https://www.chinapress.com.my/?p=1234", true},
		{"https://www.chinapress.com.my/20240501/some-story/", true},
		{"https://www.chinapress.com.my/category/news", false},
		{"https://www.chinapress.com.my/?p=abc", false},
		{"https://www.chinapress.com.my/about", false},
	}

	for _, tc := range cases {
		if got := articleLikeLink(mustParse(t, tc.raw)); got != tc.want {
			t.Errorf("articleLikeLink(%s) = %v want %v", tc.raw, got, tc.want)
		}
	}
}

func TestArticleLikeSitemapURL(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"https://www.chinapress.com.my/2024/some-story-slug/", true},
		{"https://www.chinapress.com.my/20240501/some-story-slug/", true},
		{"https://www.chinapress.com.my/?p=98765", true},
		{"https://www.chinapress.com.my/category/news", false},
		{"https://www.chinapress.com.my/12345/foo", false},
	}

	for _, tc := range cases {
		if got := articleLikeSitemapURL(mustParse(t, tc.raw)); got != tc.want {
			t.Errorf("articleLikeSitemapURL(%s) = %v want %v", tc.raw, got, tc.want)
		}
	}
}

func TestSameDomain(t *testing.T) {
	if !sameDomain(mustParse(t, "https://www.chinapress.com.my/x"), "chinapress.com.my") {
		t.Errorf("www subdomain should match the bare host")
	}
	if sameDomain(mustParse(t, "https://other.example.com/x"), "chinapress.com.my") {
		t.Errorf("foreign host should not match")
	}
}

func TestTitleFromSlug(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"https://www.chinapress.com.my/20240501/missing-person-found-safe/", "missing person found safe"},
		{"https://www.chinapress.com.my/20240501/missing-person-found-safe", "missing person found safe"},
		{"https://site/2024/big-news-today/123.html", "big news today"},
		{"https://site/2024/breaking-story-today/123/", "breaking story today"},
		{"https://site/2024/5/1/", "https://site/2024/5/1/"},
		{"https://site/solo", "https://site/solo"},
		{"https://site", "https://site"},
	}

	for _, tc := range cases {
		if got := titleFromSlug(tc.raw); got != tc.want {
			t.Errorf("titleFromSlug(%s) = %q want %q", tc.raw, got, tc.want)
		}
	}
}

func TestDedupeStringsPreservesOrder(t *testing.T) {
	got := dedupeStrings([]string{"a", "b", "a", "c"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("dedupeStrings = %#v, want [a b c]", got)
	}
}
