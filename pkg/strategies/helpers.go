package strategies

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/newsline-hq/chinapress-sentinel/pkg/httpclient"
)

var (
	// /2024/5/1/slug or /20240501/slug style paths used by article permalinks.
	reDatePath    = regexp.MustCompile(`/\d{4}/\d{1,2}/\d{1,2}(/|$)`)
	reCompactDate = regexp.MustCompile(`/\d{8}(/|$)`)
	reDigits      = regexp.MustCompile(`^\d+$`)
	reYearSegment = regexp.MustCompile(`^(19|20)\d{2}$`)
)

// sameDomain reports whether the URL belongs to the given host, ignoring a
// leading www. subdomain.
func sameDomain(u *url.URL, host string) bool {
	h := strings.ToLower(u.Hostname())
	h = strings.TrimPrefix(h, "www.")
	return h == strings.ToLower(strings.TrimPrefix(host, "www."))
}

// articleLikeLink is the anchor heuristic shared by the HTML strategies: a
// numeric post-id query parameter, a /YYYY/M/D/ path, or a compact /YYYYMMDD/
// path mark a link as pointing at an article rather than navigation.
func articleLikeLink(u *url.URL) bool {
	if p := u.Query().Get("p"); p != "" && reDigits.MatchString(p) {
		return true
	}
	return reDatePath.MatchString(u.Path) || reCompactDate.MatchString(u.Path)
}

// articleLikeSitemapURL is the looser sitemap-side filter: any 4-digit year
// path segment, a compact /YYYYMMDD/ segment, or the p= post-id parameter.
func articleLikeSitemapURL(u *url.URL) bool {
	if p := u.Query().Get("p"); p != "" && reDigits.MatchString(p) {
		return true
	}
	if reCompactDate.MatchString(u.Path) {
		return true
	}
	for _, seg := range strings.Split(u.Path, "/") {
		if reYearSegment.MatchString(seg) {
			return true
		}
	}
	return false
}

// titleFromSlug synthesizes a display title from the trailing slug segment of
// an article URL, with hyphens turned into spaces. The file extension is
// stripped and a purely numeric last segment (post id, date) yields to the one
// before it, so both /20240501/slug/ and /2024/slug/123.html title as the
// slug. Sitemaps carry no titles, so this is the best identity a sitemap entry
// can offer; the raw URL is the fallback when no slug-like segment exists.
func titleFromSlug(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	segs := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(segs) < 2 {
		return raw
	}
	slug := segs[len(segs)-1]
	if i := strings.LastIndex(slug, "."); i > 0 {
		slug = slug[:i]
	}
	if reDigits.MatchString(slug) {
		slug = segs[len(segs)-2]
	}
	slug = strings.TrimSpace(slug)
	if slug == "" || reDigits.MatchString(slug) {
		return raw
	}
	return strings.ReplaceAll(slug, "-", " ")
}

// dedupeStrings removes duplicates preserving first-occurrence order.
func dedupeStrings(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func responseSnippet(body []byte) string {
	const maxLen = 512
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}

// fetchBody retrieves a document with the shared client, treating any non-200
// status as an error for the caller to absorb.
func fetchBody(ctx context.Context, client httpclient.Client, rawURL, what string) ([]byte, error) {
	resp, err := client.Get(ctx, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", what, err)
	}

	body := resp.Body()
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d body: %s", what, resp.StatusCode(), responseSnippet(body))
	}
	return body, nil
}
