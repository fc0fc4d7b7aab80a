package domain

// Domain contains core models shared across strategies, the ledger, and notifiers.

// Article is a normalized item produced by an acquisition strategy. The URL is
// the article's stable identity: two Articles with equal URLs are the same item
// regardless of their other fields. Values are built fresh each run and never
// mutated after construction.
type Article struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	PublishedAt string   `json:"published_at,omitempty"`
	Summary     string   `json:"summary,omitempty"`
	Images      []string `json:"images,omitempty"`
}
