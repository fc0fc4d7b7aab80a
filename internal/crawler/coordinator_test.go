package crawler

import (
	"context"
	"errors"
	"testing"

	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
	"github.com/newsline-hq/chinapress-sentinel/pkg/strategies"
)

// fakeStrategy records whether it was attempted and returns a canned result.
type fakeStrategy struct {
	name     string
	articles []domain.Article
	err      error
	called   bool
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Fetch(_ context.Context, _ int) ([]domain.Article, error) {
	f.called = true
	return f.articles, f.err
}

func art(url string) domain.Article {
	return domain.Article{Title: "t", URL: url}
}

func TestAcquireFirstNonEmptyWins(t *testing.T) {
	first := &fakeStrategy{name: "feed", articles: []domain.Article{art("https://example.com/20240501/a/")}}
	second := &fakeStrategy{name: "sitemap", articles: []domain.Article{art("https://example.com/20240501/b/")}}

	c := NewCoordinator([]strategies.Strategy{first, second})
	got, err := c.Acquire(context.Background(), 5)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if len(got) != 1 || got[0].URL != "https://example.com/20240501/a/" {
		t.Fatalf("got %#v", got)
	}
	if second.called {
		t.Error("later strategy attempted after a non-empty result")
	}
}

func TestAcquireErrorEqualsEmpty(t *testing.T) {
	failing := &fakeStrategy{name: "feed", err: errors.New("feed down")}
	empty := &fakeStrategy{name: "sitemap"}
	winning := &fakeStrategy{name: "static-html", articles: []domain.Article{art("https://example.com/20240501/c/")}}

	c := NewCoordinator([]strategies.Strategy{failing, empty, winning})
	got, err := c.Acquire(context.Background(), 5)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %#v", got)
	}
	if !failing.called || !empty.called {
		t.Error("chain skipped a strategy")
	}
}

func TestAcquireAllEmpty(t *testing.T) {
	c := NewCoordinator([]strategies.Strategy{
		&fakeStrategy{name: "feed"},
		&fakeStrategy{name: "sitemap", err: errors.New("boom")},
	})
	got, err := c.Acquire(context.Background(), 5)
	if err != nil {
		t.Fatalf("exhausting the chain is not an error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %#v", got)
	}
}

func TestAcquireNoStrategies(t *testing.T) {
	c := NewCoordinator(nil)
	if _, err := c.Acquire(context.Background(), 5); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestAcquireCancelledContext(t *testing.T) {
	untouched := &fakeStrategy{name: "feed", articles: []domain.Article{art("https://example.com/20240501/d/")}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCoordinator([]strategies.Strategy{untouched})
	if _, err := c.Acquire(ctx, 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
	if untouched.called {
		t.Error("strategy ran despite cancelled context")
	}
}
