package strategies

import (
	"context"
	"errors"
	"testing"
)

func stubLookPath(t *testing.T, fn func(string) (string, error)) {
	t.Helper()
	orig := lookPath
	lookPath = fn
	t.Cleanup(func() { lookPath = orig })
}

func TestBrowserAvailable(t *testing.T) {
	stubLookPath(t, func(name string) (string, error) {
		if name == "chromium" {
			return "/usr/bin/chromium", nil
		}
		return "", errors.New("not found")
	})
	if !BrowserAvailable() {
		t.Fatal("expected available when chromium resolves")
	}

	stubLookPath(t, func(string) (string, error) {
		return "", errors.New("not found")
	})
	if BrowserAvailable() {
		t.Fatal("expected unavailable when nothing resolves")
	}
}

func TestRenderedStrategySkipsWithoutBrowser(t *testing.T) {
	stubLookPath(t, func(string) (string, error) {
		return "", errors.New("not found")
	})

	strat := NewRenderedHTMLStrategy(testSite())
	articles, err := strat.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("missing browser must not be an error: %v", err)
	}
	if articles != nil {
		t.Fatalf("expected no articles, got %#v", articles)
	}
}
