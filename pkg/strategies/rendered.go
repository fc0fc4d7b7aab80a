package strategies

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
	"github.com/newsline-hq/chinapress-sentinel/internal/logger"
	"github.com/newsline-hq/chinapress-sentinel/pkg/httpclient"
)

const (
	renderedStrategyName = "rendered-html"

	defaultNavigationTimeout = 30 * time.Second
	contentReadyTimeout      = 5 * time.Second
	contentReadyGraceSleep   = 2 * time.Second
)

// browserExecNames are the executables probed when deciding whether the
// rendered strategy is available at all.
var browserExecNames = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
	"chrome",
}

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// BrowserAvailable reports whether a browser-automation engine can be launched.
func BrowserAvailable() bool {
	for _, name := range browserExecNames {
		if _, err := lookPath(name); err == nil {
			return true
		}
	}
	return false
}

// stealthScript masks the markers headless Chrome leaks to anti-bot checks:
// the webdriver flag, an empty plugin list, and a bare language list.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', {get: () => undefined});
Object.defineProperty(navigator, 'plugins', {get: () => [1, 2, 3, 4, 5]});
Object.defineProperty(navigator, 'languages', {get: () => ['zh-CN', 'zh', 'en']});
`

// anchorsAttachedExpr is polled after navigation so client-side-rendered
// content gets a chance to attach article links before the scan.
const anchorsAttachedExpr = `
Array.from(document.querySelectorAll('a[href]')).some(function (a) {
	var h = a.getAttribute('href') || '';
	return /\/\d{4}\/\d{1,2}\/\d{1,2}\//.test(h) || /[?&]p=\d+/.test(h) || /\/\d{8}\//.test(h);
})`

// renderedHTMLStrategy runs the same anchor heuristic as the static variant,
// but over a headless-browser-rendered DOM. Last resort when anti-bot
// measures defeat the plain fetch.
type renderedHTMLStrategy struct {
	site       Site
	navTimeout time.Duration
}

// NewRenderedHTMLStrategy builds the headless-browser acquisition strategy.
func NewRenderedHTMLStrategy(site Site) Strategy {
	return &renderedHTMLStrategy{site: site, navTimeout: defaultNavigationTimeout}
}

func (r *renderedHTMLStrategy) Name() string { return renderedStrategyName }

func (r *renderedHTMLStrategy) Fetch(ctx context.Context, maxItems int) ([]domain.Article, error) {
	if !BrowserAvailable() {
		logger.WarnObj("no browser engine present, rendered strategy skipped", "strategy", renderedStrategyName)
		return nil, nil
	}

	html, err := r.renderHome(ctx)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse rendered dom: %w", err)
	}

	return scanArticleAnchors(doc, r.site, maxItems, true), nil
}

// renderHome navigates a fresh headless session to the home page and returns
// the rendered DOM. The browser process and its execution context are torn
// down on every exit path via the deferred cancels.
func (r *renderedHTMLStrategy) renderHome(ctx context.Context) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", "zh-CN"),
		chromedp.UserAgent(httpclient.BrowserUserAgent),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	taskCtx, cancel := context.WithTimeout(taskCtx, r.navTimeout)
	defer cancel()

	var html string
	err := chromedp.Run(taskCtx,
		stealthSetupAction(),
		chromedp.Navigate(r.site.HomeURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		waitForArticleAnchors(),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp run: %w", err)
	}
	return html, nil
}

// stealthSetupAction injects the anti-fingerprinting script so it executes
// before any page script on every new document.
func stealthSetupAction() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if _, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx); err != nil {
			return fmt.Errorf("inject stealth script: %w", err)
		}
		return nil
	})
}

// waitForArticleAnchors waits (bounded) for at least one article-like anchor
// to attach to the DOM, falling back to a fixed grace sleep on timeout.
func waitForArticleAnchors() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		var attached bool
		err := chromedp.Poll(anchorsAttachedExpr, &attached,
			chromedp.WithPollingTimeout(contentReadyTimeout)).Do(ctx)
		if err != nil {
			if errors.Is(err, chromedp.ErrPollingTimeout) {
				return chromedp.Sleep(contentReadyGraceSleep).Do(ctx)
			}
			return err
		}
		return nil
	})
}
