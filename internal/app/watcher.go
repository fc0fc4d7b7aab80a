package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/newsline-hq/chinapress-sentinel/internal/config"
	"github.com/newsline-hq/chinapress-sentinel/internal/crawler"
	"github.com/newsline-hq/chinapress-sentinel/internal/domain"
	"github.com/newsline-hq/chinapress-sentinel/internal/ledger"
	"github.com/newsline-hq/chinapress-sentinel/internal/logger"
	"github.com/newsline-hq/chinapress-sentinel/pkg/httpclient"
	"github.com/newsline-hq/chinapress-sentinel/pkg/notifiers"
	"github.com/newsline-hq/chinapress-sentinel/pkg/strategies"
)

// overFetchFactor asks the coordinator for more candidates than the send
// budget so the ledger filter still leaves a full batch of unseen items.
const overFetchFactor = 3

// notifierLogger adapts the package-level logger to the notifiers.Logger surface.
type notifierLogger struct{}

func (notifierLogger) InfoObj(msg, key string, obj interface{})  { logger.InfoObj(msg, key, obj) }
func (notifierLogger) DebugObj(msg, key string, obj interface{}) { logger.DebugObj(msg, key, obj) }
func (notifierLogger) WarnObj(msg, key string, obj interface{})  { logger.WarnObj(msg, key, obj) }
func (notifierLogger) ErrorObj(msg, key string, obj interface{}) { logger.ErrorObj(msg, key, obj) }

// Watcher ties the ledger, the fallback coordinator, and the notifier fanout
// together. One Run pass acquires articles, filters out already-delivered
// ones, notifies, and persists the updated ledger.
type Watcher struct {
	cfg         *config.Config
	coordinator *crawler.Coordinator
	enricher    crawler.ArticleEnricher
	fanout      *notifiers.Fanout
	led         ledger.Ledger
}

// NewWatcher builds a watcher runtime from config.
func NewWatcher(ctx context.Context, cfg *config.Config) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	notifierReg, err := notifiers.LoadRegistry(cfg.NotifiersFile)
	if err != nil {
		return nil, fmt.Errorf("load notifiers registry: %w", err)
	}
	enabled := notifierReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no notifiers configured")
	}

	sinks, err := notifiers.BuildAll(ctx, notifiers.DefaultRegistry(), enabled, notifierLogger{})
	if err != nil {
		return nil, fmt.Errorf("build notifiers: %w", err)
	}
	fanout := notifiers.NewFanout(sinks)
	sinkSummaries := make([]map[string]string, 0, len(enabled))
	for _, sinkCfg := range enabled {
		sinkSummaries = append(sinkSummaries, map[string]string{
			"id":   sinkCfg.ID,
			"type": sinkCfg.Type,
		})
	}
	logger.InfoObj("notifiers registry loaded", "notifiers_meta", map[string]any{
		"count":     len(sinkSummaries),
		"notifiers": sinkSummaries,
	})

	led, err := ledger.NewLedger(cfg.LedgerType, cfg.LedgerPath, ledger.Options{
		EntryTTL:        cfg.LedgerTTL,
		CleanupInterval: cfg.LedgerCleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("init ledger: %w", err)
	}
	logger.InfoObj("ledger initialized", "ledger_config", map[string]any{
		"type": cfg.LedgerType,
		"path": cfg.LedgerPath,
	})

	client := httpclient.NewRestyClient(cfg.HTTPTimeout)
	site := strategies.DefaultSite()
	coordinator := crawler.NewCoordinator(crawler.DefaultChain(site, client, cfg.BrowserEnabled))

	var enricher crawler.ArticleEnricher
	if cfg.EnrichMetadata {
		enricher = crawler.NewScraper(client)
	}

	return &Watcher{
		cfg:         cfg,
		coordinator: coordinator,
		enricher:    enricher,
		fanout:      fanout,
		led:         led,
	}, nil
}

// Run executes a single pass when no watch interval is configured, or keeps
// running on a ticker until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.coordinator == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.closeLedger()

	if w.cfg.WatchInterval <= 0 {
		return w.RunOnce(ctx)
	}

	logger.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"notifiers_count": w.fanout.Size(),
		"watch_interval":  w.cfg.WatchInterval.String(),
	})

	if err := w.RunOnce(ctx); err != nil {
		logger.ErrorObj("initial watch pass failed", "error", err)
	}

	ticker := time.NewTicker(w.cfg.WatchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				logger.ErrorObj("scheduled watch pass failed", "error", err)
			}
		}
	}
}

// RunOnce performs one acquire-filter-notify-persist pass.
func (w *Watcher) RunOnce(ctx context.Context) error {
	start := time.Now()

	articles, err := w.coordinator.Acquire(ctx, w.cfg.MaxItemsPerRun*overFetchFactor)
	if err != nil {
		return fmt.Errorf("acquire articles: %w", err)
	}
	if len(articles) == 0 {
		logger.InfoObj("no articles acquired", "elapsed_ms", time.Since(start).Milliseconds())
		return nil
	}

	batch, err := w.selectUnseen(articles)
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		logger.InfoObj("no new items to send", "candidates", len(articles))
		return nil
	}

	if w.enricher != nil {
		batch = w.enricher.Enrich(ctx, batch)
	}

	sent := 0
	for _, art := range batch {
		if err := w.fanout.Notify(ctx, notifiers.NewMessage(art)); err != nil {
			// Abort the remainder. Items already confirmed are flushed so
			// they are not redelivered; everything else retries next run.
			return errors.Join(fmt.Errorf("notify %s: %w", art.URL, err), w.flushIfSent(sent))
		}
		if err := w.led.Mark(art.URL); err != nil {
			logger.WarnObj("ledger mark failed", "ledger_error", map[string]any{
				"url":   art.URL,
				"error": err.Error(),
			})
		}
		sent++
	}

	if err := w.flushIfSent(sent); err != nil {
		return err
	}
	logger.InfoObj("watch pass completed", "watch_meta", map[string]any{
		"candidates": len(articles),
		"sent":       sent,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// selectUnseen filters acquired articles against the ledger, keeping at most
// the per-run budget. Ledger read errors skip the item rather than the run.
func (w *Watcher) selectUnseen(articles []domain.Article) ([]domain.Article, error) {
	batch := make([]domain.Article, 0, w.cfg.MaxItemsPerRun)
	for _, art := range articles {
		if len(batch) >= w.cfg.MaxItemsPerRun {
			break
		}
		if art.URL == "" {
			continue
		}
		seen, err := w.led.Seen(art.URL)
		if err != nil {
			logger.WarnObj("ledger lookup failed", "ledger_error", map[string]any{
				"url":   art.URL,
				"error": err.Error(),
			})
			continue
		}
		if seen {
			continue
		}
		batch = append(batch, art)
	}
	return batch, nil
}

// flushIfSent persists the ledger only when at least one item was delivered.
func (w *Watcher) flushIfSent(sent int) error {
	if sent == 0 {
		return nil
	}
	if err := w.led.Flush(); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}

// closeLedger safely closes the ledger backend, logging any errors encountered.
func (w *Watcher) closeLedger() {
	if w == nil || w.led == nil {
		return
	}
	if err := w.led.Close(); err != nil {
		logger.ErrorObj("ledger close failed", "error", err)
	}
}
