package ledger

import (
	"fmt"
	"strings"
	"time"
)

// Package ledger persists the set of article URLs already delivered, making
// delivery idempotent across process restarts.

// Ledger tracks delivered article URLs. Mark only mutates the in-memory view
// for backends that batch writes; Flush persists whatever accumulated since
// the last flush.
type Ledger interface {
	Close() error
	Seen(url string) (bool, error)
	Mark(url string) error
	Flush() error
}

// Options controls retention characteristics for concrete ledger backends.
type Options struct {
	EntryTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultEntryTTL        = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewLedger creates the configured ledger backend. The JSON file ledger is the
// default; bbolt trades the append-only file for TTL-based retention.
func NewLedger(typ, path string, opts Options) (Ledger, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "none", "disabled":
		return noopLedger{}, nil
	case "", "json":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("json ledger requires a path")
		}
		return openJSON(path)
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt ledger requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported ledger type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.EntryTTL <= 0 {
		opts.EntryTTL = defaultEntryTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopLedger struct{}

func (noopLedger) Close() error              { return nil }
func (noopLedger) Seen(string) (bool, error) { return false, nil }
func (noopLedger) Mark(string) error         { return nil }
func (noopLedger) Flush() error              { return nil }
