package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/newsline-hq/chinapress-sentinel/internal/logger"
)

// jsonLedger keeps the seen set in memory and persists it as a sorted JSON
// list. Writes go through a temporary file and an atomic rename so the file is
// never observed half-written; a crash mid-save leaves the previous file
// intact. Entries are never evicted.
type jsonLedger struct {
	path  string
	seen  map[string]struct{}
	dirty bool
}

// seenDocument is the alternate on-disk shape accepted on load.
type seenDocument struct {
	Seen []string `json:"seen"`
}

// openJSON loads the ledger file. A missing file starts an empty set; content
// that fails to parse or has an unrecognized shape logs a warning and also
// starts empty rather than failing the run.
func openJSON(path string) (Ledger, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger directory: %w", err)
		}
	}

	l := &jsonLedger{
		path: path,
		seen: make(map[string]struct{}),
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return l, nil
		}
		return nil, fmt.Errorf("read ledger file: %w", err)
	}

	urls, ok := decodeSeen(raw)
	if !ok {
		logger.WarnObj("ledger file unreadable, starting with empty set", "ledger_path", path)
		return l, nil
	}
	for _, u := range urls {
		l.seen[u] = struct{}{}
	}
	return l, nil
}

// decodeSeen accepts either a flat list of strings or an object with a "seen"
// key holding one.
func decodeSeen(raw []byte) ([]string, bool) {
	var flat []string
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, true
	}

	var doc seenDocument
	if err := json.Unmarshal(raw, &doc); err == nil && doc.Seen != nil {
		return doc.Seen, true
	}
	return nil, false
}

func (l *jsonLedger) Close() error { return nil }

func (l *jsonLedger) Seen(url string) (bool, error) {
	_, ok := l.seen[url]
	return ok, nil
}

func (l *jsonLedger) Mark(url string) error {
	if _, ok := l.seen[url]; ok {
		return nil
	}
	l.seen[url] = struct{}{}
	l.dirty = true
	return nil
}

// Flush writes the full set as a sorted flat list, replacing the real path
// atomically. No-op when nothing was marked since the last flush.
func (l *jsonLedger) Flush() error {
	if !l.dirty {
		return nil
	}

	urls := make([]string, 0, len(l.seen))
	for u := range l.seen {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	data, err := json.MarshalIndent(urls, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write ledger temp file: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}

	l.dirty = false
	return nil
}
