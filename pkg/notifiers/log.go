package notifiers

import "context"

// logNotifier writes each payload to the log instead of delivering it
// anywhere. Useful as a standalone dry-run sink or for local debugging.
type logNotifier struct {
	id  string
	typ string
	log Logger
}

func newLogNotifier(cfg NotifierConfig, log Logger) (Notifier, error) {
	return &logNotifier{
		id:  cfg.ID,
		typ: TypeLog,
		log: ensureLogger(log),
	}, nil
}

func (l *logNotifier) ID() string   { return l.id }
func (l *logNotifier) Type() string { return l.typ }

func (l *logNotifier) Notify(_ context.Context, msg Message) error {
	l.log.InfoObj("log notifier payload", "notification", map[string]any{
		"notifier_id": l.id,
		"url":         msg.Article.URL,
		"text":        msg.Text,
	})
	return nil
}
