package notifiers

import "context"

// Notifier delivers a message to a downstream channel (Telegram, HTTP, SQS, etc).
type Notifier interface {
	ID() string
	Type() string
	Notify(ctx context.Context, msg Message) error
}
