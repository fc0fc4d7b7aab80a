package notifiers

import (
	"context"
	"errors"
	"fmt"
)

// Fanout dispatches messages to all configured notifiers.
type Fanout struct {
	notifiers []Notifier
}

// NewFanout builds a dispatcher that fans a message out across notifiers.
func NewFanout(sinks []Notifier) *Fanout {
	cp := make([]Notifier, 0, len(sinks))
	for _, n := range sinks {
		if n == nil {
			continue
		}
		cp = append(cp, n)
	}
	return &Fanout{notifiers: cp}
}

// Notify forwards the message to every registered notifier. Any sink failure
// is reported so the caller can treat the item as undelivered.
func (f *Fanout) Notify(ctx context.Context, msg Message) error {
	if f == nil || len(f.notifiers) == 0 {
		return nil
	}

	var errs []error
	for _, n := range f.notifiers {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("%s notifier[%s]: %w", n.Type(), n.ID(), err))
		}
	}
	return errors.Join(errs...)
}

// Size returns the number of active notifiers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.notifiers)
}
