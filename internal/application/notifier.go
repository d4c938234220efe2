package application

import "context"

// Notifier alerts the operator out of band, e.g. when the session stops on an
// unrecoverable failure.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

type NoopNotifier struct{}

func (n *NoopNotifier) Notify(_ context.Context, _ string) error {
	return nil
}
