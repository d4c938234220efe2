package application

import "context"

// ConversationLogger appends one row per completed turn to an external log.
type ConversationLogger interface {
	AppendRow(ctx context.Context, timestamp, input, reply string) error
}

type NoopLogger struct{}

func (n *NoopLogger) AppendRow(_ context.Context, _, _, _ string) error {
	return nil
}
