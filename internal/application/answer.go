package application

import "context"

// AnswerGenerator turns a prompt, plain or search-augmented, into a reply.
type AnswerGenerator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
