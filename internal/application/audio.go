package application

import "context"

// AudioSource delivers one captured utterance per NextCommand call. A capture
// prefixed with domain.TextCommandPrefix carries text instead of audio.
type AudioSource interface {
	Start(ctx context.Context) error
	Stop() error
	NextCommand(ctx context.Context) ([]byte, error)
	Name() string
}
