//go:build !speaker
// +build !speaker

package speech

import (
	"context"
	"fmt"
	"log/slog"
)

// GoogleVoice stub when speaker playback is not compiled in
type GoogleVoice struct{}

func NewGoogleVoice(_ GoogleConfig, _ *slog.Logger) (*GoogleVoice, error) {
	return nil, fmt.Errorf("google voice not available: rebuild with -tags speaker")
}

func (g *GoogleVoice) Speak(_ context.Context, _ string) error {
	return fmt.Errorf("google voice not available")
}
