package application

import (
	"context"
	"fmt"
)

type SpeechToText interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// SpeechSynthesizer speaks text aloud and returns once playback has finished.
type SpeechSynthesizer interface {
	Speak(ctx context.Context, text string) error
}

// NoopSTT is a no-op speech-to-text client for text-only sources (e.g. a file
// source fed with .txt commands). It returns an error if called with actual audio data.
type NoopSTT struct{}

func (n *NoopSTT) Transcribe(_ context.Context, _ []byte) (string, error) {
	return "", fmt.Errorf("speech-to-text not configured: set transcription.api_key to enable audio transcription")
}
