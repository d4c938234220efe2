//go:build portaudio
// +build portaudio

package audio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 1024

type MicrophoneSource struct {
	stream *portaudio.Stream
	buffer []int16
	cfg    MicrophoneConfig
	logger *slog.Logger
}

func NewMicrophoneSource(cfg MicrophoneConfig, logger *slog.Logger) *MicrophoneSource {
	return &MicrophoneSource{
		cfg:    cfg.withDefaults(),
		buffer: make([]int16, framesPerBuffer),
		logger: logger,
	}
}

func (m *MicrophoneSource) Name() string {
	return "microphone"
}

func (m *MicrophoneSource) Start(_ context.Context) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.cfg.SampleRate), len(m.buffer), m.buffer)
	if err != nil {
		if paErr := portaudio.Terminate(); paErr != nil {
			return fmt.Errorf("opening stream: %w; terminate error: %w", err, paErr)
		}
		return fmt.Errorf("opening stream: %w", err)
	}
	m.stream = stream

	if err := m.stream.Start(); err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}

	m.logger.Info("microphone started", "sample_rate", m.cfg.SampleRate, "pause_threshold", m.cfg.PauseThreshold)
	return nil
}

func (m *MicrophoneSource) Stop() error {
	if m.stream != nil {
		m.stream.Stop()
		m.stream.Close()
	}
	return portaudio.Terminate()
}

// NextCommand blocks until one utterance has been spoken and followed by a
// pause, then returns it as a WAV clip.
func (m *MicrophoneSource) NextCommand(ctx context.Context) ([]byte, error) {
	m.logger.Info("listening")

	ep := m.cfg.endpointer()
	samples := make([]int16, 0, m.cfg.SampleRate*5)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := m.stream.Read(); err != nil {
			if err == portaudio.InputOverflowed {
				m.logger.Debug("input overflowed, continuing")
				continue
			}
			return nil, fmt.Errorf("reading from stream: %w", err)
		}

		if ep.Heard() || !isQuiet(m.buffer, m.cfg.Threshold) {
			samples = append(samples, m.buffer...)
		}

		if ep.Feed(m.buffer) {
			break
		}
	}

	if !ep.Heard() {
		return nil, nil
	}

	m.logger.Debug("utterance captured", "duration", time.Duration(len(samples))*time.Second/time.Duration(m.cfg.SampleRate))
	return EncodeWAV(samples, m.cfg.SampleRate), nil
}
