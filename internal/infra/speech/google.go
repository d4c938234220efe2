//go:build speaker
// +build speaker

package speech

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	google_translate_tts "github.com/GrailFinder/google-translate-tts"
	"github.com/GrailFinder/google-translate-tts/handlers"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
)

const outputRate = beep.SampleRate(44100)

var initSpeaker = sync.OnceValue(func() error {
	return speaker.Init(outputRate, outputRate.N(time.Second/10))
})

// GoogleVoice synthesizes replies with Google Translate TTS and plays them on
// the default output device.
type GoogleVoice struct {
	speech   *google_translate_tts.Speech
	splitter *Splitter
	logger   *slog.Logger
}

func NewGoogleVoice(cfg GoogleConfig, logger *slog.Logger) (*GoogleVoice, error) {
	cfg = cfg.withDefaults()

	splitter, err := NewSplitter()
	if err != nil {
		return nil, fmt.Errorf("loading sentence tokenizer: %w", err)
	}
	if err := initSpeaker(); err != nil {
		return nil, fmt.Errorf("initializing speaker: %w", err)
	}

	return &GoogleVoice{
		speech: &google_translate_tts.Speech{
			Folder:   filepath.Join(os.TempDir(), "voice-assistant-tts"),
			Language: cfg.Language,
			Speed:    cfg.Speed,
			Handler:  &handlers.Beep{},
		},
		splitter: splitter,
		logger:   logger,
	}, nil
}

// Speak blocks until every sentence of text has been played or ctx is done.
func (g *GoogleVoice) Speak(ctx context.Context, text string) error {
	for _, sentence := range g.splitter.Split(text) {
		if err := g.play(ctx, sentence); err != nil {
			return err
		}
	}
	return nil
}

func (g *GoogleVoice) play(ctx context.Context, sentence string) error {
	g.logger.Debug("synthesizing", "text_len", len(sentence))

	reader, err := g.speech.GenerateSpeech(sentence)
	if err != nil {
		return fmt.Errorf("generating speech: %w", err)
	}
	streamer, format, err := mp3.Decode(io.NopCloser(reader))
	if err != nil {
		return fmt.Errorf("decoding mp3: %w", err)
	}
	defer streamer.Close()

	var playback beep.Streamer = streamer
	if speed := g.speech.Speed; speed > 0 && speed != 1 {
		playback = beep.ResampleRatio(3, float64(speed), playback)
	}
	if format.SampleRate != outputRate {
		playback = beep.Resample(3, format.SampleRate, outputRate, playback)
	}

	done := make(chan struct{})
	ctrl := &beep.Ctrl{Streamer: beep.Seq(playback, beep.Callback(func() { close(done) }))}
	speaker.Play(ctrl)

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Lock()
		ctrl.Streamer = nil
		speaker.Unlock()
		return ctx.Err()
	}
}
