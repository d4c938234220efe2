package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"voice-assistant/config"
	"voice-assistant/internal/application"
	"voice-assistant/internal/infra/anthropic"
	"voice-assistant/internal/infra/audio"
	"voice-assistant/internal/infra/duckduckgo"
	"voice-assistant/internal/infra/gemini"
	"voice-assistant/internal/infra/openai"
	"voice-assistant/internal/infra/pushover"
	"voice-assistant/internal/infra/sheets"
	"voice-assistant/internal/infra/speech"
)

// buildSession turns the configuration into the collaborators of one voice
// session. console receives replies when tts.provider is console.
func buildSession(ctx context.Context, cfg *config.Config, console io.Writer, logger *slog.Logger) (application.Session, error) {
	llm, err := createAnswerGenerator(cfg.LLM)
	if err != nil {
		return application.Session{}, fmt.Errorf("answer generator: %w", err)
	}

	voice, err := createVoice(cfg.TTS, console, logger)
	if err != nil {
		return application.Session{}, fmt.Errorf("speech synthesizer: %w", err)
	}

	convLog, err := createConversationLog(ctx, cfg, logger)
	if err != nil {
		return application.Session{}, fmt.Errorf("conversation log: %w", err)
	}

	var notifier application.Notifier = &application.NoopNotifier{}
	if cfg.Pushover.Enabled {
		notifier = pushover.NewClient(cfg.Pushover.Token, cfg.Pushover.UserKey)
	}

	opts := application.DefaultOptions()
	opts.ExitPhrases = cfg.Session.ExitPhrases
	opts.Farewell = cfg.Session.Farewell
	opts.LogExitTurn = cfg.Session.LogExitTurn

	return application.Session{
		Audio:    createAudioSource(cfg.Audio, logger),
		STT:      createTranscriber(cfg.Transcription),
		Trigger:  application.NewSearchTrigger(triggerConfig(cfg.SearchTrigger)),
		Search:   createSearcher(cfg.Search),
		LLM:      llm,
		Voice:    voice,
		Log:      convLog,
		Notifier: notifier,
		Options:  opts,
	}, nil
}

func createAudioSource(cfg config.AudioConfig, logger *slog.Logger) application.AudioSource {
	switch cfg.Source {
	case "file":
		return audio.NewFileSource(cfg.FileDir)
	default:
		return audio.NewMicrophoneSource(audio.MicrophoneConfig{
			SampleRate:     cfg.SampleRate,
			Threshold:      int16(cfg.Threshold),
			PauseThreshold: cfg.PauseThreshold,
			MaxDuration:    cfg.MaxDuration,
		}, logger)
	}
}

func createTranscriber(cfg config.TranscriptionConfig) application.SpeechToText {
	opts := []openai.WhisperOption{
		openai.WithWhisperModel(cfg.Model),
		openai.WithLanguage(cfg.Language),
	}
	switch cfg.Provider {
	case "none":
		return &application.NoopSTT{}
	case "openai":
		opts = append(opts, openai.WithWhisperBaseURL(openai.OpenAIBaseURL))
		if cfg.Model == "" {
			opts = append(opts, openai.WithWhisperModel("whisper-1"))
		}
	}
	opts = append(opts, openai.WithWhisperBaseURL(cfg.BaseURL))
	return openai.NewWhisperClient(cfg.APIKey, opts...)
}

func createAnswerGenerator(cfg config.LLMConfig) (application.AnswerGenerator, error) {
	switch cfg.Provider {
	case "anthropic":
		if cfg.BaseURL != "" {
			return anthropic.NewClaudeClientWithURL(cfg.APIKey, cfg.Model, cfg.SystemPrompt, cfg.BaseURL), nil
		}
		return anthropic.NewClaudeClient(cfg.APIKey, cfg.Model, cfg.SystemPrompt), nil
	case "gemini":
		if cfg.BaseURL != "" {
			return gemini.NewClientWithURL(cfg.APIKey, cfg.Model, cfg.SystemPrompt, cfg.BaseURL), nil
		}
		return gemini.NewClient(cfg.APIKey, cfg.Model, cfg.SystemPrompt), nil
	}

	baseURL := openai.GroqBaseURL
	model := cfg.Model
	if cfg.Provider == "openai" {
		baseURL = openai.OpenAIBaseURL
		if model == "" {
			model = "gpt-4o-mini"
		}
	}
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}

	return openai.NewChatClient(cfg.APIKey, model,
		openai.WithBaseURL(baseURL),
		openai.WithSystemPrompt(cfg.SystemPrompt),
		openai.WithMaxTokens(cfg.MaxTokens),
		openai.WithTimeout(cfg.Timeout),
	)
}

// createSearcher returns a nil interface when search is disabled so the
// assistant never consults the trigger.
func createSearcher(cfg config.SearchConfig) application.WebSearcher {
	if cfg.Provider == "none" {
		return nil
	}
	return duckduckgo.NewClient(
		duckduckgo.WithBaseURL(cfg.BaseURL),
		duckduckgo.WithMaxResults(cfg.MaxResults),
		duckduckgo.WithRegion(cfg.Region),
		duckduckgo.WithTimeout(cfg.Timeout),
	)
}

func createVoice(cfg config.TTSConfig, console io.Writer, logger *slog.Logger) (application.SpeechSynthesizer, error) {
	if cfg.Provider == "console" {
		return speech.NewConsole(console, "Assistant: "), nil
	}
	return speech.NewGoogleVoice(speech.GoogleConfig{Language: cfg.Language, Speed: cfg.Speed}, logger)
}

func createConversationLog(ctx context.Context, cfg *config.Config, logger *slog.Logger) (application.ConversationLogger, error) {
	if !cfg.SheetsEnabled() {
		logger.Info("conversation logging disabled")
		return &application.NoopLogger{}, nil
	}
	return sheets.New(ctx, cfg.Sheets.CredentialsFile, cfg.Sheets.SpreadsheetName, logger)
}

func triggerConfig(cfg config.SearchTriggerConfig) application.TriggerConfig {
	tc := application.DefaultTriggerConfig()
	if len(cfg.Keywords) > 0 {
		tc.Keywords = cfg.Keywords
	}
	if cfg.MinYear != 0 {
		tc.MinYear = cfg.MinYear
	}
	if cfg.MaxYear != 0 {
		tc.MaxYear = cfg.MaxYear
	}
	if len(cfg.QuestionWords) > 0 {
		tc.QuestionWords = cfg.QuestionWords
	}
	return tc
}
