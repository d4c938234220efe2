package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"voice-assistant/config"
	"voice-assistant/internal/application"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	logger := setupLogger(cfg.Log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutting down")
		cancel()
	}()

	session, err := buildSession(ctx, cfg, os.Stdout, logger)
	if err != nil {
		logger.Error("setting up session", "error", err)
		os.Exit(1)
	}

	assistant := application.NewAssistant(session, logger)

	logger.Info("starting voice assistant",
		"audio_source", cfg.Audio.Source,
		"llm", cfg.LLM.Provider,
		"search", cfg.Search.Provider,
		"tts", cfg.TTS.Provider,
		"sheets", cfg.SheetsEnabled(),
	)
	printBanner(os.Stdout, cfg)

	if err := assistant.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("assistant error", "error", err)
		os.Exit(1)
	}
}

func printBanner(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Voice assistant ready.")
	fmt.Fprintf(w, "Say '%s' to end the conversation.\n", strings.Join(cfg.Session.ExitPhrases, "' or '"))
	if cfg.Audio.Source == "file" {
		fmt.Fprintf(w, "Drop audio clips or .txt files into %s\n", cfg.Audio.FileDir)
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
