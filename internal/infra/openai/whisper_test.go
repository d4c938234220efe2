package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"voice-assistant/internal/infra"
	"voice-assistant/internal/infra/openai"
)

func TestWhisperClient_Transcribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.FormValue("model") != "whisper-large-v3" || r.FormValue("language") != "en" {
			http.Error(w, "bad fields", http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data, _ := io.ReadAll(file)
		if string(data) != "RIFF fake wav" {
			http.Error(w, "bad audio", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"text": " What's the weather today?\n"})
	}))
	defer server.Close()

	client := openai.NewWhisperClient("test-key",
		openai.WithWhisperBaseURL(server.URL),
		openai.WithLanguage("en"),
	)

	text, err := client.Transcribe(context.Background(), []byte("RIFF fake wav"))
	require.NoError(t, err)
	require.Equal(t, "What's the weather today?", text)
}

func TestWhisperClient_RetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"text": "hello"})
	}))
	defer server.Close()

	client := openai.NewWhisperClient("test-key",
		openai.WithWhisperBaseURL(server.URL),
		openai.WithWhisperRetry(infra.RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}),
	)

	text, err := client.Transcribe(context.Background(), []byte("audio"))
	require.NoError(t, err)
	require.Equal(t, "hello", text)
	require.Equal(t, 2, calls)
}

func TestWhisperClient_PermanentErrorNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "invalid api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := openai.NewWhisperClient("bad-key", openai.WithWhisperBaseURL(server.URL))

	_, err := client.Transcribe(context.Background(), []byte("audio"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "whisper API error 401")
	require.Equal(t, 1, calls)
}
