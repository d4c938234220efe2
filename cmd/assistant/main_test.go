package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"voice-assistant/config"
	"voice-assistant/internal/application"
)

const searchPage = `<html><body>
<div class="result web-result">
  <h2 class="result__title"><a class="result__a" href="https://weather.example/paris">Paris weather</a></h2>
  <a class="result__snippet">Sunny, high of 24°C.</a>
</div>
</body></html>`

type fakeChat struct {
	mu      sync.Mutex
	prompts []string
}

func (f *fakeChat) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model    string `json:"model"`
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.prompts = append(f.prompts, req.Messages[len(req.Messages)-1].Content)
	n := len(f.prompts)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":      fmt.Sprintf("chatcmpl-%d", n),
		"object":  "chat.completion",
		"created": 1735689600,
		"model":   req.Model,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": fmt.Sprintf("**Reply %d.**", n)},
		}},
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestSession_EndToEndWithTextCommands(t *testing.T) {
	chat := &fakeChat{}
	chatServer := httptest.NewServer(chat)
	defer chatServer.Close()

	var searches []string
	searchServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		searches = append(searches, r.PostForm.Get("q"))
		io.WriteString(w, searchPage)
	}))
	defer searchServer.Close()

	dir := t.TempDir()
	clips := filepath.Join(dir, "clips")
	require.NoError(t, os.Mkdir(clips, 0755))
	writeFile(t, filepath.Join(clips, "01.txt"), "What's the weather in Paris today?")
	writeFile(t, filepath.Join(clips, "02.txt"), "tell me a joke")
	writeFile(t, filepath.Join(clips, "03.txt"), "  Quit ")

	cfgPath := filepath.Join(dir, "config.yaml")
	writeFile(t, cfgPath, fmt.Sprintf(`
audio:
  source: file
  file_dir: %s
transcription:
  provider: none
llm:
  provider: openai
  api_key: test-key
  base_url: %s
search:
  base_url: %s
tts:
  provider: console
sheets:
  enabled: false
`, clips, chatServer.URL, searchServer.URL))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var console bytes.Buffer

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	session, err := buildSession(ctx, cfg, &console, logger)
	require.NoError(t, err)

	assistant := application.NewAssistant(session, logger)
	require.NoError(t, assistant.Run(ctx))
	require.Equal(t, application.StateTerminated, assistant.State())

	require.Equal(t, []string{"What's the weather in Paris today?"}, searches)
	require.Len(t, chat.prompts, 2)
	require.Contains(t, chat.prompts[0], "Web Search Results:")
	require.Contains(t, chat.prompts[0], "1. Paris weather - Sunny, high of 24°C. (https://weather.example/paris)")
	require.Contains(t, chat.prompts[0], "Original Question: What's the weather in Paris today?")
	require.Equal(t, "tell me a joke", chat.prompts[1])

	require.Equal(t, "Assistant: Reply 1.\nAssistant: Reply 2.\nAssistant: Goodbye!\n", console.String())
}

func TestTriggerConfig_OverridesOnlySetFields(t *testing.T) {
	tc := triggerConfig(config.SearchTriggerConfig{Keywords: []string{"forecast"}, MaxYear: 2050})

	require.Equal(t, []string{"forecast"}, tc.Keywords)
	require.Equal(t, 2020, tc.MinYear)
	require.Equal(t, 2050, tc.MaxYear)
	require.Equal(t, application.DefaultTriggerConfig().QuestionWords, tc.QuestionWords)
}

func TestCreateSearcher_Disabled(t *testing.T) {
	require.Nil(t, createSearcher(config.SearchConfig{Provider: "none"}))
	require.NotNil(t, createSearcher(config.SearchConfig{Provider: "duckduckgo"}))
}

func TestCreateAnswerGenerator_RequiresKey(t *testing.T) {
	_, err := createAnswerGenerator(config.LLMConfig{Provider: "groq"})
	require.Error(t, err)

	gen, err := createAnswerGenerator(config.LLMConfig{Provider: "anthropic", APIKey: "k"})
	require.NoError(t, err)
	require.NotNil(t, gen)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	printBanner(&buf, &config.Config{
		Audio:   config.AudioConfig{Source: "file", FileDir: "./audio"},
		Session: config.SessionConfig{ExitPhrases: []string{"exit", "quit"}},
	})

	out := buf.String()
	require.True(t, strings.HasPrefix(out, "Voice assistant ready.\n"))
	require.Contains(t, out, "Say 'exit' or 'quit' to end the conversation.")
	require.Contains(t, out, "./audio")
}
