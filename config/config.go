package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Audio         AudioConfig         `yaml:"audio"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	LLM           LLMConfig           `yaml:"llm"`
	Search        SearchConfig        `yaml:"search"`
	SearchTrigger SearchTriggerConfig `yaml:"search_trigger"`
	TTS           TTSConfig           `yaml:"tts"`
	Sheets        SheetsConfig        `yaml:"sheets"`
	Session       SessionConfig       `yaml:"session"`
	Pushover      PushoverConfig      `yaml:"pushover"`
	Log           LogConfig           `yaml:"log"`
}

type AudioConfig struct {
	Source         string        `yaml:"source"`
	FileDir        string        `yaml:"file_dir"`
	SampleRate     int           `yaml:"sample_rate"`
	Threshold      int           `yaml:"threshold"`
	PauseThreshold time.Duration `yaml:"pause_threshold"`
	MaxDuration    time.Duration `yaml:"max_duration"`
}

type TranscriptionConfig struct {
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"api_key"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Language string `yaml:"language"`
}

type LLMConfig struct {
	Provider     string        `yaml:"provider"`
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	Model        string        `yaml:"model"`
	SystemPrompt string        `yaml:"system_prompt"`
	MaxTokens    int           `yaml:"max_tokens"`
	Timeout      time.Duration `yaml:"timeout"`
}

type SearchConfig struct {
	Provider   string        `yaml:"provider"`
	BaseURL    string        `yaml:"base_url"`
	MaxResults int           `yaml:"max_results"`
	Region     string        `yaml:"region"`
	Timeout    time.Duration `yaml:"timeout"`
}

// SearchTriggerConfig overrides the built-in trigger lists; empty fields keep
// the defaults.
type SearchTriggerConfig struct {
	Keywords      []string `yaml:"keywords"`
	MinYear       int      `yaml:"min_year"`
	MaxYear       int      `yaml:"max_year"`
	QuestionWords []string `yaml:"question_words"`
}

type TTSConfig struct {
	Provider string  `yaml:"provider"`
	Language string  `yaml:"language"`
	Speed    float32 `yaml:"speed"`
}

type SheetsConfig struct {
	Enabled         *bool  `yaml:"enabled"`
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetName string `yaml:"spreadsheet_name"`
}

type SessionConfig struct {
	ExitPhrases []string `yaml:"exit_phrases"`
	Farewell    string   `yaml:"farewell"`
	LogExitTurn bool     `yaml:"log_exit_turn"`
}

type PushoverConfig struct {
	Token   string `yaml:"token"`
	UserKey string `yaml:"user_key"`
	Enabled bool   `yaml:"enabled"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// apiKeyEnv is consulted when a provider's api_key is left empty.
var apiKeyEnv = map[string]string{
	"groq":      "GROQ_API_KEY",
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// Load reads the YAML file at path. A .env file next to it, if present, is
// loaded first and overrides the process environment; ${VAR} references in
// the YAML are then expanded.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Overload(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func (c *Config) setDefaults() {
	if c.Audio.Source == "" {
		c.Audio.Source = "microphone"
	}
	if c.Audio.FileDir == "" {
		c.Audio.FileDir = "./audio"
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = 16000
	}
	if c.Audio.Threshold == 0 {
		c.Audio.Threshold = 500
	}
	if c.Audio.PauseThreshold == 0 {
		c.Audio.PauseThreshold = time.Second
	}
	if c.Audio.MaxDuration == 0 {
		c.Audio.MaxDuration = 30 * time.Second
	}

	if c.Transcription.Provider == "" {
		c.Transcription.Provider = "groq"
	}
	if c.Transcription.APIKey == "" {
		c.Transcription.APIKey = os.Getenv(apiKeyEnv[c.Transcription.Provider])
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "groq"
	}
	if c.LLM.APIKey == "" {
		c.LLM.APIKey = os.Getenv(apiKeyEnv[c.LLM.Provider])
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = 60 * time.Second
	}

	if c.Search.Provider == "" {
		c.Search.Provider = "duckduckgo"
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = 5
	}
	if c.Search.Timeout == 0 {
		c.Search.Timeout = 15 * time.Second
	}

	if c.TTS.Provider == "" {
		c.TTS.Provider = "google"
	}
	if c.TTS.Language == "" {
		c.TTS.Language = "en"
	}
	if c.TTS.Speed == 0 {
		c.TTS.Speed = 1.0
	}

	if c.Sheets.Enabled == nil {
		enabled := true
		c.Sheets.Enabled = &enabled
	}
	if c.Sheets.CredentialsFile == "" {
		c.Sheets.CredentialsFile = "google_creds.json"
	}
	if c.Sheets.SpreadsheetName == "" {
		c.Sheets.SpreadsheetName = "voice-ai-logging"
	}

	if len(c.Session.ExitPhrases) == 0 {
		c.Session.ExitPhrases = []string{"exit", "quit", "stop"}
	}
	if c.Session.Farewell == "" {
		c.Session.Farewell = "Goodbye!"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// SheetsEnabled reports whether turns are logged to a spreadsheet.
func (c *Config) SheetsEnabled() bool {
	return c.Sheets.Enabled == nil || *c.Sheets.Enabled
}

func (c *Config) Validate() error {
	var errs []error

	if !oneOf(c.Audio.Source, "microphone", "file") {
		errs = append(errs, fmt.Errorf("audio.source %q: want microphone or file", c.Audio.Source))
	}
	if c.Audio.Threshold < 0 || c.Audio.Threshold > 32767 {
		errs = append(errs, fmt.Errorf("audio.threshold %d out of range", c.Audio.Threshold))
	}

	switch c.Transcription.Provider {
	case "none":
	case "groq", "openai":
		if c.Transcription.APIKey == "" {
			errs = append(errs, fmt.Errorf("transcription.api_key required for %s", c.Transcription.Provider))
		}
	default:
		errs = append(errs, fmt.Errorf("transcription.provider %q: want groq, openai or none", c.Transcription.Provider))
	}

	if _, ok := apiKeyEnv[c.LLM.Provider]; !ok {
		errs = append(errs, fmt.Errorf("llm.provider %q: want groq, openai, anthropic or gemini", c.LLM.Provider))
	} else if c.LLM.APIKey == "" {
		errs = append(errs, fmt.Errorf("llm.api_key required for %s (or set %s)", c.LLM.Provider, apiKeyEnv[c.LLM.Provider]))
	}

	if !oneOf(c.Search.Provider, "duckduckgo", "none") {
		errs = append(errs, fmt.Errorf("search.provider %q: want duckduckgo or none", c.Search.Provider))
	}

	t := c.SearchTrigger
	if t.MinYear != 0 && t.MaxYear != 0 && t.MinYear > t.MaxYear {
		errs = append(errs, fmt.Errorf("search_trigger: min_year %d after max_year %d", t.MinYear, t.MaxYear))
	}

	if !oneOf(c.TTS.Provider, "google", "console") {
		errs = append(errs, fmt.Errorf("tts.provider %q: want google or console", c.TTS.Provider))
	}
	if c.TTS.Speed < 0 {
		errs = append(errs, fmt.Errorf("tts.speed must be positive"))
	}

	if c.Pushover.Enabled && (c.Pushover.Token == "" || c.Pushover.UserKey == "") {
		errs = append(errs, errors.New("pushover.token and pushover.user_key required when enabled"))
	}

	return errors.Join(errs...)
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
