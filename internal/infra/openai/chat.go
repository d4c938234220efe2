package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

const DefaultChatModel = "llama-3.3-70b-versatile"

// ChatClient answers prompts with an OpenAI-compatible chat completions API.
// Pointed at Groq by default.
type ChatClient struct {
	client       oai.Client
	model        string
	systemPrompt string
	maxTokens    int
}

type chatConfig struct {
	baseURL      string
	systemPrompt string
	maxTokens    int
	maxRetries   int
	timeout      time.Duration
}

type ChatOption func(*chatConfig)

func WithBaseURL(url string) ChatOption {
	return func(c *chatConfig) {
		c.baseURL = url
	}
}

func WithSystemPrompt(prompt string) ChatOption {
	return func(c *chatConfig) {
		c.systemPrompt = prompt
	}
}

func WithMaxTokens(n int) ChatOption {
	return func(c *chatConfig) {
		c.maxTokens = n
	}
}

func WithMaxRetries(n int) ChatOption {
	return func(c *chatConfig) {
		c.maxRetries = n
	}
}

func WithTimeout(d time.Duration) ChatOption {
	return func(c *chatConfig) {
		c.timeout = d
	}
}

func NewChatClient(apiKey, model string, opts ...ChatOption) (*ChatClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("chat: apiKey must not be empty")
	}
	if model == "" {
		model = DefaultChatModel
	}

	cfg := &chatConfig{baseURL: GroqBaseURL, maxRetries: 2}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(cfg.maxRetries),
	}
	if cfg.baseURL != "" {
		// relative endpoint paths resolve against the base, so it must end in a slash
		reqOpts = append(reqOpts, option.WithBaseURL(strings.TrimRight(cfg.baseURL, "/")+"/"))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{
			Timeout: cfg.timeout,
		}))
	}

	return &ChatClient{
		client:       oai.NewClient(reqOpts...),
		model:        model,
		systemPrompt: cfg.systemPrompt,
		maxTokens:    cfg.maxTokens,
	}, nil
}

func (c *ChatClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, c.buildParams(prompt))
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices in response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *ChatClient) buildParams(prompt string) oai.ChatCompletionNewParams {
	var messages []oai.ChatCompletionMessageParamUnion
	if c.systemPrompt != "" {
		messages = append(messages, oai.SystemMessage(c.systemPrompt))
	}
	messages = append(messages, oai.UserMessage(prompt))

	params := oai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: messages,
	}
	if c.maxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(c.maxTokens))
	}
	return params
}
