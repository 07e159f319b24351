// Package ollama talks to a local Ollama server through its
// OpenAI-compatible API.
package ollama

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultBaseURL = "http://localhost:11434/v1"
	defaultTimeout = 200 * time.Second

	// Deterministic output matters more than creativity here.
	generateTemperature = 0.1
)

// preferredModels are tried in order when no model is configured.
// Smallest first, so analysis stays usable on modest hardware.
var preferredModels = []string{"llama3.2:1b", "llama3.2:3b", "phi3:mini", "llama2:7b"}

// Client generates completions from a local model.
type Client interface {
	Available(ctx context.Context) bool
	PickModel(ctx context.Context) (string, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

// Option configures the client.
type Option func(*ollamaClient)

// WithBaseURL overrides the default server URL.
func WithBaseURL(url string) Option {
	return func(c *ollamaClient) {
		c.baseURL = url
	}
}

// WithModel pins a model instead of picking from the installed ones.
func WithModel(model string) Option {
	return func(c *ollamaClient) {
		c.model = model
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *ollamaClient) {
		c.timeout = d
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *ollamaClient) {
		c.http = hc
	}
}

type ollamaClient struct {
	api     *openai.Client
	baseURL string
	model   string
	timeout time.Duration
	http    *http.Client
}

// NewClient creates an Ollama client. The server needs no API key.
func NewClient(opts ...Option) Client {
	c := &ollamaClient{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}

	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = c.baseURL
	cfg.HTTPClient = c.http
	c.api = openai.NewClientWithConfig(cfg)
	return c
}

// Available reports whether the server answers a model listing.
func (c *ollamaClient) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := c.api.ListModels(ctx)
	return err == nil
}

// PickModel returns the configured model, or the first preferred model
// installed on the server, or failing that whatever the server has.
func (c *ollamaClient) PickModel(ctx context.Context) (string, error) {
	if c.model != "" {
		return c.model, nil
	}

	list, err := c.api.ListModels(ctx)
	if err != nil {
		return "", eris.Wrap(err, "ollama: list models")
	}
	if len(list.Models) == 0 {
		return "", eris.New("ollama: no models installed")
	}

	installed := make(map[string]bool, len(list.Models))
	for _, m := range list.Models {
		installed[m.ID] = true
	}
	for _, name := range preferredModels {
		if installed[name] {
			return name, nil
		}
	}
	return list.Models[0].ID, nil
}

// Generate runs a single-turn completion of the prompt.
func (c *ollamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	model, err := c.PickModel(ctx)
	if err != nil {
		return "", err
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: generateTemperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", eris.Wrapf(err, "ollama: chat completion with %s", model)
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("ollama: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
