package openrouter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type LLMBuilder interface {
	New(ctx context.Context) (model.ToolCallingChatModel, error)
}

var _ LLMBuilder = (*Config)(nil)

// Models that reject reasoning output unless it is explicitly excluded.
var reasoningExcludedModels = map[string]bool{
	"x-ai/grok-4.1-fast": true,
}

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"openai/gpt-4o-mini"`
	MaxCompletionToken *int          `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	MaxRetries         int           `envconfig:"MAX_RETRIES" split_words:"true" default:"2"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`
}

// Enabled reports whether an API key is configured.
func (c *Config) Enabled() bool {
	return c != nil && strings.TrimSpace(c.APIKey) != ""
}

// attributionHeaders are the optional OpenRouter app-ranking headers.
func (c *Config) attributionHeaders() map[string]string {
	headers := map[string]string{}
	if c.SiteURL != "" {
		headers["HTTP-Referer"] = c.SiteURL
	}
	if c.SiteName != "" {
		headers["X-Title"] = c.SiteName
	}
	return headers
}

// New builds the eino chat model used for response rewriting.
func (c *Config) New(ctx context.Context) (model.ToolCallingChatModel, error) {
	if !c.Enabled() {
		return nil, errors.New("openrouter: api key is required")
	}
	modelName := strings.TrimSpace(c.Model)
	if modelName == "" {
		return nil, errors.New("openrouter: model is required")
	}

	conf := &openaimodel.ChatModelConfig{
		BaseURL:     strings.TrimRight(c.BaseURL, "/"),
		APIKey:      strings.TrimSpace(c.APIKey),
		Model:       modelName,
		MaxTokens:   c.MaxCompletionToken,
		Temperature: &c.Temperature,
		Timeout:     c.Timeout,
		HTTPClient:  c.httpClient(),
	}

	if reasoningExcludedModels[modelName] {
		conf.ExtraFields = map[string]any{
			"reasoning": map[string]any{
				"exclude": true,
				"effort":  "none",
			},
		}
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("openrouter: create chat model: %w", err)
	}

	return m, nil
}

func (c *Config) httpClient() *http.Client {
	return &http.Client{
		Timeout:   c.Timeout,
		Transport: headerTransport{base: http.DefaultTransport, headers: c.attributionHeaders()},
	}
}

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) > 0 {
		req = req.Clone(req.Context())
		for k, v := range t.headers {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}

// NewClient returns an OpenAI SDK client pointed at OpenRouter, or nil when
// no API key is configured. The docs index uses it for embeddings.
func NewClient(cfg Config) *openaisdk.Client {
	if !cfg.Enabled() {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithMaxRetries(max(cfg.MaxRetries, 0)),
	}
	if trimmed := strings.TrimRight(cfg.BaseURL, "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed+"/"))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	for k, v := range cfg.attributionHeaders() {
		opts = append(opts, option.WithHeader(k, v))
	}

	client := openaisdk.NewClient(opts...)
	return &client
}
