package qstash

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	URL               string        `split_words:"true" default:"https://qstash.upstash.io"`
	Token             string        `split_words:"true" required:"true"`
	CurrentSigningKey string        `split_words:"true"`
	NextSigningKey    string        `split_words:"true"`
	Timeout           time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	baseURL           string
	token             string
	currentSigningKey string
	nextSigningKey    string
	httpClient        *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.URL)
	if baseURL == "" {
		return nil, errors.New("qstash url is required")
	}

	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, err
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("qstash token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:           strings.TrimRight(baseURL, "/"),
		token:             token,
		currentSigningKey: strings.TrimSpace(cfg.CurrentSigningKey),
		nextSigningKey:    strings.TrimSpace(cfg.NextSigningKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}

	return client, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type publishResponse struct {
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
}

// PublishJSON enqueues payload for delivery to destination and returns the
// QStash message id.
func (c *Client) PublishJSON(ctx context.Context, destination string, payload any) (string, error) {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return "", errors.New("qstash destination is required")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal qstash payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/publish/"+destination, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build qstash request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute qstash request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read qstash response: %w", err)
	}

	var parsed publishResponse
	_ = json.Unmarshal(raw, &parsed)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		if parsed.Error != "" {
			return "", fmt.Errorf("qstash http status=%d: %s", resp.StatusCode, parsed.Error)
		}
		return "", fmt.Errorf("qstash http status=%d body=%s", resp.StatusCode, string(raw))
	}
	return parsed.MessageID, nil
}
