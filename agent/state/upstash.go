package state

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

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

const maxUpstashResponseBytes = 2 << 20

type UpstashRedisConfig struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Token   string        `envconfig:"TOKEN" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

// StoreOption customizes UpstashRedisStore.
type StoreOption func(*UpstashRedisStore)

func WithTTL(ttl time.Duration) StoreOption {
	return func(s *UpstashRedisStore) {
		s.ttl = ttl
	}
}

func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *UpstashRedisStore) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// UpstashError is a failure reported by the Upstash REST endpoint, either as
// a non-2xx status or as an error field in the body.
type UpstashError struct {
	Status  int
	Message string
}

func (e *UpstashError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstash status=%d: %s", e.Status, e.Message)
	}
	return "upstash: " + e.Message
}

// Transport-level failures count as an unavailable store; command errors do not.
func (e *UpstashError) Is(target error) bool {
	return target == contractx.ErrStoreUnavailable && e.Status != 0
}

// UpstashRedisStore persists sessions through the Upstash Redis REST API,
// one JSON-encoded command per request.
type UpstashRedisStore struct {
	endpoint   string
	token      string
	httpClient *http.Client
	ttl        time.Duration
}

var _ Store = (*UpstashRedisStore)(nil)

func NewUpstashRedisStore(cfg UpstashRedisConfig, opts ...StoreOption) (*UpstashRedisStore, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if endpoint == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid upstash redis url: %w", err)
	}
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	s := &UpstashRedisStore{
		endpoint:   endpoint,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		ttl:        defaultStoreTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.ttl < 0 {
		return nil, errors.New("ttl must be >= 0")
	}
	return s, nil
}

func (s *UpstashRedisStore) Load(ctx context.Context, sessionID string) (*Session, error) {
	key, err := sessionKey(sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.command(ctx, "GET", key)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, ErrSessionNotFound
	}

	// GET returns the stored value as a JSON string.
	var stored string
	if err := json.Unmarshal(result, &stored); err != nil {
		return nil, fmt.Errorf("decode session payload: %w", err)
	}
	return decodeSession([]byte(stored))
}

func (s *UpstashRedisStore) Save(ctx context.Context, sess *Session) error {
	if err := prepareForSave(sess); err != nil {
		return err
	}
	key, err := sessionKey(sess.SessionID)
	if err != nil {
		return err
	}
	payload, err := encodeSession(sess)
	if err != nil {
		return err
	}

	args := []any{"SET", key, string(payload)}
	if s.ttl > 0 {
		args = append(args, "EX", expirySeconds(s.ttl))
	}
	_, err = s.command(ctx, args...)
	return err
}

func (s *UpstashRedisStore) Delete(ctx context.Context, sessionID string) error {
	key, err := sessionKey(sessionID)
	if err != nil {
		return err
	}
	_, err = s.command(ctx, "DEL", key)
	return err
}

// command posts one Redis command and returns the raw result field.
func (s *UpstashRedisStore) command(ctx context.Context, args ...any) (json.RawMessage, error) {
	body, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshal upstash command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build upstash request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: upstash request: %v", contractx.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxUpstashResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read upstash response: %w", err)
	}

	var reply struct {
		Result json.RawMessage `json:"result"`
		Error  string          `json:"error"`
	}
	decodeErr := json.Unmarshal(raw, &reply)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := reply.Error
		if decodeErr != nil || msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return nil, &UpstashError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode upstash response: %w", decodeErr)
	}
	if reply.Error != "" {
		return nil, &UpstashError{Message: reply.Error}
	}
	return bytes.TrimSpace(reply.Result), nil
}

// expirySeconds rounds up so a sub-second ttl still expires.
func expirySeconds(ttl time.Duration) int64 {
	secs := int64((ttl + time.Second - 1) / time.Second)
	return max(secs, 1)
}
