package telemetry

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	qstashx "github.com/tanpawarit/Chative-Parts-Assistant/pkg/qstash"
)

const (
	SinkLog    = "log"
	SinkQStash = "qstash"
	SinkNone   = "none"

	defaultPublishTimeout = 5 * time.Second
)

type Config struct {
	Sink        string        `split_words:"true" default:"log"`
	Destination string        `split_words:"true"`
	Timeout     time.Duration `split_words:"true" default:"5s"`
}

type Event struct {
	ID        string         `json:"id"`
	EventName string         `json:"eventName"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewEvent(name string, payload map[string]any) Event {
	if payload == nil {
		payload = map[string]any{}
	}
	return Event{
		ID:        uuid.NewString(),
		EventName: name,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

// LogSink writes events to the global zerolog logger.
type LogSink struct{}

var _ contractx.Telemetry = LogSink{}

func (LogSink) Track(_ context.Context, event string, payload map[string]any) {
	e := NewEvent(event, payload)
	log.Info().
		Str("event_id", e.ID).
		Str("event", e.EventName).
		Interface("payload", e.Payload).
		Msg("telemetry")
}

// Publisher is the subset of the QStash client the sink needs.
type Publisher interface {
	PublishJSON(ctx context.Context, destination string, payload any) (string, error)
}

var _ Publisher = (*qstashx.Client)(nil)

// QStashSink publishes each event in the background. Failures are logged and
// dropped.
type QStashSink struct {
	publisher   Publisher
	destination string
	timeout     time.Duration
	wg          sync.WaitGroup
}

var _ contractx.Telemetry = (*QStashSink)(nil)

func NewQStashSink(publisher Publisher, destination string, timeout time.Duration) (*QStashSink, error) {
	if publisher == nil {
		return nil, fmt.Errorf("qstash publisher is required")
	}
	destination = strings.TrimSpace(destination)
	if destination == "" {
		return nil, fmt.Errorf("telemetry destination is required for the qstash sink")
	}
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &QStashSink{publisher: publisher, destination: destination, timeout: timeout}, nil
}

func (s *QStashSink) Track(ctx context.Context, event string, payload map[string]any) {
	e := NewEvent(event, payload)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		if _, err := s.publisher.PublishJSON(pubCtx, s.destination, e); err != nil {
			log.Warn().Err(err).Str("event", event).Str("event_id", e.ID).Msg("telemetry publish failed")
		}
	}()
}

// Flush waits for in-flight publishes.
func (s *QStashSink) Flush() {
	s.wg.Wait()
}

// Multi fans an event out to every sink.
type Multi []contractx.Telemetry

func (m Multi) Track(ctx context.Context, event string, payload map[string]any) {
	for _, sink := range m {
		if sink != nil {
			sink.Track(ctx, event, payload)
		}
	}
}

// Nop drops every event.
type Nop struct{}

func (Nop) Track(context.Context, string, map[string]any) {}

// Open builds the sink named by cfg. The qstash sink also logs locally.
func Open(cfg Config, client *qstashx.Client) (contractx.Telemetry, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Sink)) {
	case "", SinkLog:
		return LogSink{}, nil
	case SinkNone:
		return Nop{}, nil
	case SinkQStash:
		if client == nil {
			return nil, fmt.Errorf("qstash client is required for telemetry sink=%q", cfg.Sink)
		}
		sink, err := NewQStashSink(client, cfg.Destination, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return Multi{LogSink{}, sink}, nil
	default:
		return nil, fmt.Errorf("unsupported telemetry sink=%q", cfg.Sink)
	}
}

// Flush waits for background publishes of sink and of any sink it fans out
// to.
func Flush(sink contractx.Telemetry) {
	switch s := sink.(type) {
	case Multi:
		for _, inner := range s {
			Flush(inner)
		}
	case interface{ Flush() }:
		s.Flush()
	}
}
