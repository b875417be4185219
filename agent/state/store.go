package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNilSession      = errors.New("session is nil")
	ErrInvalidSession  = errors.New("session id is empty")
)

const defaultStoreTTL = 24 * time.Hour

// Store persists sessions for the chat boundary.
type Store interface {
	Load(ctx context.Context, sessionID string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, sessionID string) error
}

// sessionKey is shared by every Redis-backed store.
func sessionKey(sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", ErrInvalidSession
	}
	return "conv:" + sessionID + ":parts:session", nil
}

func encodeSession(sess *Session) ([]byte, error) {
	payload, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return payload, nil
}

func decodeSession(raw []byte) (*Session, error) {
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if err := sess.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session loaded from store: %w", err)
	}
	return &sess, nil
}
