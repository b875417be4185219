package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

// Session is what the server keeps for clients that only send a session id:
// the carried conversation context plus a little bookkeeping.
type Session struct {
	SessionID  string                        `json:"session_id"`
	Context    contractx.ConversationContext `json:"context"`
	LastIntent contractx.Intent              `json:"last_intent,omitempty"`
	Turns      int                           `json:"turns"`
	Version    int                           `json:"version"`
	UpdatedAt  time.Time                     `json:"updated_at"`
}

var ErrInvalidApplianceType = errors.New("session appliance type is not supported")

func NewSession(sessionID string, now time.Time) *Session {
	return &Session{
		SessionID: sessionID,
		Version:   1,
		UpdatedAt: now.UTC(),
	}
}

func (s *Session) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Record folds a finished turn into the session.
func (s *Session) Record(result contractx.TurnResult, now time.Time) {
	s.Context = result.Context
	s.LastIntent = result.Intent
	s.Turns++
	s.Touch(now)
}

func (s *Session) Validate() error {
	if s == nil {
		return ErrNilSession
	}
	if strings.TrimSpace(s.SessionID) == "" {
		return ErrInvalidSession
	}
	if s.Turns < 0 {
		return fmt.Errorf("turns must be >= 0, got %d", s.Turns)
	}
	if at := s.Context.ApplianceType; at != contractx.ApplianceUnknown && !at.InScope() {
		return fmt.Errorf("%w: %q", ErrInvalidApplianceType, at)
	}
	return nil
}

func cloneSession(s *Session) *Session {
	if s == nil {
		return nil
	}
	out := *s
	return &out
}

// prepareForSave fills defaults and validates before a write.
func prepareForSave(s *Session) error {
	if s == nil {
		return ErrNilSession
	}
	if s.Version <= 0 {
		s.Version = 1
	}
	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = time.Now().UTC()
	} else {
		s.UpdatedAt = s.UpdatedAt.UTC()
	}
	return s.Validate()
}
