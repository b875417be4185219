package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	statex "github.com/tanpawarit/Chative-Parts-Assistant/agent/state"
)

// ApologyContent is the only user-visible failure message.
const ApologyContent = "Something went wrong while processing this request. Please try again with your appliance type and model number."

const EventChatTurn = "chat_turn"

// TurnHandler runs one turn. The orchestrator satisfies it.
type TurnHandler interface {
	HandleTurn(ctx context.Context, message string, convCtx contractx.ConversationContext) (contractx.TurnResult, error)
}

type TurnRequest struct {
	Message string `json:"message"`
	// Context wins over the stored session context when both are present.
	Context   *contractx.ConversationContext `json:"context,omitempty"`
	SessionID string                         `json:"sessionId,omitempty"`
}

type LLMInfo struct {
	Used  bool   `json:"used"`
	Model string `json:"model,omitempty"`
}

type TurnResponse struct {
	Intent    contractx.Intent              `json:"intent"`
	Context   contractx.ConversationContext `json:"context"`
	Response  contractx.Response            `json:"response"`
	ToolCalls []contractx.ToolCall          `json:"toolCalls,omitempty"`
	SessionID string                        `json:"sessionId,omitempty"`
	LLM       *LLMInfo                      `json:"llm,omitempty"`
	Error     string                        `json:"error,omitempty"`
}

func (r TurnResponse) Failed() bool {
	return r.Error != ""
}

// Apology is the reply for a turn that could not be processed.
func Apology(err error) TurnResponse {
	msg := "Unknown error"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return TurnResponse{
		Intent:   contractx.IntentError,
		Context:  contractx.ConversationContext{},
		Response: contractx.Response{Role: "assistant", Content: ApologyContent},
		Error:    msg,
	}
}

type Service struct {
	turns     TurnHandler
	rewriter  contractx.Rewriter
	telemetry contractx.Telemetry
	store     statex.Store
	now       func() time.Time
}

type Option func(*Service)

func WithRewriter(r contractx.Rewriter) Option {
	return func(s *Service) {
		if r != nil {
			s.rewriter = r
		}
	}
}

func WithTelemetry(t contractx.Telemetry) Option {
	return func(s *Service) {
		if t != nil {
			s.telemetry = t
		}
	}
}

func WithStore(store statex.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

func New(turns TurnHandler, opts ...Option) (*Service, error) {
	if turns == nil {
		return nil, errors.New("turn handler is required")
	}
	s := &Service{
		turns: turns,
		now:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Respond never returns an error: failures become the apology reply with
// the error marker set.
func (s *Service) Respond(ctx context.Context, req TurnRequest) TurnResponse {
	sessionID := strings.TrimSpace(req.SessionID)
	session := s.loadSession(ctx, sessionID)

	convCtx := contractx.ConversationContext{}
	switch {
	case req.Context != nil:
		convCtx = *req.Context
	case session != nil:
		convCtx = session.Context
	}

	result, err := s.turns.HandleTurn(ctx, req.Message, convCtx)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("chat turn failed")
		resp := Apology(err)
		resp.SessionID = sessionID
		return resp
	}

	llm := LLMInfo{}
	if s.rewriter != nil {
		rewritten := s.rewriter.Rewrite(ctx, contractx.RewriteRequest{
			UserMessage: req.Message,
			Intent:      result.Intent,
			Context:     result.Context,
			Response:    result.Response,
			ToolCalls:   result.ToolCalls,
		})
		if strings.TrimSpace(rewritten.Content) != "" {
			result.Response.Content = rewritten.Content
		}
		llm = LLMInfo{Used: rewritten.UsedLLM, Model: rewritten.Model}
	}

	if sessionID != "" && s.store != nil {
		if session == nil {
			session = statex.NewSession(sessionID, s.now())
		}
		session.Record(result, s.now())
		if err := s.store.Save(ctx, session); err != nil {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("session save failed")
		}
	}

	s.track(ctx, EventChatTurn, chatTurnPayload(result, llm))

	return TurnResponse{
		Intent:    result.Intent,
		Context:   result.Context,
		Response:  result.Response,
		ToolCalls: result.ToolCalls,
		SessionID: sessionID,
		LLM:       &llm,
	}
}

func (s *Service) loadSession(ctx context.Context, sessionID string) *statex.Session {
	if sessionID == "" || s.store == nil {
		return nil
	}
	session, err := s.store.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, statex.ErrSessionNotFound) {
			log.Warn().Err(err).Str("session_id", sessionID).Msg("session load failed, starting fresh")
		}
		return nil
	}
	return session
}

func (s *Service) track(ctx context.Context, event string, payload map[string]any) {
	if s.telemetry == nil {
		return
	}
	s.telemetry.Track(ctx, event, payload)
}

func chatTurnPayload(result contractx.TurnResult, llm LLMInfo) map[string]any {
	var appliance any
	if result.Context.ApplianceType != contractx.ApplianceUnknown {
		appliance = string(result.Context.ApplianceType)
	}
	var model any
	if llm.Model != "" {
		model = llm.Model
	}
	toolCalls := result.ToolCalls
	if toolCalls == nil {
		toolCalls = []contractx.ToolCall{}
	}
	return map[string]any{
		"intent":         string(result.Intent),
		"applianceType":  appliance,
		"hasModelNumber": result.Context.ModelNumber != "",
		"toolCalls":      toolCalls,
		"llmUsed":        llm.Used,
		"llmModel":       model,
	}
}
