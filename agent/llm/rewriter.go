package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/prompt"
	openrouterx "github.com/tanpawarit/Chative-Parts-Assistant/pkg/openrouter"
)

// Rewriter asks a chat model to rephrase the reply text. Any failure keeps
// the draft.
type Rewriter struct {
	runner  compose.Runnable[map[string]any, *schema.Message]
	model   string
	timeout time.Duration
}

var _ contractx.Rewriter = (*Rewriter)(nil)

func NewRewriter(ctx context.Context, chatModel einomodel.BaseChatModel, modelName string, systemPrompt string, timeout time.Duration) (*Rewriter, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, errors.New("system prompt is required")
	}

	runner, err := compileRewriteGraph(ctx, chatModel, systemPrompt)
	if err != nil {
		return nil, err
	}
	return &Rewriter{runner: runner, model: modelName, timeout: timeout}, nil
}

// New returns a Rewriter backed by OpenRouter, or a Passthrough when no API
// key is configured.
func New(ctx context.Context, base *openrouterx.Config, cfg Config) (contractx.Rewriter, error) {
	if !base.Enabled() {
		return Passthrough{}, nil
	}
	orCfg := cfg.OpenRouterFor(*base)
	chatModel, err := orCfg.New(ctx)
	if err != nil {
		return nil, err
	}
	return NewRewriter(ctx, chatModel, orCfg.Model, prompt.LoadPromptSet().Rewrite, cfg.Timeout)
}

func compileRewriteGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	systemPrompt string,
) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.SystemMessage(systemPrompt),
		schema.UserMessage("{input}"),
	)

	graph := compose.NewGraph[map[string]any, *schema.Message]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add rewrite prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add rewrite model node: %w", err)
	}
	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add rewrite edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add rewrite edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", compose.END); err != nil {
		return nil, fmt.Errorf("add rewrite edge model->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("chat.rewrite_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile rewrite graph: %w", err)
	}
	return runner, nil
}

func (r *Rewriter) Rewrite(ctx context.Context, req contractx.RewriteRequest) contractx.RewriteResult {
	draft := req.Response.Content
	if strings.TrimSpace(draft) == "" {
		return contractx.RewriteResult{Content: draft}
	}
	keep := contractx.RewriteResult{Model: r.model, Content: draft}

	input, err := buildRewriteInput(req)
	if err != nil {
		log.Warn().Err(err).Msg("rewrite input build failed")
		return keep
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	msg, err := r.runner.Invoke(ctx, map[string]any{"input": input})
	if err != nil {
		log.Warn().Err(fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)).Str("model", r.model).Msg("rewrite failed, keeping draft")
		return keep
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return keep
	}
	return contractx.RewriteResult{UsedLLM: true, Model: r.model, Content: strings.TrimSpace(msg.Content)}
}

func buildRewriteInput(req contractx.RewriteRequest) (string, error) {
	contextJSON, err := json.Marshal(req.Context)
	if err != nil {
		return "", fmt.Errorf("marshal context: %w", err)
	}
	toolCalls := req.ToolCalls
	if toolCalls == nil {
		toolCalls = []contractx.ToolCall{}
	}
	toolCallsJSON, err := json.Marshal(toolCalls)
	if err != nil {
		return "", fmt.Errorf("marshal tool calls: %w", err)
	}
	responseJSON, err := json.Marshal(req.Response)
	if err != nil {
		return "", fmt.Errorf("marshal response: %w", err)
	}

	return strings.Join([]string{
		"Rewrite the draft assistant response using the provided context.",
		"Keep factual details from tools unchanged.",
		"",
		"User message: " + req.UserMessage,
		"Intent: " + string(req.Intent),
		"Context: " + string(contextJSON),
		"Tool calls: " + string(toolCallsJSON),
		"Draft response: " + string(responseJSON),
	}, "\n"), nil
}

// Passthrough keeps every draft as written.
type Passthrough struct{}

func (Passthrough) Rewrite(_ context.Context, req contractx.RewriteRequest) contractx.RewriteResult {
	return contractx.RewriteResult{Content: req.Response.Content}
}
