package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Parts-Assistant/pkg/openrouter"
)

type fakeChatModel struct {
	reply *schema.Message
	err   error
	input []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	f.input = input
	if f.err != nil {
		return nil, f.err
	}
	return f.reply, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func draftRequest() contractx.RewriteRequest {
	return contractx.RewriteRequest{
		UserMessage: "Is PS11750057 compatible with my WDT780SAEM1 model?",
		Intent:      contractx.IntentCompatibilityCheck,
		Context:     contractx.ConversationContext{ApplianceType: contractx.ApplianceDishwasher},
		Response: contractx.Response{
			Role:    "assistant",
			Content: "PS11750057 is compatible with WDT780SAEM1.",
		},
	}
}

func TestRewriteUsesModelContent(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{reply: schema.AssistantMessage("  Good news: it fits.  ", nil)}
	r, err := NewRewriter(context.Background(), fake, "openai/gpt-4o-mini", "system prompt", 0)
	if err != nil {
		t.Fatalf("NewRewriter() error = %v", err)
	}

	got := r.Rewrite(context.Background(), draftRequest())
	if !got.UsedLLM || got.Content != "Good news: it fits." || got.Model != "openai/gpt-4o-mini" {
		t.Fatalf("Rewrite() = %#v", got)
	}
	if len(fake.input) != 2 || fake.input[0].Role != schema.System {
		t.Fatalf("model input = %#v", fake.input)
	}
	user := fake.input[1].Content
	if !strings.Contains(user, "Draft response: {") || !strings.Contains(user, "Intent: COMPATIBILITY_CHECK") || !strings.Contains(user, "Tool calls: []") {
		t.Fatalf("user prompt = %q", user)
	}
}

func TestRewriteKeepsDraftOnFailure(t *testing.T) {
	t.Parallel()

	cases := map[string]*fakeChatModel{
		"error": {err: errors.New("rate limited")},
		"empty": {reply: schema.AssistantMessage("   ", nil)},
	}
	for name, fake := range cases {
		r, err := NewRewriter(context.Background(), fake, "m", "system prompt", 0)
		if err != nil {
			t.Fatalf("%s: NewRewriter() error = %v", name, err)
		}
		got := r.Rewrite(context.Background(), draftRequest())
		if got.UsedLLM || got.Content != draftRequest().Response.Content || got.Model != "m" {
			t.Fatalf("%s: Rewrite() = %#v", name, got)
		}
	}
}

func TestRewriteSkipsEmptyDraft(t *testing.T) {
	t.Parallel()

	fake := &fakeChatModel{reply: schema.AssistantMessage("should not be used", nil)}
	r, err := NewRewriter(context.Background(), fake, "m", "system prompt", 0)
	if err != nil {
		t.Fatalf("NewRewriter() error = %v", err)
	}
	req := draftRequest()
	req.Response.Content = ""
	if got := r.Rewrite(context.Background(), req); got.UsedLLM || got.Content != "" {
		t.Fatalf("Rewrite() = %#v", got)
	}
	if fake.input != nil {
		t.Fatal("model called for an empty draft")
	}
}

func TestNewRewriterValidates(t *testing.T) {
	t.Parallel()

	if _, err := NewRewriter(context.Background(), nil, "m", "p", 0); err == nil {
		t.Fatal("NewRewriter(nil model) error = nil")
	}
	if _, err := NewRewriter(context.Background(), &fakeChatModel{}, "m", " ", 0); err == nil {
		t.Fatal("NewRewriter(empty prompt) error = nil")
	}
}

func TestNewWithoutAPIKeyIsPassthrough(t *testing.T) {
	t.Parallel()

	r, err := New(context.Background(), &openrouterx.Config{}, Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := r.(Passthrough); !ok {
		t.Fatalf("New() = %T, want Passthrough", r)
	}
	got := r.Rewrite(context.Background(), draftRequest())
	if got.UsedLLM || got.Content != draftRequest().Response.Content {
		t.Fatalf("Rewrite() = %#v", got)
	}
}

func TestConfigOpenRouterFor(t *testing.T) {
	t.Parallel()

	base := openrouterx.Config{APIKey: "k", Model: "base-model", Temperature: 0.9}
	got := Config{Model: "rewrite-model", Temperature: 0.2, MaxCompletionToken: 280}.OpenRouterFor(base)
	if got.Model != "rewrite-model" || got.Temperature != 0.2 || got.MaxCompletionToken == nil || *got.MaxCompletionToken != 280 {
		t.Fatalf("OpenRouterFor() = %#v", got)
	}
	if base.Model != "base-model" {
		t.Fatal("OpenRouterFor() mutated its input")
	}
}
