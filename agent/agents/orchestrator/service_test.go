package orchestrator

import (
	"context"
	"strings"
	"testing"

	"github.com/tanpawarit/Chative-Parts-Assistant/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/docs"
	"github.com/tanpawarit/Chative-Parts-Assistant/agent/orders"
	toolx "github.com/tanpawarit/Chative-Parts-Assistant/agent/tool"
)

// recordingInvoker forwards to an inner invoker, or fails every call when
// inner is nil, and records the tool names it saw.
type recordingInvoker struct {
	inner toolx.Invoker
	calls []string
	auths []toolx.AuthContext
}

func (r *recordingInvoker) Invoke(ctx context.Context, name string, input map[string]any, auth toolx.AuthContext) toolx.Result {
	r.calls = append(r.calls, name)
	r.auths = append(r.auths, auth)
	if r.inner == nil {
		return toolx.Failure{Tool: name, Cause: "offline"}
	}
	return r.inner.Invoke(ctx, name, input, auth)
}

func newRuntime(t *testing.T) *toolx.Runtime {
	t.Helper()

	c, err := catalog.New(catalog.NewMemorySource())
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	retriever, err := docs.NewRetriever(context.Background(), catalog.SeedDocs(), docs.HashEmbedder{})
	if err != nil {
		t.Fatalf("docs.NewRetriever() error = %v", err)
	}
	rt, err := toolx.NewBuiltinRuntime(toolx.Deps{Catalog: c, Docs: retriever, Orders: orders.NewStub()})
	if err != nil {
		t.Fatalf("NewBuiltinRuntime() error = %v", err)
	}
	return rt
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *recordingInvoker) {
	t.Helper()

	inv := &recordingInvoker{inner: newRuntime(t)}
	o, err := New(inv)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return o, inv
}

func toolNames(calls []contractx.ToolCall) []string {
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Name)
	}
	return out
}

func TestNewRequiresInvoker(t *testing.T) {
	t.Parallel()

	if _, err := New(nil); err == nil {
		t.Fatal("New(nil) error = nil")
	}
}

func TestHandleTurnInstallGuideWithCitations(t *testing.T) {
	t.Parallel()

	o, inv := newTestOrchestrator(t)
	out, err := o.HandleTurn(context.Background(), "How can I install part number PS11752778?", contractx.ConversationContext{
		ApplianceType: contractx.ApplianceRefrigerator,
	})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if out.Intent != contractx.IntentInstallGuide {
		t.Fatalf("intent = %s, want %s", out.Intent, contractx.IntentInstallGuide)
	}
	if len(out.Response.Checklist) == 0 {
		t.Fatal("checklist is empty")
	}
	if len(out.Response.Citations) == 0 {
		t.Fatal("citations are empty")
	}
	if out.Response.Citations[0].ID != "doc-ice-1" {
		t.Fatalf("first citation = %s, want doc-ice-1", out.Response.Citations[0].ID)
	}
	if out.Context.SelectedPsNumber != "PS11752778" || out.Context.ApplianceType != contractx.ApplianceRefrigerator {
		t.Fatalf("context = %#v", out.Context)
	}
	want := []string{toolx.GetPartDetails, toolx.BuildInstallSteps, toolx.RetrieveDocs}
	if strings.Join(toolNames(out.ToolCalls), ",") != strings.Join(want, ",") {
		t.Fatalf("tool calls = %v, want %v", toolNames(out.ToolCalls), want)
	}
	for _, auth := range inv.auths {
		if auth.IsAuthenticated {
			t.Fatal("chat turn invoked a tool as an authenticated caller")
		}
	}
}

func TestHandleTurnCompatibilityOffersCheckout(t *testing.T) {
	t.Parallel()

	o, _ := newTestOrchestrator(t)
	out, err := o.HandleTurn(context.Background(), "Is PS11750057 compatible with my WDT780SAEM1 model?", contractx.ConversationContext{
		ApplianceType: contractx.ApplianceDishwasher,
	})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if out.Intent != contractx.IntentCompatibilityCheck {
		t.Fatalf("intent = %s", out.Intent)
	}
	compat := out.Response.Compatibility
	if compat == nil || !compat.Compatible || compat.FitConfidence != contractx.FitHigh {
		t.Fatalf("compatibility = %#v", compat)
	}
	if len(out.Response.Actions) != 1 {
		t.Fatalf("actions = %#v, want one checkout", out.Response.Actions)
	}
	action := out.Response.Actions[0]
	if action.Type != contractx.ActionCheckoutNow || action.Style != contractx.StylePrimary || !action.RequiresConfirmation {
		t.Fatalf("action = %#v", action)
	}
	if len(out.Response.Parts) != 1 || out.Response.Parts[0].Compatibility == nil {
		t.Fatalf("parts = %#v", out.Response.Parts)
	}
	if out.Context.ModelNumber != "WDT780SAEM1" || out.Context.SelectedPsNumber != "PS11750057" {
		t.Fatalf("context = %#v", out.Context)
	}
}

func TestHandleTurnOutOfScopeClearsAppliance(t *testing.T) {
	t.Parallel()

	o, inv := newTestOrchestrator(t)
	out, err := o.HandleTurn(context.Background(), "Can you help fix my dryer heating issue?", contractx.ConversationContext{
		ApplianceType: contractx.ApplianceDishwasher,
		ModelNumber:   "WDT780SAEM1",
	})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if out.Intent != contractx.IntentOutOfScope {
		t.Fatalf("intent = %s", out.Intent)
	}
	if !strings.HasPrefix(out.Response.Content, "I can only assist with refrigerator and dishwasher parts") {
		t.Fatalf("content = %q", out.Response.Content)
	}
	if out.Context.ApplianceType != contractx.ApplianceUnknown {
		t.Fatalf("appliance = %q, want cleared", out.Context.ApplianceType)
	}
	if out.Context.ModelNumber != "WDT780SAEM1" {
		t.Fatalf("model number = %q, want carried value kept", out.Context.ModelNumber)
	}
	if len(inv.calls) != 0 || len(out.ToolCalls) != 0 {
		t.Fatalf("tool calls = %v, want none", inv.calls)
	}
	if len(out.Response.Actions) != 0 {
		t.Fatalf("actions = %#v, want none", out.Response.Actions)
	}
}

func TestHandleTurnPartOverridesStatedAppliance(t *testing.T) {
	t.Parallel()

	o, _ := newTestOrchestrator(t)
	out, err := o.HandleTurn(context.Background(), "Tell me about PS11752778 for my dishwasher", contractx.ConversationContext{})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if out.Context.ApplianceType != contractx.ApplianceRefrigerator {
		t.Fatalf("appliance = %q, want refrigerator from part lookup", out.Context.ApplianceType)
	}
}

func TestHandleTurnUnknownApplianceAsksToClarify(t *testing.T) {
	t.Parallel()

	o, inv := newTestOrchestrator(t)
	out, err := o.HandleTurn(context.Background(), "I need a replacement part", contractx.ConversationContext{})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if !strings.Contains(out.Response.Content, "refrigerator or a dishwasher") {
		t.Fatalf("content = %q", out.Response.Content)
	}
	if len(inv.calls) != 0 {
		t.Fatalf("tool calls = %v, want none", inv.calls)
	}
	if len(out.Response.NextActions) != 2 {
		t.Fatalf("next actions = %v", out.Response.NextActions)
	}
}

func TestHandleTurnOrderSupportNeverCallsTools(t *testing.T) {
	t.Parallel()

	o, inv := newTestOrchestrator(t)
	out, err := o.HandleTurn(context.Background(), "Where is my order 12345? I want to track it", contractx.ConversationContext{
		ApplianceType: contractx.ApplianceRefrigerator,
	})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if out.Intent != contractx.IntentOrderSupport {
		t.Fatalf("intent = %s", out.Intent)
	}
	if len(inv.calls) != 0 {
		t.Fatalf("tool calls = %v, want none", inv.calls)
	}
	if out.ToolCalls == nil {
		t.Fatal("tool calls should be an empty slice, not nil")
	}
}

func TestHandleTurnCompatibilityAsksForModel(t *testing.T) {
	t.Parallel()

	o, _ := newTestOrchestrator(t)
	out, err := o.HandleTurn(context.Background(), "Will PS11750057 fit?", contractx.ConversationContext{
		ApplianceType: contractx.ApplianceDishwasher,
	})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if out.Intent != contractx.IntentCompatibilityCheck {
		t.Fatalf("intent = %s", out.Intent)
	}
	if !strings.Contains(out.Response.Content, "Share your model number") {
		t.Fatalf("content = %q", out.Response.Content)
	}
	if out.Response.Compatibility != nil {
		t.Fatalf("compatibility = %#v, want none before model is known", out.Response.Compatibility)
	}
}

func TestHandleTurnCarriedContextCompletesCompatibility(t *testing.T) {
	t.Parallel()

	o, _ := newTestOrchestrator(t)
	out, err := o.HandleTurn(context.Background(), "Is it compatible?", contractx.ConversationContext{
		ApplianceType:    contractx.ApplianceDishwasher,
		ModelNumber:      "WDT780SAEM1",
		SelectedPsNumber: "PS12584610",
	})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	compat := out.Response.Compatibility
	if compat == nil || compat.PsNumber != "PS12584610" || compat.FitConfidence != contractx.FitMedium {
		t.Fatalf("compatibility = %#v", compat)
	}
	for _, a := range out.Response.Actions {
		if a.Type == contractx.ActionCheckoutNow {
			t.Fatalf("checkout offered for out-of-stock part: %#v", out.Response.Actions)
		}
	}
	var notify bool
	for _, a := range out.Response.Actions {
		notify = notify || a.Type == contractx.ActionNotifyWhenInStock
	}
	if !notify {
		t.Fatalf("actions = %#v, want notify_when_in_stock", out.Response.Actions)
	}
}

func TestHandleTurnDegradedToolsStillReply(t *testing.T) {
	t.Parallel()

	inv := &recordingInvoker{}
	o, err := New(inv)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := o.HandleTurn(context.Background(), "How do I install PS11752778?", contractx.ConversationContext{
		ApplianceType: contractx.ApplianceRefrigerator,
	})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if len(out.Response.Checklist) != 0 || len(out.Response.Citations) != 0 {
		t.Fatalf("partial checklist shown: %#v", out.Response)
	}
	if !strings.Contains(out.Response.Content, "could not retrieve enough trusted documentation") {
		t.Fatalf("content = %q", out.Response.Content)
	}
	for _, call := range out.ToolCalls {
		if call.Status != string(toolx.StatusError) {
			t.Fatalf("tool call = %#v, want error status", call)
		}
	}
}

func TestHandleTurnTroubleshootingReturnsSignals(t *testing.T) {
	t.Parallel()

	o, _ := newTestOrchestrator(t)
	out, err := o.HandleTurn(context.Background(), "My fridge ice maker is not working", contractx.ConversationContext{})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if out.Intent != contractx.IntentTroubleshooting {
		t.Fatalf("intent = %s", out.Intent)
	}
	if len(out.Response.Citations) == 0 && len(out.Response.Parts) == 0 {
		t.Fatal("troubleshooting reply carries no citations or parts")
	}
	if !strings.HasPrefix(out.Response.Content, "For this symptom") {
		t.Fatalf("content = %q", out.Response.Content)
	}
}

func TestHandleTurnRejectsOversizedMessage(t *testing.T) {
	t.Parallel()

	o, _ := newTestOrchestrator(t)
	if _, err := o.HandleTurn(context.Background(), strings.Repeat("a", 4001), contractx.ConversationContext{}); err == nil {
		t.Fatal("HandleTurn(oversized) error = nil")
	}
	if _, err := o.HandleTurn(context.Background(), "\xff\xfe", contractx.ConversationContext{}); err == nil {
		t.Fatal("HandleTurn(invalid utf-8) error = nil")
	}
}

func TestCheckCompatibilityShortModelFallsBackLow(t *testing.T) {
	t.Parallel()

	rt := newRuntime(t)
	res := rt.Invoke(context.Background(), toolx.CheckCompatibility, map[string]any{
		"modelNumber": "WDT7",
		"psNumber":    "PS11750057",
	}, toolx.AuthContext{})
	if res.Status() != toolx.StatusFallback {
		t.Fatalf("status = %s, want fallback", res.Status())
	}
	fit, ok := toolx.DecodeFit(res)
	if !ok || fit.FitConfidence != contractx.FitLow || fit.Compatible {
		t.Fatalf("fit = %#v", fit)
	}
}

func TestHandleTurnApplianceNamedInMessageBeatsCarried(t *testing.T) {
	t.Parallel()

	o, inv := newTestOrchestrator(t)
	out, err := o.HandleTurn(context.Background(), "My dishwasher is leaking", contractx.ConversationContext{
		ApplianceType: contractx.ApplianceRefrigerator,
	})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if out.Intent != contractx.IntentTroubleshooting {
		t.Fatalf("intent = %s, want %s", out.Intent, contractx.IntentTroubleshooting)
	}
	if out.Context.ApplianceType != contractx.ApplianceDishwasher {
		t.Fatalf("appliance = %q, want dishwasher", out.Context.ApplianceType)
	}
	if len(out.Response.Parts) == 0 {
		t.Fatal("no dishwasher parts suggested")
	}
	for _, card := range out.Response.Parts {
		if card.ApplianceType != string(contractx.ApplianceDishwasher) {
			t.Fatalf("suggested %s part %s", card.ApplianceType, card.PsNumber)
		}
	}
	if len(inv.calls) == 0 {
		t.Fatal("no tools invoked")
	}
}

// emptyingInvoker answers the listed tools with an empty success and records
// every input it forwards.
type emptyingInvoker struct {
	inner  toolx.Invoker
	empty  map[string]bool
	inputs map[string][]map[string]any
}

func (e *emptyingInvoker) Invoke(ctx context.Context, name string, input map[string]any, auth toolx.AuthContext) toolx.Result {
	if e.inputs == nil {
		e.inputs = make(map[string][]map[string]any)
	}
	e.inputs[name] = append(e.inputs[name], input)
	if e.empty[name] {
		return toolx.Success{Tool: name, Value: []any{}}
	}
	return e.inner.Invoke(ctx, name, input, auth)
}

func TestHandleTurnEmptyToolResults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		message     string
		appliance   contractx.ApplianceType
		empty       []string
		wantIntent  contractx.Intent
		wantContent string
	}{
		{
			name:        "troubleshooting without signals",
			message:     "My fridge ice maker is not working",
			empty:       []string{toolx.RetrieveDocs, toolx.SearchParts},
			wantIntent:  contractx.IntentTroubleshooting,
			wantContent: "I can help troubleshoot, but I need a bit more detail.",
		},
		{
			name:        "part lookup without matches",
			message:     "I need an ice maker part",
			appliance:   contractx.ApplianceRefrigerator,
			empty:       []string{toolx.SearchParts},
			wantIntent:  contractx.IntentPartLookup,
			wantContent: "I did not find an exact match yet.",
		},
		{
			name:        "install steps without docs",
			message:     "How can I install PS11752778?",
			appliance:   contractx.ApplianceRefrigerator,
			empty:       []string{toolx.RetrieveDocs},
			wantIntent:  contractx.IntentInstallGuide,
			wantContent: "I could not retrieve enough trusted documentation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inv := &emptyingInvoker{inner: newRuntime(t), empty: map[string]bool{}}
			for _, name := range tt.empty {
				inv.empty[name] = true
			}
			o, err := New(inv)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			out, err := o.HandleTurn(context.Background(), tt.message, contractx.ConversationContext{ApplianceType: tt.appliance})
			if err != nil {
				t.Fatalf("HandleTurn() error = %v", err)
			}
			if out.Intent != tt.wantIntent {
				t.Fatalf("intent = %s, want %s", out.Intent, tt.wantIntent)
			}
			if !strings.HasPrefix(out.Response.Content, tt.wantContent) {
				t.Fatalf("content = %q, want prefix %q", out.Response.Content, tt.wantContent)
			}
			if len(out.Response.Parts) != 0 || len(out.Response.Citations) != 0 || len(out.Response.Checklist) != 0 {
				t.Fatalf("response carries tool data: %#v", out.Response)
			}
			for _, call := range out.ToolCalls {
				if call.Status != string(toolx.StatusSuccess) {
					t.Fatalf("tool call = %#v, want success", call)
				}
			}
		})
	}
}

func TestHandleTurnInstallDocsUseThePartsFamily(t *testing.T) {
	t.Parallel()

	inv := &emptyingInvoker{inner: newRuntime(t)}
	o, err := New(inv)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	out, err := o.HandleTurn(context.Background(), "How can I install PS11752778 in my dishwasher?", contractx.ConversationContext{})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	docsCalls := inv.inputs[toolx.RetrieveDocs]
	if len(docsCalls) != 1 {
		t.Fatalf("retrieve_docs calls = %d, want 1", len(docsCalls))
	}
	if got := docsCalls[0]["applianceType"]; got != string(contractx.ApplianceRefrigerator) {
		t.Fatalf("retrieve_docs applianceType = %v, want refrigerator", got)
	}
	if len(out.Response.Checklist) == 0 || len(out.Response.Citations) == 0 {
		t.Fatalf("install reply = %#v, want checklist with citations", out.Response)
	}
}

func TestHandleTurnEmptyMessageWithCarriedAppliance(t *testing.T) {
	t.Parallel()

	o, _ := newTestOrchestrator(t)
	out, err := o.HandleTurn(context.Background(), "   ", contractx.ConversationContext{ApplianceType: contractx.ApplianceRefrigerator})
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	if out.Intent != contractx.IntentPartLookup {
		t.Fatalf("intent = %s, want %s", out.Intent, contractx.IntentPartLookup)
	}
	if !strings.HasPrefix(out.Response.Content, "I did not find an exact match yet.") {
		t.Fatalf("content = %q", out.Response.Content)
	}
	if len(out.ToolCalls) != 1 || out.ToolCalls[0].Name != toolx.SearchParts || out.ToolCalls[0].Status != string(toolx.StatusFallback) {
		t.Fatalf("tool calls = %#v, want one search_parts fallback", out.ToolCalls)
	}
}
