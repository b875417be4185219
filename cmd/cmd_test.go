package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/tanpawarit/Chative-Parts-Assistant/agent/agents/chat"
	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

// Commands share package-level flag state, so these tests run serially.

func runRoot(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		chatMessage, chatSession, chatJSON = "", "", false
		rootCmd.SetArgs(nil)
	})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute(%v) error = %v", args, err)
	}
	return out.String()
}

func TestContractsCommand(t *testing.T) {
	out := runRoot(t, "", "contracts")
	var body struct {
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	if err := json.Unmarshal([]byte(out), &body); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if len(body.Tools) != 6 {
		t.Fatalf("tools = %d, want 6", len(body.Tools))
	}
}

func TestChatCommandSingleTurn(t *testing.T) {
	out := runRoot(t, "", "chat", "--message", "Is PS11750057 compatible with my WDT780SAEM1 model?")
	if !strings.Contains(out, "[COMPATIBILITY_CHECK]") || !strings.Contains(out, "tool check_compatibility: success") {
		t.Fatalf("output = %q", out)
	}
}

func TestChatCommandCarriesContextBetweenLines(t *testing.T) {
	out := runRoot(t, "My dishwasher model is WDT780SAEM1\nIs PS11750057 compatible?\nquit\n", "chat")
	if !strings.Contains(out, "tool check_compatibility: success") {
		t.Fatalf("second turn did not reuse the model number: %q", out)
	}
}

func TestPrintTurnJSON(t *testing.T) {
	chatJSON = true
	t.Cleanup(func() { chatJSON = false })

	var buf bytes.Buffer
	resp := chat.TurnResponse{Intent: contractx.IntentOutOfScope, Response: contractx.Response{Role: "assistant", Content: "Only fridges."}}
	if err := printTurn(&buf, resp); err != nil {
		t.Fatalf("printTurn() error = %v", err)
	}
	var got chat.TurnResponse
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if got.Intent != contractx.IntentOutOfScope || got.Response.Content != "Only fridges." {
		t.Fatalf("printTurn() = %#v", got)
	}
}
