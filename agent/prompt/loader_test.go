package prompt

import (
	"strings"
	"testing"
)

func TestLoadPromptSet(t *testing.T) {
	t.Parallel()

	set := LoadPromptSet()
	if set.Rewrite == "" {
		t.Fatal("rewrite prompt is empty")
	}
	// The prompt is rendered as an FString template.
	if strings.ContainsAny(set.Rewrite, "{}") {
		t.Fatal("rewrite prompt must not contain template braces")
	}
}
