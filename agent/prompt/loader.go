package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/rewrite.txt
var rewriteRaw string

// PromptSet holds loaded prompt content.
type PromptSet struct {
	Rewrite string
}

// LoadPromptSet returns a PromptSet with trimmed prompt strings.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Rewrite: strings.TrimSpace(rewriteRaw),
	}
}
