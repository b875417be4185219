package llm

import (
	"time"

	openrouterx "github.com/tanpawarit/Chative-Parts-Assistant/pkg/openrouter"
)

// Config tunes the rewrite call. Connection settings come from the
// OpenRouter config.
type Config struct {
	Model              string        `split_words:"true"`
	Temperature        float32       `split_words:"true" default:"0.2"`
	MaxCompletionToken int           `split_words:"true" default:"280"`
	Timeout            time.Duration `split_words:"true" default:"8s"`
}

// OpenRouterFor applies the rewrite overrides to a copy of base.
func (c Config) OpenRouterFor(base openrouterx.Config) openrouterx.Config {
	out := base
	if c.Model != "" {
		out.Model = c.Model
	}
	out.Temperature = c.Temperature
	if c.MaxCompletionToken > 0 {
		maxTokens := c.MaxCompletionToken
		out.MaxCompletionToken = &maxTokens
	}
	if c.Timeout > 0 {
		out.Timeout = c.Timeout
	}
	return out
}
