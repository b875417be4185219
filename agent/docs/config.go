package docs

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"

	contractx "github.com/tanpawarit/Chative-Parts-Assistant/agent/contract"
)

const (
	EmbedderHash   = "hash"
	EmbedderOpenAI = "openai"
)

type Config struct {
	Embedder string `split_words:"true" default:"hash"`
	Model    string `split_words:"true" default:"text-embedding-3-small"`
}

// Open picks the embedder named by cfg and indexes docs. client is only
// needed for the openai embedder.
func Open(ctx context.Context, cfg Config, docs []contractx.Doc, client *openaisdk.Client) (*Retriever, error) {
	var embedder Embedder
	switch strings.ToLower(strings.TrimSpace(cfg.Embedder)) {
	case "", EmbedderHash:
		embedder = HashEmbedder{}
	case EmbedderOpenAI:
		e, err := NewOpenAIEmbedder(client, cfg.Model)
		if err != nil {
			return nil, err
		}
		embedder = e
	default:
		return nil, fmt.Errorf("unsupported docs embedder=%q", cfg.Embedder)
	}
	return NewRetriever(ctx, docs, embedder)
}
