package docs

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	openaisdk "github.com/openai/openai-go"
	chromem "github.com/philippgille/chromem-go"

	"github.com/tanpawarit/Chative-Parts-Assistant/agent/catalog"
)

// HashDimensions is the vector width of the hashed embedding.
const HashDimensions = 128

// Embedder turns text into vectors for the document index.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Name() string
}

// HashEmbedder buckets tokens with FNV-1a. Longer tokens weigh double.
type HashEmbedder struct{}

var _ Embedder = HashEmbedder{}

func (HashEmbedder) Name() string { return "hash-fnv1a-128" }

func (HashEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		out = append(out, hashVector(text))
	}
	return out, nil
}

func hashVector(text string) []float32 {
	vector := make([]float32, HashDimensions)
	for _, token := range catalog.Tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		weight := float32(1)
		if len(token) > 4 {
			weight = 2
		}
		vector[h.Sum32()%HashDimensions] += weight
	}

	var sum float64
	for _, v := range vector {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return vector
	}
	magnitude := float32(math.Sqrt(sum))
	for i := range vector {
		vector[i] /= magnitude
	}
	return vector
}

// OpenAIEmbedder calls the embeddings endpoint of an OpenAI-compatible API.
type OpenAIEmbedder struct {
	client *openaisdk.Client
	model  string
}

var _ Embedder = (*OpenAIEmbedder)(nil)

func NewOpenAIEmbedder(client *openaisdk.Client, model string) (*OpenAIEmbedder, error) {
	if client == nil {
		return nil, errors.New("openai client is required")
	}
	model = strings.TrimSpace(model)
	if model == "" {
		return nil, errors.New("embedding model is required")
	}
	return &OpenAIEmbedder{client: client, model: model}, nil
}

func (e *OpenAIEmbedder) Name() string { return e.model }

func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := e.client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
		Input: openaisdk.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openaisdk.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("openai embedding request failed: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai returned %d embeddings, expected %d", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || int(item.Index) >= len(texts) {
			return nil, fmt.Errorf("openai returned embedding index %d out of range", item.Index)
		}
		vector := make([]float32, len(item.Embedding))
		for i, v := range item.Embedding {
			vector[i] = float32(v)
		}
		out[item.Index] = vector
	}
	return out, nil
}

// toChromemFunc adapts an Embedder to chromem's single-text signature.
func toChromemFunc(e Embedder) chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		results, err := e.Embed(ctx, []string{text})
		if err != nil {
			return nil, err
		}
		if len(results) == 0 {
			return nil, errors.New("embedder returned no vector")
		}
		return results[0], nil
	}
}
