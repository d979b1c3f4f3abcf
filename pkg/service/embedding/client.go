// Package embedding wraps the LLM embedding API behind the
// interfaces.EmbeddingClient contract.
package embedding

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/ideabank/ideabank/pkg/domain/interfaces"
	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/pkoukk/tiktoken-go"
)

// Client generates embeddings via a gollem LLM client.
type Client struct {
	llmClient gollem.LLMClient
	dimension int

	tokenizerOnce sync.Once
	tokenizer     *tiktoken.Tiktoken
}

var _ interfaces.EmbeddingClient = &Client{}

// New creates an embedding client with the given dimensionality.
// A zero dimension falls back to the default.
func New(llmClient gollem.LLMClient, dimension int) (*Client, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	if dimension == 0 {
		dimension = model.DefaultEmbeddingDimension
	}
	if dimension < 1 {
		return nil, goerr.New("embedding dimension must be positive", goerr.V("dimension", dimension))
	}

	return &Client{
		llmClient: llmClient,
		dimension: dimension,
	}, nil
}

// Dimension returns the configured vector dimensionality
func (c *Client) Dimension() int {
	return c.dimension
}

// Embed generates an embedding vector for the given text. Provider
// failures abort with ErrUnavailable; the caller decides whether the
// enclosing operation fails hard.
func (c *Client) Embed(ctx context.Context, text string) (*model.Embedding, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrEmptyText, "embed called with empty text")
	}

	embeddings, err := c.llmClient.GenerateEmbedding(ctx, c.dimension, []string{text})
	if err != nil {
		return nil, goerr.Wrap(ErrUnavailable, "failed to generate embedding",
			goerr.V("cause", err.Error()),
			goerr.V("text", truncate(text, 64)))
	}
	if len(embeddings) == 0 {
		return nil, goerr.Wrap(ErrUnavailable, "no embedding returned")
	}
	if len(embeddings[0]) != c.dimension {
		return nil, goerr.Wrap(ErrDimensionMismatch, "unexpected embedding dimension",
			goerr.V("want", c.dimension), goerr.V("got", len(embeddings[0])))
	}

	vector := make([]float32, len(embeddings[0]))
	for i, v := range embeddings[0] {
		vector[i] = float32(v)
	}

	return &model.Embedding{
		Vector: vector,
		Tokens: c.countTokens(ctx, text),
	}, nil
}

// countTokens is best-effort: tokenizer setup failures degrade to a
// rough rune-based estimate.
func (c *Client) countTokens(ctx context.Context, text string) int {
	c.tokenizerOnce.Do(func() {
		tk, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			logging.From(ctx).Debug("tokenizer unavailable, using rough token estimate",
				"error", err.Error())
			return
		}
		c.tokenizer = tk
	})

	if c.tokenizer == nil {
		return (utf8.RuneCountInString(text) + 3) / 4
	}
	return len(c.tokenizer.Encode(text, nil, nil))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
