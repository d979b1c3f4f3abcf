package interfaces

import (
	"context"

	"github.com/ideabank/ideabank/pkg/domain/model"
)

// EmbeddingClient turns text into a fixed-length vector plus a token
// count. It is the sole network dependency for semantic features.
// Implementations do not retry; the caller decides failure policy.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) (*model.Embedding, error)
	Dimension() int
}
