package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"unicode"

	"github.com/ideabank/ideabank/pkg/domain/interfaces"
	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// Mock is a deterministic in-process embedder for tests. Each word is
// hashed into a dimension bucket weighted by its length, so texts that
// share words score higher cosine similarity than unrelated texts.
type Mock struct {
	dimension int

	mu    sync.Mutex
	calls []string
	err   error
}

var _ interfaces.EmbeddingClient = &Mock{}

// NewMock creates a mock embedder with the given dimensionality
func NewMock(dimension int) *Mock {
	if dimension == 0 {
		dimension = model.DefaultEmbeddingDimension
	}
	return &Mock{dimension: dimension}
}

// Dimension returns the configured vector dimensionality
func (m *Mock) Dimension() int {
	return m.dimension
}

// FailWith makes subsequent Embed calls return the given error.
// Pass nil to restore normal behavior.
func (m *Mock) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the texts passed to Embed, in order
func (m *Mock) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// Embed produces a deterministic L2-normalized vector for the text
func (m *Mock) Embed(ctx context.Context, text string) (*model.Embedding, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrEmptyText, "embed called with empty text")
	}

	m.mu.Lock()
	m.calls = append(m.calls, text)
	err := m.err
	m.mu.Unlock()
	if err != nil {
		return nil, goerr.Wrap(ErrUnavailable, "mock embedder failure", goerr.V("cause", err.Error()))
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	vector := make([]float32, m.dimension)
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vector[int(h.Sum32())%m.dimension] += float32(len(w))
	}

	var norm float64
	for _, v := range vector {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}

	return &model.Embedding{Vector: vector, Tokens: len(words)}, nil
}
