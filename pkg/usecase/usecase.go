package usecase

import (
	"github.com/ideabank/ideabank/pkg/domain/interfaces"
)

const (
	// DefaultSearchLimit caps semantic search results when the caller
	// does not specify a limit
	DefaultSearchLimit = 10

	// DefaultSearchThreshold drops weakly related results. Cosine
	// similarity below this value is noise for short texts.
	DefaultSearchThreshold = 0.1

	// DefaultSearchOverFetch widens the candidate fetch so that the
	// threshold cut still leaves enough results
	DefaultSearchOverFetch = 3
)

type UseCases struct {
	repo     interfaces.Repository
	embedder interfaces.EmbeddingClient

	searchLimit     int
	searchThreshold float64
	searchOverFetch int
}

type Option func(*UseCases)

// WithSearchLimit overrides the default semantic search result cap
func WithSearchLimit(limit int) Option {
	return func(uc *UseCases) {
		if limit > 0 {
			uc.searchLimit = limit
		}
	}
}

// WithSearchThreshold overrides the default minimum similarity score
func WithSearchThreshold(threshold float64) Option {
	return func(uc *UseCases) {
		if threshold >= 0 && threshold <= 1 {
			uc.searchThreshold = threshold
		}
	}
}

// WithSearchOverFetch overrides the candidate over-fetch factor
func WithSearchOverFetch(factor int) Option {
	return func(uc *UseCases) {
		if factor > 0 {
			uc.searchOverFetch = factor
		}
	}
}

func New(repo interfaces.Repository, embedder interfaces.EmbeddingClient, opts ...Option) *UseCases {
	uc := &UseCases{
		repo:            repo,
		embedder:        embedder,
		searchLimit:     DefaultSearchLimit,
		searchThreshold: DefaultSearchThreshold,
		searchOverFetch: DefaultSearchOverFetch,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
