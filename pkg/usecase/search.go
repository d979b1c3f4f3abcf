package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"

	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/utils/logging"
)

// Search embeds the query text and returns ideas ranked by cosine
// similarity, highest first. Results below the threshold are dropped
// and every result satisfies the structured filter.
func (uc *UseCases) Search(ctx context.Context, query string, opts *model.SearchOptions) ([]*model.IdeaMatch, error) {
	if query == "" {
		return nil, goerr.New("search query is required")
	}

	limit := uc.searchLimit
	threshold := uc.searchThreshold
	var filter *model.IdeaFilter
	if opts != nil {
		if opts.Limit > 0 {
			limit = opts.Limit
		}
		if opts.Threshold > 0 {
			threshold = opts.Threshold
		}
		filter = opts.Filter
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	embedding, err := uc.embedder.Embed(ctx, query)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed search query")
	}

	// over-fetch so that the threshold cut still fills the limit
	candidates, err := uc.repo.Idea().FindSimilar(ctx, embedding.Vector, limit*uc.searchOverFetch, filter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to search ideas")
	}

	matches := make([]*model.IdeaMatch, 0, limit)
	for _, m := range candidates {
		if m.Score < threshold {
			continue
		}
		matches = append(matches, m)
		if len(matches) >= limit {
			break
		}
	}

	logging.From(ctx).Debug("semantic search",
		"candidates", len(candidates),
		"results", len(matches),
		"threshold", threshold,
	)

	return matches, nil
}
