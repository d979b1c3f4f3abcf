package memory

import (
	"context"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// vectorIndex wraps a chromem-go collection as the similarity index of
// the in-memory backend. chromem performs exhaustive cosine search, so
// the build-time graph parameters of the index configuration are not
// applicable here.
type vectorIndex struct {
	db  *chromem.DB
	col *chromem.Collection
	cfg model.IndexConfig
}

// candidate is one ranked index hit before hydration
type candidate struct {
	id    types.IdeaID
	score float64
}

func newVectorIndex(cfg model.IndexConfig) (*vectorIndex, error) {
	x := &vectorIndex{
		db:  chromem.NewDB(),
		cfg: cfg,
	}
	if err := x.EnsureIndex(); err != nil {
		return nil, err
	}
	return x, nil
}

// EnsureIndex creates the collection if it does not exist. Calling it
// again is a no-op.
func (x *vectorIndex) EnsureIndex() error {
	col, err := x.db.GetOrCreateCollection(x.cfg.Name, nil, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create collection", goerr.V("name", x.cfg.Name))
	}
	x.col = col
	return nil
}

// Upsert adds or replaces the index entry for the idea. Exact-match
// filter fields travel as document metadata so queries can push them
// into the chromem where clause.
func (x *vectorIndex) Upsert(ctx context.Context, idea *model.Idea) error {
	if len(idea.Embedding) != x.cfg.Dimension {
		return goerr.New("embedding dimension mismatch",
			goerr.V("want", x.cfg.Dimension),
			goerr.V("got", len(idea.Embedding)),
			goerr.V("id", idea.ID))
	}

	doc := chromem.Document{
		ID:        idea.ID.String(),
		Embedding: idea.Embedding,
		Metadata: map[string]string{
			"userId":   idea.UserID,
			"chatId":   idea.ChatID,
			"category": idea.Category.String(),
			"priority": idea.Priority.String(),
			"status":   idea.Status.String(),
		},
	}
	if err := x.col.AddDocument(ctx, doc); err != nil {
		return goerr.Wrap(err, "failed to index idea", goerr.V("id", idea.ID))
	}
	return nil
}

// Remove deletes the index entry for the idea, if any
func (x *vectorIndex) Remove(ctx context.Context, id types.IdeaID) error {
	if err := x.col.Delete(ctx, nil, nil, id.String()); err != nil {
		return goerr.Wrap(err, "failed to remove idea from index", goerr.V("id", id))
	}
	return nil
}

// Query returns up to k candidates ranked by cosine similarity.
// Exact-match predicates are applied jointly with the vector ranking;
// set and range predicates are left to the caller's hydration pass.
func (x *vectorIndex) Query(ctx context.Context, vector []float32, k int, filter *model.IdeaFilter) ([]candidate, error) {
	if len(vector) != x.cfg.Dimension {
		return nil, goerr.New("query vector dimension mismatch",
			goerr.V("want", x.cfg.Dimension),
			goerr.V("got", len(vector)))
	}

	// chromem rejects nResults greater than the collection size
	if n := x.col.Count(); n < k {
		k = n
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := x.col.QueryEmbedding(ctx, vector, k, whereClause(filter), nil)
	if err != nil {
		return nil, goerr.Wrap(err, "vector index query failed")
	}

	candidates := make([]candidate, 0, len(results))
	for _, res := range results {
		score := float64(res.Similarity)
		if score < 0 {
			score = 0
		}
		candidates = append(candidates, candidate{
			id:    types.IdeaID(res.ID),
			score: score,
		})
	}

	return candidates, nil
}

// Size returns the number of indexed vectors
func (x *vectorIndex) Size() int {
	return x.col.Count()
}

func whereClause(filter *model.IdeaFilter) map[string]string {
	if filter == nil {
		return nil
	}
	where := map[string]string{}
	if filter.UserID != "" {
		where["userId"] = filter.UserID
	}
	if filter.ChatID != "" {
		where["chatId"] = filter.ChatID
	}
	if filter.Category != "" {
		where["category"] = filter.Category.String()
	}
	if filter.Priority != "" {
		where["priority"] = filter.Priority.String()
	}
	if filter.Status != "" {
		where["status"] = filter.Status.String()
	}
	if len(where) == 0 {
		return nil
	}
	return where
}
