package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type ideaRepository struct {
	mu        sync.RWMutex
	ideas     map[types.IdeaID]*model.Idea
	index     *vectorIndex
	reminders *reminderRepository
}

func newIdeaRepository(index *vectorIndex, reminders *reminderRepository) *ideaRepository {
	return &ideaRepository{
		ideas:     make(map[types.IdeaID]*model.Idea),
		index:     index,
		reminders: reminders,
	}
}

func (r *ideaRepository) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ideas)
}

func (r *ideaRepository) Create(ctx context.Context, idea *model.Idea) (*model.Idea, error) {
	now := time.Now().UTC()

	created := idea.Clone()
	if created.ID == "" {
		created.ID = types.NewIdeaID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now
	created.Reminders = nil

	if err := r.index.Upsert(ctx, created); err != nil {
		return nil, goerr.Wrap(err, "failed to index idea")
	}

	r.mu.Lock()
	r.ideas[created.ID] = created
	r.mu.Unlock()

	return created.Clone(), nil
}

func (r *ideaRepository) Get(ctx context.Context, id types.IdeaID) (*model.Idea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idea, exists := r.ideas[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "idea not found", goerr.V("id", id))
	}
	return idea.Clone(), nil
}

func (r *ideaRepository) Update(ctx context.Context, idea *model.Idea) (*model.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.ideas[idea.ID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "idea not found", goerr.V("id", idea.ID))
	}

	updated := idea.Clone()
	updated.CreatedAt = stored.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	updated.Reminders = nil

	if err := r.index.Upsert(ctx, updated); err != nil {
		return nil, goerr.Wrap(err, "failed to reindex idea")
	}

	r.ideas[updated.ID] = updated
	return updated.Clone(), nil
}

func (r *ideaRepository) Delete(ctx context.Context, id types.IdeaID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.ideas[id]; !exists {
		return goerr.Wrap(ErrNotFound, "idea not found", goerr.V("id", id))
	}

	if err := r.index.Remove(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to remove idea from index")
	}

	delete(r.ideas, id)
	r.reminders.deleteByIdeaID(id)
	return nil
}

func (r *ideaRepository) List(ctx context.Context, filter *model.IdeaFilter, limit int) ([]*model.Idea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Idea, 0)
	for _, idea := range r.ideas {
		if filter.Matches(idea) {
			result = append(result, idea.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func (r *ideaRepository) FindSimilar(ctx context.Context, embedding []float32, limit int, filter *model.IdeaFilter) ([]*model.IdeaMatch, error) {
	candidates, err := r.index.Query(ctx, embedding, limit, filter)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]*model.IdeaMatch, 0, len(candidates))
	for _, c := range candidates {
		idea, exists := r.ideas[c.id]
		if !exists {
			continue
		}
		// tag and date predicates are not pushed into the index query
		if !filter.Matches(idea) {
			continue
		}
		matches = append(matches, &model.IdeaMatch{
			Idea:     idea.Clone(),
			Score:    c.score,
			Distance: 1 - c.score,
		})
	}

	return matches, nil
}
