package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const (
	ideasCollection     = "ideas"
	remindersCollection = "reminders"

	// distanceField receives the cosine distance computed by FindNearest
	distanceField = "vector_distance"
)

// ideaDoc is the Firestore document representation of model.Idea.
// Embedding is stored as firestore.Vector32 so that FindNearest vector search works.
type ideaDoc struct {
	ID        types.IdeaID       `firestore:"ID"`
	Title     string             `firestore:"Title"`
	Content   string             `firestore:"Content"`
	Category  string             `firestore:"Category"`
	Priority  string             `firestore:"Priority"`
	Status    string             `firestore:"Status"`
	Tags      []string           `firestore:"Tags"`
	UserID    string             `firestore:"UserID"`
	ChatID    string             `firestore:"ChatID"`
	Embedding firestore.Vector32 `firestore:"Embedding,omitempty"`
	CreatedAt time.Time          `firestore:"CreatedAt"`
	UpdatedAt time.Time          `firestore:"UpdatedAt"`
}

func toIdeaDoc(idea *model.Idea) *ideaDoc {
	doc := &ideaDoc{
		ID:        idea.ID,
		Title:     idea.Title,
		Content:   idea.Content,
		Category:  idea.Category.String(),
		Priority:  idea.Priority.String(),
		Status:    idea.Status.String(),
		Tags:      idea.Tags,
		UserID:    idea.UserID,
		ChatID:    idea.ChatID,
		CreatedAt: idea.CreatedAt,
		UpdatedAt: idea.UpdatedAt,
	}
	if len(idea.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(idea.Embedding)
	}
	return doc
}

func fromIdeaDoc(d *ideaDoc) *model.Idea {
	idea := &model.Idea{
		ID:        d.ID,
		Title:     d.Title,
		Content:   d.Content,
		Category:  types.Category(d.Category),
		Priority:  types.Priority(d.Priority),
		Status:    types.Status(d.Status),
		Tags:      d.Tags,
		UserID:    d.UserID,
		ChatID:    d.ChatID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if len(d.Embedding) > 0 {
		idea.Embedding = []float32(d.Embedding)
	}
	return idea
}

func docToIdea(doc *firestore.DocumentSnapshot) (*model.Idea, error) {
	var d ideaDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromIdeaDoc(&d), nil
}

type ideaRepository struct {
	client    *firestore.Client
	reminders *reminderRepository
	dimension int
}

func newIdeaRepository(client *firestore.Client, reminders *reminderRepository, cfg model.IndexConfig) *ideaRepository {
	return &ideaRepository{
		client:    client,
		reminders: reminders,
		dimension: cfg.Dimension,
	}
}

func (r *ideaRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(ideasCollection)
}

func (r *ideaRepository) validateEmbedding(embedding []float32) error {
	if len(embedding) != r.dimension {
		return goerr.New("embedding dimension mismatch",
			goerr.V("want", r.dimension),
			goerr.V("got", len(embedding)))
	}
	return nil
}

func (r *ideaRepository) Create(ctx context.Context, idea *model.Idea) (*model.Idea, error) {
	if err := r.validateEmbedding(idea.Embedding); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created := idea.Clone()
	if created.ID == "" {
		created.ID = types.NewIdeaID()
	}
	created.CreatedAt = now
	created.UpdatedAt = now
	created.Reminders = nil

	docRef := r.collection().Doc(created.ID.String())
	if _, err := docRef.Set(ctx, toIdeaDoc(created)); err != nil {
		return nil, goerr.Wrap(err, "failed to create idea", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *ideaRepository) Get(ctx context.Context, id types.IdeaID) (*model.Idea, error) {
	doc, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "idea not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get idea", goerr.V("id", id))
	}

	idea, err := docToIdea(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal idea", goerr.V("id", id))
	}

	return idea, nil
}

func (r *ideaRepository) Update(ctx context.Context, idea *model.Idea) (*model.Idea, error) {
	if err := r.validateEmbedding(idea.Embedding); err != nil {
		return nil, err
	}

	docRef := r.collection().Doc(idea.ID.String())
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "idea not found", goerr.V("id", idea.ID))
		}
		return nil, goerr.Wrap(err, "failed to get idea", goerr.V("id", idea.ID))
	}

	updated := idea.Clone()
	updated.UpdatedAt = time.Now().UTC()
	updated.Reminders = nil

	if _, err := docRef.Set(ctx, toIdeaDoc(updated)); err != nil {
		return nil, goerr.Wrap(err, "failed to update idea", goerr.V("id", updated.ID))
	}

	return updated, nil
}

func (r *ideaRepository) Delete(ctx context.Context, id types.IdeaID) error {
	docRef := r.collection().Doc(id.String())

	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "idea not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to get idea", goerr.V("id", id))
	}

	if err := r.reminders.deleteByIdeaID(ctx, id); err != nil {
		return err
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete idea", goerr.V("id", id))
	}

	return nil
}

// filterQuery applies the equality and range predicates of the filter.
// Tag overlap is applied by the caller after hydration.
func filterQuery(q firestore.Query, filter *model.IdeaFilter) firestore.Query {
	if filter == nil {
		return q
	}

	if filter.UserID != "" {
		q = q.Where("UserID", "==", filter.UserID)
	}
	if filter.ChatID != "" {
		q = q.Where("ChatID", "==", filter.ChatID)
	}
	if filter.Category != "" {
		q = q.Where("Category", "==", filter.Category.String())
	}
	if filter.Priority != "" {
		q = q.Where("Priority", "==", filter.Priority.String())
	}
	if filter.Status != "" {
		q = q.Where("Status", "==", filter.Status.String())
	}
	if !filter.CreatedAfter.IsZero() {
		q = q.Where("CreatedAt", ">=", filter.CreatedAfter)
	}
	if !filter.CreatedBefore.IsZero() {
		q = q.Where("CreatedAt", "<=", filter.CreatedBefore)
	}

	return q
}

func (r *ideaRepository) List(ctx context.Context, filter *model.IdeaFilter, limit int) ([]*model.Idea, error) {
	q := filterQuery(r.collection().Query, filter).
		OrderBy("CreatedAt", firestore.Desc)

	// tag overlap cannot be pushed into the query, so the limit is
	// applied after hydration when tags are filtered
	applyLimitInQuery := filter == nil || len(filter.Tags) == 0
	if applyLimitInQuery && limit > 0 {
		q = q.Limit(limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	ideas := make([]*model.Idea, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate ideas")
		}

		idea, err := docToIdea(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal idea")
		}
		if filter != nil && len(filter.Tags) > 0 && !idea.HasAnyTag(filter.Tags) {
			continue
		}

		ideas = append(ideas, idea)
		if !applyLimitInQuery && limit > 0 && len(ideas) >= limit {
			break
		}
	}

	return ideas, nil
}

func (r *ideaRepository) FindSimilar(ctx context.Context, embedding []float32, limit int, filter *model.IdeaFilter) ([]*model.IdeaMatch, error) {
	if err := r.validateEmbedding(embedding); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return []*model.IdeaMatch{}, nil
	}

	// a predicate pushed into FindNearest needs a composite vector
	// index covering it, and migrate provisions those only for UserID
	// and ChatID. Everything else is applied after hydration, with an
	// over-fetch to keep recall.
	q := r.collection().Query
	needsPostFilter := false
	if filter != nil {
		switch {
		case filter.UserID != "":
			q = q.Where("UserID", "==", filter.UserID)
			needsPostFilter = filter.ChatID != ""
		case filter.ChatID != "":
			q = q.Where("ChatID", "==", filter.ChatID)
		}
		needsPostFilter = needsPostFilter ||
			filter.Category != "" || filter.Priority != "" || filter.Status != "" ||
			len(filter.Tags) > 0 ||
			!filter.CreatedAfter.IsZero() || !filter.CreatedBefore.IsZero()
	}

	fetchLimit := limit
	if needsPostFilter {
		fetchLimit = limit * 4
	}

	vq := q.FindNearest("Embedding", firestore.Vector32(embedding), fetchLimit,
		firestore.DistanceMeasureCosine, &firestore.FindNearestOptions{
			DistanceResultField: distanceField,
		})

	iter := vq.Documents(ctx)
	defer iter.Stop()

	matches := make([]*model.IdeaMatch, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results")
		}

		idea, err := docToIdea(doc)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal idea from vector search")
		}
		if !filter.Matches(idea) {
			continue
		}

		distance := 0.0
		if v, ok := doc.Data()[distanceField].(float64); ok {
			distance = v
		}
		score := 1 - distance
		if score < 0 {
			score = 0
		}
		if score > 1 {
			score = 1
		}

		matches = append(matches, &model.IdeaMatch{
			Idea:     idea,
			Score:    score,
			Distance: distance,
		})
	}

	// FindNearest already orders by distance; keep the order stable
	// after post-filtering
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}
