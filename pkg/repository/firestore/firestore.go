// Package firestore provides the networked repository backend.
// Vectors are stored as firestore.Vector32 and similarity queries use
// the native FindNearest cosine index, provisioned by `migrate`.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"

	"github.com/ideabank/ideabank/pkg/domain/interfaces"
	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type Firestore struct {
	client      *firestore.Client
	indexConfig model.IndexConfig
	ideas       *ideaRepository
	reminders   *reminderRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

// WithIndexConfig overrides the vector index configuration
func WithIndexConfig(cfg model.IndexConfig) Option {
	return func(f *Firestore) {
		f.indexConfig = cfg
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:      client,
		indexConfig: model.IndexConfig{}.Normalize(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.indexConfig = f.indexConfig.Normalize()
	if err := f.indexConfig.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid index configuration")
	}

	reminderRepo := newReminderRepository(client)
	f.ideas = newIdeaRepository(client, reminderRepo, f.indexConfig)
	f.reminders = reminderRepo

	return f, nil
}

func (f *Firestore) Idea() interfaces.IdeaRepository {
	return f.ideas
}

func (f *Firestore) Reminder() interfaces.ReminderRepository {
	return f.reminders
}

// Stats counts documents with a full read; fidelity is best-effort and
// cost scales with the collection size.
func (f *Firestore) Stats(ctx context.Context) (*model.Stats, error) {
	docs, err := f.client.Collection(ideasCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to count ideas")
	}

	return &model.Stats{Count: len(docs), IndexSize: len(docs)}, nil
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
