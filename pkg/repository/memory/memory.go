// Package memory provides the in-memory repository backend used for
// development and tests. Idea and reminder records live in maps guarded
// by RW mutexes; similarity queries go through an embedded chromem-go
// vector index.
package memory

import (
	"context"

	"github.com/ideabank/ideabank/pkg/domain/interfaces"
	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type Memory struct {
	indexConfig model.IndexConfig
	ideas       *ideaRepository
	reminders   *reminderRepository
}

var _ interfaces.Repository = &Memory{}

type Option func(*Memory)

// WithIndexConfig overrides the vector index configuration
func WithIndexConfig(cfg model.IndexConfig) Option {
	return func(m *Memory) {
		m.indexConfig = cfg
	}
}

func New(opts ...Option) (*Memory, error) {
	m := &Memory{
		indexConfig: model.IndexConfig{}.Normalize(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.indexConfig = m.indexConfig.Normalize()
	if err := m.indexConfig.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid index configuration")
	}

	index, err := newVectorIndex(m.indexConfig)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create vector index")
	}

	reminderRepo := newReminderRepository()
	m.ideas = newIdeaRepository(index, reminderRepo)
	m.reminders = reminderRepo

	return m, nil
}

func (m *Memory) Idea() interfaces.IdeaRepository {
	return m.ideas
}

func (m *Memory) Reminder() interfaces.ReminderRepository {
	return m.reminders
}

func (m *Memory) Stats(ctx context.Context) (*model.Stats, error) {
	return &model.Stats{
		Count:     m.ideas.count(),
		IndexSize: m.ideas.index.Size(),
	}, nil
}

func (m *Memory) Close() error {
	return nil
}
