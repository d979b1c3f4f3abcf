// Package sqlite provides the durable relational repository backend.
// Ideas live in a table with a vector-capable BLOB column; similarity
// queries select candidate rows by the structured filter and rank them
// by cosine similarity in Go.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ideabank/ideabank/pkg/domain/interfaces"
	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

const schema = `
CREATE TABLE IF NOT EXISTS index_meta (
	name TEXT PRIMARY KEY,
	dimension INTEGER NOT NULL,
	graph_degree INTEGER NOT NULL,
	build_candidates INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS ideas (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	category TEXT NOT NULL,
	priority TEXT NOT NULL,
	status TEXT NOT NULL,
	tags TEXT NOT NULL DEFAULT '[]',
	user_id TEXT NOT NULL,
	chat_id TEXT NOT NULL DEFAULT '',
	embedding BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ideas_user_created ON ideas(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_ideas_created ON ideas(created_at DESC);

CREATE TABLE IF NOT EXISTS reminders (
	id TEXT PRIMARY KEY,
	idea_id TEXT NOT NULL REFERENCES ideas(id) ON DELETE CASCADE,
	type TEXT NOT NULL,
	scheduled_for INTEGER NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	is_active INTEGER NOT NULL DEFAULT 1,
	is_sent INTEGER NOT NULL DEFAULT 0,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_reminders_idea ON reminders(idea_id);
CREATE INDEX IF NOT EXISTS idx_reminders_due ON reminders(is_active, is_sent, scheduled_for);
`

type SQLite struct {
	db          *sql.DB
	indexConfig model.IndexConfig
	ideas       *ideaRepository
	reminders   *reminderRepository
}

var _ interfaces.Repository = &SQLite{}

type Option func(*SQLite)

// WithIndexConfig overrides the vector index configuration
func WithIndexConfig(cfg model.IndexConfig) Option {
	return func(s *SQLite) {
		s.indexConfig = cfg
	}
}

// New opens (or creates) the database at path and ensures the schema.
// A dimensionality mismatch against previously stored vectors is a
// fatal configuration error surfaced here, not per request.
func New(ctx context.Context, path string, opts ...Option) (*SQLite, error) {
	s := &SQLite{
		indexConfig: model.IndexConfig{}.Normalize(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.indexConfig = s.indexConfig.Normalize()
	if err := s.indexConfig.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid index configuration")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite database", goerr.V("path", path))
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, goerr.Wrap(err, "failed to connect to sqlite database", goerr.V("path", path))
	}

	s.db = db
	if err := s.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	reminderRepo := &reminderRepository{db: db}
	s.ideas = &ideaRepository{db: db, dimension: s.indexConfig.Dimension}
	s.reminders = reminderRepo

	return s, nil
}

// ensureSchema creates tables idempotently and validates the index
// metadata row against the configured dimension.
func (s *SQLite) ensureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return goerr.Wrap(err, "failed to create schema")
	}

	cfg := s.indexConfig
	row := s.db.QueryRowContext(ctx,
		`SELECT dimension FROM index_meta WHERE name = ?`, cfg.Name)

	var dimension int
	switch err := row.Scan(&dimension); {
	case err == sql.ErrNoRows:
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO index_meta (name, dimension, graph_degree, build_candidates) VALUES (?, ?, ?, ?)`,
			cfg.Name, cfg.Dimension, cfg.GraphDegree, cfg.BuildCandidates); err != nil {
			return goerr.Wrap(err, "failed to record index metadata")
		}
	case err != nil:
		return goerr.Wrap(err, "failed to read index metadata")
	case dimension != cfg.Dimension:
		return goerr.New("stored vector dimension does not match configuration",
			goerr.V("stored", dimension),
			goerr.V("configured", cfg.Dimension))
	}

	return nil
}

func (s *SQLite) Idea() interfaces.IdeaRepository {
	return s.ideas
}

func (s *SQLite) Reminder() interfaces.ReminderRepository {
	return s.reminders
}

func (s *SQLite) Stats(ctx context.Context) (*model.Stats, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ideas`).Scan(&count); err != nil {
		return nil, goerr.Wrap(err, "failed to count ideas")
	}

	// every row carries its vector, so the index footprint equals the
	// row count
	return &model.Stats{Count: count, IndexSize: count}, nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
