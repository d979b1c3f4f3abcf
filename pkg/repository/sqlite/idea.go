package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
	"github.com/ideabank/ideabank/pkg/utils/safe"
	"github.com/ideabank/ideabank/pkg/utils/vec"
	"github.com/m-mizutani/goerr/v2"
)

type ideaRepository struct {
	db        *sql.DB
	dimension int
}

const ideaColumns = `id, title, content, category, priority, status, tags, user_id, chat_id, embedding, created_at, updated_at`

func scanIdea(scanner interface{ Scan(...any) error }) (*model.Idea, error) {
	var (
		idea      model.Idea
		tagsJSON  string
		blob      []byte
		createdAt int64
		updatedAt int64
	)
	if err := scanner.Scan(&idea.ID, &idea.Title, &idea.Content, &idea.Category,
		&idea.Priority, &idea.Status, &tagsJSON, &idea.UserID, &idea.ChatID,
		&blob, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tagsJSON), &idea.Tags); err != nil {
		return nil, goerr.Wrap(err, "failed to decode tags", goerr.V("id", idea.ID))
	}
	embedding, err := vec.Decode(blob)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode embedding", goerr.V("id", idea.ID))
	}
	idea.Embedding = embedding
	idea.CreatedAt = time.Unix(0, createdAt).UTC()
	idea.UpdatedAt = time.Unix(0, updatedAt).UTC()

	return &idea, nil
}

func (r *ideaRepository) encodeRow(idea *model.Idea) (tagsJSON string, blob []byte, err error) {
	if len(idea.Embedding) != r.dimension {
		return "", nil, goerr.New("embedding dimension mismatch",
			goerr.V("want", r.dimension),
			goerr.V("got", len(idea.Embedding)),
			goerr.V("id", idea.ID))
	}

	tags := idea.Tags
	if tags == nil {
		tags = []string{}
	}
	raw, err := json.Marshal(tags)
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to encode tags", goerr.V("id", idea.ID))
	}

	blob, err = vec.Encode(idea.Embedding)
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to encode embedding", goerr.V("id", idea.ID))
	}

	return string(raw), blob, nil
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

	tagsJSON, blob, err := r.encodeRow(created)
	if err != nil {
		return nil, err
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO ideas (`+ideaColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.ID, created.Title, created.Content, created.Category, created.Priority,
		created.Status, tagsJSON, created.UserID, created.ChatID, blob,
		created.CreatedAt.UnixNano(), created.UpdatedAt.UnixNano()); err != nil {
		return nil, goerr.Wrap(err, "failed to insert idea", goerr.V("id", created.ID))
	}

	return created, nil
}

func (r *ideaRepository) Get(ctx context.Context, id types.IdeaID) (*model.Idea, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+ideaColumns+` FROM ideas WHERE id = ?`, id)

	idea, err := scanIdea(row)
	if err == sql.ErrNoRows {
		return nil, goerr.Wrap(ErrNotFound, "idea not found", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get idea", goerr.V("id", id))
	}

	return idea, nil
}

func (r *ideaRepository) Update(ctx context.Context, idea *model.Idea) (*model.Idea, error) {
	updated := idea.Clone()
	updated.UpdatedAt = time.Now().UTC()
	updated.Reminders = nil

	tagsJSON, blob, err := r.encodeRow(updated)
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE ideas SET title = ?, content = ?, category = ?, priority = ?, status = ?,
			tags = ?, user_id = ?, chat_id = ?, embedding = ?, updated_at = ?
		 WHERE id = ?`,
		updated.Title, updated.Content, updated.Category, updated.Priority, updated.Status,
		tagsJSON, updated.UserID, updated.ChatID, blob, updated.UpdatedAt.UnixNano(),
		updated.ID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update idea", goerr.V("id", updated.ID))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to check update result", goerr.V("id", updated.ID))
	}
	if affected == 0 {
		return nil, goerr.Wrap(ErrNotFound, "idea not found", goerr.V("id", updated.ID))
	}

	return r.Get(ctx, updated.ID)
}

func (r *ideaRepository) Delete(ctx context.Context, id types.IdeaID) error {
	// reminders cascade via the foreign key
	res, err := r.db.ExecContext(ctx, `DELETE FROM ideas WHERE id = ?`, id)
	if err != nil {
		return goerr.Wrap(err, "failed to delete idea", goerr.V("id", id))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to check delete result", goerr.V("id", id))
	}
	if affected == 0 {
		return goerr.Wrap(ErrNotFound, "idea not found", goerr.V("id", id))
	}

	return nil
}

// filterSQL renders the equality and range predicates of the filter as
// SQL conditions. Tag overlap is applied by the caller after scanning.
func filterSQL(filter *model.IdeaFilter) (string, []any) {
	if filter == nil {
		return "", nil
	}

	var conds []string
	var args []any
	if filter.UserID != "" {
		conds = append(conds, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.ChatID != "" {
		conds = append(conds, "chat_id = ?")
		args = append(args, filter.ChatID)
	}
	if filter.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, filter.Category.String())
	}
	if filter.Priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, filter.Priority.String())
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status.String())
	}
	if !filter.CreatedAfter.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, filter.CreatedAfter.UnixNano())
	}
	if !filter.CreatedBefore.IsZero() {
		conds = append(conds, "created_at <= ?")
		args = append(args, filter.CreatedBefore.UnixNano())
	}
	if len(conds) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *ideaRepository) List(ctx context.Context, filter *model.IdeaFilter, limit int) ([]*model.Idea, error) {
	where, args := filterSQL(filter)
	query := `SELECT ` + ideaColumns + ` FROM ideas` + where + ` ORDER BY created_at DESC`

	// tag overlap cannot be expressed in the WHERE clause, so the
	// limit is applied after scanning when tags are filtered
	applyLimitInSQL := filter == nil || len(filter.Tags) == 0
	if applyLimitInSQL && limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list ideas")
	}
	defer safe.Close(ctx, rows)

	result := make([]*model.Idea, 0)
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan idea")
		}
		if filter != nil && len(filter.Tags) > 0 && !idea.HasAnyTag(filter.Tags) {
			continue
		}
		result = append(result, idea)
		if !applyLimitInSQL && limit > 0 && len(result) >= limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate ideas")
	}

	return result, nil
}

func (r *ideaRepository) FindSimilar(ctx context.Context, embedding []float32, limit int, filter *model.IdeaFilter) ([]*model.IdeaMatch, error) {
	if len(embedding) != r.dimension {
		return nil, goerr.New("query vector dimension mismatch",
			goerr.V("want", r.dimension),
			goerr.V("got", len(embedding)))
	}

	where, args := filterSQL(filter)
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+ideaColumns+` FROM ideas`+where, args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query idea candidates")
	}
	defer safe.Close(ctx, rows)

	matches := make([]*model.IdeaMatch, 0)
	for rows.Next() {
		idea, err := scanIdea(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan idea candidate")
		}
		if filter != nil && len(filter.Tags) > 0 && !idea.HasAnyTag(filter.Tags) {
			continue
		}

		score := vec.CosineSimilarity(embedding, idea.Embedding)
		if score < 0 {
			score = 0
		}
		matches = append(matches, &model.IdeaMatch{
			Idea:     idea,
			Score:    score,
			Distance: 1 - score,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate idea candidates")
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return matches, nil
}
