package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/ideabank/ideabank/pkg/domain/model"
	"github.com/ideabank/ideabank/pkg/domain/types"
	"github.com/ideabank/ideabank/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

type reminderRepository struct {
	db *sql.DB
}

const reminderColumns = `id, idea_id, type, scheduled_for, message, is_active, is_sent, created_at, updated_at`

func scanReminder(scanner interface{ Scan(...any) error }) (*model.Reminder, error) {
	var (
		reminder     model.Reminder
		scheduledFor int64
		createdAt    int64
		updatedAt    int64
	)
	if err := scanner.Scan(&reminder.ID, &reminder.IdeaID, &reminder.Type,
		&scheduledFor, &reminder.Message, &reminder.IsActive, &reminder.IsSent,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	reminder.ScheduledFor = time.Unix(0, scheduledFor).UTC()
	reminder.CreatedAt = time.Unix(0, createdAt).UTC()
	reminder.UpdatedAt = time.Unix(0, updatedAt).UTC()

	return &reminder, nil
}

func (r *reminderRepository) Get(ctx context.Context, id types.ReminderID) (*model.Reminder, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)

	reminder, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, goerr.Wrap(ErrNotFound, "reminder not found", goerr.V("id", id))
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get reminder", goerr.V("id", id))
	}

	return reminder, nil
}

func (r *reminderRepository) ListByIdeaID(ctx context.Context, ideaID types.IdeaID) ([]*model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE idea_id = ? ORDER BY scheduled_for ASC`,
		ideaID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list reminders", goerr.V("ideaID", ideaID))
	}
	defer safe.Close(ctx, rows)

	return collectReminders(rows)
}

func (r *reminderRepository) ReplaceForIdea(ctx context.Context, ideaID types.IdeaID, reminders []*model.Reminder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM reminders WHERE idea_id = ?`, ideaID); err != nil {
		return goerr.Wrap(err, "failed to delete existing reminders", goerr.V("ideaID", ideaID))
	}

	now := time.Now().UTC()
	for _, reminder := range reminders {
		id := reminder.ID
		if id == "" {
			id = types.NewReminderID()
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reminders (`+reminderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, ideaID, reminder.Type, reminder.ScheduledFor.UnixNano(),
			reminder.Message, reminder.IsActive, reminder.IsSent,
			now.UnixNano(), now.UnixNano()); err != nil {
			return goerr.Wrap(err, "failed to insert reminder", goerr.V("ideaID", ideaID))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit reminder replacement", goerr.V("ideaID", ideaID))
	}

	return nil
}

func (r *reminderRepository) ListDue(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders
		 WHERE is_active = 1 AND is_sent = 0 AND scheduled_for <= ?
		 ORDER BY scheduled_for ASC`,
		now.UnixNano())
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list due reminders")
	}
	defer safe.Close(ctx, rows)

	return collectReminders(rows)
}

func (r *reminderRepository) MarkSent(ctx context.Context, id types.ReminderID) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reminders SET is_sent = 1, updated_at = ? WHERE id = ? AND is_sent = 0`,
		time.Now().UTC().UnixNano(), id)
	if err != nil {
		return goerr.Wrap(err, "failed to mark reminder sent", goerr.V("id", id))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, "failed to check mark result", goerr.V("id", id))
	}
	if affected > 0 {
		return nil
	}

	// no row updated: distinguish "already sent" (no-op) from missing
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	return nil
}

func collectReminders(rows *sql.Rows) ([]*model.Reminder, error) {
	result := make([]*model.Reminder, 0)
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan reminder")
		}
		result = append(result, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate reminders")
	}

	return result, nil
}
