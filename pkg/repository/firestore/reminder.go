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

// reminderDoc is the Firestore document representation of model.Reminder.
type reminderDoc struct {
	ID           types.ReminderID `firestore:"ID"`
	IdeaID       types.IdeaID     `firestore:"IdeaID"`
	Type         string           `firestore:"Type"`
	ScheduledFor time.Time        `firestore:"ScheduledFor"`
	Message      string           `firestore:"Message"`
	IsActive     bool             `firestore:"IsActive"`
	IsSent       bool             `firestore:"IsSent"`
	CreatedAt    time.Time        `firestore:"CreatedAt"`
	UpdatedAt    time.Time        `firestore:"UpdatedAt"`
}

func toReminderDoc(r *model.Reminder) *reminderDoc {
	return &reminderDoc{
		ID:           r.ID,
		IdeaID:       r.IdeaID,
		Type:         r.Type.String(),
		ScheduledFor: r.ScheduledFor,
		Message:      r.Message,
		IsActive:     r.IsActive,
		IsSent:       r.IsSent,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func fromReminderDoc(d *reminderDoc) *model.Reminder {
	return &model.Reminder{
		ID:           d.ID,
		IdeaID:       d.IdeaID,
		Type:         types.ReminderType(d.Type),
		ScheduledFor: d.ScheduledFor,
		Message:      d.Message,
		IsActive:     d.IsActive,
		IsSent:       d.IsSent,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func docToReminder(doc *firestore.DocumentSnapshot) (*model.Reminder, error) {
	var d reminderDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, err
	}
	return fromReminderDoc(&d), nil
}

type reminderRepository struct {
	client *firestore.Client
}

func newReminderRepository(client *firestore.Client) *reminderRepository {
	return &reminderRepository{
		client: client,
	}
}

func (r *reminderRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(remindersCollection)
}

func (r *reminderRepository) Get(ctx context.Context, id types.ReminderID) (*model.Reminder, error) {
	doc, err := r.collection().Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "reminder not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get reminder", goerr.V("id", id))
	}

	reminder, err := docToReminder(doc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal reminder", goerr.V("id", id))
	}

	return reminder, nil
}

func (r *reminderRepository) ListByIdeaID(ctx context.Context, ideaID types.IdeaID) ([]*model.Reminder, error) {
	iter := r.collection().
		Where("IdeaID", "==", ideaID.String()).
		Documents(ctx)
	defer iter.Stop()

	reminders, err := collectReminders(iter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list reminders", goerr.V("ideaID", ideaID))
	}

	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].ScheduledFor.Before(reminders[j].ScheduledFor)
	})

	return reminders, nil
}

func (r *reminderRepository) ReplaceForIdea(ctx context.Context, ideaID types.IdeaID, reminders []*model.Reminder) error {
	if err := r.deleteByIdeaID(ctx, ideaID); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, reminder := range reminders {
		created := reminder.Clone()
		if created.ID == "" {
			created.ID = types.NewReminderID()
		}
		created.IdeaID = ideaID
		created.CreatedAt = now
		created.UpdatedAt = now

		docRef := r.collection().Doc(created.ID.String())
		if _, err := docRef.Set(ctx, toReminderDoc(created)); err != nil {
			return goerr.Wrap(err, "failed to create reminder", goerr.V("ideaID", ideaID))
		}
	}

	return nil
}

func (r *reminderRepository) ListDue(ctx context.Context, now time.Time) ([]*model.Reminder, error) {
	iter := r.collection().
		Where("IsActive", "==", true).
		Where("IsSent", "==", false).
		Where("ScheduledFor", "<=", now).
		Documents(ctx)
	defer iter.Stop()

	reminders, err := collectReminders(iter)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list due reminders")
	}

	sort.Slice(reminders, func(i, j int) bool {
		return reminders[i].ScheduledFor.Before(reminders[j].ScheduledFor)
	})

	return reminders, nil
}

func (r *reminderRepository) MarkSent(ctx context.Context, id types.ReminderID) error {
	reminder, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if reminder.IsSent {
		// already sent: idempotent no-op
		return nil
	}

	docRef := r.collection().Doc(id.String())
	if _, err := docRef.Update(ctx, []firestore.Update{
		{Path: "IsSent", Value: true},
		{Path: "UpdatedAt", Value: time.Now().UTC()},
	}); err != nil {
		return goerr.Wrap(err, "failed to mark reminder sent", goerr.V("id", id))
	}

	return nil
}

func (r *reminderRepository) deleteByIdeaID(ctx context.Context, ideaID types.IdeaID) error {
	iter := r.collection().
		Where("IdeaID", "==", ideaID.String()).
		Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return goerr.Wrap(err, "failed to iterate reminders", goerr.V("ideaID", ideaID))
		}

		if _, err := doc.Ref.Delete(ctx); err != nil {
			return goerr.Wrap(err, "failed to delete reminder", goerr.V("ideaID", ideaID))
		}
	}

	return nil
}

func collectReminders(iter *firestore.DocumentIterator) ([]*model.Reminder, error) {
	reminders := make([]*model.Reminder, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}

		reminder, err := docToReminder(doc)
		if err != nil {
			return nil, err
		}

		reminders = append(reminders, reminder)
	}

	return reminders, nil
}
