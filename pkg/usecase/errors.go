package usecase

// Context keys for error values
const (
	IdeaIDKey     = "idea_id"
	ReminderIDKey = "reminder_id"
)
