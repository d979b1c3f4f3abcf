package types

import "fmt"

// ReminderType represents the schedule kind of a reminder
type ReminderType string

const (
	ReminderOnce    ReminderType = "once"
	ReminderDaily   ReminderType = "daily"
	ReminderWeekly  ReminderType = "weekly"
	ReminderMonthly ReminderType = "monthly"
	ReminderCustom  ReminderType = "custom"
)

// AllReminderTypes returns all valid reminder types
func AllReminderTypes() []ReminderType {
	return []ReminderType{
		ReminderOnce,
		ReminderDaily,
		ReminderWeekly,
		ReminderMonthly,
		ReminderCustom,
	}
}

// IsValid checks if the reminder type is valid
func (t ReminderType) IsValid() bool {
	switch t {
	case ReminderOnce,
		ReminderDaily,
		ReminderWeekly,
		ReminderMonthly,
		ReminderCustom:
		return true
	default:
		return false
	}
}

// Normalize returns the reminder type, treating empty as ReminderOnce
func (t ReminderType) Normalize() ReminderType {
	if t == "" {
		return ReminderOnce
	}
	return t
}

// String returns the string representation of the reminder type
func (t ReminderType) String() string {
	return string(t)
}

// ParseReminderType parses a string into a ReminderType
func ParseReminderType(s string) (ReminderType, error) {
	t := ReminderType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid reminder type: %s", s)
	}
	return t, nil
}
