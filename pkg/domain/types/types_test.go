package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ideabank/ideabank/pkg/domain/types"
)

func TestCategory(t *testing.T) {
	for _, c := range types.AllCategories() {
		gt.Bool(t, c.IsValid()).True()
	}
	gt.Bool(t, types.Category("bogus").IsValid()).False()
	gt.Bool(t, types.Category("").IsValid()).False()

	gt.Value(t, types.Category("").Normalize()).Equal(types.CategoryStrategy)
	gt.Value(t, types.CategoryMarket.Normalize()).Equal(types.CategoryMarket)

	parsed, err := types.ParseCategory("product")
	gt.NoError(t, err).Required()
	gt.Value(t, parsed).Equal(types.CategoryProduct)

	_, err = types.ParseCategory("bogus")
	gt.Error(t, err)
}

func TestPriority(t *testing.T) {
	for _, p := range types.AllPriorities() {
		gt.Bool(t, p.IsValid()).True()
	}
	gt.Bool(t, types.Priority("someday").IsValid()).False()

	gt.Value(t, types.Priority("").Normalize()).Equal(types.PriorityMedium)
	gt.Value(t, types.PriorityUrgent.Normalize()).Equal(types.PriorityUrgent)

	parsed, err := types.ParsePriority("high")
	gt.NoError(t, err).Required()
	gt.Value(t, parsed).Equal(types.PriorityHigh)

	_, err = types.ParsePriority("someday")
	gt.Error(t, err)
}

func TestStatus(t *testing.T) {
	for _, s := range types.AllStatuses() {
		gt.Bool(t, s.IsValid()).True()
	}
	gt.Bool(t, types.Status("paused").IsValid()).False()

	gt.Value(t, types.Status("").Normalize()).Equal(types.StatusActive)
	gt.Value(t, types.StatusArchived.Normalize()).Equal(types.StatusArchived)

	parsed, err := types.ParseStatus("in_progress")
	gt.NoError(t, err).Required()
	gt.Value(t, parsed).Equal(types.StatusInProgress)

	_, err = types.ParseStatus("paused")
	gt.Error(t, err)
}

func TestReminderType(t *testing.T) {
	for _, rt := range types.AllReminderTypes() {
		gt.Bool(t, rt.IsValid()).True()
	}
	gt.Bool(t, types.ReminderType("fortnightly").IsValid()).False()

	gt.Value(t, types.ReminderType("").Normalize()).Equal(types.ReminderOnce)

	parsed, err := types.ParseReminderType("monthly")
	gt.NoError(t, err).Required()
	gt.Value(t, parsed).Equal(types.ReminderMonthly)

	_, err = types.ParseReminderType("fortnightly")
	gt.Error(t, err)
}

func TestNewIDs(t *testing.T) {
	a := types.NewIdeaID()
	b := types.NewIdeaID()
	gt.Bool(t, a != "").True()
	gt.Bool(t, a != b).True()

	r := types.NewReminderID()
	gt.Bool(t, r != "").True()
	gt.Value(t, r.String()).Equal(string(r))
}
