package service

import (
	"time"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

// Overdue reminders repeat at these day offsets past the due date, then
// stop escalating.
var overdueReminderOffsets = map[int]struct{}{
	2:  {},
	3:  {},
	5:  {},
	7:  {},
	10: {},
}

// DaysRemaining returns the whole-day difference between the due date
// and today. Negative when overdue. Both inputs are truncated to their
// UTC calendar date; time-of-day never influences classification.
func DaysRemaining(dueDate, today time.Time) int {
	due := truncateToDay(dueDate)
	now := truncateToDay(today)
	return int(due.Sub(now).Hours() / 24)
}

// ClassifyReminder maps an obligation's due date against today to a
// reminder category. The boolean is false when no reminder is due today.
// Pure and stateless: tracking history never feeds into classification.
func ClassifyReminder(dueDate, today time.Time) (models.ReminderCategory, bool) {
	daysRemaining := DaysRemaining(dueDate, today)

	if daysRemaining < 0 {
		daysOverdue := -daysRemaining
		if _, ok := overdueReminderOffsets[daysOverdue]; ok {
			return models.CategoryOverdue, true
		}
		return "", false
	}

	switch daysRemaining {
	case 7:
		return models.CategorySevenDaysBefore, true
	case 2:
		return models.CategoryTwoDaysBefore, true
	case 0:
		return models.CategoryOnDueDate, true
	}
	return "", false
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
