package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClassifyReminder(t *testing.T) {
	today := day("2026-03-10")

	cases := []struct {
		name     string
		dueDate  time.Time
		category models.ReminderCategory
		due      bool
	}{
		{"seven days before", day("2026-03-17"), models.CategorySevenDaysBefore, true},
		{"two days before", day("2026-03-12"), models.CategoryTwoDaysBefore, true},
		{"on due date", day("2026-03-10"), models.CategoryOnDueDate, true},
		{"two days overdue", day("2026-03-08"), models.CategoryOverdue, true},
		{"three days overdue", day("2026-03-07"), models.CategoryOverdue, true},
		{"five days overdue", day("2026-03-05"), models.CategoryOverdue, true},
		{"seven days overdue", day("2026-03-03"), models.CategoryOverdue, true},
		{"ten days overdue", day("2026-02-28"), models.CategoryOverdue, true},
		{"six days before is silent", day("2026-03-16"), "", false},
		{"one day before is silent", day("2026-03-11"), "", false},
		{"one day overdue is silent", day("2026-03-09"), "", false},
		{"four days overdue is silent", day("2026-03-06"), "", false},
		{"eleven days overdue stops escalating", day("2026-02-27"), "", false},
		{"far future is silent", day("2026-06-01"), "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			category, due := ClassifyReminder(tc.dueDate, today)
			assert.Equal(t, tc.due, due)
			assert.Equal(t, tc.category, category)
		})
	}
}

func TestClassifyReminderIgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2026, 3, 10, 23, 45, 0, 0, time.UTC)
	dueLateEvening := time.Date(2026, 3, 12, 1, 15, 0, 0, time.UTC)

	category, due := ClassifyReminder(dueLateEvening, today)
	assert.True(t, due)
	assert.Equal(t, models.CategoryTwoDaysBefore, category)
}

func TestDaysRemaining(t *testing.T) {
	assert.Equal(t, 7, DaysRemaining(day("2026-03-17"), day("2026-03-10")))
	assert.Equal(t, 0, DaysRemaining(day("2026-03-10"), day("2026-03-10")))
	assert.Equal(t, -3, DaysRemaining(day("2026-03-07"), day("2026-03-10")))
}
