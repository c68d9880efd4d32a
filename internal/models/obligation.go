package models

import (
	"fmt"
	"time"
)

// DueDateObligation is a single payable due-date instance derived from a
// fee structure and a student's plan. Obligations are recomputed on every
// run and never persisted; only reminder tracking survives a run.
type DueDateObligation struct {
	ID                string      `json:"id"`
	StudentID         string      `json:"student_id"`
	PaymentID         string      `json:"payment_id"`
	DueDate           time.Time   `json:"due_date"`
	InstallmentNumber int         `json:"installment_number"`
	SemesterNumber    int         `json:"semester_number"`
	PaymentType       PaymentPlan `json:"payment_type"`
}

// Key is the stable per-payment identifier used for reminder tracking
// and the dedup day-lock. Same serialization as the persisted due-date
// map keys, with the exposed one-based installment number.
func (o DueDateObligation) Key() string {
	return fmt.Sprintf("semester-%d-instalment-%d", o.SemesterNumber, o.InstallmentNumber)
}

// ReminderCategory classifies an obligation's urgency on a given day.
type ReminderCategory string

const (
	CategorySevenDaysBefore ReminderCategory = "seven_days_before"
	CategoryTwoDaysBefore   ReminderCategory = "two_days_before"
	CategoryOnDueDate       ReminderCategory = "on_due_date"
	CategoryOverdue         ReminderCategory = "overdue"
)

// Categories lists all reminder categories, in escalation order.
func Categories() []ReminderCategory {
	return []ReminderCategory{
		CategorySevenDaysBefore,
		CategoryTwoDaysBefore,
		CategoryOnDueDate,
		CategoryOverdue,
	}
}
