package models

import "time"

// PaymentPlan tags how a student's fees are spread over time. It selects
// which of the fee structure's three due-date maps applies.
type PaymentPlan string

const (
	PlanOneShot        PaymentPlan = "one_shot"
	PlanSemesterWise   PaymentPlan = "sem_wise"
	PlanInstalmentWise PaymentPlan = "instalment_wise"
)

// Valid reports whether the tag is one of the known plans.
func (p PaymentPlan) Valid() bool {
	switch p {
	case PlanOneShot, PlanSemesterWise, PlanInstalmentWise:
		return true
	}
	return false
}

// StudentPayment is the per-student payment record. One row per student.
type StudentPayment struct {
	ID            string      `db:"id" json:"id"`
	StudentID     string      `db:"student_id" json:"student_id"`
	PaymentPlan   PaymentPlan `db:"payment_plan" json:"payment_plan"`
	ScholarshipID *string     `db:"scholarship_id" json:"scholarship_id,omitempty"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// ReminderTracking is the durable last-reminder state, one row per
// obligation. It is the only state the scheduler persists across runs.
type ReminderTracking struct {
	PaymentID          string    `db:"payment_id" json:"payment_id"`
	ObligationKey      string    `db:"obligation_key" json:"obligation_key"`
	LastReminderType   string    `db:"last_reminder_type" json:"last_reminder_type"`
	LastReminderSentAt time.Time `db:"last_reminder_sent_at" json:"last_reminder_sent_at"`
	ReminderCount      int       `db:"reminder_count" json:"reminder_count"`
}

// SentOn reports whether the last reminder for this obligation went out
// on the given calendar day. Date-only comparison in UTC.
func (t *ReminderTracking) SentOn(day time.Time) bool {
	if t == nil || t.LastReminderSentAt.IsZero() {
		return false
	}
	y1, m1, d1 := t.LastReminderSentAt.UTC().Date()
	y2, m2, d2 := day.UTC().Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
