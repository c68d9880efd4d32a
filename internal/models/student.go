package models

import "time"

// Student represents a learner enrolled in a cohort.
type Student struct {
	ID               string    `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	FirstName        string    `db:"first_name" json:"first_name"`
	LastName         string    `db:"last_name" json:"last_name"`
	CohortID         string    `db:"cohort_id" json:"cohort_id"`
	PaymentReminders bool      `db:"payment_reminders" json:"payment_reminders"`
	Active           bool      `db:"active" json:"active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name for email salutations.
func (s Student) FullName() string {
	if s.LastName == "" {
		return s.FirstName
	}
	return s.FirstName + " " + s.LastName
}
