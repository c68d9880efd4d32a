package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListNotifiable returns the reminder population: active students who
// opted into payment notifications and have a deliverable address.
func (r *StudentRepository) ListNotifiable(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT id, email, first_name, last_name, cohort_id, payment_reminders, active, created_at, updated_at
        FROM students
        WHERE active = true AND payment_reminders = true AND email <> ''
        ORDER BY cohort_id, last_name, first_name`

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list notifiable students: %w", err)
	}
	return students, nil
}

// FindByID fetches a single student.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, email, first_name, last_name, cohort_id, payment_reminders, active, created_at, updated_at
        FROM students WHERE id = $1`

	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}
