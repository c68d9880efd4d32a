package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

// PaymentRepository manages per-student payment records.
type PaymentRepository struct {
	db *sqlx.DB
}

// NewPaymentRepository constructs a PaymentRepository.
func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// FindByStudent returns the student's payment record, or nil when the
// student has none; absence is a skip condition, not an error.
func (r *PaymentRepository) FindByStudent(ctx context.Context, studentID string) (*models.StudentPayment, error) {
	const query = `SELECT id, student_id, payment_plan, scholarship_id, created_at, updated_at
        FROM student_payments WHERE student_id = $1`

	var payment models.StudentPayment
	if err := r.db.GetContext(ctx, &payment, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find payment for student: %w", err)
	}
	return &payment, nil
}
