package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

// FeeStructureRepository resolves the fee structure applying to a
// student: the student-scoped row when present, the cohort row otherwise.
type FeeStructureRepository struct {
	db *sqlx.DB
}

// NewFeeStructureRepository constructs a FeeStructureRepository.
func NewFeeStructureRepository(db *sqlx.DB) *FeeStructureRepository {
	return &FeeStructureRepository{db: db}
}

const feeStructureColumns = `id, cohort_id, student_id, one_shot_dates, sem_wise_dates, instalment_wise_dates, created_at, updated_at`

// FindForStudent returns the effective fee structure for the student, or
// nil when neither a student-specific nor a cohort-level row exists.
func (r *FeeStructureRepository) FindForStudent(ctx context.Context, studentID, cohortID string) (*models.FeeStructure, error) {
	studentQuery := fmt.Sprintf(`SELECT %s FROM fee_structures WHERE student_id = $1`, feeStructureColumns)

	var structure models.FeeStructure
	err := r.db.GetContext(ctx, &structure, studentQuery, studentID)
	if err == nil {
		return &structure, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("find student fee structure: %w", err)
	}

	cohortQuery := fmt.Sprintf(`SELECT %s FROM fee_structures WHERE cohort_id = $1 AND student_id IS NULL`, feeStructureColumns)
	if err := r.db.GetContext(ctx, &structure, cohortQuery, cohortID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find cohort fee structure: %w", err)
	}
	return &structure, nil
}
