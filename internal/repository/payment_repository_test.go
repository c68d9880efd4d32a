package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

func TestPaymentRepositoryFindByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "payment_plan", "scholarship_id", "created_at", "updated_at"}).
		AddRow("pay-1", "stu-1", "sem_wise", nil, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM student_payments WHERE student_id = $1")).
		WithArgs("stu-1").
		WillReturnRows(rows)

	payment, err := repo.FindByStudent(context.Background(), "stu-1")
	require.NoError(t, err)
	require.NotNil(t, payment)
	assert.Equal(t, models.PlanSemesterWise, payment.PaymentPlan)
	assert.Nil(t, payment.ScholarshipID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentRepositoryFindByStudentMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPaymentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM student_payments WHERE student_id = $1")).
		WithArgs("stu-missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "student_id", "payment_plan", "scholarship_id", "created_at", "updated_at"}))

	payment, err := repo.FindByStudent(context.Background(), "stu-missing")
	require.NoError(t, err)
	assert.Nil(t, payment)
	assert.NoError(t, mock.ExpectationsWereMet())
}
