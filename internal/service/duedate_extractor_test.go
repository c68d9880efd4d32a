package service

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

func TestExtractObligationsInstalmentWise(t *testing.T) {
	structure := &models.FeeStructure{
		ID: "fs-1",
		InstalmentWiseDates: models.DueDateMap{
			"semester-1-instalment-0": "2026-01-15",
			"semester-1-instalment-1": "2026-03-15",
			"semester-2-instalment-0": "2026-08-15",
		},
	}
	payment := &models.StudentPayment{ID: "pay-1", StudentID: "stu-1", PaymentPlan: models.PlanInstalmentWise}

	obligations := ExtractObligations(structure, payment)
	require.Len(t, obligations, 3)

	sort.Slice(obligations, func(i, j int) bool { return obligations[i].DueDate.Before(obligations[j].DueDate) })

	first := obligations[0]
	assert.Equal(t, "pay-1:semester-1-instalment-1", first.ID)
	assert.Equal(t, "stu-1", first.StudentID)
	assert.Equal(t, 1, first.SemesterNumber)
	assert.Equal(t, 1, first.InstallmentNumber)
	assert.Equal(t, day("2026-01-15"), first.DueDate)

	second := obligations[1]
	assert.Equal(t, 2, second.InstallmentNumber)
	assert.Equal(t, "semester-1-instalment-2", second.Key())

	third := obligations[2]
	assert.Equal(t, 2, third.SemesterNumber)
	assert.Equal(t, 1, third.InstallmentNumber)
}

func TestExtractObligationsOneShot(t *testing.T) {
	structure := &models.FeeStructure{
		ID:           "fs-1",
		OneShotDates: models.DueDateMap{"semester-1-instalment-0": "2026-04-01"},
	}
	payment := &models.StudentPayment{ID: "pay-1", StudentID: "stu-1", PaymentPlan: models.PlanOneShot}

	obligations := ExtractObligations(structure, payment)
	require.Len(t, obligations, 1)
	assert.Equal(t, 1, obligations[0].SemesterNumber)
	assert.Equal(t, 1, obligations[0].InstallmentNumber)
	assert.Equal(t, day("2026-04-01"), obligations[0].DueDate)
}

func TestExtractObligationsPlanSelectsMap(t *testing.T) {
	structure := &models.FeeStructure{
		ID:                  "fs-1",
		OneShotDates:        models.DueDateMap{"semester-1-instalment-0": "2026-04-01"},
		SemWiseDates:        models.DueDateMap{"semester-1-instalment-0": "2026-02-01", "semester-2-instalment-0": "2026-08-01"},
		InstalmentWiseDates: models.DueDateMap{"semester-1-instalment-0": "2026-01-10"},
	}
	payment := &models.StudentPayment{ID: "pay-1", StudentID: "stu-1", PaymentPlan: models.PlanSemesterWise}

	obligations := ExtractObligations(structure, payment)
	assert.Len(t, obligations, 2)
	for _, o := range obligations {
		assert.Equal(t, models.PlanSemesterWise, o.PaymentType)
	}
}

func TestExtractObligationsSkipsMalformedEntries(t *testing.T) {
	structure := &models.FeeStructure{
		ID: "fs-1",
		SemWiseDates: models.DueDateMap{
			"semester-1-instalment-0": "2026-02-01",
			"not-a-real-key":          "2026-03-01",
			"semester-2-instalment-0": "not a date",
		},
	}
	payment := &models.StudentPayment{ID: "pay-1", StudentID: "stu-1", PaymentPlan: models.PlanSemesterWise}

	obligations := ExtractObligations(structure, payment)
	require.Len(t, obligations, 1)
	assert.Equal(t, day("2026-02-01"), obligations[0].DueDate)
}

func TestExtractObligationsGuards(t *testing.T) {
	structure := &models.FeeStructure{SemWiseDates: models.DueDateMap{"semester-1-instalment-0": "2026-02-01"}}

	assert.Nil(t, ExtractObligations(nil, &models.StudentPayment{PaymentPlan: models.PlanSemesterWise}))
	assert.Nil(t, ExtractObligations(structure, nil))
	assert.Nil(t, ExtractObligations(structure, &models.StudentPayment{PaymentPlan: "quarterly"}))
	assert.Nil(t, ExtractObligations(&models.FeeStructure{}, &models.StudentPayment{PaymentPlan: models.PlanSemesterWise}))
}

func TestExtractObligationsAcceptsTimestampDates(t *testing.T) {
	structure := &models.FeeStructure{
		SemWiseDates: models.DueDateMap{"semester-1-instalment-0": "2026-02-01T00:00:00Z"},
	}
	payment := &models.StudentPayment{ID: "pay-1", StudentID: "stu-1", PaymentPlan: models.PlanSemesterWise}

	obligations := ExtractObligations(structure, payment)
	require.Len(t, obligations, 1)
	assert.Equal(t, day("2026-02-01"), obligations[0].DueDate)
}
