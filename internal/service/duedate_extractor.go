package service

import (
	"fmt"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

// ExtractObligations flattens a fee structure into the payable
// obligations for the student's chosen plan. Obligations are derived
// fresh on every run; an empty result means the student is skipped.
// Obligation IDs are deterministic per (payment, position).
func ExtractObligations(structure *models.FeeStructure, payment *models.StudentPayment) []models.DueDateObligation {
	if structure == nil || payment == nil || !payment.PaymentPlan.Valid() {
		return nil
	}

	schedule := structure.Schedule(payment.PaymentPlan)
	if len(schedule.Entries) == 0 {
		return nil
	}

	obligations := make([]models.DueDateObligation, 0, len(schedule.Entries))
	for _, entry := range schedule.Entries {
		obligation := models.DueDateObligation{
			StudentID:         payment.StudentID,
			PaymentID:         payment.ID,
			DueDate:           entry.DueDate,
			InstallmentNumber: entry.Installment,
			SemesterNumber:    entry.Semester,
			PaymentType:       payment.PaymentPlan,
		}
		obligation.ID = fmt.Sprintf("%s:%s", payment.ID, obligation.Key())
		obligations = append(obligations, obligation)
	}
	return obligations
}
