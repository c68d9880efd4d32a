package dto

import (
	"time"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

// TriggerReminderRequest is the body of the scheduler trigger. Both flags
// absent means a full production scheduling pass.
type TriggerReminderRequest struct {
	TestMode      bool `json:"test_mode"`
	TestAllEmails bool `json:"test_all_emails"`
}

// ReminderResult is the per-obligation outcome record collected into the
// run response. It exists only in the response payload.
type ReminderResult struct {
	StudentID    string                  `json:"student_id"`
	PaymentID    string                  `json:"payment_id"`
	ReminderType models.ReminderCategory `json:"reminder_type,omitempty"`
	Success      bool                    `json:"success"`
	Message      string                  `json:"message"`
}

// RunDebug surfaces pipeline counts for operational diagnosis.
type RunDebug struct {
	StudentsFetched      int `json:"students_fetched"`
	WithPayment          int `json:"with_payment"`
	WithFeeStructure     int `json:"with_fee_structure"`
	ObligationsExtracted int `json:"obligations_extracted"`
	Eligible             int `json:"eligible"`
	Suppressed           int `json:"suppressed"`
	Dispatched           int `json:"dispatched"`
	Failed               int `json:"failed"`
}

// ReminderRunResponse is the trigger contract response for all paths.
// The envelope always reports success when the run completed; individual
// failures surface only inside Results and the debug counts.
type ReminderRunResponse struct {
	Success   bool             `json:"success"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	Results   []ReminderResult `json:"results"`
	Debug     *RunDebug        `json:"debug,omitempty"`
	Previews  []RenderedEmail  `json:"previews,omitempty"`
}

// RenderedEmail is a rendered template preview returned by the
// template self-test path.
type RenderedEmail struct {
	Category models.ReminderCategory `json:"category"`
	Subject  string                  `json:"subject"`
	HTML     string                  `json:"html"`
}

// RunErrorResponse is the hard-failure envelope, reserved for conditions
// that prevent any per-student processing from starting.
type RunErrorResponse struct {
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}
