package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// DueDateMap is the persisted JSONB shape of a due-date schedule: keys of
// the form "semester-N-instalment-M" mapped to date strings. It is a
// serialization format only; in-memory consumers work with PlanSchedule.
type DueDateMap map[string]string

// Value marshals the map for storage.
func (m DueDateMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan unmarshals the stored JSONB payload.
func (m *DueDateMap) Scan(src interface{}) error {
	if src == nil {
		*m = DueDateMap{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported due date map type %T", src)
	}
	if len(raw) == 0 {
		*m = DueDateMap{}
		return nil
	}
	return json.Unmarshal(raw, m)
}

// FeeStructure encodes a cohort's or an individual student's fee due
// dates under the three payment-plan shapes. A student-scoped row
// overrides the cohort-scoped one.
type FeeStructure struct {
	ID                  string     `db:"id" json:"id"`
	CohortID            *string    `db:"cohort_id" json:"cohort_id,omitempty"`
	StudentID           *string    `db:"student_id" json:"student_id,omitempty"`
	OneShotDates        DueDateMap `db:"one_shot_dates" json:"one_shot_dates"`
	SemWiseDates        DueDateMap `db:"sem_wise_dates" json:"sem_wise_dates"`
	InstalmentWiseDates DueDateMap `db:"instalment_wise_dates" json:"instalment_wise_dates"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// ScheduleEntry is one payable due date decoded from the persisted map.
// Semester and Installment are one-based as exposed to students.
type ScheduleEntry struct {
	Semester    int
	Installment int
	DueDate     time.Time
}

// PlanSchedule is the structured, in-memory form of the one due-date map
// selected by a student's payment plan.
type PlanSchedule struct {
	Plan    PaymentPlan
	Entries []ScheduleEntry
}

var dueDateKeyPattern = regexp.MustCompile(`^semester-(\d+)-instalment-(\d+)$`)

// ParseDueDateKey decodes a "semester-N-instalment-M" composite key.
// ok is false for keys that do not match; callers skip those entries.
func ParseDueDateKey(key string) (semester, instalment int, ok bool) {
	match := dueDateKeyPattern.FindStringSubmatch(key)
	if match == nil {
		return 0, 0, false
	}
	semester, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, 0, false
	}
	instalment, err = strconv.Atoi(match[2])
	if err != nil {
		return 0, 0, false
	}
	return semester, instalment, true
}

// parseDueDate accepts plain dates and full timestamps; fee-structure
// rows predate the scheduler and carry both formats.
func parseDueDate(raw string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), true
	}
	return time.Time{}, false
}

// Schedule decodes the due-date map selected by the plan into its
// structured form. Malformed keys and unparseable dates are skipped;
// legacy fee-structure data is tolerated, not rejected. An empty result
// means the student has nothing payable and is skipped upstream.
func (f *FeeStructure) Schedule(plan PaymentPlan) PlanSchedule {
	schedule := PlanSchedule{Plan: plan}
	if f == nil {
		return schedule
	}

	switch plan {
	case PlanOneShot:
		// Single-key map; the key itself carries no position info.
		for _, raw := range f.OneShotDates {
			due, ok := parseDueDate(raw)
			if !ok {
				continue
			}
			schedule.Entries = append(schedule.Entries, ScheduleEntry{Semester: 1, Installment: 1, DueDate: due})
			break
		}
	case PlanSemesterWise:
		schedule.Entries = decodeEntries(f.SemWiseDates)
	case PlanInstalmentWise:
		schedule.Entries = decodeEntries(f.InstalmentWiseDates)
	}

	return schedule
}

func decodeEntries(m DueDateMap) []ScheduleEntry {
	if len(m) == 0 {
		return nil
	}
	entries := make([]ScheduleEntry, 0, len(m))
	for key, raw := range m {
		semester, instalment, ok := ParseDueDateKey(key)
		if !ok {
			continue
		}
		due, ok := parseDueDate(raw)
		if !ok {
			continue
		}
		// Stored instalment indices are zero-based.
		entries = append(entries, ScheduleEntry{
			Semester:    semester,
			Installment: instalment + 1,
			DueDate:     due,
		})
	}
	return entries
}
