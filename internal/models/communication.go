package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	ChannelEmail = "email"

	CommunicationStatusSent   = "sent"
	CommunicationStatusFailed = "failed"
)

// LogContext carries free-form key/value context persisted with each
// communication entry (cohort, category, run id and the like).
type LogContext map[string]string

// Value marshals the context for storage.
func (c LogContext) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

// Scan unmarshals the stored context payload.
func (c *LogContext) Scan(src interface{}) error {
	if src == nil {
		*c = LogContext{}
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported log context type %T", src)
	}
	if len(raw) == 0 {
		*c = LogContext{}
		return nil
	}
	return json.Unmarshal(raw, c)
}

// CommunicationLog is an append-only audit entry for every outbound
// notification attempt. Best effort; a failed append never fails a run.
type CommunicationLog struct {
	ID        string     `db:"id" json:"id"`
	Channel   string     `db:"channel" json:"channel"`
	Type      string     `db:"type" json:"type"`
	Recipient string     `db:"recipient" json:"recipient"`
	Subject   string     `db:"subject" json:"subject"`
	Content   string     `db:"content" json:"content"`
	Context   LogContext `db:"context" json:"context"`
	Status    string     `db:"status" json:"status"`
	SentAt    time.Time  `db:"sent_at" json:"sent_at"`
}

// CommunicationFilter narrows audit-log listings.
type CommunicationFilter struct {
	Channel   string
	Status    string
	Recipient string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}
