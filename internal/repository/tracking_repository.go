package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

// TrackingRepository persists last-reminder state per payment obligation.
// Rows are keyed (payment_id, obligation_key) with a unique constraint,
// so overlapping runs cannot create duplicate tracking state.
type TrackingRepository struct {
	db *sqlx.DB
}

// NewTrackingRepository constructs a TrackingRepository.
func NewTrackingRepository(db *sqlx.DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

// Find returns the tracking row for an obligation, or nil when no
// reminder has ever been sent for it.
func (r *TrackingRepository) Find(ctx context.Context, paymentID, obligationKey string) (*models.ReminderTracking, error) {
	const query = `SELECT payment_id, obligation_key, last_reminder_type, last_reminder_sent_at, reminder_count
        FROM reminder_tracking WHERE payment_id = $1 AND obligation_key = $2`

	var tracking models.ReminderTracking
	if err := r.db.GetContext(ctx, &tracking, query, paymentID, obligationKey); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find reminder tracking: %w", err)
	}
	return &tracking, nil
}

// RecordSend upserts the obligation's tracking row after a successful
// dispatch. reminder_count accumulates across days; the category and
// timestamp always reflect the most recent send.
func (r *TrackingRepository) RecordSend(ctx context.Context, paymentID, obligationKey string, category models.ReminderCategory, sentAt time.Time) error {
	const query = `INSERT INTO reminder_tracking (payment_id, obligation_key, last_reminder_type, last_reminder_sent_at, reminder_count)
        VALUES ($1, $2, $3, $4, 1)
        ON CONFLICT (payment_id, obligation_key)
        DO UPDATE SET last_reminder_type = EXCLUDED.last_reminder_type,
            last_reminder_sent_at = EXCLUDED.last_reminder_sent_at,
            reminder_count = reminder_tracking.reminder_count + 1`

	if _, err := r.db.ExecContext(ctx, query, paymentID, obligationKey, string(category), sentAt.UTC()); err != nil {
		return fmt.Errorf("record reminder send: %w", err)
	}
	return nil
}
