package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusworks/fee-reminder-api/internal/models"
)

// CommunicationRepository appends and lists outbound-notification audit
// entries. The table is append-only; entries are never updated.
type CommunicationRepository struct {
	db *sqlx.DB
}

// NewCommunicationRepository constructs a CommunicationRepository.
func NewCommunicationRepository(db *sqlx.DB) *CommunicationRepository {
	return &CommunicationRepository{db: db}
}

// Append inserts one audit entry.
func (r *CommunicationRepository) Append(ctx context.Context, entry *models.CommunicationLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now().UTC()
	}
	const query = `INSERT INTO communication_logs (id, channel, type, recipient, subject, content, context, status, sent_at)
        VALUES (:id, :channel, :type, :recipient, :subject, :content, :context, :status, :sent_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("append communication log: %w", err)
	}
	return nil
}

// List returns audit entries matching the filter, newest first.
func (r *CommunicationRepository) List(ctx context.Context, filter models.CommunicationFilter) ([]models.CommunicationLog, int, error) {
	base := "FROM communication_logs"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Channel != "" {
		conditions = append(conditions, fmt.Sprintf("channel = $%d", len(args)+1))
		args = append(args, filter.Channel)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Recipient != "" {
		conditions = append(conditions, fmt.Sprintf("recipient = $%d", len(args)+1))
		args = append(args, filter.Recipient)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("sent_at >= $%d", len(args)+1))
		args = append(args, filter.DateFrom.UTC())
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("sent_at < $%d", len(args)+1))
		args = append(args, filter.DateTo.UTC())
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, channel, type, recipient, subject, content, context, status, sent_at
        %s ORDER BY sent_at DESC LIMIT %d OFFSET %d`, base, size, offset)

	var entries []models.CommunicationLog
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list communication logs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count communication logs: %w", err)
	}
	return entries, total, nil
}
