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

func communicationTestColumns() []string {
	return []string{"id", "channel", "type", "recipient", "subject", "content", "context", "status", "sent_at"}
}

func TestCommunicationRepositoryAppend(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCommunicationRepository(db)

	mock.ExpectExec("INSERT INTO communication_logs").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.CommunicationLog{
		Channel:   models.ChannelEmail,
		Type:      "on_due_date",
		Recipient: "ada@example.com",
		Subject:   "Your fee payment is due today",
		Status:    models.CommunicationStatusSent,
	}
	err := repo.Append(context.Background(), entry)
	require.NoError(t, err)
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.SentAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunicationRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCommunicationRepository(db)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(communicationTestColumns()).
		AddRow("log-1", "email", "overdue", "ada@example.com", "Your fee payment is overdue", "<html></html>", []byte(`{"category":"overdue"}`), "sent", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND status = $1 AND sent_at >= $2 ORDER BY sent_at DESC LIMIT 20 OFFSET 0")).
		WithArgs("sent", from).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM communication_logs WHERE 1=1 AND status = $1 AND sent_at >= $2")).
		WithArgs("sent", from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	entries, total, err := repo.List(context.Background(), models.CommunicationFilter{Status: "sent", DateFrom: &from})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "overdue", entries[0].Context["category"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommunicationRepositoryListCapsPageSize(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCommunicationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 ORDER BY sent_at DESC LIMIT 20 OFFSET 20")).
		WillReturnRows(sqlmock.NewRows(communicationTestColumns()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM communication_logs WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.CommunicationFilter{Page: 2, PageSize: 500})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
