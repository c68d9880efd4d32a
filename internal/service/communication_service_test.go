package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/fee-reminder-api/internal/dto"
	"github.com/campusworks/fee-reminder-api/internal/models"
	"github.com/campusworks/fee-reminder-api/pkg/config"
)

type fakeCommunicationStore struct {
	mu       sync.Mutex
	appended []*models.CommunicationLog
	entries  []models.CommunicationLog
	filter   models.CommunicationFilter
	err      error
}

func (f *fakeCommunicationStore) Append(_ context.Context, entry *models.CommunicationLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, entry)
	return f.err
}

func (f *fakeCommunicationStore) List(_ context.Context, filter models.CommunicationFilter) ([]models.CommunicationLog, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.filter = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	if filter.Page > 1 {
		return nil, len(f.entries), nil
	}
	return f.entries, len(f.entries), nil
}

func newCommunicationFixture() (*CommunicationService, *fakeCommunicationStore) {
	store := &fakeCommunicationStore{}
	svc := NewCommunicationService(store, config.AuditConfig{Workers: 1, BufferSize: 8, RetryDelay: time.Millisecond}, nil)
	return svc, store
}

func TestCommunicationServiceRecordAppendsInBackground(t *testing.T) {
	svc, store := newCommunicationFixture()
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Record(&models.CommunicationLog{Recipient: "ada@example.com", Status: models.CommunicationStatusSent})

	require.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.appended) == 1
	}, time.Second, 10*time.Millisecond)

	store.mu.Lock()
	entry := store.appended[0]
	store.mu.Unlock()
	assert.NotEmpty(t, entry.ID)
	assert.False(t, entry.SentAt.IsZero())
}

func TestCommunicationServiceList(t *testing.T) {
	svc, store := newCommunicationFixture()
	store.entries = []models.CommunicationLog{
		{ID: "log-1", Recipient: "ada@example.com", Status: models.CommunicationStatusSent},
	}

	entries, pagination, err := svc.List(context.Background(), dto.CommunicationListRequest{
		Status:   "sent",
		DateFrom: "2026-03-01",
		DateTo:   "2026-03-10",
	})
	require.NoError(t, err)

	assert.Len(t, entries, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)

	assert.Equal(t, "sent", store.filter.Status)
	require.NotNil(t, store.filter.DateFrom)
	require.NotNil(t, store.filter.DateTo)
	// The end day itself is included via an exclusive next-day bound.
	assert.Equal(t, "2026-03-11", store.filter.DateTo.Format("2006-01-02"))
}

func TestCommunicationServiceListRejectsBadFilters(t *testing.T) {
	svc, _ := newCommunicationFixture()

	_, _, err := svc.List(context.Background(), dto.CommunicationListRequest{Status: "bounced"})
	assert.Error(t, err)

	_, _, err = svc.List(context.Background(), dto.CommunicationListRequest{DateFrom: "03/01/2026"})
	assert.Error(t, err)
}

func TestCommunicationServiceExportCSV(t *testing.T) {
	svc, store := newCommunicationFixture()
	store.entries = []models.CommunicationLog{
		{
			Channel:   models.ChannelEmail,
			Type:      "two_days_before",
			Recipient: "ada@example.com",
			Subject:   "Your fee payment is due in 2 days",
			Status:    models.CommunicationStatusSent,
			SentAt:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		},
	}

	data, contentType, filename, err := svc.Export(context.Background(), dto.CommunicationExportRequest{Format: "csv"})
	require.NoError(t, err)

	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, filename, ".csv")
	assert.Contains(t, string(data), "ada@example.com")
	assert.Contains(t, string(data), "two_days_before")
}

func TestCommunicationServiceExportPDF(t *testing.T) {
	svc, store := newCommunicationFixture()
	store.entries = []models.CommunicationLog{
		{Channel: models.ChannelEmail, Recipient: "ada@example.com", Status: models.CommunicationStatusSent, SentAt: time.Now()},
	}

	data, contentType, filename, err := svc.Export(context.Background(), dto.CommunicationExportRequest{Format: "pdf"})
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", contentType)
	assert.Contains(t, filename, ".pdf")
	assert.NotEmpty(t, data)
}

func TestCommunicationServiceExportRequiresFormat(t *testing.T) {
	svc, _ := newCommunicationFixture()

	_, _, _, err := svc.Export(context.Background(), dto.CommunicationExportRequest{})
	assert.Error(t, err)
}
