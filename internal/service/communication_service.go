package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campusworks/fee-reminder-api/internal/dto"
	"github.com/campusworks/fee-reminder-api/internal/models"
	"github.com/campusworks/fee-reminder-api/pkg/config"
	appErrors "github.com/campusworks/fee-reminder-api/pkg/errors"
	"github.com/campusworks/fee-reminder-api/pkg/export"
	"github.com/campusworks/fee-reminder-api/pkg/jobs"
)

const exportMaxRows = 5000

type communicationStore interface {
	Append(ctx context.Context, entry *models.CommunicationLog) error
	List(ctx context.Context, filter models.CommunicationFilter) ([]models.CommunicationLog, int, error)
}

// CommunicationService records and exposes the outbound-notification
// audit trail. Appends run through a background queue: the audit log is
// best effort and must never slow down or fail a reminder run.
type CommunicationService struct {
	store     communicationStore
	queue     *jobs.Queue
	validator *validator.Validate
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	logger    *zap.Logger
}

// NewCommunicationService constructs the service and its append queue.
func NewCommunicationService(store communicationStore, cfg config.AuditConfig, logger *zap.Logger) *CommunicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CommunicationService{
		store:     store,
		validator: validator.New(),
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		logger:    logger,
	}
	s.queue = jobs.NewQueue("communications", s.handleAppend, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start begins background append workers.
func (s *CommunicationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the append workers.
func (s *CommunicationService) Stop() {
	s.queue.Stop()
}

// Record enqueues an audit entry. Fire and forget: enqueue failures are
// logged and swallowed.
func (s *CommunicationService) Record(entry *models.CommunicationLog) {
	if entry == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now().UTC()
	}

	err := s.queue.Enqueue(jobs.Job{ID: entry.ID, Type: "append", Payload: entry})
	if err != nil {
		s.logger.Warn("communication log dropped", zap.String("recipient", entry.Recipient), zap.Error(err))
	}
}

func (s *CommunicationService) handleAppend(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(*models.CommunicationLog)
	if !ok {
		s.logger.Error("communication queue received unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	return s.store.Append(ctx, entry)
}

// List returns audit entries matching the request filters.
func (s *CommunicationService) List(ctx context.Context, req dto.CommunicationListRequest) ([]models.CommunicationLog, *models.Pagination, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid communication filters")
	}

	filter, err := buildCommunicationFilter(req.Channel, req.Status, req.Recipient, req.DateFrom, req.DateTo)
	if err != nil {
		return nil, nil, err
	}
	filter.Page = req.Page
	filter.PageSize = req.PageSize

	entries, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list communication logs")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return entries, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Export renders the audit log as CSV or PDF bytes.
func (s *CommunicationService) Export(ctx context.Context, req dto.CommunicationExportRequest) (data []byte, contentType, filename string, err error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	filter, err := buildCommunicationFilter("", req.Status, "", req.DateFrom, req.DateTo)
	if err != nil {
		return nil, "", "", err
	}
	filter.PageSize = 100

	var rows []map[string]string
	for page := 1; len(rows) < exportMaxRows; page++ {
		filter.Page = page
		entries, total, err := s.store.List(ctx, filter)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to collect communication logs")
		}
		for _, entry := range entries {
			rows = append(rows, map[string]string{
				"Sent At":   entry.SentAt.UTC().Format(time.RFC3339),
				"Channel":   entry.Channel,
				"Type":      entry.Type,
				"Recipient": entry.Recipient,
				"Subject":   entry.Subject,
				"Status":    entry.Status,
			})
		}
		if len(entries) == 0 || page*filter.PageSize >= total {
			break
		}
	}

	dataset := export.Dataset{
		Headers: []string{"Sent At", "Channel", "Type", "Recipient", "Subject", "Status"},
		Rows:    rows,
	}

	stamp := time.Now().UTC().Format("2006-01-02")
	switch req.Format {
	case "pdf":
		payload, err := s.pdf.Render(dataset, "Communication log")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return payload, "application/pdf", fmt.Sprintf("communications-%s.pdf", stamp), nil
	default:
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return payload, "text/csv", fmt.Sprintf("communications-%s.csv", stamp), nil
	}
}

func buildCommunicationFilter(channel, status, recipient, dateFrom, dateTo string) (models.CommunicationFilter, error) {
	filter := models.CommunicationFilter{Channel: channel, Status: status, Recipient: recipient}

	if dateFrom != "" {
		from, err := time.Parse("2006-01-02", dateFrom)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid dateFrom, expected YYYY-MM-DD")
		}
		filter.DateFrom = &from
	}
	if dateTo != "" {
		to, err := time.Parse("2006-01-02", dateTo)
		if err != nil {
			return filter, appErrors.Clone(appErrors.ErrValidation, "invalid dateTo, expected YYYY-MM-DD")
		}
		// Exclusive upper bound covering the whole end day.
		end := to.AddDate(0, 0, 1)
		filter.DateTo = &end
	}
	return filter, nil
}
