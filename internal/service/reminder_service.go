package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campusworks/fee-reminder-api/internal/dto"
	"github.com/campusworks/fee-reminder-api/internal/models"
	"github.com/campusworks/fee-reminder-api/pkg/config"
	appErrors "github.com/campusworks/fee-reminder-api/pkg/errors"
	"github.com/campusworks/fee-reminder-api/pkg/mailer"
)

type studentLister interface {
	ListNotifiable(ctx context.Context) ([]models.Student, error)
}

type paymentFinder interface {
	FindByStudent(ctx context.Context, studentID string) (*models.StudentPayment, error)
}

type feeStructureFinder interface {
	FindForStudent(ctx context.Context, studentID, cohortID string) (*models.FeeStructure, error)
}

type trackingStore interface {
	Find(ctx context.Context, paymentID, obligationKey string) (*models.ReminderTracking, error)
	RecordSend(ctx context.Context, paymentID, obligationKey string, category models.ReminderCategory, sentAt time.Time) error
}

type dayLocker interface {
	AcquireDayLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	ReleaseDayLock(ctx context.Context, key string)
}

type structureCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type auditRecorder interface {
	Record(entry *models.CommunicationLog)
}

// ReminderService drives the daily payment-reminder run: population
// fetch, due-date extraction, classification, dedup, dispatch, tracking.
// One unit's failure never aborts the run; failures surface as
// per-obligation results in the response body.
type ReminderService struct {
	students   studentLister
	payments   paymentFinder
	structures feeStructureFinder
	tracking   trackingStore
	locks      dayLocker
	cache      structureCache
	mail       mailer.Mailer
	templates  *TemplateService
	audit      auditRecorder
	metrics    *MetricsService
	logger     *zap.Logger
	cfg        config.RemindersConfig
	now        func() time.Time
}

// ReminderServiceParams bundles the orchestrator's collaborators.
type ReminderServiceParams struct {
	Students   studentLister
	Payments   paymentFinder
	Structures feeStructureFinder
	Tracking   trackingStore
	Locks      dayLocker
	Cache      structureCache
	Mailer     mailer.Mailer
	Templates  *TemplateService
	Audit      auditRecorder
	Metrics    *MetricsService
	Logger     *zap.Logger
	Config     config.RemindersConfig
}

// NewReminderService constructs the orchestrator.
func NewReminderService(params ReminderServiceParams) *ReminderService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		students:   params.Students,
		payments:   params.Payments,
		structures: params.Structures,
		tracking:   params.Tracking,
		locks:      params.Locks,
		cache:      params.Cache,
		mail:       params.Mailer,
		templates:  params.Templates,
		audit:      params.Audit,
		metrics:    params.Metrics,
		logger:     logger,
		cfg:        params.Config,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Run executes one scheduler invocation. The returned response always has
// Success=true when the run completed; a non-nil error means the run
// could not start at all and maps to a hard HTTP failure.
func (s *ReminderService) Run(ctx context.Context, req dto.TriggerReminderRequest) (*dto.ReminderRunResponse, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.ErrRunDisabled
	}

	switch {
	case req.TestAllEmails:
		return s.runPreviews()
	case req.TestMode:
		return s.runConnectivityCheck(ctx)
	default:
		return s.runFull(ctx)
	}
}

// runPreviews is the template self-test: render all categories with
// sample data, no DB access and no dispatch.
func (s *ReminderService) runPreviews() (*dto.ReminderRunResponse, error) {
	today := s.now()
	previews, err := s.templates.RenderPreviews(today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render template previews")
	}

	rendered := make([]dto.RenderedEmail, 0, len(previews))
	for _, preview := range previews {
		rendered = append(rendered, dto.RenderedEmail{Category: preview.Category, Subject: preview.Subject, HTML: preview.HTML})
	}

	return &dto.ReminderRunResponse{
		Success:   true,
		Message:   fmt.Sprintf("rendered %d template previews", len(rendered)),
		Timestamp: today,
		Results:   []dto.ReminderResult{},
		Previews:  rendered,
	}, nil
}

// runConnectivityCheck sends one synthetic reminder per eligible student
// to validate the delivery channel. No extraction, no tracking writes.
func (s *ReminderService) runConnectivityCheck(ctx context.Context) (*dto.ReminderRunResponse, error) {
	students, err := s.students.ListNotifiable(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student population")
	}

	results := make([]dto.ReminderResult, 0, len(students))
	sent := 0
	for _, student := range students {
		result := dto.ReminderResult{StudentID: student.ID}

		subject, html, err := s.templates.RenderTest(student)
		if err == nil {
			err = s.mail.Send(ctx, mailer.Message{
				To:       student.Email,
				ToName:   student.FullName(),
				Subject:  subject,
				HTMLBody: html,
			})
		}
		if err != nil {
			result.Message = fmt.Sprintf("test email failed: %v", err)
			s.recordAudit(student, "test", subject, html, models.CommunicationStatusFailed, nil)
		} else {
			sent++
			result.Success = true
			result.Message = "test email sent"
			s.recordAudit(student, "test", subject, html, models.CommunicationStatusSent, nil)
		}
		results = append(results, result)
	}

	return &dto.ReminderRunResponse{
		Success:   true,
		Message:   fmt.Sprintf("connectivity check: sent %d of %d test emails", sent, len(students)),
		Timestamp: s.now(),
		Results:   results,
	}, nil
}

// runFull is the production scheduling pass.
func (s *ReminderService) runFull(ctx context.Context) (*dto.ReminderRunResponse, error) {
	start := s.now()
	today := start

	students, err := s.students.ListNotifiable(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch student population")
	}

	debug := &dto.RunDebug{StudentsFetched: len(students)}
	results := make([]dto.ReminderResult, 0)

	for _, student := range students {
		results = append(results, s.processStudent(ctx, student, today, debug)...)
	}

	s.metrics.ObserveRun(s.now().Sub(start), len(students))
	s.logger.Info("reminder run complete",
		zap.Int("students", debug.StudentsFetched),
		zap.Int("eligible", debug.Eligible),
		zap.Int("dispatched", debug.Dispatched),
		zap.Int("failed", debug.Failed),
		zap.Int("suppressed", debug.Suppressed),
	)

	return &dto.ReminderRunResponse{
		Success:   true,
		Message:   fmt.Sprintf("reminder run complete: %d dispatched, %d failed, %d suppressed", debug.Dispatched, debug.Failed, debug.Suppressed),
		Timestamp: s.now(),
		Results:   results,
		Debug:     debug,
	}, nil
}

// queuedReminder is an obligation that survived classification and dedup
// and is ready for dispatch.
type queuedReminder struct {
	obligation models.DueDateObligation
	category   models.ReminderCategory
	lockKey    string
	subject    string
	html       string
}

func (s *ReminderService) processStudent(ctx context.Context, student models.Student, today time.Time, debug *dto.RunDebug) []dto.ReminderResult {
	payment, err := s.payments.FindByStudent(ctx, student.ID)
	if err != nil {
		debug.Failed++
		return []dto.ReminderResult{{
			StudentID: student.ID,
			Message:   fmt.Sprintf("fetch payment record: %v", err),
		}}
	}
	if payment == nil {
		s.logger.Info("no payment record, skipping student", zap.String("student_id", student.ID))
		return nil
	}
	debug.WithPayment++

	if !payment.PaymentPlan.Valid() {
		s.logger.Info("unknown payment plan, skipping student",
			zap.String("student_id", student.ID),
			zap.String("plan", string(payment.PaymentPlan)),
		)
		return nil
	}

	structure, err := s.feeStructure(ctx, student)
	if err != nil {
		debug.Failed++
		return []dto.ReminderResult{{
			StudentID: student.ID,
			PaymentID: payment.ID,
			Message:   fmt.Sprintf("fetch fee structure: %v", err),
		}}
	}
	if structure == nil {
		s.logger.Info("no fee structure, skipping student", zap.String("student_id", student.ID))
		return nil
	}
	debug.WithFeeStructure++

	obligations := ExtractObligations(structure, payment)
	debug.ObligationsExtracted += len(obligations)
	if len(obligations) == 0 {
		return nil
	}

	var results []dto.ReminderResult
	var eligible []queuedReminder

	for _, obligation := range obligations {
		category, due := ClassifyReminder(obligation.DueDate, today)
		if !due {
			continue
		}
		debug.Eligible++

		tracking, err := s.tracking.Find(ctx, obligation.PaymentID, obligation.Key())
		if err != nil {
			debug.Failed++
			results = append(results, dto.ReminderResult{
				StudentID:    student.ID,
				PaymentID:    obligation.PaymentID,
				ReminderType: category,
				Message:      fmt.Sprintf("read reminder tracking: %v", err),
			})
			continue
		}
		if tracking.SentOn(today) {
			debug.Suppressed++
			s.metrics.RecordSkip("already_sent_today")
			continue
		}

		lockKey := dayLockKey(obligation, today)
		acquired, err := s.locks.AcquireDayLock(ctx, lockKey, s.cfg.DayLockTTL)
		if err == nil && !acquired {
			// Another run claimed this obligation's slot today.
			debug.Suppressed++
			s.metrics.RecordSkip("lock_held")
			continue
		}

		subject, html, err := s.templates.Render(category, student, obligation, today)
		if err != nil {
			s.locks.ReleaseDayLock(ctx, lockKey)
			debug.Failed++
			results = append(results, dto.ReminderResult{
				StudentID:    student.ID,
				PaymentID:    obligation.PaymentID,
				ReminderType: category,
				Message:      fmt.Sprintf("render email: %v", err),
			})
			continue
		}

		eligible = append(eligible, queuedReminder{
			obligation: obligation,
			category:   category,
			lockKey:    lockKey,
			subject:    subject,
			html:       html,
		})
	}

	if len(eligible) == 0 {
		return results
	}

	outcomes := s.dispatchBatch(ctx, student, eligible)

	for i, item := range eligible {
		result := dto.ReminderResult{
			StudentID:    student.ID,
			PaymentID:    item.obligation.PaymentID,
			ReminderType: item.category,
		}
		logCtx := models.LogContext{
			"category":       string(item.category),
			"obligation_key": item.obligation.Key(),
			"cohort_id":      student.CohortID,
		}

		if err := outcomes[i]; err != nil {
			s.locks.ReleaseDayLock(ctx, item.lockKey)
			s.metrics.RecordDispatchFailure()
			debug.Failed++
			result.Message = fmt.Sprintf("dispatch failed: %v", err)
			s.recordAudit(student, string(item.category), item.subject, item.html, models.CommunicationStatusFailed, logCtx)
			results = append(results, result)
			continue
		}

		s.metrics.RecordReminderSent(item.category)
		s.recordAudit(student, string(item.category), item.subject, item.html, models.CommunicationStatusSent, logCtx)

		if err := s.tracking.RecordSend(ctx, item.obligation.PaymentID, item.obligation.Key(), item.category, s.now()); err != nil {
			// The email went out; only the durable dedup state is stale.
			// Reported as a failure so operators notice the gap.
			s.metrics.RecordTrackingWriteFailure()
			debug.Failed++
			result.Message = fmt.Sprintf("reminder sent but tracking update failed: %v", err)
			results = append(results, result)
			continue
		}

		debug.Dispatched++
		result.Success = true
		result.Message = fmt.Sprintf("%s reminder sent", item.category)
		results = append(results, result)
	}

	return results
}

// dispatchBatch fans out one student's eligible reminders concurrently
// and joins before tracking updates. Outcomes align with the batch index.
func (s *ReminderService) dispatchBatch(ctx context.Context, student models.Student, batch []queuedReminder) []error {
	fanout := s.cfg.DispatchFanout
	if fanout <= 0 {
		fanout = 4
	}

	outcomes := make([]error, len(batch))
	sem := make(chan struct{}, fanout)
	var wg sync.WaitGroup

	for i := range batch {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = s.mail.Send(ctx, mailer.Message{
				To:       student.Email,
				ToName:   student.FullName(),
				Subject:  batch[i].subject,
				HTMLBody: batch[i].html,
				Context: map[string]string{
					"category":       string(batch[i].category),
					"obligation_key": batch[i].obligation.Key(),
				},
			})
		}(i)
	}
	wg.Wait()
	return outcomes
}

// feeStructure resolves the effective fee structure with a best-effort
// read-through cache. Cache failures degrade to a direct lookup.
func (s *ReminderService) feeStructure(ctx context.Context, student models.Student) (*models.FeeStructure, error) {
	key := fmt.Sprintf("fee_structure:student:%s", student.ID)
	if s.cache != nil {
		var cached models.FeeStructure
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	structure, err := s.structures.FindForStudent(ctx, student.ID, student.CohortID)
	if err != nil {
		return nil, err
	}
	if structure != nil && s.cache != nil {
		_ = s.cache.Set(ctx, key, structure, s.cfg.FeeStructureTTL)
	}
	return structure, nil
}

func (s *ReminderService) recordAudit(student models.Student, reminderType, subject, content, status string, logCtx models.LogContext) {
	if s.audit == nil {
		return
	}
	s.audit.Record(&models.CommunicationLog{
		Channel:   models.ChannelEmail,
		Type:      reminderType,
		Recipient: student.Email,
		Subject:   subject,
		Content:   content,
		Context:   logCtx,
		Status:    status,
	})
}

func dayLockKey(obligation models.DueDateObligation, today time.Time) string {
	return fmt.Sprintf("reminder:lock:%s:%s:%s", obligation.PaymentID, obligation.Key(), today.UTC().Format("2006-01-02"))
}
