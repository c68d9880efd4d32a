package service

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/campusworks/fee-reminder-api/internal/models"
	"github.com/campusworks/fee-reminder-api/pkg/config"
)

// ReminderEmailData feeds the category templates. Content is fully
// rendered here; the mailer does no template logic.
type ReminderEmailData struct {
	StudentName string
	DueDate     string
	Semester    int
	Installment int
	DaysOverdue int
	Dashboard   string
	Support     string
}

const reminderEmailLayout = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333; line-height: 1.6;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9;">
    <div style="background-color: {{.Accent}}; color: white; padding: 16px; text-align: center; border-radius: 5px;">
      <h2 style="margin: 0;">{{.Heading}}</h2>
    </div>
    <div style="padding: 20px; background-color: white; border-radius: 5px; margin-top: 12px;">
      <p>Hi {{.Data.StudentName}},</p>
      <p>{{.Lead}}</p>
      <table style="width: 100%; border-collapse: collapse; margin: 12px 0;">
        <tr><td style="padding: 6px 0; color: #777;">Due date</td><td style="padding: 6px 0;"><strong>{{.Data.DueDate}}</strong></td></tr>
        <tr><td style="padding: 6px 0; color: #777;">Semester</td><td style="padding: 6px 0;">{{.Data.Semester}}</td></tr>
        <tr><td style="padding: 6px 0; color: #777;">Installment</td><td style="padding: 6px 0;">{{.Data.Installment}}</td></tr>
      </table>
      <p style="text-align: center; margin: 20px 0;">
        <a href="{{.Data.Dashboard}}" style="background-color: {{.Accent}}; color: white; padding: 10px 24px; text-decoration: none; border-radius: 4px;">Pay now</a>
      </p>
      <p style="color: #777; font-size: 13px;">Questions? Write to <a href="mailto:{{.Data.Support}}">{{.Data.Support}}</a>.</p>
    </div>
  </div>
</body>
</html>`

const testEmailBody = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <p>Hi {{.StudentName}},</p>
  <p>This is a connectivity check from the fee reminder service. No payment is due; you can ignore this message.</p>
</body>
</html>`

type categoryCopy struct {
	Subject string
	Heading string
	Accent  string
	Lead    string
}

var reminderCopy = map[models.ReminderCategory]categoryCopy{
	models.CategorySevenDaysBefore: {
		Subject: "Your fee payment is due in 7 days",
		Heading: "Payment due in 7 days",
		Accent:  "#2E86C1",
		Lead:    "A friendly heads-up: your next fee installment is due in one week.",
	},
	models.CategoryTwoDaysBefore: {
		Subject: "Your fee payment is due in 2 days",
		Heading: "Payment due in 2 days",
		Accent:  "#D68910",
		Lead:    "Your fee installment is due in two days. Please complete the payment to avoid interruption.",
	},
	models.CategoryOnDueDate: {
		Subject: "Your fee payment is due today",
		Heading: "Payment due today",
		Accent:  "#CA6F1E",
		Lead:    "Today is the due date for your fee installment. Please complete the payment today.",
	},
	models.CategoryOverdue: {
		Subject: "Your fee payment is overdue",
		Heading: "Payment overdue",
		Accent:  "#C0392B",
		Lead:    "Your fee installment is past its due date. Please settle it as soon as possible.",
	},
}

// TemplateService renders category-specific reminder emails.
type TemplateService struct {
	layout        *template.Template
	test          *template.Template
	subjectPrefix string
	dashboard     string
	support       string
}

// NewTemplateService parses the email templates once at startup.
func NewTemplateService(cfg config.RemindersConfig) (*TemplateService, error) {
	layout, err := template.New("reminder").Parse(reminderEmailLayout)
	if err != nil {
		return nil, fmt.Errorf("parse reminder template: %w", err)
	}
	test, err := template.New("test").Parse(testEmailBody)
	if err != nil {
		return nil, fmt.Errorf("parse test template: %w", err)
	}
	return &TemplateService{
		layout:        layout,
		test:          test,
		subjectPrefix: cfg.SubjectPrefix,
		dashboard:     cfg.DashboardLink,
		support:       cfg.SupportEmail,
	}, nil
}

// Render produces the subject and HTML body for a category.
func (s *TemplateService) Render(category models.ReminderCategory, student models.Student, obligation models.DueDateObligation, today time.Time) (subject, html string, err error) {
	copyBlock, ok := reminderCopy[category]
	if !ok {
		return "", "", fmt.Errorf("unknown reminder category %q", category)
	}

	data := ReminderEmailData{
		StudentName: student.FullName(),
		DueDate:     obligation.DueDate.UTC().Format("2 January 2006"),
		Semester:    obligation.SemesterNumber,
		Installment: obligation.InstallmentNumber,
		Dashboard:   s.dashboard,
		Support:     s.support,
	}
	if category == models.CategoryOverdue {
		data.DaysOverdue = -DaysRemaining(obligation.DueDate, today)
	}

	buf := &bytes.Buffer{}
	err = s.layout.Execute(buf, struct {
		Heading string
		Accent  string
		Lead    string
		Data    ReminderEmailData
	}{copyBlock.Heading, copyBlock.Accent, copyBlock.Lead, data})
	if err != nil {
		return "", "", fmt.Errorf("render %s email: %w", category, err)
	}
	return s.subjectPrefix + copyBlock.Subject, buf.String(), nil
}

// RenderTest produces the connectivity-check email.
func (s *TemplateService) RenderTest(student models.Student) (subject, html string, err error) {
	buf := &bytes.Buffer{}
	if err := s.test.Execute(buf, ReminderEmailData{StudentName: student.FullName()}); err != nil {
		return "", "", fmt.Errorf("render test email: %w", err)
	}
	return s.subjectPrefix + "Fee reminder connectivity check", buf.String(), nil
}

// RenderPreviews renders all four categories with sample data. Used by
// the template self-test path; touches no storage and dispatches nothing.
func (s *TemplateService) RenderPreviews(today time.Time) ([]PreviewEmail, error) {
	student := models.Student{FirstName: "Sample", LastName: "Student"}
	previews := make([]PreviewEmail, 0, len(reminderCopy))

	sampleDue := map[models.ReminderCategory]time.Time{
		models.CategorySevenDaysBefore: today.AddDate(0, 0, 7),
		models.CategoryTwoDaysBefore:   today.AddDate(0, 0, 2),
		models.CategoryOnDueDate:       today,
		models.CategoryOverdue:         today.AddDate(0, 0, -3),
	}

	for _, category := range models.Categories() {
		obligation := models.DueDateObligation{
			DueDate:           sampleDue[category],
			SemesterNumber:    1,
			InstallmentNumber: 1,
			PaymentType:       models.PlanSemesterWise,
		}
		subject, html, err := s.Render(category, student, obligation, today)
		if err != nil {
			return nil, err
		}
		previews = append(previews, PreviewEmail{Category: category, Subject: subject, HTML: html})
	}
	return previews, nil
}

// PreviewEmail is one rendered sample returned by the self-test path.
type PreviewEmail struct {
	Category models.ReminderCategory
	Subject  string
	HTML     string
}
