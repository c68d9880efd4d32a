package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/fee-reminder-api/internal/models"
	"github.com/campusworks/fee-reminder-api/pkg/config"
)

func newTestTemplates(t *testing.T) *TemplateService {
	svc, err := NewTemplateService(config.RemindersConfig{
		SubjectPrefix: "[Campus Fees] ",
		DashboardLink: "https://fees.campusworks.dev/dashboard",
		SupportEmail:  "support@campusworks.dev",
	})
	require.NoError(t, err)
	return svc
}

func TestTemplateServiceRender(t *testing.T) {
	svc := newTestTemplates(t)
	student := models.Student{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	obligation := models.DueDateObligation{
		DueDate:           day("2026-03-12"),
		SemesterNumber:    1,
		InstallmentNumber: 2,
	}

	subject, html, err := svc.Render(models.CategoryTwoDaysBefore, student, obligation, day("2026-03-10"))
	require.NoError(t, err)

	assert.Equal(t, "[Campus Fees] Your fee payment is due in 2 days", subject)
	assert.Contains(t, html, "Ada Lovelace")
	assert.Contains(t, html, "12 March 2026")
	assert.Contains(t, html, "https://fees.campusworks.dev/dashboard")
	assert.Contains(t, html, "support@campusworks.dev")
}

func TestTemplateServiceRenderUnknownCategory(t *testing.T) {
	svc := newTestTemplates(t)

	_, _, err := svc.Render("weekly_digest", models.Student{}, models.DueDateObligation{}, day("2026-03-10"))
	assert.Error(t, err)
}

func TestTemplateServiceRenderTest(t *testing.T) {
	svc := newTestTemplates(t)

	subject, html, err := svc.RenderTest(models.Student{FirstName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "[Campus Fees] Fee reminder connectivity check", subject)
	assert.Contains(t, html, "connectivity check")
	assert.Contains(t, html, "Ada")
}

func TestTemplateServiceRenderPreviews(t *testing.T) {
	svc := newTestTemplates(t)

	previews, err := svc.RenderPreviews(day("2026-03-10"))
	require.NoError(t, err)
	require.Len(t, previews, 4)

	seen := make(map[models.ReminderCategory]bool)
	for _, preview := range previews {
		seen[preview.Category] = true
		assert.NotEmpty(t, preview.Subject)
		assert.Contains(t, preview.HTML, "Sample Student")
	}
	for _, category := range models.Categories() {
		assert.True(t, seen[category], "missing preview for %s", category)
	}
}
