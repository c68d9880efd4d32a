package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusworks/fee-reminder-api/internal/dto"
	"github.com/campusworks/fee-reminder-api/internal/models"
	appErrors "github.com/campusworks/fee-reminder-api/pkg/errors"
	"github.com/campusworks/fee-reminder-api/pkg/response"
)

type fakeCommunicationSrv struct {
	entries    []models.CommunicationLog
	pagination *models.Pagination
	listErr    error
	lastList   dto.CommunicationListRequest

	exportData []byte
	exportErr  error
	lastExport dto.CommunicationExportRequest
}

func (f *fakeCommunicationSrv) List(_ context.Context, req dto.CommunicationListRequest) ([]models.CommunicationLog, *models.Pagination, error) {
	f.lastList = req
	return f.entries, f.pagination, f.listErr
}

func (f *fakeCommunicationSrv) Export(_ context.Context, req dto.CommunicationExportRequest) ([]byte, string, string, error) {
	f.lastExport = req
	if f.exportErr != nil {
		return nil, "", "", f.exportErr
	}
	contentType := "text/csv"
	filename := "communications-2026-03-10.csv"
	if req.Format == "pdf" {
		contentType = "application/pdf"
		filename = "communications-2026-03-10.pdf"
	}
	return f.exportData, contentType, filename, nil
}

func performGet(h func(*gin.Context), target string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	h(c)
	return rec
}

func TestCommunicationHandlerList(t *testing.T) {
	srv := &fakeCommunicationSrv{
		entries: []models.CommunicationLog{
			{ID: "log-1", Recipient: "ada@example.com", Status: models.CommunicationStatusSent, SentAt: time.Now()},
		},
		pagination: &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1},
	}
	handler := NewCommunicationHandler(srv)

	rec := performGet(handler.List, "/communications?status=sent&limit=20")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sent", srv.lastList.Status)
	assert.Equal(t, 20, srv.lastList.PageSize)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotNil(t, envelope.Data)
	require.NotNil(t, envelope.Pagination)
	assert.Equal(t, 1, envelope.Pagination.TotalCount)
}

func TestCommunicationHandlerListServiceError(t *testing.T) {
	srv := &fakeCommunicationSrv{listErr: appErrors.Clone(appErrors.ErrValidation, "invalid communication filters")}
	handler := NewCommunicationHandler(srv)

	rec := performGet(handler.List, "/communications?status=bounced")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommunicationHandlerExport(t *testing.T) {
	srv := &fakeCommunicationSrv{exportData: []byte("Sent At,Channel\n")}
	handler := NewCommunicationHandler(srv)

	rec := performGet(handler.Export, "/communications/export?format=csv")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "communications-2026-03-10.csv")
	assert.Equal(t, "csv", srv.lastExport.Format)
}

func TestCommunicationHandlerExportError(t *testing.T) {
	srv := &fakeCommunicationSrv{exportErr: appErrors.ErrInternal}
	handler := NewCommunicationHandler(srv)

	rec := performGet(handler.Export, "/communications/export?format=pdf")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
