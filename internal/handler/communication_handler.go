package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campusworks/fee-reminder-api/internal/dto"
	"github.com/campusworks/fee-reminder-api/internal/models"
	appErrors "github.com/campusworks/fee-reminder-api/pkg/errors"
	"github.com/campusworks/fee-reminder-api/pkg/response"
)

type communicationLister interface {
	List(ctx context.Context, req dto.CommunicationListRequest) ([]models.CommunicationLog, *models.Pagination, error)
	Export(ctx context.Context, req dto.CommunicationExportRequest) (data []byte, contentType, filename string, err error)
}

// CommunicationHandler exposes the outbound-notification audit log.
type CommunicationHandler struct {
	service communicationLister
}

// NewCommunicationHandler constructs the handler.
func NewCommunicationHandler(service communicationLister) *CommunicationHandler {
	return &CommunicationHandler{service: service}
}

// List godoc
// @Summary List communication audit entries
// @Tags Communications
// @Produce json
// @Param channel query string false "Channel filter"
// @Param status query string false "Status filter (sent|failed)"
// @Param recipient query string false "Recipient email"
// @Param dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /communications [get]
func (h *CommunicationHandler) List(c *gin.Context) {
	var req dto.CommunicationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	entries, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Export godoc
// @Summary Export communication audit entries
// @Tags Communications
// @Produce text/csv
// @Produce application/pdf
// @Param format query string true "Export format (csv|pdf)"
// @Success 200 {file} byte
// @Router /communications/export [get]
func (h *CommunicationHandler) Export(c *gin.Context) {
	var req dto.CommunicationExportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}

	data, contentType, filename, err := h.service.Export(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
