package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusworks/fee-reminder-api/internal/dto"
)

type reminderRunner interface {
	Run(ctx context.Context, req dto.TriggerReminderRequest) (*dto.ReminderRunResponse, error)
}

// ReminderHandler exposes the scheduler trigger endpoint.
type ReminderHandler struct {
	service reminderRunner
	logger  *zap.Logger
}

// NewReminderHandler constructs the handler.
func NewReminderHandler(service reminderRunner, logger *zap.Logger) *ReminderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderHandler{service: service, logger: logger}
}

// Run godoc
// @Summary Trigger a payment-reminder run
// @Tags Reminders
// @Accept json
// @Produce json
// @Param body body dto.TriggerReminderRequest false "Run flags"
// @Success 200 {object} dto.ReminderRunResponse
// @Failure 500 {object} dto.RunErrorResponse
// @Router /reminders/run [post]
//
// A completed run always answers 200; per-obligation failures surface
// inside the results array. 500 is reserved for conditions that prevent
// any per-student processing from starting.
func (h *ReminderHandler) Run(c *gin.Context) {
	var req dto.TriggerReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		h.fail(c, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.service.Run(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("reminder run failed to start", zap.Error(err))
		h.fail(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ReminderHandler) fail(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, dto.RunErrorResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().UTC(),
	})
}
