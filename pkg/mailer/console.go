package mailer

import (
	"context"

	"go.uber.org/zap"
)

// ConsoleMailer logs messages instead of delivering them. Used in
// development and as the default when SMTP is not configured.
type ConsoleMailer struct {
	logger *zap.Logger
}

// NewConsoleMailer constructs a console-backed mailer.
func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleMailer{logger: logger}
}

// Send writes the message to the log and reports success.
func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("email (console)",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.HTMLBody)),
	)
	return nil
}
