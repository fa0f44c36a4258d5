package mailer

import (
	"context"

	"github.com/charmbracelet/log"
)

// Null is a mailer that logs instead of sending.
// Used in development and when no SMTP account is configured.
type Null struct {
	logger *log.Logger
}

// NewNull creates a logging-only mailer.
func NewNull(logger *log.Logger) *Null {
	if logger == nil {
		logger = log.Default()
	}
	return &Null{logger: logger}
}

// Send logs the message and discards it.
func (m *Null) Send(ctx context.Context, msg Message) error {
	m.logger.Info("contact mail (not sent, null mailer)",
		"id", msg.ID,
		"name", msg.Name,
		"reply_to", msg.ReplyTo,
		"length", len(msg.Body))
	return nil
}

// Ensure Null implements Mailer.
var _ Mailer = (*Null)(nil)
