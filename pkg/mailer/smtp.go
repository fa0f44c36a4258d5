package mailer

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/charmbracelet/log"

	"github.com/skovert/folio/pkg/errors"
	"github.com/skovert/folio/pkg/httputil"
	"github.com/skovert/folio/pkg/observability"
)

// SMTPConfig configures the SMTP mail backend.
type SMTPConfig struct {
	// Host is the SMTP server hostname.
	Host string

	// Port is the SMTP port. Defaults to 587.
	Port int

	// Username and Password authenticate against the server.
	Username string
	Password string

	// From is the envelope sender ("site@example.com").
	From string

	// To is the fixed recipient for contact submissions.
	To string
}

// SMTP delivers mail through an SMTP server with retry on transient
// failures.
type SMTP struct {
	cfg    SMTPConfig
	logger *log.Logger

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTP creates an SMTP mailer.
func NewSMTP(cfg SMTPConfig, logger *log.Logger) (*SMTP, error) {
	if cfg.Host == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "smtp host is not set")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if err := errors.ValidateEmail(cfg.From); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "smtp from address")
	}
	if err := errors.ValidateEmail(cfg.To); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "smtp recipient address")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &SMTP{cfg: cfg, logger: logger, send: smtp.SendMail}, nil
}

// Send delivers the message, retrying transient network failures with
// exponential backoff.
func (m *SMTP) Send(ctx context.Context, msg Message) error {
	body, err := render(msg, m.cfg.From, m.cfg.To)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	start := time.Now()
	err = httputil.RetryWithBackoff(ctx, func() error {
		if err := m.send(addr, auth, m.cfg.From, []string{m.cfg.To}, []byte(body)); err != nil {
			if isTransient(err) {
				return &httputil.RetryableError{Err: err}
			}
			return err
		}
		return nil
	})
	observability.Mail().OnSend(ctx, msg.ID, time.Since(start), err)

	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "send contact mail %s", msg.ID)
	}
	m.logger.Info("contact mail sent", "id", msg.ID, "reply_to", msg.ReplyTo)
	return nil
}

// isTransient reports whether an SMTP failure is worth retrying.
// Connection-level errors are; protocol rejections (bad auth, bad
// recipient) are not.
func isTransient(err error) bool {
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return stderrors.As(err, &opErr)
}

// Ensure SMTP implements Mailer.
var _ Mailer = (*SMTP)(nil)
