// Package mailer delivers contact-form submissions as transactional email
// to a fixed recipient.
//
// The [Mailer] interface has two implementations: [SMTP] for real delivery
// and [Null] for development, which only logs. Messages are rendered from a
// fixed text template; the visitor's address goes into Reply-To, never into
// From, so SPF/DKIM for the sending domain stay intact.
package mailer

import (
	"context"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/skovert/folio/pkg/errors"
)

// Message is one contact-form submission.
type Message struct {
	// ID identifies the message in logs and hooks.
	ID string

	// Name is the visitor's display name.
	Name string

	// ReplyTo is the visitor's email address.
	ReplyTo string

	// Body is the message text.
	Body string

	// ReceivedAt is when the submission arrived.
	ReceivedAt time.Time
}

// NewMessage builds a validated Message from contact-form input.
func NewMessage(name, email, body string) (Message, error) {
	if err := errors.ValidateEmail(email); err != nil {
		return Message{}, err
	}
	if err := errors.ValidateMessage(body); err != nil {
		return Message{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Anonymous"
	}
	// The name lands in the Subject header; control characters would let a
	// visitor smuggle extra headers into the message.
	if err := errors.ValidateLabel(name); err != nil {
		return Message{}, err
	}
	return Message{
		ID:         uuid.NewString(),
		Name:       name,
		ReplyTo:    email,
		Body:       body,
		ReceivedAt: time.Now(),
	}, nil
}

// Mailer is the interface for outbound mail backends.
type Mailer interface {
	// Send delivers the message to the configured recipient.
	Send(ctx context.Context, msg Message) error
}

// bodyTemplate renders the mail body. CRLF line endings per RFC 5322.
var bodyTemplate = template.Must(template.New("contact").Parse(
	"From: {{.FromHeader}}\r\n" +
		"To: {{.To}}\r\n" +
		"Reply-To: {{.ReplyTo}}\r\n" +
		"Subject: {{.Subject}}\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"New message from {{.Name}} <{{.ReplyTo}}>\r\n" +
		"Received: {{.Received}}\r\n" +
		"\r\n" +
		"{{.Body}}\r\n"))

// render produces the full RFC 5322 message for msg.
func render(msg Message, from, to string) (string, error) {
	var b strings.Builder
	err := bodyTemplate.Execute(&b, map[string]string{
		"FromHeader": from,
		"To":         to,
		"ReplyTo":    msg.ReplyTo,
		"Subject":    "Portfolio contact from " + msg.Name,
		"Name":       msg.Name,
		"Received":   msg.ReceivedAt.UTC().Format(time.RFC1123Z),
		"Body":       msg.Body,
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "render mail body")
	}
	return b.String(), nil
}
