package server

import (
	"net/http"

	"github.com/skovert/folio/pkg/errors"
	"github.com/skovert/folio/pkg/mailer"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// handleContact validates a contact submission, applies the per-client rate
// limit and hands the message to the mailer. The limit is charged only for
// submissions that pass validation.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	msg, err := mailer.NewMessage(req.Name, req.Email, req.Message)
	if err != nil {
		writeError(w, err)
		return
	}

	ok, wait, err := s.limiter.Allow(r.Context(), clientKey(r))
	if err != nil {
		s.logger.Warn("rate limiter unavailable, allowing request", "error", err)
	} else if !ok {
		writeError(w, &errors.RateLimitedError{
			RetryAfter: int(wait.Seconds()) + 1,
			Message:    "too many messages, try again later",
		})
		return
	}

	if err := s.mailer.Send(r.Context(), msg); err != nil {
		s.logger.Error("contact delivery failed", "message_id", msg.ID, "error", err)
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "message could not be delivered"))
		return
	}

	s.logger.Info("contact message delivered", "message_id", msg.ID)
	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "sent",
		"id":     msg.ID,
	})
}
