package server

import (
	"context"
	"net/http"
	"time"

	"github.com/skovert/folio/pkg/errors"
	"github.com/skovert/folio/pkg/session"
)

// sessionCookie is the admin session cookie name.
const sessionCookie = "folio_session"

type ctxKey int

const sessionKey ctxKey = iota

// sessionFrom returns the admin session attached to the request context.
func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey).(*session.Session)
	return s
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		http.NotFound(w, r)
		return
	}

	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.auth.Authenticate(req.Email, req.Password); err != nil {
		s.logger.Warn("login rejected", "client", clientKey(r))
		writeError(w, err)
		return
	}

	sess, err := session.New(s.auth.Email(), s.ttl)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := s.sessions.Set(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}

	s.setSessionCookie(w, sess.ID, sess.ExpiresAt)
	s.logger.Info("admin logged in", "email", sess.Email)
	writeJSON(w, http.StatusOK, map[string]any{
		"email":      sess.Email,
		"expires_at": sess.ExpiresAt,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		http.NotFound(w, r)
		return
	}

	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := s.sessions.Delete(r.Context(), cookie.Value); err != nil {
			s.logger.Warn("session delete failed", "error", err)
		}
	}
	s.setSessionCookie(w, "", time.Unix(0, 0))
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}

func (s *Server) handleWhoami(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"email":      sess.Email,
		"created_at": sess.CreatedAt,
		"expires_at": sess.ExpiresAt,
	})
}

// requireSession rejects requests without a valid admin session and attaches
// the session to the request context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.auth == nil {
			http.NotFound(w, r)
			return
		}

		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeUnauthorized, "authentication required"))
			return
		}
		sess, err := s.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeUnauthorized, "session invalid or expired"))
			return
		}

		ctx := context.WithValue(r.Context(), sessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
