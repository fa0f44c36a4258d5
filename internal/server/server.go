// Package server implements the folio HTTP API: public read endpoints for
// the site content, styles and social links, the contact form, and the
// session-protected admin endpoints the editing panel drives.
package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/skovert/folio/pkg/auth"
	"github.com/skovert/folio/pkg/cms"
	"github.com/skovert/folio/pkg/errors"
	"github.com/skovert/folio/pkg/mailer"
	"github.com/skovert/folio/pkg/observability"
	"github.com/skovert/folio/pkg/ratelimit"
	"github.com/skovert/folio/pkg/session"
)

// shutdownTimeout is how long in-flight requests get to finish on shutdown.
const shutdownTimeout = 10 * time.Second

// Options configures a Server.
type Options struct {
	// Service is the CMS core. Required.
	Service *cms.Service

	// Sessions stores admin sessions. Required when Auth is set.
	Sessions session.Store

	// Auth verifies admin credentials. When nil the admin API is disabled
	// and every admin route answers 404.
	Auth *auth.Authenticator

	// SessionTTL is the lifetime of new admin sessions.
	SessionTTL time.Duration

	// Limiter rate-limits the contact form per client address.
	// Defaults to a one-minute in-memory window.
	Limiter ratelimit.Limiter

	// Mailer delivers contact messages. Defaults to logging-only delivery.
	Mailer mailer.Mailer

	// Recipient is the contact-form delivery address, used in log output.
	Recipient string

	// SecureCookies marks session cookies Secure. Enable when serving
	// behind TLS.
	SecureCookies bool

	// Logger receives request and error logs. Defaults to a discard logger.
	Logger *log.Logger
}

func (o *Options) validateAndSetDefaults() error {
	if o.Service == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "server: cms service is required")
	}
	if o.Auth != nil && o.Sessions == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "server: admin auth requires a session store")
	}
	if o.SessionTTL <= 0 {
		o.SessionTTL = session.DefaultTTL
	}
	if o.Limiter == nil {
		o.Limiter = ratelimit.NewMemoryLimiter(ratelimit.DefaultWindow)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Mailer == nil {
		o.Mailer = mailer.NewNull(o.Logger)
	}
	return nil
}

// Server is the folio HTTP server.
type Server struct {
	svc      *cms.Service
	sessions session.Store
	auth     *auth.Authenticator
	ttl      time.Duration
	limiter  ratelimit.Limiter
	mailer   mailer.Mailer
	secure   bool
	logger   *log.Logger
}

// New creates a Server from the given options.
func New(opts Options) (*Server, error) {
	if err := opts.validateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Server{
		svc:      opts.Service,
		sessions: opts.Sessions,
		auth:     opts.Auth,
		ttl:      opts.SessionTTL,
		limiter:  opts.Limiter,
		mailer:   opts.Mailer,
		secure:   opts.SecureCookies,
		logger:   opts.Logger,
	}, nil
}

// Handler builds the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/styles.css", s.handleCSS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/content", s.handleGetContent)
		r.Get("/styles", s.handleGetStyles)
		r.Get("/social", s.handleListSocial)
		r.Post("/contact", s.handleContact)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)

			r.Group(func(r chi.Router) {
				r.Use(s.requireSession)

				r.Get("/session", s.handleWhoami)

				r.Put("/content", s.handleReplaceContent)
				r.Patch("/content", s.handleMergeContent)
				r.Put("/content/value", s.handleSetValue)
				r.Delete("/content/value", s.handleDeleteValue)

				r.Put("/styles", s.handleSaveStyles)

				r.Post("/social", s.handleAddSocial)
				r.Put("/social/order", s.handleReorderSocial)
				r.Put("/social/{id}", s.handleUpdateSocial)
				r.Delete("/social/{id}", s.handleRemoveSocial)
			})
		})
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logRequests logs completed requests and feeds the observability hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", elapsed,
		)
	})
}

// clientKey derives the rate-limit key for a request. RealIP middleware has
// already resolved proxy headers into RemoteAddr, which then carries a bare
// IP with no port.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
