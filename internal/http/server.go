package http

import (
	"bytes"
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"budget/internal/core"
	"budget/internal/log"
	"budget/internal/view/htmlview"
	appweb "budget/web"
)

// Controller runs the input event flows against the page.
type Controller interface {
	Add(ctx context.Context) (core.Entry, error)
	Delete(ctx context.Context, itemID string) error
	ChangeType(ctx context.Context)
}

// StateReader exposes the ledger snapshot for the JSON endpoint.
type StateReader interface {
	Summary() core.Summary
	Entries(c core.Category) []core.Entry
}

// Server serves the budget page. Every handler that touches the page or the
// ledger holds mu for the whole flow, rendering included.
type Server struct {
	http.Server

	templates *template.Template
	logger    *log.Logger
	slog      *log.StructuredLogger

	mu    sync.Mutex
	ctrl  Controller
	page  *htmlview.View
	state StateReader

	rateLimiter  *rateLimiter
	started      time.Time
	shutdownOnce sync.Once
}

type Option func(*Server)

func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithRateLimit sets the number of mutating requests allowed per client
// and minute.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		if perMinute > 0 {
			s.rateLimiter.limit = perMinute
		}
	}
}

// pageData is the template context. OOB marks partials for out-of-band swaps.
type pageData struct {
	*htmlview.View
	OOB bool
}

// NewServer configures routes and templates, returning a ready-to-run http.Server.
func NewServer(addr string, ctrl Controller, page *htmlview.View, state StateReader, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ctrl:        ctrl,
		page:        page,
		state:       state,
		rateLimiter: newRateLimiter(60),
		started:     time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	s.logger = s.logger.WithComponent(log.ComponentHTTP)
	s.slog = log.NewStructuredLogger(s.logger)

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		s.logger.Warn("Failed parsing templates",
			log.FieldError, err,
			log.FieldComponent, log.ComponentTemplate)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/entries", s.handleAddEntry)
	mux.HandleFunc("POST /entries/delete", s.handleDeleteEntry)
	mux.HandleFunc("DELETE /entries/{item}", s.handleDeleteEntry)
	mux.HandleFunc("/ui/type", s.handleChangeType)
	mux.HandleFunc("GET /api/budget", s.handleBudgetJSON)

	var h http.Handler = s.withSecurity(mux)
	h = log.RequestIDMiddleware(requestID)(h)
	h = log.Middleware(s.logger)(h)
	s.Handler = h

	return s
}

// requestID reuses an incoming X-Request-ID or generates one.
func requestID(r *http.Request) string {
	if id := sanitizeInput(r.Header.Get("X-Request-ID")); id != "" && len(id) <= 64 {
		return id
	}
	return generateRequestID()
}

// withSecurity adds security headers, rate limiting, and request logging to responses.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		clientIP := extractClientIP(r)

		s.slog.LogHTTPStart(ctx, r, clientIP)

		w.Header().Set("X-Request-ID", log.RequestIDFromContext(ctx))
		setSecurityHeaders(w)

		// Only state-changing requests count against the limit.
		if r.Method == http.MethodPost || r.Method == http.MethodDelete {
			if !s.rateLimiter.allow(clientIP) {
				log.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
					log.FieldClientIP, clientIP,
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path,
					log.FieldComponent, log.ComponentRateLimit)
				NewHTMXResponse().
					Status(http.StatusTooManyRequests).
					Header("Retry-After", "60").
					TriggerErrorNotification("Too many requests. Please try again later.").
					Write(w)
				s.slog.LogHTTPEnd(ctx, r, http.StatusTooManyRequests, time.Since(start).Milliseconds(), clientIP)
				return
			}
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		s.slog.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// render executes a named template into a buffer so that a failing template
// never produces a half-written response.
func (s *Server) render(name string, oob bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, pageData{View: s.page, OOB: oob}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
