// Package server is the HTTP sidecar the browser editor calls for
// tokenizing buffers and grouping validator findings.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"hl7play/internal/trace"
)

const (
	defaultMaxBody  = 8 << 20
	requestIDKey    = ctxKey("request-id")
	RequestIDHeader = "X-Request-ID"
)

type ctxKey string

// Options configures the sidecar.
type Options struct {
	Addr    string
	MaxBody int64         // 0 → 8 MiB
	Timeout time.Duration // 0 → 30s per request
	Tracer  trace.Tracer  // nil → Nop
}

// Server wraps the router and its http.Server.
type Server struct {
	opts   Options
	router chi.Router
}

// New builds the router.
func New(opts Options) *Server {
	if opts.MaxBody <= 0 {
		opts.MaxBody = defaultMaxBody
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	s := &Server{opts: opts}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(middleware.Timeout(opts.Timeout))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(api chi.Router) {
		api.Post("/tokenize", s.handleTokenize)
		api.Post("/issues/group", s.handleGroup)
		api.Post("/message-ids", s.handleMessageIDs)
	})
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// requestID keeps an incoming X-Request-ID or assigns a new one, and traces
// the request under it.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		span := trace.Begin(s.opts.Tracer, trace.ScopeCommand, r.Method+" "+r.URL.Path, 0).WithExtra("request_id", id)
		defer span.End("")

		ctx := context.WithValue(r.Context(), requestIDKey, id)
		ctx = trace.WithTracer(ctx, s.opts.Tracer)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the id assigned to the request carried by ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, ready func(addr string)) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.opts.Addr, err)
	}
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready(ln.Addr().String())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
