package http

import (
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/factbase/pkg/utils/errutil"
	"github.com/secmon-lab/factbase/pkg/utils/logging"
)

// ServiceInfo describes the service on the documentation page
type ServiceInfo struct {
	Name        string
	Description string
	Version     string
}

type Server struct {
	router       *chi.Mux
	factUC       FactUseCase
	info         ServiceInfo
	enableSentry bool
	debug        bool
	maxBodyBytes int64
}

type Options func(*Server)

func WithServiceInfo(info ServiceInfo) Options {
	return func(s *Server) {
		s.info = info
	}
}

// WithSentry attaches a Sentry hub to each request and reports panics
func WithSentry(enabled bool) Options {
	return func(s *Server) {
		s.enableSentry = enabled
	}
}

// WithDebug mounts the runtime profiler under /debug
func WithDebug(enabled bool) Options {
	return func(s *Server) {
		s.debug = enabled
	}
}

// WithMaxBodyBytes limits the size of request bodies
func WithMaxBodyBytes(n int64) Options {
	return func(s *Server) {
		s.maxBodyBytes = n
	}
}

func New(factUC FactUseCase, opts ...Options) (*Server, error) {
	if factUC == nil {
		return nil, goerr.New("fact use case is required")
	}

	r := chi.NewRouter()

	s := &Server{
		router: r,
		factUC: factUC,
		info: ServiceInfo{
			Name: "factbase",
		},
		maxBodyBytes: 64 * 1024,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)
	if s.enableSentry {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errutil.WriteJSON(r.Context(), w, http.StatusNotFound, errutil.ErrorResponse{Detail: "Not Found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errutil.WriteJSON(r.Context(), w, http.StatusMethodNotAllowed, errutil.ErrorResponse{Detail: "Method Not Allowed"})
	})

	r.Get("/", rootHandler)
	r.Get("/docs", docsHandler(s.info))

	r.Get("/fact/{fact_id}", s.getFact)
	r.Get("/facts", s.getFacts)
	r.Get("/facts/", s.getFacts)
	if s.debug {
		r.Mount("/debug", middleware.Profiler())
	}

	r.Post("/post", s.addFact)
	r.Post("/post/", s.addFact)
	r.Get("/delete", s.deleteFacts)
	r.Get("/delete/", s.deleteFacts)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// rootHandler sends visitors to the documentation page
func rootHandler(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/docs", http.StatusFound)
}

// requestLogger stores a logger tagged with the request ID in the request context
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logging.Default().With("request_id", middleware.GetReqID(ctx))
		next.ServeHTTP(w, r.WithContext(logging.With(ctx, logger)))
	})
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.From(r.Context()).Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
