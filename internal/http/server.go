package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"riepilogo/internal/amqp"
	"riepilogo/internal/backend"
	"riepilogo/internal/log"
	"riepilogo/internal/middleware/ratelimit"
	"riepilogo/internal/middleware/security"
	"riepilogo/internal/middleware/trace"
	"riepilogo/internal/report"
	"riepilogo/internal/store"
	"riepilogo/internal/summary"
)

// ExportPublisher queues workbook exports for the worker.
type ExportPublisher interface {
	PublishExportRequest(ctx context.Context, msg *amqp.ExportRequestMessage) error
}

// Deps are the collaborators of a Server.
type Deps struct {
	Store store.Store
	// Publisher is optional; without it sheet exports answer 503.
	Publisher          ExportPublisher
	Logger             *log.Logger
	RateLimitPerMinute int
	RequestTimeout     time.Duration
}

type Server struct {
	http.Server

	store     store.Store
	engine    *summary.Engine
	assembler *report.Assembler
	tracker   *summary.Tracker
	publisher ExportPublisher
	limiter   *ratelimit.Limiter
	tracer    *trace.Middleware
	logger    *log.Logger
	timeout   time.Duration
	now       func() time.Time

	// Selections outlive the request that started them.
	baseCtx    context.Context
	cancelBase context.CancelFunc

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.Discard()
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	clientIP := security.NewClientIP()
	baseCtx, cancel := context.WithCancel(context.Background())

	s := &Server{
		store:      deps.Store,
		engine:     summary.NewEngine(deps.Store, logger),
		assembler:  report.NewAssembler(logger),
		tracker:    summary.NewTracker(),
		publisher:  deps.Publisher,
		limiter:    ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.RateLimitPerMinute}),
		tracer:     trace.NewMiddleware(logger, clientIP.Extract),
		logger:     logger.WithComponent(log.ComponentHTTP),
		timeout:    timeout,
		now:        time.Now,
		baseCtx:    baseCtx,
		cancelBase: cancel,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/compare", s.handleCompare)
	mux.HandleFunc("POST /api/selection", s.handleStartSelection)
	mux.HandleFunc("GET /api/selection", s.handleLatestSelection)

	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)

	mux.HandleFunc("GET /api/export.xlsx", s.handleExportXLSX)
	mux.HandleFunc("POST /api/export/sheets", s.handleExportSheets)

	limited := s.limiter.Middleware(clientIP.Extract, func(w http.ResponseWriter, r *http.Request) {
		s.logger.WarnContext(r.Context(), "Rate limit exceeded",
			log.NewFields().WithClientIP(clientIP.Extract(r)).WithHTTPRequest(r.Method, r.URL.Path, "", "").ToSlice()...)
		TooManyRequestsError().Write(w)
	})(mux)

	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			mux.ServeHTTP(w, r)
			return
		}
		limited.ServeHTTP(w, r)
	})
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops in-flight selections and background routines, then shuts
// down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.tracker.Stop()
		s.cancelBase()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.timeout)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.store.(backend.Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", log.FieldError, err.Error())
			ServiceUnavailableError("store not ready").Write(w)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
