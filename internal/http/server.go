package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"scadenze/internal/cache"
	"scadenze/internal/core"
	"scadenze/internal/log"
	"scadenze/internal/middleware/ratelimit"
	"scadenze/internal/middleware/security"
	"scadenze/internal/middleware/trace"
	"scadenze/internal/recurrence"
	"scadenze/internal/services"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options wires a Server.
type Options struct {
	Service *services.ReminderService
	Store   Pinger
	Logger  *log.Logger

	// HorizonDays is the default ?days= of /api/schedule.
	HorizonDays int

	CalendarCacheSize int
	CalendarCacheTTL  time.Duration

	RateLimit ratelimit.Config

	// Today overrides the reference day when ?today= is absent.
	Today func() core.Date
}

type Server struct {
	http.Server

	svc         *services.ReminderService
	store       Pinger
	logger      *log.Logger
	horizonDays int
	today       func() core.Date

	calendar     *cache.Loader[[]recurrence.CalendarCell]
	cacheManager *cache.Manager
	rateLimiter  *ratelimit.Limiter
	tracer       *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentHTTP)
	}
	if opts.Today == nil {
		opts.Today = core.Today
	}
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = 30
	}
	if opts.CalendarCacheSize <= 0 {
		opts.CalendarCacheSize = 100
	}
	if opts.CalendarCacheTTL <= 0 {
		opts.CalendarCacheTTL = 5 * time.Minute
	}

	grids := cache.NewLRUCache[[]recurrence.CalendarCell](opts.CalendarCacheSize, opts.CalendarCacheTTL)
	ipResolver := security.NewClientIPResolver()

	s := &Server{
		svc:          opts.Service,
		store:        opts.Store,
		logger:       opts.Logger,
		horizonDays:  opts.HorizonDays,
		today:        opts.Today,
		calendar:     cache.NewLoader[[]recurrence.CalendarCell](grids),
		cacheManager: cache.NewManager(opts.Logger.Logger),
		rateLimiter:  ratelimit.NewLimiter(opts.RateLimit),
		tracer:       trace.NewMiddleware(opts.Logger, ipResolver.ExtractClientIP),
	}
	s.cacheManager.Register(grids)
	s.cacheManager.StartCleanup(opts.CalendarCacheTTL)
	opts.Service.OnChange(s.calendar.Invalidate)

	limited := s.rateLimiter.Middleware(ipResolver.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, ipResolver.ExtractClientIP(r),
			log.FieldPath, r.URL.Path)
		writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
			Error:     "rate limit exceeded, retry later",
			RequestID: trace.GetRequestID(r.Context()),
		})
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/reminders", s.handleListReminders)
	mux.Handle("POST /api/reminders", limited(http.HandlerFunc(s.handleCreateReminder)))
	mux.HandleFunc("GET /api/reminders/{id}", s.handleGetReminder)
	mux.Handle("DELETE /api/reminders/{id}", limited(http.HandlerFunc(s.handleDeleteReminder)))
	mux.Handle("POST /api/reminders/{id}/toggle", limited(http.HandlerFunc(s.handleToggleReminder)))
	mux.HandleFunc("GET /api/reminders/{id}/status", s.handleReminderStatus)
	mux.HandleFunc("GET /api/reminders/{id}/occurrences", s.handleReminderOccurrences)

	mux.HandleFunc("GET /api/calendar", s.handleCalendar)
	mux.HandleFunc("GET /api/schedule", s.handleSchedule)
	mux.HandleFunc("GET /api/overdue", s.handleOverdue)
	mux.HandleFunc("GET /api/upcoming", s.handleUpcoming)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.tracer.Middleware(headers.Middleware(mux)),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady fails while the store is unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.store.Ping(ctx); err != nil {
			log.FromContext(ctx).WarnContext(ctx, "Readiness check failed", log.FieldError, err.Error())
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
