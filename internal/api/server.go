package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jonboulle/clockwork"
	"github.com/pfrederiksen/kandilli/internal/bulletin"
	"github.com/pfrederiksen/kandilli/internal/event"
	"github.com/pfrederiksen/kandilli/internal/filter"
	"github.com/pfrederiksen/kandilli/internal/logger"
	"github.com/pfrederiksen/kandilli/internal/scraper"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultCount is the number of events /v1/events returns without ?count.
const DefaultCount = 10

// Source provides bulletin events. *scraper.Scraper implements it.
type Source interface {
	URL() string
	Latest(ctx context.Context) (event.Event, error)
	LatestN(ctx context.Context, count int) ([]event.Event, error)
}

// Server exposes the bulletin over HTTP together with health and metrics
// endpoints. Every events request triggers its own fetch.
type Server struct {
	httpServer *http.Server
	source     Source
	log        *logger.Logger
	clock      clockwork.Clock
}

// EventResponse is the body of /v1/events/latest.
type EventResponse struct {
	CheckedAt time.Time   `json:"checked_at"`
	Source    string      `json:"source"`
	Event     event.Event `json:"event"`
}

// EventsResponse is the body of /v1/events.
type EventsResponse struct {
	CheckedAt  time.Time     `json:"checked_at"`
	Source     string        `json:"source"`
	Requested  int           `json:"requested"`
	Filter     string        `json:"filter,omitempty"`
	EventCount int           `json:"event_count"`
	Events     []event.Event `json:"events"`
}

// ErrorResponse describes a failed request. Row, Column and Raw are set for
// bulletin parse failures.
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind"`
	Row    *int   `json:"row,omitempty"`
	Column string `json:"column,omitempty"`
	Raw    string `json:"raw,omitempty"`
}

// NewServer creates an HTTP server with /healthz, /metrics, /v1/events and
// /v1/events/latest routes. A nil metrics handler serves the default
// Prometheus registry.
func NewServer(addr string, source Source, log *logger.Logger, clock clockwork.Clock, metrics http.Handler) *Server {
	if log == nil {
		log = logger.Default()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if metrics == nil {
		metrics = promhttp.Handler()
	}

	s := &Server{
		source: source,
		log:    log,
		clock:  clock,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metrics)
	r.Route("/v1/events", func(r chi.Router) {
		r.Get("/", s.handleEvents)
		r.Get("/latest", s.handleLatest)
	})

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.log.Info("http server starting", logger.Fields{"addr": s.httpServer.Addr, "source": s.source.URL()})
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	evt, err := s.source.Latest(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, EventResponse{
		CheckedAt: s.clock.Now().UTC(),
		Source:    s.source.URL(),
		Event:     evt,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	count := DefaultCount
	if raw := q.Get("count"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "count must be a positive integer",
				Kind:  "request",
			})
			return
		}
		count = n
	}

	f, err := filter.Parse(q.Get("min_magnitude"), q.Get("max_depth"), q.Get("province"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Kind: "request"})
		return
	}

	events, err := s.source.LatestN(r.Context(), count)
	if err != nil {
		s.writeError(w, err)
		return
	}

	events = f.Apply(events)
	resp := EventsResponse{
		CheckedAt:  s.clock.Now().UTC(),
		Source:     s.source.URL(),
		Requested:  count,
		EventCount: len(events),
		Events:     events,
	}
	if !f.IsEmpty() {
		resp.Filter = f.String()
	}

	writeJSON(w, http.StatusOK, resp)
}

// writeError maps scraper and bulletin failures to HTTP statuses. Upstream
// problems (network, page layout, column content) are 502s. A fetch cut short
// by the request context is a 504; FetchError unwraps to the context error.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		fetchErr  *scraper.FetchError
		structErr *bulletin.StructureError
		fieldErr  *bulletin.FieldParseError
	)

	resp := ErrorResponse{Error: err.Error()}
	status := http.StatusBadGateway

	switch {
	case errors.Is(err, scraper.ErrInvalidCount):
		status = http.StatusBadRequest
		resp.Kind = "request"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
		resp.Kind = "timeout"
	case errors.As(err, &fetchErr):
		resp.Kind = "fetch"
	case errors.As(err, &structErr):
		resp.Kind = "structure"
		if structErr.Row >= 0 {
			row := structErr.Row
			resp.Row = &row
		}
	case errors.As(err, &fieldErr):
		resp.Kind = "field"
		row := fieldErr.Row
		resp.Row = &row
		resp.Column = fieldErr.Column
		resp.Raw = fieldErr.Raw
	default:
		status = http.StatusInternalServerError
		resp.Kind = "internal"
	}

	writeJSON(w, status, resp)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := s.clock.Now()

		next.ServeHTTP(ww, r)

		s.log.Info("http request", logger.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      ww.Status(),
			"duration_ms": s.clock.Since(start).Milliseconds(),
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
