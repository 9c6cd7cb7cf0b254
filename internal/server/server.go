package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tartampluch/go-age/internal/config"
	"github.com/tartampluch/go-age/internal/engine"
	"github.com/tartampluch/go-age/internal/metrics"
)

// cacheItem stores the rendered calendar and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// errorBody is the JSON shape of /insights failures.
type errorBody struct {
	Error string `json:"error"`
}

// CalendarServer serves the rendered calendar and on-demand insights.
type CalendarServer struct {
	// cache uses atomic.Pointer for lock-free reads: the calendar is read by
	// clients far more often than the worker replaces it.
	cache atomic.Pointer[cacheItem]
	Port  string

	Engine  *engine.Engine
	Clock   engine.Clock
	Metrics *metrics.Metrics
}

// NewCalendarServer creates a server bound to eng with a real clock.
func NewCalendarServer(port string, eng *engine.Engine, m *metrics.Metrics) *CalendarServer {
	return &CalendarServer{
		Port:    port,
		Engine:  eng,
		Clock:   engine.RealClock{},
		Metrics: m,
	}
}

// Routes builds the chi router.
func (s *CalendarServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	})

	r.Get(config.RouteCalendar, s.handleCalendarRequest)
	r.Head(config.RouteCalendar, s.handleCalendarRequest)
	r.Get(config.RouteInsights, s.handleInsightsRequest)
	if s.Metrics != nil {
		r.Handle(config.RouteMetrics, promhttp.HandlerFor(s.Metrics.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Start runs the HTTP server on localhost and blocks until ctx is cancelled.
func (s *CalendarServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Routes(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Update atomically replaces the served calendar.
func (s *CalendarServer) Update(data []byte) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	// Unchanged content keeps its Last-Modified so conditional GETs stay cheap.
	if prev := s.cache.Load(); prev != nil && prev.etag == etag {
		return
	}

	s.cache.Store(&cacheItem{
		data:         data,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	})
	if s.Metrics != nil {
		s.Metrics.ObserveFeed(len(data))
	}

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}

// handleCalendarRequest serves the ICS content with HTTP caching support.
func (s *CalendarServer) handleCalendarRequest(w http.ResponseWriter, r *http.Request) {
	item := s.cache.Load()
	if item == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeTextCalendar)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlPrivate)
	w.Header().Set(config.HeaderETag, item.etag)
	w.Header().Set(config.HeaderLastModified, item.lastModified)

	if match := r.Header.Get(config.HeaderIfNoneMatch); match == item.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if since := r.Header.Get(config.HeaderIfModifiedSince); since != "" {
		if clientTime, err := time.Parse(http.TimeFormat, since); err == nil {
			if serverTime, err := time.Parse(http.TimeFormat, item.lastModified); err == nil {
				if !serverTime.After(clientTime) {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}
		}
	}

	if r.Method == http.MethodGet {
		if _, err := io.Copy(w, bytes.NewReader(item.data)); err != nil {
			slog.Error(config.ErrWriteResp,
				config.LogKeyComponent, config.CompServer,
				config.LogKeyError, err,
			)
		}
	}
}

// handleInsightsRequest computes insights for ?birth= against ?reference= or the clock.
func (s *CalendarServer) handleInsightsRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ins, err := s.computeFromQuery(r)
	if s.Metrics != nil {
		s.Metrics.ObserveCompute(start, err)
	}

	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, engine.ErrInvalidDate) || errors.Is(err, engine.ErrReferenceBeforeBirth) {
			status = http.StatusBadRequest
		}
		slog.Debug(config.MsgInsightsFailed,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		writeJSON(w, status, errorBody{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ins)
}

func (s *CalendarServer) computeFromQuery(r *http.Request) (engine.AgeInsights, error) {
	q := r.URL.Query()
	birth, err := engine.ParseDate(q.Get(config.QueryBirth))
	if err != nil {
		return engine.AgeInsights{}, err
	}

	reference := s.Clock.Now()
	if raw := q.Get(config.QueryReference); raw != "" {
		if reference, err = engine.ParseDate(raw); err != nil {
			return engine.AgeInsights{}, err
		}
	}
	return s.Engine.Compute(birth, reference)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
