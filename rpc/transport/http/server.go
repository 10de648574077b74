package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/ValentinKolb/travels/rpc/common"
	"github.com/ValentinKolb/travels/rpc/transport"
	"github.com/VictoriaMetrics/metrics"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("transport/rpc")

// RequestIDHeader carries the id assigned to a request when request logging is on.
const RequestIDHeader = "X-Request-Id"

func NewHttpServerTransport() transport.IRPCServerTransport {
	return &httpServerTransport{}
}

type httpServerTransport struct {
	handler transport.ServerHandleFunc
	config  common.ServerConfig

	mu     sync.Mutex
	server *http.Server
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *httpServerTransport) RegisterHandler(handler transport.ServerHandleFunc) {
	t.handler = handler
}

func (t *httpServerTransport) Listen(config common.ServerConfig) error {
	if t.handler == nil {
		return errors.New("http transport: no handler registered")
	}
	t.config = config

	timeout := time.Duration(config.TimeoutSecond) * time.Second
	server := &http.Server{
		Addr:         config.Endpoint,
		Handler:      NewHttpHandler(t.handler, config.LogLevel == "debug"),
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}

	t.mu.Lock()
	t.server = server
	t.mu.Unlock()

	Logger.Infof("Starting HTTP server on %s", config.Endpoint)

	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (t *httpServerTransport) Close() error {
	t.mu.Lock()
	server := t.server
	t.server = nil
	t.mu.Unlock()

	if server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	Logger.Infof("Stopping HTTP server on %s", server.Addr)
	return server.Shutdown(ctx)
}

// --------------------------------------------------------------------------
// Routing
// --------------------------------------------------------------------------

// NewHttpHandler returns the http.Handler serving the travels API with handler.
// Besides the API it serves the request metrics on GET /metrics.
// With logRequests set every request is logged at debug level.
func NewHttpHandler(handler transport.ServerHandleFunc, logRequests bool) http.Handler {
	r := &router{
		handler: handler,
		metrics: newServerMetrics(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /metrics", r.metrics.serve)
	mux.HandleFunc("GET /{entity}/{id}", r.handleRequest)
	mux.HandleFunc("GET /{entity}/{id}/{action}", r.handleRequest)
	mux.HandleFunc("POST /{entity}/{id}", r.handleRequest)

	if logRequests {
		return loggerMiddleware(mux)
	}
	return mux
}

type router struct {
	handler transport.ServerHandleFunc
	metrics *serverMetrics
}

// handleRequest handles incoming HTTP requests and writes the response to the writer
func (rt *router) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	// Read request body
	body, err := io.ReadAll(r.Body)
	defer r.Body.Close()

	// Check if body could be read
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		rt.metrics.observe(r.Pattern, http.StatusBadRequest, start)
		return
	}

	// Send the handler
	resp := rt.handler(transport.Request{
		Method: r.Method,
		Entity: r.PathValue("entity"),
		ID:     r.PathValue("id"),
		Action: r.PathValue("action"),
		Query:  r.URL.Query(),
		Body:   body,
	})

	// Write response
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(resp.Status)
	if _, err = w.Write(resp.Body); err != nil {
		Logger.Warningf("failed to write response for %s %s: %v", r.Method, r.URL.Path, err)
	}
	rt.metrics.observe(r.Pattern, resp.Status, start)
}

// --------------------------------------------------------------------------
// Metrics
// --------------------------------------------------------------------------

type routeKey struct {
	pattern string
	status  int
}

type routeMetrics struct {
	requests *metrics.Counter
	duration *metrics.Histogram
}

// serverMetrics records a request counter and a duration histogram per route and status.
type serverMetrics struct {
	set    *metrics.Set
	routes *xsync.MapOf[routeKey, routeMetrics]
}

func newServerMetrics() *serverMetrics {
	return &serverMetrics{
		set:    metrics.NewSet(),
		routes: xsync.NewMapOf[routeKey, routeMetrics](),
	}
}

func (m *serverMetrics) observe(pattern string, status int, start time.Time) {
	rm, _ := m.routes.LoadOrCompute(routeKey{pattern, status}, func() routeMetrics {
		labels := fmt.Sprintf(`{route=%q,status="%d"}`, pattern, status)
		return routeMetrics{
			requests: m.set.GetOrCreateCounter("travels_http_requests_total" + labels),
			duration: m.set.GetOrCreateHistogram("travels_http_request_duration_seconds" + labels),
		}
	})
	rm.requests.Inc()
	rm.duration.UpdateDuration(start)
}

func (m *serverMetrics) serve(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	m.set.WritePrometheus(w)
	metrics.WriteProcessMetrics(w)
}

// --------------------------------------------------------------------------
// Middleware (logging)
// --------------------------------------------------------------------------

// responseWriter is a custom ResponseWriter that captures status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code before writing it
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggerMiddleware is a middleware that logs HTTP requests
func loggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := uuid.New().String()
		w.Header().Set(RequestIDHeader, id)

		// Create custom response writer to capture status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Process request
		next.ServeHTTP(rw, r)

		// Log the request
		duration := time.Since(start)
		Logger.Debugf("[%s] %s %s => %d took %s", id, r.Method, r.URL.RequestURI(), rw.statusCode, duration)
	})
}
