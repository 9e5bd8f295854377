package remote

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/widgetkit/pkg/binder"
	"github.com/vango-dev/widgetkit/pkg/protocol"
	"github.com/vango-dev/widgetkit/pkg/render"
	"github.com/vango-dev/widgetkit/pkg/tree"
)

// MountFunc builds the tree for a request. It is called once for the
// server-rendered page and once per websocket session.
type MountFunc func(r *http.Request) (*tree.Node, error)

// ServerConfig configures a Server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string

	// ReadTimeout and WriteTimeout bound HTTP reads and writes and each
	// websocket frame write. ReadTimeout also bounds the wait between
	// client frames.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// ShutdownTimeout bounds Shutdown (default 10s).
	ShutdownTimeout time.Duration

	// SocketPath is the websocket route (default "/ws").
	SocketPath string

	// Title is the page title of the server-rendered page.
	Title string

	// MetricsNamespace prefixes all collectors (default "widgetkit").
	MetricsNamespace string

	// TracerName names the tracer binder spans are recorded on.
	TracerName string

	// Registry collects the server's metrics. Nil creates a private one.
	Registry *prometheus.Registry

	// CheckOrigin is passed to the websocket upgrader.
	CheckOrigin func(r *http.Request) bool

	// OnEvent handles widget events from clients.
	OnEvent EventHandler

	// Logger is the server logger. The default is slog.Default().
	Logger *slog.Logger
}

// DefaultServerConfig returns the defaults NewServer fills in.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:             ":8080",
		ReadTimeout:      60 * time.Second,
		WriteTimeout:     10 * time.Second,
		ShutdownTimeout:  10 * time.Second,
		SocketPath:       "/ws",
		MetricsNamespace: "widgetkit",
		TracerName:       binder.DefaultTracerName,
	}
}

// Server serves the page, the websocket sessions and the metrics.
type Server struct {
	mount    MountFunc
	config   ServerConfig
	logger   *slog.Logger
	router   chi.Router
	upgrader websocket.Upgrader
	registry *prometheus.Registry
	metrics  *binder.Metrics
	renderer *render.Renderer

	sessionsGauge prometheus.Gauge

	mu         sync.Mutex
	sessions   map[string]*Session
	httpServer *http.Server
}

// NewServer creates a server mounting trees built by mount.
func NewServer(mount MountFunc, config ServerConfig) *Server {
	defaults := DefaultServerConfig()
	if config.Addr == "" {
		config.Addr = defaults.Addr
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = defaults.ReadTimeout
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}
	if config.ShutdownTimeout == 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if config.SocketPath == "" {
		config.SocketPath = defaults.SocketPath
	}
	if config.MetricsNamespace == "" {
		config.MetricsNamespace = defaults.MetricsNamespace
	}
	if config.TracerName == "" {
		config.TracerName = defaults.TracerName
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "remote")

	s := &Server{
		mount:    mount,
		config:   config,
		logger:   logger,
		registry: config.Registry,
		metrics: binder.NewMetrics(
			binder.WithNamespace(config.MetricsNamespace),
			binder.WithRegistry(config.Registry),
		),
		renderer: render.NewRenderer(render.RendererConfig{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		sessionsGauge: promauto.With(config.Registry).NewGauge(prometheus.GaugeOpts{
			Namespace: config.MetricsNamespace,
			Subsystem: "remote",
			Name:      "sessions",
			Help:      "Number of live remote sessions",
		}),
		sessions: make(map[string]*Session),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get(config.SocketPath, s.handleSocket)
	r.Handle("/metrics", promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{}))
	s.router = r

	return s
}

// Router returns the server's router so callers can add routes.
func (s *Server) Router() chi.Router { return s.router }

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Config returns the effective configuration.
func (s *Server) Config() ServerConfig { return s.config }

// Session returns a live session by ID.
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// SessionIDs returns the IDs of live sessions, sorted.
func (s *Server) SessionIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	root, err := s.mount(r)
	if err != nil {
		s.logger.Error("mount failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		http.Error(w, "mount failed", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = s.renderer.RenderPage(&buf, render.PageData{
		Title:        s.config.Title,
		Body:         root,
		ClientScript: render.DefaultClientScript,
		SocketPath:   s.config.SocketPath,
	})
	if err != nil {
		s.logger.Error("render failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Debug("page write failed", "error", err)
	}
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := NewSession(generateSessionID(), conn, SessionConfig{
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		OnEvent:      s.config.OnEvent,
		Logger:       s.logger,
		BinderOptions: []binder.Option{
			binder.WithMetrics(s.metrics),
			binder.WithTracer(otel.Tracer(s.config.TracerName)),
		},
	})
	s.add(sess)
	defer s.remove(sess)

	ctx := context.WithoutCancel(r.Context())
	root, err := s.mount(r)
	if err == nil {
		err = sess.Mount(ctx, root)
	}
	if err != nil {
		s.logger.Error("session mount failed", "session", sess.ID(), "error", err)
		sess.sendError(err)
		sess.Close(protocol.CloseError, "mount failed")
		return
	}

	s.logger.Info("session started", "session", sess.ID(), "remote", r.RemoteAddr)
	sess.ReadLoop(ctx)
}

func (s *Server) add(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID()] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	s.sessionsGauge.Set(float64(n))
}

func (s *Server) remove(sess *Session) {
	s.mu.Lock()
	delete(s.sessions, sess.ID())
	n := len(s.sessions)
	s.mu.Unlock()
	s.sessionsGauge.Set(float64(n))
}

// ListenAndServe serves until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
	}
	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil

	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.Close(protocol.CloseServerShutdown, "server shutting down")
	}

	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("crypto/rand failed: %v", err))
	}
	return hex.EncodeToString(b)
}
