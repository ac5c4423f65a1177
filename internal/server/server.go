// Package server plays Teen Patti over websockets. Every connection gets its
// own session against the house opponent.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/lox/teenpatti/internal/game"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SessionFactory creates the session for a new connection. The server passes
// its own options, such as the logger and metrics recorder, which must be
// applied.
type SessionFactory func(connID uint64, opts ...game.SessionOption) (*game.Session, error)

// Option configures a Server
type Option func(*Server)

// WithClock sets the clock used for message timestamps and pings
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithRegistry sets the prometheus registry metrics are registered with and
// served from
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// WithoutMetrics disables the /metrics endpoint. Collectors are still kept.
func WithoutMetrics() Option {
	return func(s *Server) {
		s.serveMetrics = false
	}
}

// Server accepts websocket players
type Server struct {
	upgrader     websocket.Upgrader
	newSession   SessionFactory
	logger       *log.Logger
	clock        quartz.Clock
	registry     *prometheus.Registry
	metrics      *Metrics
	serveMetrics bool

	mu          sync.Mutex
	connections map[*Connection]struct{}
	nextID      atomic.Uint64

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a server
func NewServer(logger *log.Logger, newSession SessionFactory, opts ...Option) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		newSession:   newSession,
		logger:       logger.WithPrefix("server"),
		serveMetrics: true,
		connections:  make(map[*Connection]struct{}),
		ctx:          ctx,
		cancel:       cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = NewMetrics(s.registry)
	return s
}

// Handler returns the HTTP routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	if s.serveMetrics {
		mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return mux
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting WebSocket server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down server")
		s.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Stop closes every open connection
func (s *Server) Stop() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.connections {
		_ = conn.Close()
	}
}

// ConnectionCount returns the number of open connections
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.connections)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := s.nextID.Add(1)
	session, err := s.newSession(id,
		game.WithLogger(s.logger),
		game.WithRecorder(s.metrics),
	)
	if err != nil {
		s.logger.Error("Failed to create session", "error", err)
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}

	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(id, ws, session, s)
	s.register(conn)
	conn.Start()

	go func() {
		<-conn.Done()
		s.unregister(conn)
	}()
}

func (s *Server) register(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = struct{}{}
	s.metrics.Connections.Inc()
	total := len(s.connections)
	s.mu.Unlock()

	s.logger.Info("Client connected", "conn", conn.id, "total", total)
}

func (s *Server) unregister(conn *Connection) {
	s.mu.Lock()
	_, ok := s.connections[conn]
	if ok {
		delete(s.connections, conn)
		s.metrics.Connections.Dec()
	}
	total := len(s.connections)
	s.mu.Unlock()

	if !ok {
		return
	}

	player, opponent := conn.session.Balances()
	s.logger.Info("Client disconnected",
		"conn", conn.id,
		"rounds", conn.session.RoundsPlayed(),
		"playerChips", player,
		"opponentChips", opponent,
		"total", total)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}
