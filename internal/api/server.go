package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/slotbook/internal/audit"
	"github.com/nerrad567/slotbook/internal/infrastructure/config"
	"github.com/nerrad567/slotbook/internal/infrastructure/logging"
	"github.com/nerrad567/slotbook/internal/slot"
)

// shutdownTimeout bounds graceful HTTP shutdown on Close.
const shutdownTimeout = 5 * time.Second

// Deps carries everything the API server needs.
type Deps struct {
	Config    config.APIConfig
	WebSocket config.WebSocketConfig
	Security  config.SecurityConfig
	Logger    *logging.Logger
	Slots     *slot.Service
	Audit     audit.Repository // optional audit trail, may be nil
	Publisher EventPublisher   // optional event mirror, may be nil
	Version   string
}

// Server is the HTTP API server. It owns the router, the WebSocket hub,
// and the underlying http.Server lifecycle.
type Server struct {
	cfg        config.APIConfig
	wsCfg      config.WebSocketConfig
	secCfg     config.SecurityConfig
	logger     *logging.Logger
	slots      *slot.Service
	audit      audit.Repository
	hub        *Hub
	version    string
	httpServer *http.Server
	cancelHub  context.CancelFunc
}

// New creates a new API server from its dependencies. The returned server
// is not listening yet; call Start.
func New(deps Deps) *Server {
	s := &Server{
		cfg:     deps.Config,
		wsCfg:   deps.WebSocket,
		secCfg:  deps.Security,
		logger:  deps.Logger,
		slots:   deps.Slots,
		audit:   deps.Audit,
		version: deps.Version,
	}

	s.hub = NewHub(deps.WebSocket, deps.Logger)
	if deps.Publisher != nil {
		s.hub.SetPublisher(deps.Publisher)
	}

	return s
}

// Hub returns the WebSocket notification hub. The caller wires it into the
// slot service as its change notifier.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start begins listening for HTTP connections. It blocks until the server
// stops, returning nil on graceful shutdown.
func (s *Server) Start() error {
	hubCtx, cancel := context.WithCancel(context.Background())
	s.cancelHub = cancel
	go s.hub.Run(hubCtx)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.buildRouter(),
		ReadTimeout:  time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout: time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	var err error
	if s.cfg.TLS.Enabled {
		s.logger.Info("starting HTTPS server", "addr", addr)
		err = s.httpServer.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
	} else {
		s.logger.Info("starting HTTP server", "addr", addr)
		err = s.httpServer.ListenAndServe()
	}

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close gracefully shuts down the server: in-flight requests get a grace
// period, then the hub disconnects remaining WebSocket clients.
func (s *Server) Close() error {
	s.logger.Info("shutting down API server")

	var err error
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err = s.httpServer.Shutdown(ctx)
	}

	if s.cancelHub != nil {
		s.cancelHub()
	}

	return err
}
