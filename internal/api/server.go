// Package api provides the REST report API for zonegit.
// It exposes past validation runs, per-file verdicts and serial timelines,
// and an endpoint to trigger a fresh run, via a Gin-based HTTP server.
package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jroosing/zonegit/internal/api/handlers"
	"github.com/jroosing/zonegit/internal/api/middleware"
	"github.com/jroosing/zonegit/internal/config"
	"github.com/jroosing/zonegit/internal/history"
)

// Server is the report REST API server.
//
// Security note: the run ledger lists internal zone names; do not expose
// the API to untrusted networks without an API key.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	engine     *gin.Engine
	handler    *handlers.Handler
	httpServer *http.Server
}

// New builds the server. db may be nil when the ledger is disabled; the
// ledger-backed endpoints then answer 503.
func New(cfg *config.Config, db *history.DB, logger *slog.Logger) *Server {
	if cfg == nil {
		panic("api.New: cfg is nil")
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.SlogRequestLogger(logger))

	h := handlers.New(cfg, db, logger)
	RegisterRoutes(engine, h, cfg)
	MountDashboard(engine, logger)

	addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &Server{cfg: cfg, logger: logger, engine: engine, handler: h, httpServer: httpServer}
}

// SetRunFunc wires the callback behind POST /api/v1/check.
func (s *Server) SetRunFunc(fn handlers.RunFunc) {
	s.handler.SetRunFunc(fn)
}

func (s *Server) Addr() string {
	if s.httpServer == nil {
		return ""
	}
	return s.httpServer.Addr
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
