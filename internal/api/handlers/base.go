// Package handlers implements the REST API endpoint handlers for zonegit.
//
// REST API Endpoints:
//
// System Health:
//   - GET /api/v1/health - Health check status
//   - GET /api/v1/stats - Process statistics (uptime, memory, goroutines, CPU)
//
// Validation Runs:
//   - GET /api/v1/runs - List recorded validation runs (newest first)
//   - GET /api/v1/runs/:id - One run with its per-file verdicts
//   - POST /api/v1/check - Trigger a validation run and return the report
//
// Zone Files:
//   - GET /api/v1/files - Latest recorded verdict per zone file
//   - GET /api/v1/files/serials?path= - A zone file's serial timeline
//
// Authentication:
//
// All endpoints support optional API key authentication via the X-API-Key
// header. The key is configured in the api section of .zonegit.yml.
//
// Security Considerations:
//
// - The API is bound to 127.0.0.1 by default (not exposed to the network)
// - Use strong API keys when binding to anything else
// - The run ledger may reveal internal zone names; treat it accordingly
//
// @title zonegit Report API
// @version 1.0
// @description REST API for inspecting zone-file validation runs and triggering new ones.
//
// @contact.name zonegit
// @contact.url https://github.com/jroosing/zonegit
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8053
// @BasePath /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package handlers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jroosing/zonegit/internal/config"
	"github.com/jroosing/zonegit/internal/history"
	"github.com/jroosing/zonegit/internal/policy"
)

// RunFunc triggers a validation run on behalf of the API.
type RunFunc func(ctx context.Context) (*policy.Report, error)

// Handler contains dependencies for API handlers.
type Handler struct {
	cfg       *config.Config
	db        *history.DB // nil when the ledger is disabled
	logger    *slog.Logger
	startTime time.Time

	mu      sync.RWMutex
	runFunc RunFunc // nil disables POST /check
}

// New creates a new Handler with the given configuration and ledger.
func New(cfg *config.Config, db *history.DB, logger *slog.Logger) *Handler {
	return &Handler{
		cfg:       cfg,
		db:        db,
		logger:    logger,
		startTime: time.Now(),
	}
}

// DB returns the ledger connection for handlers that need it.
func (h *Handler) DB() *history.DB {
	return h.db
}

// SetRunFunc wires the callback POST /check uses to start a validation run.
func (h *Handler) SetRunFunc(fn RunFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runFunc = fn
}

func (h *Handler) getRunFunc() RunFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.runFunc
}
