package handlers

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/jroosing/zonegit/internal/api/models"
)

// Health godoc
// @Summary Health check
// @Description Returns API health status and ledger connectivity
// @Tags system
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse{Error: "ledger unreachable: " + err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
}

// Stats godoc
// @Summary Process statistics
// @Description Returns runtime statistics including memory, goroutines and CPU usage
// @Tags system
// @Produce json
// @Success 200 {object} models.ServerStatsResponse
// @Security ApiKeyAuth
// @Router /stats [get]
func (h *Handler) Stats(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(h.startTime)

	resp := models.ServerStatsResponse{
		Uptime:        uptime.Round(time.Second).String(),
		UptimeSeconds: int64(uptime.Seconds()),
		StartTime:     h.startTime,
		GoRoutines:    runtime.NumGoroutine(),
		MemoryAllocMB: float64(m.Alloc) / 1024 / 1024,
		NumCPU:        runtime.NumCPU(),
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if cpu, err := proc.CPUPercent(); err == nil {
			resp.CPUPercent = cpu
		}
		if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
			resp.MemoryRSSMB = float64(mem.RSS) / 1024 / 1024
		}
	}

	if h.db != nil {
		if runs, err := h.db.ListRuns(c.Request.Context(), 1, 0); err == nil && len(runs) > 0 {
			resp.Ledger = &models.LedgerStatsResponse{
				LastRunID: runs[0].ID,
				LastRunOK: runs[0].OK,
				LastRunAt: runs[0].Finished,
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
