package models

import "time"

// ServerStatsResponse contains process runtime statistics.
type ServerStatsResponse struct {
	Uptime        string    `json:"uptime"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	StartTime     time.Time `json:"start_time"`
	GoRoutines    int       `json:"goroutines"`
	MemoryAllocMB float64   `json:"memory_alloc_mb"`
	NumCPU        int       `json:"num_cpu"`

	// Process-level figures; zero when the platform probe fails.
	CPUPercent  float64 `json:"cpu_percent"`
	MemoryRSSMB float64 `json:"memory_rss_mb"`

	Ledger *LedgerStatsResponse `json:"ledger,omitempty"`
}

// LedgerStatsResponse summarizes the run ledger.
type LedgerStatsResponse struct {
	LastRunID int64     `json:"last_run_id"`
	LastRunOK bool      `json:"last_run_ok"`
	LastRunAt time.Time `json:"last_run_at"`
}
