package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthHandler reports liveness, database reachability and host stats.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler. db may be nil when the
// service runs on in-memory storage.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthResponse is the body of the health check.
type HealthResponse struct {
	Status            string  `json:"status"`
	Database          string  `json:"database"`
	UptimeSeconds     uint64  `json:"uptimeSeconds"`
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
}

// Check handles GET /health.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "ok", Database: "disabled"}
	status := http.StatusOK

	if h.db != nil {
		if err := h.db.PingContext(ctx); err != nil {
			log.Error().Err(err).Msg("Health check: database unreachable")
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		} else {
			resp.Database = "ok"
		}
	}

	// Host stats are informational; failures do not change the status.
	if uptime, err := host.UptimeWithContext(ctx); err == nil {
		resp.UptimeSeconds = uptime
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		resp.MemoryUsedPercent = vm.UsedPercent
	}

	writeJSON(w, status, resp)
}
