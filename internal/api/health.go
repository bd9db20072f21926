package api

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves the liveness and readiness probes.
//
// Readiness requires the log directory to be reachable and, when a mirror is
// configured, the database to answer a ping.
type HealthHandler struct {
	dataDir string
	dbPing  func(ctx context.Context) error
}

// NewHealthHandler builds the probes. dbPing may be nil when no mirror is configured.
func NewHealthHandler(dataDir string, dbPing func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{dataDir: dataDir, dbPing: dbPing}
}

// Register mounts GET /healthz and GET /readyz on r.
func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.live)
	r.GET("/readyz", h.ready)
}

// live godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (h *HealthHandler) live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ready godoc
// @Summary      Readiness probe
// @Description  Ready when the data directory exists and the Postgres mirror (if enabled) answers
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /readyz [get]
func (h *HealthHandler) ready(c *gin.Context) {
	if h.dataDir != "" {
		if st, err := os.Stat(h.dataDir); err != nil || !st.IsDir() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "reason": "data directory unavailable"})
			return
		}
	}
	if h.dbPing != nil {
		if err := h.dbPing(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "reason": "database unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
