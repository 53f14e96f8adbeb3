package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Probe 依赖健康探针
type Probe struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler 健康检查
type HealthHandler struct {
	probes []Probe
}

// NewHealthHandler 创建 HealthHandler
func NewHealthHandler(probes ...Probe) *HealthHandler {
	return &HealthHandler{probes: probes}
}

// Check 依次探测各依赖，任一失败返回 503
// GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	code := http.StatusOK
	status := "ok"
	checks := gin.H{}
	for _, p := range h.probes {
		if err := p.Ping(ctx); err != nil {
			checks[p.Name] = err.Error()
			code = http.StatusServiceUnavailable
			status = "degraded"
			continue
		}
		checks[p.Name] = "ok"
	}

	c.JSON(code, gin.H{"status": status, "checks": checks})
}
