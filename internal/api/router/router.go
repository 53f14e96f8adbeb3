package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tour-booking/backend/config"
	"tour-booking/backend/internal/api/handler"
	"tour-booking/backend/internal/api/middleware"
	"tour-booking/backend/pkg/jwt"
)

// Deps 路由可选依赖
type Deps struct {
	// JWT 为 nil 时不启用认证
	JWT *jwt.Manager
	// Limiter 为 nil 时不启用限流
	Limiter middleware.RateLimiter
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, deps Deps, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	if cfg.Server.BodyLimit > 0 {
		r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	}

	// ── 健康检查 ──
	r.GET("/health", h.Health.Check)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	if deps.Limiter != nil {
		v1.Use(middleware.RateLimit(deps.Limiter, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger))
	}
	if deps.JWT != nil {
		v1.Use(middleware.JWTAuth(deps.JWT))
	}

	// 导游可用性模块
	availability := v1.Group("/guide-availability")
	{
		availability.POST("/check/:guideId", h.GuideAvailability.CheckAvailability)
		availability.POST("/leave/:guideId", h.GuideAvailability.RequestLeave)
		availability.PATCH("/status/:guideId", h.GuideAvailability.UpdateAvailability)
		availability.GET("/schedule/:guideId", h.GuideAvailability.GetGuideSchedule)
		availability.GET("/schedule/:guideId/export", h.GuideAvailability.ExportSchedule)
		availability.GET("/schedule/:guideId/calendar.ics", h.GuideAvailability.ScheduleCalendar)
	}

	return r
}
