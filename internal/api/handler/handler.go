package handler

import (
	"tour-booking/backend/config"
	"tour-booking/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	GuideAvailability *GuideAvailabilityHandler
	Health            *HealthHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service, probes ...Probe) *Handler {
	return &Handler{
		GuideAvailability: NewGuideAvailabilityHandler(svc.GuideAvailability, svc.ScheduleExport, cfg.Feature.StrictDateRange),
		Health:            NewHealthHandler(probes...),
	}
}
