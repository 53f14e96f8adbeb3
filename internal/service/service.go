package service

import (
	"time"

	"go.uber.org/zap"

	"tour-booking/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	GuideAvailability GuideAvailabilityService
	ScheduleExport    ScheduleExportService
}

// Options 可选依赖
type Options struct {
	// LeaveLocker 非 nil 时请假申请在检查与写入期间持有导游级锁
	LeaveLocker  LeaveLocker
	LeaveLockTTL time.Duration
}

// NewService 创建 Service 聚合
func NewService(repo *repository.Repository, opts Options, logger *zap.Logger) *Service {
	availability := NewGuideAvailabilityService(repo, opts.LeaveLocker, opts.LeaveLockTTL, logger)
	return &Service{
		GuideAvailability: availability,
		ScheduleExport:    NewScheduleExportService(repo, availability, logger),
	}
}
