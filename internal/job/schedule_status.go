package job

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tour-booking/backend/internal/repository"
)

// Scheduler 定时任务调度器
type Scheduler struct {
	cron   *cron.Cron
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewScheduler 创建调度器（UTC 时区，与日期存储一致）
func NewScheduler(repo *repository.Repository, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// RegisterScheduleStatus 注册团期状态推进任务
func (s *Scheduler) RegisterScheduleStatus(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.AdvanceScheduleStatuses(ctx)
	}); err != nil {
		return fmt.Errorf("注册团期状态任务失败: %w", err)
	}
	s.logger.Info("团期状态任务已注册", zap.String("spec", spec))
	return nil
}

// AdvanceScheduleStatuses 将已开始的团期置为 ONGOING，已结束的置为 COMPLETED
// 不触碰请假与可用性记录
func (s *Scheduler) AdvanceScheduleStatuses(ctx context.Context) {
	started, completed, err := s.repo.TourSchedule.AdvanceStatuses(ctx, s.now().UTC())
	if err != nil {
		s.logger.Error("推进团期状态失败", zap.Error(err))
		return
	}
	s.logger.Info("团期状态已推进",
		zap.Int64("ongoing", started),
		zap.Int64("completed", completed),
	)
}

// Start 启动调度器
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度器并等待运行中的任务结束
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
