package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tour-booking/backend/internal/model"
	"tour-booking/backend/internal/repository"
	apperrors "tour-booking/backend/pkg/errors"
	"tour-booking/backend/pkg/redis"
)

// ── 导游可用性模块业务错误 ──
// 冲突信息按检查顺序排列，调用方据此区分冲突来源

var (
	ErrExistingTours   = apperrors.BadRequest("Guide has existing tours during this period")
	ErrApprovedLeave   = apperrors.BadRequest("Guide is on approved leave during this period")
	ErrBlackoutDate    = apperrors.BadRequest("Guide has blackout dates during this period")
	ErrPendingLeave    = apperrors.BadRequest("Guide already has a pending leave request during this period")
	ErrLeaveInProgress = apperrors.New("Another leave request for this guide is being processed", http.StatusConflict)
)

const defaultLeaveLockTTL = 10 * time.Second

// LeaveLocker 导游级互斥锁
// 配置后请假申请串行执行，且与待审批请假重叠的申请会被拒绝
type LeaveLocker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// GuideSchedule 导游日程聚合结果
// 三组数据各自按包含关系过滤，互不校验
type GuideSchedule struct {
	Tours        []model.TourSchedule
	Leaves       []model.GuideLeaveRequest
	Availability []model.GuideAvailabilitySchedule
}

// GuideAvailabilityService 导游可用性业务接口
//
// 日期区间均为闭区间。CheckAvailability 使用重叠判断
// (a.start <= b.end AND a.end >= b.start)，GetGuideSchedule 使用包含判断
// (record.start >= start AND record.end <= end)，两者刻意不同。
type GuideAvailabilityService interface {
	// CheckAvailability 可用时返回 true；存在冲突时返回对应的冲突错误，不会返回 false
	CheckAvailability(ctx context.Context, guideID string, start, end time.Time) (bool, error)
	// RequestLeave 检查可用性后创建 PENDING 请假申请
	// 启用请假锁时额外拒绝与待审批请假重叠的申请
	RequestLeave(ctx context.Context, guideID string, start, end time.Time, reason string) (*model.GuideLeaveRequest, error)
	// UpdateAvailabilityStatus 追加一条可用性状态记录，不做任何校验
	UpdateAvailabilityStatus(ctx context.Context, guideID string, start, end time.Time, status string) (*model.GuideAvailabilitySchedule, error)
	// GetGuideSchedule 并发查询团期、请假、状态记录
	GetGuideSchedule(ctx context.Context, guideID string, start, end time.Time) (*GuideSchedule, error)
}

type guideAvailabilityService struct {
	repo         *repository.Repository
	locker       LeaveLocker
	leaveLockTTL time.Duration
	logger       *zap.Logger
}

// NewGuideAvailabilityService 创建 GuideAvailabilityService 实例
// locker 为 nil 时请假申请不加锁，重叠的待审批请假均可写入
func NewGuideAvailabilityService(repo *repository.Repository, locker LeaveLocker, leaveLockTTL time.Duration, logger *zap.Logger) GuideAvailabilityService {
	if leaveLockTTL <= 0 {
		leaveLockTTL = defaultLeaveLockTTL
	}
	return &guideAvailabilityService{
		repo:         repo,
		locker:       locker,
		leaveLockTTL: leaveLockTTL,
		logger:       logger,
	}
}

// ────────────────────── CheckAvailability ──────────────────────

func (s *guideAvailabilityService) CheckAvailability(ctx context.Context, guideID string, start, end time.Time) (bool, error) {
	// 1. 已分配团期（硬冲突，优先级最高）
	hasTours, err := s.repo.TourSchedule.ExistsOverlappingForGuide(ctx, guideID, start, end)
	if err != nil {
		s.logger.Error("查询导游团期失败", zap.String("guide_id", guideID), zap.Error(err))
		return false, err
	}
	if hasTours {
		return false, ErrExistingTours
	}

	// 2. 已批准请假
	leave, err := s.repo.LeaveRequest.FindApprovedOverlapping(ctx, guideID, start, end)
	if err != nil {
		s.logger.Error("查询导游请假失败", zap.String("guide_id", guideID), zap.Error(err))
		return false, err
	}
	if leave != nil {
		return false, ErrApprovedLeave
	}

	// 3. 禁排日
	blackout, err := s.repo.BlackoutDate.FindWithin(ctx, guideID, start, end)
	if err != nil {
		s.logger.Error("查询导游禁排日失败", zap.String("guide_id", guideID), zap.Error(err))
		return false, err
	}
	if blackout != nil {
		return false, ErrBlackoutDate
	}

	return true, nil
}

// ────────────────────── RequestLeave ──────────────────────

func (s *guideAvailabilityService) RequestLeave(ctx context.Context, guideID string, start, end time.Time, reason string) (*model.GuideLeaveRequest, error) {
	if s.locker != nil {
		unlock, err := s.locker.Lock(ctx, "guide-leave:"+guideID, s.leaveLockTTL)
		switch {
		case errors.Is(err, redis.ErrLockHeld):
			return nil, ErrLeaveInProgress
		case err != nil:
			// 锁服务不可用时降级为无锁执行
			s.logger.Warn("获取请假锁失败，降级为无锁执行", zap.String("guide_id", guideID), zap.Error(err))
		default:
			defer unlock()
		}
	}

	if _, err := s.CheckAvailability(ctx, guideID, start, end); err != nil {
		return nil, err
	}

	// 锁内的待审批检查：同一导游的重叠申请只保留第一条
	if s.locker != nil {
		pending, err := s.repo.LeaveRequest.FindPendingOverlapping(ctx, guideID, start, end)
		if err != nil {
			s.logger.Error("查询待审批请假失败", zap.String("guide_id", guideID), zap.Error(err))
			return nil, err
		}
		if pending != nil {
			return nil, ErrPendingLeave
		}
	}

	leave := &model.GuideLeaveRequest{
		GuideID:   guideID,
		StartDate: start,
		EndDate:   end,
		Reason:    reason,
		Status:    model.LeaveStatusPending,
	}
	if err := s.repo.LeaveRequest.Create(ctx, leave); err != nil {
		s.logger.Error("创建请假申请失败", zap.String("guide_id", guideID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("请假申请已创建",
		zap.String("guide_id", guideID),
		zap.String("leave_id", leave.ID),
	)
	return leave, nil
}

// ────────────────────── UpdateAvailabilityStatus ──────────────────────

func (s *guideAvailabilityService) UpdateAvailabilityStatus(ctx context.Context, guideID string, start, end time.Time, status string) (*model.GuideAvailabilitySchedule, error) {
	record := &model.GuideAvailabilitySchedule{
		GuideID:   guideID,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}
	if err := s.repo.AvailabilitySchedule.Create(ctx, record); err != nil {
		s.logger.Error("创建可用性记录失败", zap.String("guide_id", guideID), zap.Error(err))
		return nil, err
	}
	return record, nil
}

// ────────────────────── GetGuideSchedule ──────────────────────

func (s *guideAvailabilityService) GetGuideSchedule(ctx context.Context, guideID string, start, end time.Time) (*GuideSchedule, error) {
	var result GuideSchedule
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		tours, err := s.repo.TourSchedule.ListContainedForGuide(gctx, guideID, start, end)
		result.Tours = tours
		return err
	})
	g.Go(func() error {
		leaves, err := s.repo.LeaveRequest.ListContained(gctx, guideID, start, end)
		result.Leaves = leaves
		return err
	})
	g.Go(func() error {
		records, err := s.repo.AvailabilitySchedule.ListContained(gctx, guideID, start, end)
		result.Availability = records
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("查询导游日程失败", zap.String("guide_id", guideID), zap.Error(err))
		return nil, err
	}

	if result.Tours == nil {
		result.Tours = []model.TourSchedule{}
	}
	if result.Leaves == nil {
		result.Leaves = []model.GuideLeaveRequest{}
	}
	if result.Availability == nil {
		result.Availability = []model.GuideAvailabilitySchedule{}
	}
	return &result, nil
}
