package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tour-booking/backend/internal/model"
)

// LeaveRequestRepository 请假申请数据访问接口（只追加）
type LeaveRequestRepository interface {
	// FindApprovedOverlapping 查找与 [start, end] 重叠的一条已批准请假；无记录返回 (nil, nil)
	FindApprovedOverlapping(ctx context.Context, guideID string, start, end time.Time) (*model.GuideLeaveRequest, error)
	// FindPendingOverlapping 查找与 [start, end] 重叠的一条待审批请假；无记录返回 (nil, nil)
	FindPendingOverlapping(ctx context.Context, guideID string, start, end time.Time) (*model.GuideLeaveRequest, error)
	ListContained(ctx context.Context, guideID string, start, end time.Time) ([]model.GuideLeaveRequest, error)
	Create(ctx context.Context, leave *model.GuideLeaveRequest) error
}

type leaveRequestRepo struct {
	db *gorm.DB
}

// NewLeaveRequestRepo 创建 LeaveRequestRepository 实例
func NewLeaveRequestRepo(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepo{db: db}
}

func (r *leaveRequestRepo) FindApprovedOverlapping(ctx context.Context, guideID string, start, end time.Time) (*model.GuideLeaveRequest, error) {
	return r.findOverlapping(ctx, guideID, model.LeaveStatusApproved, start, end)
}

func (r *leaveRequestRepo) FindPendingOverlapping(ctx context.Context, guideID string, start, end time.Time) (*model.GuideLeaveRequest, error) {
	return r.findOverlapping(ctx, guideID, model.LeaveStatusPending, start, end)
}

func (r *leaveRequestRepo) findOverlapping(ctx context.Context, guideID, status string, start, end time.Time) (*model.GuideLeaveRequest, error) {
	var leaves []model.GuideLeaveRequest
	err := r.db.WithContext(ctx).
		Where("guide_id = ? AND status = ?", guideID, status).
		Where("start_date <= ? AND end_date >= ?", end, start).
		Limit(1).
		Find(&leaves).Error
	if err != nil || len(leaves) == 0 {
		return nil, err
	}
	return &leaves[0], nil
}

func (r *leaveRequestRepo) ListContained(ctx context.Context, guideID string, start, end time.Time) ([]model.GuideLeaveRequest, error) {
	leaves := []model.GuideLeaveRequest{}
	err := r.db.WithContext(ctx).
		Where("guide_id = ? AND start_date >= ? AND end_date <= ?", guideID, start, end).
		Order("start_date ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *leaveRequestRepo) Create(ctx context.Context, leave *model.GuideLeaveRequest) error {
	return r.db.WithContext(ctx).Create(leave).Error
}
