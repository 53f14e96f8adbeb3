package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tour-booking/backend/internal/model"
)

// AvailabilityScheduleRepository 可用性状态记录数据访问接口（只追加）
type AvailabilityScheduleRepository interface {
	ListContained(ctx context.Context, guideID string, start, end time.Time) ([]model.GuideAvailabilitySchedule, error)
	Create(ctx context.Context, record *model.GuideAvailabilitySchedule) error
}

type availabilityScheduleRepo struct {
	db *gorm.DB
}

// NewAvailabilityScheduleRepo 创建 AvailabilityScheduleRepository 实例
func NewAvailabilityScheduleRepo(db *gorm.DB) AvailabilityScheduleRepository {
	return &availabilityScheduleRepo{db: db}
}

func (r *availabilityScheduleRepo) ListContained(ctx context.Context, guideID string, start, end time.Time) ([]model.GuideAvailabilitySchedule, error) {
	records := []model.GuideAvailabilitySchedule{}
	err := r.db.WithContext(ctx).
		Where("guide_id = ? AND start_date >= ? AND end_date <= ?", guideID, start, end).
		Order("start_date ASC, created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *availabilityScheduleRepo) Create(ctx context.Context, record *model.GuideAvailabilitySchedule) error {
	return r.db.WithContext(ctx).Create(record).Error
}
