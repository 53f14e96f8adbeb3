package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tour-booking/backend/internal/model"
)

// TourScheduleRepository 团期数据访问接口
type TourScheduleRepository interface {
	// ExistsOverlappingForGuide 是否存在分配给该导游且与 [start, end] 重叠的团期
	ExistsOverlappingForGuide(ctx context.Context, guideID string, start, end time.Time) (bool, error)
	// ListContainedForGuide 列出分配给该导游且完全落在 [start, end] 内的团期（附带线路标题与天数）
	ListContainedForGuide(ctx context.Context, guideID string, start, end time.Time) ([]model.TourSchedule, error)
	// AdvanceStatuses 按日期推进团期状态，返回 (转为进行中数, 转为已完成数)
	AdvanceStatuses(ctx context.Context, now time.Time) (int64, int64, error)
}

type tourScheduleRepo struct {
	db *gorm.DB
}

// NewTourScheduleRepo 创建 TourScheduleRepository 实例
func NewTourScheduleRepo(db *gorm.DB) TourScheduleRepository {
	return &tourScheduleRepo{db: db}
}

// assignedTo 限定为分配给指定导游的团期
func assignedTo(guideID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN tour_schedule_guides tsg ON tsg.tour_schedule_id = tour_schedules.id").
			Where("tsg.tour_guide_id = ?", guideID)
	}
}

func (r *tourScheduleRepo) ExistsOverlappingForGuide(ctx context.Context, guideID string, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TourSchedule{}).
		Scopes(assignedTo(guideID)).
		Where("tour_schedules.start_date <= ? AND tour_schedules.end_date >= ?", end, start).
		Count(&count).Error
	return count > 0, err
}

func (r *tourScheduleRepo) ListContainedForGuide(ctx context.Context, guideID string, start, end time.Time) ([]model.TourSchedule, error) {
	schedules := []model.TourSchedule{}
	err := r.db.WithContext(ctx).
		Scopes(assignedTo(guideID)).
		Preload("Tour", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "title", "duration")
		}).
		Where("tour_schedules.start_date >= ? AND tour_schedules.end_date <= ?", start, end).
		Order("tour_schedules.start_date ASC").
		Find(&schedules).Error
	return schedules, err
}

func (r *tourScheduleRepo) AdvanceStatuses(ctx context.Context, now time.Time) (int64, int64, error) {
	var started, completed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.TourSchedule{}).
			Where("status IN ? AND end_date < ?",
				[]string{model.ScheduleStatusUpcoming, model.ScheduleStatusOngoing}, now).
			Update("status", model.ScheduleStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		completed = res.RowsAffected

		res = tx.Model(&model.TourSchedule{}).
			Where("status = ? AND start_date <= ?", model.ScheduleStatusUpcoming, now).
			Update("status", model.ScheduleStatusOngoing)
		if res.Error != nil {
			return res.Error
		}
		started = res.RowsAffected
		return nil
	})
	return started, completed, err
}
