package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"tour-booking/backend/internal/model"
)

// BlackoutDateRepository 禁排日数据访问接口
type BlackoutDateRepository interface {
	// FindWithin 查找落在 [start, end] 内的一条禁排日；无记录返回 (nil, nil)
	FindWithin(ctx context.Context, guideID string, start, end time.Time) (*model.GuideBlackoutDate, error)
}

type blackoutDateRepo struct {
	db *gorm.DB
}

// NewBlackoutDateRepo 创建 BlackoutDateRepository 实例
func NewBlackoutDateRepo(db *gorm.DB) BlackoutDateRepository {
	return &blackoutDateRepo{db: db}
}

func (r *blackoutDateRepo) FindWithin(ctx context.Context, guideID string, start, end time.Time) (*model.GuideBlackoutDate, error) {
	var dates []model.GuideBlackoutDate
	err := r.db.WithContext(ctx).
		Where("guide_id = ? AND date >= ? AND date <= ?", guideID, start, end).
		Limit(1).
		Find(&dates).Error
	if err != nil || len(dates) == 0 {
		return nil, err
	}
	return &dates[0], nil
}
