package repository

import (
	"context"

	"gorm.io/gorm"

	"tour-booking/backend/internal/model"
)

// TourGuideRepository 导游数据访问接口
type TourGuideRepository interface {
	GetByID(ctx context.Context, id string) (*model.TourGuide, error)
}

type tourGuideRepo struct {
	db *gorm.DB
}

// NewTourGuideRepo 创建 TourGuideRepository 实例
func NewTourGuideRepo(db *gorm.DB) TourGuideRepository {
	return &tourGuideRepo{db: db}
}

func (r *tourGuideRepo) GetByID(ctx context.Context, id string) (*model.TourGuide, error) {
	var guide model.TourGuide
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&guide).Error; err != nil {
		return nil, err
	}
	return &guide, nil
}
