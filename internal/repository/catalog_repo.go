package repository

import (
	"context"

	"gorm.io/gorm"

	"tour-booking/backend/internal/model"
)

// CatalogRepository 基础数据（分类、目的地、导游、线路、团期、预订、评价）写入接口
// 仅供初始化数据使用；所有方法按自然键幂等
type CatalogRepository interface {
	FirstOrCreateCategory(ctx context.Context, c *model.TourCategory) error
	FirstOrCreateDestination(ctx context.Context, d *model.Destination) error
	FirstOrCreateGuide(ctx context.Context, g *model.TourGuide) error
	FirstOrCreateTour(ctx context.Context, t *model.Tour) error
	FirstOrCreateSchedule(ctx context.Context, s *model.TourSchedule) error
	FirstOrCreateBooking(ctx context.Context, b *model.TourBooking) error
	FirstOrCreateReview(ctx context.Context, r *model.TourReview) error
}

type catalogRepo struct {
	db *gorm.DB
}

// NewCatalogRepo 创建 CatalogRepository 实例
func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) FirstOrCreateCategory(ctx context.Context, c *model.TourCategory) error {
	return r.db.WithContext(ctx).Where("slug = ?", c.Slug).FirstOrCreate(c).Error
}

func (r *catalogRepo) FirstOrCreateDestination(ctx context.Context, d *model.Destination) error {
	return r.db.WithContext(ctx).Where("name = ? AND country = ?", d.Name, d.Country).FirstOrCreate(d).Error
}

func (r *catalogRepo) FirstOrCreateGuide(ctx context.Context, g *model.TourGuide) error {
	return r.db.WithContext(ctx).Where("email = ?", g.Email).FirstOrCreate(g).Error
}

// FirstOrCreateTour 新建时一并写入 TourGuides 关联
func (r *catalogRepo) FirstOrCreateTour(ctx context.Context, t *model.Tour) error {
	return r.db.WithContext(ctx).Where("slug = ?", t.Slug).FirstOrCreate(t).Error
}

// FirstOrCreateSchedule 以 (tour_id, start_date) 判重；新建时一并写入导游分配
func (r *catalogRepo) FirstOrCreateSchedule(ctx context.Context, s *model.TourSchedule) error {
	return r.db.WithContext(ctx).
		Where("tour_id = ? AND start_date = ?", s.TourID, s.StartDate).
		FirstOrCreate(s).Error
}

func (r *catalogRepo) FirstOrCreateBooking(ctx context.Context, b *model.TourBooking) error {
	return r.db.WithContext(ctx).Where("booking_ref = ?", b.BookingRef).FirstOrCreate(b).Error
}

func (r *catalogRepo) FirstOrCreateReview(ctx context.Context, rv *model.TourReview) error {
	return r.db.WithContext(ctx).Where("booking_id = ?", rv.BookingID).FirstOrCreate(rv).Error
}
