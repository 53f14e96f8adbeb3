package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
// 以接口形式注入 Service，测试中可整体替换为内存实现
type Repository struct {
	db *gorm.DB

	Guide                TourGuideRepository
	TourSchedule         TourScheduleRepository
	LeaveRequest         LeaveRequestRepository
	BlackoutDate         BlackoutDateRepository
	AvailabilitySchedule AvailabilityScheduleRepository
	Catalog              CatalogRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:                   db,
		Guide:                NewTourGuideRepo(db),
		TourSchedule:         NewTourScheduleRepo(db),
		LeaveRequest:         NewLeaveRequestRepo(db),
		BlackoutDate:         NewBlackoutDateRepo(db),
		AvailabilitySchedule: NewAvailabilityScheduleRepo(db),
		Catalog:              NewCatalogRepo(db),
	}
}

// Transaction 在单个数据库事务中执行 fn
// fn 收到的 Repository 绑定事务连接；fn 返回错误时整体回滚
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// Ping 检查数据库连通性（健康检查使用）
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
