package model

import "time"

// 团期状态
const (
	ScheduleStatusUpcoming  = "UPCOMING"
	ScheduleStatusOngoing   = "ONGOING"
	ScheduleStatusCompleted = "COMPLETED"
	ScheduleStatusCancelled = "CANCELLED"
)

// TourSchedule 团期 — 对应 tour_schedules
// 导游通过 tour_schedule_guides 多对多分配；被分配即视为硬冲突
type TourSchedule struct {
	BaseModel
	TourID         string    `gorm:"type:uuid;not null;index"                  json:"tourId"`
	StartDate      time.Time `gorm:"not null;index"                            json:"startDate"`
	EndDate        time.Time `gorm:"not null;index"                            json:"endDate"`
	Price          float64   `gorm:"not null"                                  json:"price"`
	AvailableSeats int       `gorm:"not null"                                  json:"availableSeats"`
	Status         string    `gorm:"type:varchar(20);not null;default:'UPCOMING'" json:"status"`

	// 关联
	Tour   *Tour       `gorm:"foreignKey:TourID"               json:"tour,omitempty"`
	Guides []TourGuide `gorm:"many2many:tour_schedule_guides;" json:"guides,omitempty"`
}

// TableName 指定表名
func (TourSchedule) TableName() string { return "tour_schedules" }
