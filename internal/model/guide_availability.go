package model

import "time"

// 请假申请状态
const (
	LeaveStatusPending  = "PENDING"
	LeaveStatusApproved = "APPROVED"
	LeaveStatusRejected = "REJECTED"
)

// GuideLeaveRequest 导游请假申请 — 对应 guide_leave_requests
// 只有 APPROVED 状态参与可用性冲突判断
type GuideLeaveRequest struct {
	BaseModel
	GuideID   string    `gorm:"type:uuid;not null;index:idx_leave_guide_dates"      json:"guideId"`
	StartDate time.Time `gorm:"not null;index:idx_leave_guide_dates"                json:"startDate"`
	EndDate   time.Time `gorm:"not null;index:idx_leave_guide_dates"                json:"endDate"`
	Reason    string    `gorm:"type:text"                                           json:"reason"`
	Status    string    `gorm:"type:varchar(20);not null;default:'PENDING'"         json:"status"`
}

// TableName 指定表名
func (GuideLeaveRequest) TableName() string { return "guide_leave_requests" }

// GuideBlackoutDate 导游禁排日 — 对应 guide_blackout_dates
type GuideBlackoutDate struct {
	BaseModel
	GuideID string    `gorm:"type:uuid;not null;index:idx_blackout_guide_date" json:"guideId"`
	Date    time.Time `gorm:"not null;index:idx_blackout_guide_date"           json:"date"`
	Reason  string    `gorm:"type:varchar(200)"                                json:"reason,omitempty"`
}

// TableName 指定表名
func (GuideBlackoutDate) TableName() string { return "guide_blackout_dates" }

// GuideAvailabilitySchedule 导游可用性状态记录 — 对应 guide_availability_schedules
// 只追加，不合并、不去重；Status 为调用方提供的任意字符串
type GuideAvailabilitySchedule struct {
	BaseModel
	GuideID   string    `gorm:"type:uuid;not null;index:idx_avail_guide_dates" json:"guideId"`
	StartDate time.Time `gorm:"not null;index:idx_avail_guide_dates"           json:"startDate"`
	EndDate   time.Time `gorm:"not null;index:idx_avail_guide_dates"           json:"endDate"`
	Status    string    `gorm:"type:varchar(50);not null"                      json:"status"`
}

// TableName 指定表名
func (GuideAvailabilitySchedule) TableName() string { return "guide_availability_schedules" }
