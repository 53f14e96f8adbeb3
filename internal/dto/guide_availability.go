package dto

import (
	"time"

	"tour-booking/backend/internal/model"
)

// ── 导游可用性模块 DTO ──

// GuidePath 路径参数
type GuidePath struct {
	GuideID string `uri:"guideId" binding:"required,uuid"`
}

// CheckAvailabilityRequest 可用性检查请求
type CheckAvailabilityRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate"   binding:"required"`
}

// RequestLeaveRequest 请假申请请求
type RequestLeaveRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate"   binding:"required"`
	Reason    string `json:"reason"    binding:"max=2000"`
}

// UpdateAvailabilityRequest 更新可用性状态请求
type UpdateAvailabilityRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate"   binding:"required"`
	Status    string `json:"status"    binding:"required,max=50"`
}

// ScheduleQuery 日程查询参数
type ScheduleQuery struct {
	StartDate string `form:"startDate" binding:"required"`
	EndDate   string `form:"endDate"   binding:"required"`
}

// ── 响应 ──

// LeaveRequestResponse 请假申请
type LeaveRequestResponse struct {
	ID        string    `json:"id"`
	GuideID   string    `json:"guideId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AvailabilityResponse 可用性状态记录
type AvailabilityResponse struct {
	ID        string    `json:"id"`
	GuideID   string    `json:"guideId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TourBrief 团期附带的线路展示字段
type TourBrief struct {
	Title    string `json:"title"`
	Duration int    `json:"duration"`
}

// ScheduledTourResponse 导游被分配的团期
type ScheduledTourResponse struct {
	ID             string     `json:"id"`
	TourID         string     `json:"tourId"`
	StartDate      time.Time  `json:"startDate"`
	EndDate        time.Time  `json:"endDate"`
	Price          float64    `json:"price"`
	AvailableSeats int        `json:"availableSeats"`
	Status         string     `json:"status"`
	Tour           *TourBrief `json:"tour"`
}

// GuideScheduleResponse 导游日程聚合
type GuideScheduleResponse struct {
	Tours        []ScheduledTourResponse `json:"tours"`
	Leaves       []LeaveRequestResponse  `json:"leaves"`
	Availability []AvailabilityResponse  `json:"availability"`
}

// ── 转换 ──

// NewLeaveRequestResponse 模型转响应
func NewLeaveRequestResponse(l *model.GuideLeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:        l.ID,
		GuideID:   l.GuideID,
		StartDate: l.StartDate,
		EndDate:   l.EndDate,
		Reason:    l.Reason,
		Status:    l.Status,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// NewAvailabilityResponse 模型转响应
func NewAvailabilityResponse(a *model.GuideAvailabilitySchedule) AvailabilityResponse {
	return AvailabilityResponse{
		ID:        a.ID,
		GuideID:   a.GuideID,
		StartDate: a.StartDate,
		EndDate:   a.EndDate,
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// NewScheduledTourResponse 模型转响应
func NewScheduledTourResponse(s *model.TourSchedule) ScheduledTourResponse {
	resp := ScheduledTourResponse{
		ID:             s.ID,
		TourID:         s.TourID,
		StartDate:      s.StartDate,
		EndDate:        s.EndDate,
		Price:          s.Price,
		AvailableSeats: s.AvailableSeats,
		Status:         s.Status,
	}
	if s.Tour != nil {
		resp.Tour = &TourBrief{Title: s.Tour.Title, Duration: s.Tour.Duration}
	}
	return resp
}
