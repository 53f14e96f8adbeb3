package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"tour-booking/backend/internal/dto"
	"tour-booking/backend/internal/service"
	apperrors "tour-booking/backend/pkg/errors"
	"tour-booking/backend/pkg/response"
)

// GuideAvailabilityHandler 导游可用性模块 HTTP 处理器
type GuideAvailabilityHandler struct {
	availabilitySvc service.GuideAvailabilityService
	exportSvc       service.ScheduleExportService
	strictDateRange bool
}

// NewGuideAvailabilityHandler 创建 GuideAvailabilityHandler
// strictDateRange 为 true 时拒绝 startDate 晚于 endDate 的请求；
// 为 false 时倒置区间原样下传，查询不会命中任何记录
func NewGuideAvailabilityHandler(availabilitySvc service.GuideAvailabilityService, exportSvc service.ScheduleExportService, strictDateRange bool) *GuideAvailabilityHandler {
	return &GuideAvailabilityHandler{
		availabilitySvc: availabilitySvc,
		exportSvc:       exportSvc,
		strictDateRange: strictDateRange,
	}
}

// CheckAvailability 检查导游在区间内是否可用
// POST /api/v1/guide-availability/check/:guideId
func (h *GuideAvailabilityHandler) CheckAvailability(c *gin.Context) {
	guideID, ok := h.bindGuideID(c)
	if !ok {
		return
	}

	var req dto.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "startDate and endDate are required")
		return
	}

	r, ok := h.parseRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	isAvailable, err := h.availabilitySvc.CheckAvailability(c.Request.Context(), guideID, r.Start, r.End)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, gin.H{"isAvailable": isAvailable})
}

// RequestLeave 提交请假申请
// POST /api/v1/guide-availability/leave/:guideId
func (h *GuideAvailabilityHandler) RequestLeave(c *gin.Context) {
	guideID, ok := h.bindGuideID(c)
	if !ok {
		return
	}

	var req dto.RequestLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "startDate and endDate are required")
		return
	}

	r, ok := h.parseRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	leave, err := h.availabilitySvc.RequestLeave(c.Request.Context(), guideID, r.Start, r.End, req.Reason)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Created(c, gin.H{"leaveRequest": dto.NewLeaveRequestResponse(leave)})
}

// UpdateAvailability 追加可用性状态记录
// PATCH /api/v1/guide-availability/status/:guideId
func (h *GuideAvailabilityHandler) UpdateAvailability(c *gin.Context) {
	guideID, ok := h.bindGuideID(c)
	if !ok {
		return
	}

	var req dto.UpdateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "startDate, endDate and status are required")
		return
	}

	r, ok := h.parseRange(c, req.StartDate, req.EndDate)
	if !ok {
		return
	}

	record, err := h.availabilitySvc.UpdateAvailabilityStatus(c.Request.Context(), guideID, r.Start, r.End, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.OK(c, gin.H{"availability": dto.NewAvailabilityResponse(record)})
}

// GetGuideSchedule 查询导游日程
// GET /api/v1/guide-availability/schedule/:guideId?startDate=&endDate=
func (h *GuideAvailabilityHandler) GetGuideSchedule(c *gin.Context) {
	guideID, r, ok := h.bindScheduleQuery(c)
	if !ok {
		return
	}

	schedule, err := h.availabilitySvc.GetGuideSchedule(c.Request.Context(), guideID, r.Start, r.End)
	if err != nil {
		h.handleError(c, err)
		return
	}

	resp := dto.GuideScheduleResponse{
		Tours:        make([]dto.ScheduledTourResponse, 0, len(schedule.Tours)),
		Leaves:       make([]dto.LeaveRequestResponse, 0, len(schedule.Leaves)),
		Availability: make([]dto.AvailabilityResponse, 0, len(schedule.Availability)),
	}
	for i := range schedule.Tours {
		resp.Tours = append(resp.Tours, dto.NewScheduledTourResponse(&schedule.Tours[i]))
	}
	for i := range schedule.Leaves {
		resp.Leaves = append(resp.Leaves, dto.NewLeaveRequestResponse(&schedule.Leaves[i]))
	}
	for i := range schedule.Availability {
		resp.Availability = append(resp.Availability, dto.NewAvailabilityResponse(&schedule.Availability[i]))
	}

	response.OK(c, gin.H{"schedule": resp})
}

// ExportSchedule 导出导游日程为 Excel
// GET /api/v1/guide-availability/schedule/:guideId/export?startDate=&endDate=
func (h *GuideAvailabilityHandler) ExportSchedule(c *gin.Context) {
	guideID, r, ok := h.bindScheduleQuery(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportExcel(c.Request.Context(), guideID, r.Start, r.End)
	if err != nil {
		h.handleError(c, err)
		return
	}

	const contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

// ScheduleCalendar 导出导游日程为 iCalendar
// GET /api/v1/guide-availability/schedule/:guideId/calendar.ics?startDate=&endDate=
func (h *GuideAvailabilityHandler) ScheduleCalendar(c *gin.Context) {
	guideID, r, ok := h.bindScheduleQuery(c)
	if !ok {
		return
	}

	data, filename, err := h.exportSvc.ExportICS(c.Request.Context(), guideID, r.Start, r.End)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", "inline; filename="+filename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

// ── 内部辅助方法 ──

func (h *GuideAvailabilityHandler) bindGuideID(c *gin.Context) (string, bool) {
	var path dto.GuidePath
	if err := c.ShouldBindUri(&path); err != nil {
		response.BadRequest(c, "Invalid guide id")
		return "", false
	}
	return path.GuideID, true
}

func (h *GuideAvailabilityHandler) bindScheduleQuery(c *gin.Context) (string, dto.DateRange, bool) {
	guideID, ok := h.bindGuideID(c)
	if !ok {
		return "", dto.DateRange{}, false
	}

	var q dto.ScheduleQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "startDate and endDate query parameters are required")
		return "", dto.DateRange{}, false
	}

	r, ok := h.parseRange(c, q.StartDate, q.EndDate)
	return guideID, r, ok
}

func (h *GuideAvailabilityHandler) parseRange(c *gin.Context, start, end string) (dto.DateRange, bool) {
	r, err := dto.ParseRange(start, end)
	if err != nil {
		response.BadRequest(c, err.Error())
		return dto.DateRange{}, false
	}
	if h.strictDateRange && r.Inverted() {
		response.BadRequest(c, "startDate must not be after endDate")
		return dto.DateRange{}, false
	}
	return r, true
}

// handleError 业务错误按自身状态码输出；其余错误统一 500
func (h *GuideAvailabilityHandler) handleError(c *gin.Context, err error) {
	if appErr, ok := apperrors.As(err); ok {
		response.Error(c, appErr.StatusCode, appErr.Message)
		return
	}
	c.Error(err)
	response.InternalError(c)
}
