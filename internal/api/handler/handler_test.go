package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"tour-booking/backend/internal/model"
	"tour-booking/backend/internal/service"
	"tour-booking/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testGuideID = "6f1c2d3e-4b5a-4c7d-8e9f-0a1b2c3d4e5f"

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock GuideAvailabilityService ──

type mockAvailabilityService struct {
	called     bool
	guideID    string
	start, end time.Time
	reason     string
	status     string

	checkErr      error
	leaveResult   *model.GuideLeaveRequest
	leaveErr      error
	updateResult  *model.GuideAvailabilitySchedule
	updateErr     error
	scheduleValue *service.GuideSchedule
	scheduleErr   error
}

func (m *mockAvailabilityService) record(guideID string, start, end time.Time) {
	m.called = true
	m.guideID, m.start, m.end = guideID, start, end
}

func (m *mockAvailabilityService) CheckAvailability(_ context.Context, guideID string, start, end time.Time) (bool, error) {
	m.record(guideID, start, end)
	if m.checkErr != nil {
		return false, m.checkErr
	}
	return true, nil
}

func (m *mockAvailabilityService) RequestLeave(_ context.Context, guideID string, start, end time.Time, reason string) (*model.GuideLeaveRequest, error) {
	m.record(guideID, start, end)
	m.reason = reason
	return m.leaveResult, m.leaveErr
}

func (m *mockAvailabilityService) UpdateAvailabilityStatus(_ context.Context, guideID string, start, end time.Time, status string) (*model.GuideAvailabilitySchedule, error) {
	m.record(guideID, start, end)
	m.status = status
	return m.updateResult, m.updateErr
}

func (m *mockAvailabilityService) GetGuideSchedule(_ context.Context, guideID string, start, end time.Time) (*service.GuideSchedule, error) {
	m.record(guideID, start, end)
	return m.scheduleValue, m.scheduleErr
}

// ── Mock ScheduleExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	ics      []byte
	filename string
	err      error
}

func (m *mockExportService) ExportExcel(_ context.Context, _ string, _, _ time.Time) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

func (m *mockExportService) ExportICS(_ context.Context, _ string, _, _ time.Time) ([]byte, string, error) {
	return m.ics, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupRouter(avail *mockAvailabilityService, export *mockExportService, strict bool) *gin.Engine {
	if export == nil {
		export = &mockExportService{}
	}
	h := NewGuideAvailabilityHandler(avail, export, strict)

	r := gin.New()
	g := r.Group("/api/v1/guide-availability")
	g.POST("/check/:guideId", h.CheckAvailability)
	g.POST("/leave/:guideId", h.RequestLeave)
	g.PATCH("/status/:guideId", h.UpdateAvailability)
	g.GET("/schedule/:guideId", h.GetGuideSchedule)
	g.GET("/schedule/:guideId/export", h.ExportSchedule)
	g.GET("/schedule/:guideId/calendar.ics", h.ScheduleCalendar)
	return r
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func doRequest(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

func dataField(t *testing.T, resp response.Response, key string) interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data 应为对象，实际 %T", resp.Data)
	}
	v, ok := data[key]
	if !ok {
		t.Fatalf("data 缺少字段 %s", key)
	}
	return v
}

// ═══════════════════════════════════════════════════════════
// CheckAvailability
// ═══════════════════════════════════════════════════════════

func TestCheckAvailability_Success(t *testing.T) {
	mock := &mockAvailabilityService{}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "POST", "/api/v1/guide-availability/check/"+testGuideID, jsonBody(map[string]string{
		"startDate": "2025-03-11",
		"endDate":   "2025-03-15T00:00:00.000Z",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp.Status != "success" {
		t.Errorf("expected status success, got %s", resp.Status)
	}
	if dataField(t, resp, "isAvailable") != true {
		t.Error("expected isAvailable=true")
	}
	if mock.guideID != testGuideID {
		t.Errorf("guideId 未正确传递: %s", mock.guideID)
	}
	if !mock.start.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)) || !mock.end.Equal(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("日期解析不符: %v ~ %v", mock.start, mock.end)
	}
}

func TestCheckAvailability_Conflict(t *testing.T) {
	mock := &mockAvailabilityService{checkErr: service.ErrExistingTours}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "POST", "/api/v1/guide-availability/check/"+testGuideID, jsonBody(map[string]string{
		"startDate": "2025-03-05", "endDate": "2025-03-06",
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Status != "fail" {
		t.Errorf("expected status fail, got %s", resp.Status)
	}
	if resp.Message != "Guide has existing tours during this period" {
		t.Errorf("unexpected message: %s", resp.Message)
	}
}

func TestCheckAvailability_DatabaseError(t *testing.T) {
	mock := &mockAvailabilityService{checkErr: errors.New("dial tcp: connection refused")}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "POST", "/api/v1/guide-availability/check/"+testGuideID, jsonBody(map[string]string{
		"startDate": "2025-03-05", "endDate": "2025-03-06",
	}))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Status != "error" {
		t.Errorf("expected status error, got %s", resp.Status)
	}
	if strings.Contains(resp.Message, "connection refused") {
		t.Error("内部错误细节不应暴露给调用方")
	}
}

func TestCheckAvailability_InvalidGuideID(t *testing.T) {
	mock := &mockAvailabilityService{}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "POST", "/api/v1/guide-availability/check/not-a-uuid", jsonBody(map[string]string{
		"startDate": "2025-03-05", "endDate": "2025-03-06",
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if mock.called {
		t.Error("非法 guideId 不应调用服务层")
	}
}

func TestCheckAvailability_MissingFields(t *testing.T) {
	mock := &mockAvailabilityService{}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "POST", "/api/v1/guide-availability/check/"+testGuideID, jsonBody(map[string]string{
		"startDate": "2025-03-05",
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if mock.called {
		t.Error("缺少字段时不应调用服务层")
	}
}

func TestCheckAvailability_InvalidDate(t *testing.T) {
	mock := &mockAvailabilityService{}
	r := setupRouter(mock, nil, false)

	w := doRequest(r, "POST", "/api/v1/guide-availability/check/"+testGuideID, jsonBody(map[string]string{
		"startDate": "next tuesday", "endDate": "2025-03-06",
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(parseResponse(w).Message, "startDate") {
		t.Error("错误信息应指出非法字段")
	}
}

func TestCheckAvailability_InvertedRange(t *testing.T) {
	body := map[string]string{"startDate": "2025-03-10", "endDate": "2025-03-01"}

	t.Run("strict", func(t *testing.T) {
		mock := &mockAvailabilityService{}
		r := setupRouter(mock, nil, true)

		w := doRequest(r, "POST", "/api/v1/guide-availability/check/"+testGuideID, jsonBody(body))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if mock.called {
			t.Error("严格模式下倒置区间不应调用服务层")
		}
	})

	t.Run("lenient", func(t *testing.T) {
		mock := &mockAvailabilityService{}
		r := setupRouter(mock, nil, false)

		w := doRequest(r, "POST", "/api/v1/guide-availability/check/"+testGuideID, jsonBody(body))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !mock.called {
			t.Error("宽松模式下倒置区间应原样下传")
		}
	})
}

// ═══════════════════════════════════════════════════════════
// RequestLeave
// ═══════════════════════════════════════════════════════════

func TestRequestLeave_Created(t *testing.T) {
	mock := &mockAvailabilityService{
		leaveResult: &model.GuideLeaveRequest{
			BaseModel: model.BaseModel{ID: "leave-1"},
			GuideID:   testGuideID,
			StartDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC),
			Reason:    "family",
			Status:    model.LeaveStatusPending,
		},
	}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "POST", "/api/v1/guide-availability/leave/"+testGuideID, jsonBody(map[string]string{
		"startDate": "2025-05-01", "endDate": "2025-05-03", "reason": "family",
	}))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	leave, ok := dataField(t, parseResponse(w), "leaveRequest").(map[string]interface{})
	if !ok {
		t.Fatal("leaveRequest 应为对象")
	}
	if leave["status"] != "PENDING" || leave["id"] != "leave-1" || leave["guideId"] != testGuideID {
		t.Errorf("unexpected leaveRequest: %v", leave)
	}
	if mock.reason != "family" {
		t.Errorf("reason 未正确传递: %q", mock.reason)
	}
}

func TestRequestLeave_Conflict(t *testing.T) {
	mock := &mockAvailabilityService{leaveErr: service.ErrApprovedLeave}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "POST", "/api/v1/guide-availability/leave/"+testGuideID, jsonBody(map[string]string{
		"startDate": "2025-05-01", "endDate": "2025-05-03",
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if parseResponse(w).Message != "Guide is on approved leave during this period" {
		t.Errorf("unexpected message: %s", w.Body.String())
	}
}

func TestRequestLeave_InProgress(t *testing.T) {
	mock := &mockAvailabilityService{leaveErr: service.ErrLeaveInProgress}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "POST", "/api/v1/guide-availability/leave/"+testGuideID, jsonBody(map[string]string{
		"startDate": "2025-05-01", "endDate": "2025-05-03",
	}))

	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestRequestLeave_PendingOverlap(t *testing.T) {
	mock := &mockAvailabilityService{leaveErr: service.ErrPendingLeave}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "POST", "/api/v1/guide-availability/leave/"+testGuideID, jsonBody(map[string]string{
		"startDate": "2025-05-01", "endDate": "2025-05-03",
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Status != "fail" || resp.Message != "Guide already has a pending leave request during this period" {
		t.Errorf("unexpected response: %s", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// UpdateAvailability
// ═══════════════════════════════════════════════════════════

func TestUpdateAvailability_Success(t *testing.T) {
	mock := &mockAvailabilityService{
		updateResult: &model.GuideAvailabilitySchedule{
			BaseModel: model.BaseModel{ID: "avail-1"},
			GuideID:   testGuideID,
			Status:    "on-call",
		},
	}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "PATCH", "/api/v1/guide-availability/status/"+testGuideID, jsonBody(map[string]string{
		"startDate": "2025-09-01", "endDate": "2025-09-05", "status": "on-call",
	}))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	avail, ok := dataField(t, parseResponse(w), "availability").(map[string]interface{})
	if !ok || avail["status"] != "on-call" {
		t.Errorf("unexpected availability: %v", avail)
	}
	if mock.status != "on-call" {
		t.Errorf("status 未正确传递: %q", mock.status)
	}
}

func TestUpdateAvailability_MissingStatus(t *testing.T) {
	mock := &mockAvailabilityService{}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "PATCH", "/api/v1/guide-availability/status/"+testGuideID, jsonBody(map[string]string{
		"startDate": "2025-09-01", "endDate": "2025-09-05",
	}))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// GetGuideSchedule
// ═══════════════════════════════════════════════════════════

func TestGetGuideSchedule_Success(t *testing.T) {
	mock := &mockAvailabilityService{
		scheduleValue: &service.GuideSchedule{
			Tours: []model.TourSchedule{{
				BaseModel: model.BaseModel{ID: "sch-1"},
				StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
				EndDate:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
				Status:    model.ScheduleStatusUpcoming,
				Tour:      &model.Tour{Title: "Everest Base Camp Trek", Duration: 14},
			}},
			Leaves:       []model.GuideLeaveRequest{},
			Availability: []model.GuideAvailabilitySchedule{},
		},
	}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "GET", "/api/v1/guide-availability/schedule/"+testGuideID+"?startDate=2025-03-01&endDate=2025-03-31", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	schedule, ok := dataField(t, parseResponse(w), "schedule").(map[string]interface{})
	if !ok {
		t.Fatal("schedule 应为对象")
	}
	tours, _ := schedule["tours"].([]interface{})
	if len(tours) != 1 {
		t.Fatalf("expected 1 tour, got %v", schedule["tours"])
	}
	tour := tours[0].(map[string]interface{})["tour"].(map[string]interface{})
	if tour["title"] != "Everest Base Camp Trek" || tour["duration"] != float64(14) {
		t.Errorf("unexpected tour brief: %v", tour)
	}
	// 空集合输出为 []，不为 null
	if leaves, ok := schedule["leaves"].([]interface{}); !ok || len(leaves) != 0 {
		t.Errorf("expected empty leaves array, got %v", schedule["leaves"])
	}
	if avail, ok := schedule["availability"].([]interface{}); !ok || len(avail) != 0 {
		t.Errorf("expected empty availability array, got %v", schedule["availability"])
	}
}

func TestGetGuideSchedule_MissingQuery(t *testing.T) {
	mock := &mockAvailabilityService{}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "GET", "/api/v1/guide-availability/schedule/"+testGuideID+"?startDate=2025-03-01", nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestGetGuideSchedule_Error(t *testing.T) {
	mock := &mockAvailabilityService{scheduleErr: errors.New("query failed")}
	r := setupRouter(mock, nil, true)

	w := doRequest(r, "GET", "/api/v1/guide-availability/schedule/"+testGuideID+"?startDate=2025-03-01&endDate=2025-03-31", nil)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Export
// ═══════════════════════════════════════════════════════════

func TestExportSchedule_Success(t *testing.T) {
	export := &mockExportService{
		buf:      bytes.NewBufferString("xlsx-bytes"),
		filename: "guide-schedule_" + testGuideID + "_2025-03-01_2025-03-31.xlsx",
	}
	r := setupRouter(&mockAvailabilityService{}, export, true)

	w := doRequest(r, "GET", "/api/v1/guide-availability/schedule/"+testGuideID+"/export?startDate=2025-03-01&endDate=2025-03-31", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("unexpected Content-Type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}
	if w.Body.String() != "xlsx-bytes" {
		t.Error("响应体应为导出文件内容")
	}
}

func TestExportSchedule_GuideNotFound(t *testing.T) {
	export := &mockExportService{err: service.ErrGuideNotFound}
	r := setupRouter(&mockAvailabilityService{}, export, true)

	w := doRequest(r, "GET", "/api/v1/guide-availability/schedule/"+testGuideID+"/export?startDate=2025-03-01&endDate=2025-03-31", nil)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if parseResponse(w).Status != "fail" {
		t.Error("expected status fail")
	}
}

func TestScheduleCalendar_Success(t *testing.T) {
	export := &mockExportService{
		ics:      []byte("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"),
		filename: "guide-schedule_" + testGuideID + ".ics",
	}
	r := setupRouter(&mockAvailabilityService{}, export, true)

	w := doRequest(r, "GET", "/api/v1/guide-availability/schedule/"+testGuideID+"/calendar.ics?startDate=2025-03-01&endDate=2025-03-31", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("unexpected Content-Type: %s", ct)
	}
}

// ═══════════════════════════════════════════════════════════
// Health
// ═══════════════════════════════════════════════════════════

func TestHealthHandler_Check(t *testing.T) {
	okProbe := Probe{Name: "database", Ping: func(context.Context) error { return nil }}
	badProbe := Probe{Name: "redis", Ping: func(context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name   string
		probes []Probe
		code   int
		status string
	}{
		{"all healthy", []Probe{okProbe}, http.StatusOK, "ok"},
		{"no probes", nil, http.StatusOK, "ok"},
		{"one degraded", []Probe{okProbe, badProbe}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.probes...)
			r := gin.New()
			r.GET("/health", h.Check)

			w := doRequest(r, "GET", "/health", nil)
			if w.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, w.Code)
			}
			var body map[string]interface{}
			json.Unmarshal(w.Body.Bytes(), &body)
			if body["status"] != tt.status {
				t.Errorf("expected status %s, got %v", tt.status, body["status"])
			}
		})
	}
}
