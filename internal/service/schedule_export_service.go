package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"tour-booking/backend/internal/model"
	"tour-booking/backend/internal/repository"
	apperrors "tour-booking/backend/pkg/errors"
)

// ── 日程导出模块业务错误 ──

var (
	ErrGuideNotFound      = apperrors.New("Guide not found", http.StatusNotFound)
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

const dateLayout = "2006-01-02"

// ScheduleExportService 导游日程导出接口
//
// 设计说明：
//   - 数据来源与 GetGuideSchedule 完全一致（包含关系过滤）
//   - Excel 单 Sheet，团期 / 请假 / 状态记录按开始日期混排
//   - iCalendar 以全天事件输出，DTEND 按 RFC 5545 取结束日次日
type ScheduleExportService interface {
	ExportExcel(ctx context.Context, guideID string, start, end time.Time) (*bytes.Buffer, string, error)
	ExportICS(ctx context.Context, guideID string, start, end time.Time) ([]byte, string, error)
}

type scheduleExportService struct {
	repo         *repository.Repository
	availability GuideAvailabilityService
	logger       *zap.Logger
}

// NewScheduleExportService 创建 ScheduleExportService 实例
func NewScheduleExportService(repo *repository.Repository, availability GuideAvailabilityService, logger *zap.Logger) ScheduleExportService {
	return &scheduleExportService{repo: repo, availability: availability, logger: logger}
}

// scheduleEntry 导出用的统一行结构
type scheduleEntry struct {
	kind   string // Tour | Leave | Availability
	id     string
	start  time.Time
	end    time.Time
	title  string
	status string
}

// load 查询导游与日程，并整理为按开始日期排序的条目
func (s *scheduleExportService) load(ctx context.Context, guideID string, start, end time.Time) (*model.TourGuide, []scheduleEntry, error) {
	guide, err := s.repo.Guide.GetByID(ctx, guideID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrGuideNotFound
		}
		s.logger.Error("查询导游失败", zap.String("guide_id", guideID), zap.Error(err))
		return nil, nil, err
	}

	schedule, err := s.availability.GetGuideSchedule(ctx, guideID, start, end)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]scheduleEntry, 0, len(schedule.Tours)+len(schedule.Leaves)+len(schedule.Availability))
	for _, t := range schedule.Tours {
		title := t.TourID
		if t.Tour != nil {
			title = fmt.Sprintf("%s (%d days)", t.Tour.Title, t.Tour.Duration)
		}
		entries = append(entries, scheduleEntry{"Tour", t.ID, t.StartDate, t.EndDate, title, t.Status})
	}
	for _, l := range schedule.Leaves {
		entries = append(entries, scheduleEntry{"Leave", l.ID, l.StartDate, l.EndDate, l.Reason, l.Status})
	}
	for _, a := range schedule.Availability {
		entries = append(entries, scheduleEntry{"Availability", a.ID, a.StartDate, a.EndDate, "", a.Status})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].start.Before(entries[j].start)
	})

	return guide, entries, nil
}

// ═══════════════════════════════════════════════════════════
// ExportExcel — 导出导游日程为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 第 1 行：标题（导游姓名 + 时间窗口）
//   - 第 2 行：表头 Type | Start | End | Details | Status
//   - 第 3 行起：数据；无数据时输出一行 "No entries"

func (s *scheduleExportService) ExportExcel(ctx context.Context, guideID string, start, end time.Time) (*bytes.Buffer, string, error) {
	guide, entries, err := s.load(ctx, guideID, start, end)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Schedule"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "C", 12)
	f.SetColWidth(sheetName, "D", "D", 40)
	f.SetColWidth(sheetName, "E", "E", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s: %s to %s",
		guide.FullName(), start.Format(dateLayout), end.Format(dateLayout)))
	f.MergeCell(sheetName, "A1", "E1")
	f.SetCellStyle(sheetName, "A1", "E1", headerStyle)

	for i, h := range []string{"Type", "Start", "End", "Details", "Status"} {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", "E2", headerStyle)

	row := 3
	if len(entries) == 0 {
		f.SetCellValue(sheetName, cell("A", row), "No entries")
	}
	for _, e := range entries {
		f.SetCellValue(sheetName, cell("A", row), e.kind)
		f.SetCellValue(sheetName, cell("B", row), e.start.Format(dateLayout))
		f.SetCellValue(sheetName, cell("C", row), e.end.Format(dateLayout))
		f.SetCellValue(sheetName, cell("D", row), e.title)
		f.SetCellValue(sheetName, cell("E", row), e.status)
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("guide-schedule_%s_%s_%s.xlsx", guideID, start.Format(dateLayout), end.Format(dateLayout))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS — 导出导游日程为 iCalendar
// ═══════════════════════════════════════════════════════════

func (s *scheduleExportService) ExportICS(ctx context.Context, guideID string, start, end time.Time) ([]byte, string, error) {
	guide, entries, err := s.load(ctx, guideID, start, end)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tour-booking//guide-schedule//EN")
	cal.SetXWRCalName(guide.FullName() + " schedule")

	now := time.Now().UTC()
	for _, e := range entries {
		event := cal.AddEvent(fmt.Sprintf("%s-%s@tour-booking", e.kind, e.id))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(e.start)
		event.SetAllDayEndAt(e.end.AddDate(0, 0, 1))
		event.SetSummary(icsSummary(e))
		if e.title != "" {
			event.SetDescription(e.title)
		}
		event.SetStatus(icsStatus(e))
	}

	filename := fmt.Sprintf("guide-schedule_%s.ics", guideID)
	return []byte(cal.Serialize()), filename, nil
}

func icsSummary(e scheduleEntry) string {
	switch e.kind {
	case "Tour":
		return "Tour: " + e.title
	case "Leave":
		return "Leave (" + e.status + ")"
	default:
		return "Availability: " + e.status
	}
}

func icsStatus(e scheduleEntry) ics.ObjectStatus {
	switch {
	case e.kind == "Leave" && e.status == model.LeaveStatusPending:
		return ics.ObjectStatusTentative
	case e.kind == "Leave" && e.status == model.LeaveStatusRejected,
		e.kind == "Tour" && e.status == model.ScheduleStatusCancelled:
		return ics.ObjectStatusCancelled
	default:
		return ics.ObjectStatusConfirmed
	}
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
