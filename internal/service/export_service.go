package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Lakindu24/TalentHub-Admin/internal/attendance"
	"github.com/Lakindu24/TalentHub-Admin/internal/model"
	"github.com/Lakindu24/TalentHub-Admin/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoTrainees   = errors.New("暂无学员，无法导出")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportDay 导出单日考勤为 Excel：汇总 + 明细两个 Sheet
	ExportDay(ctx context.Context, date string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	clock  *attendance.Clock
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, clock *attendance.Clock, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, clock: clock, logger: logger}
}

const (
	sheetSummary    = "汇总"
	sheetAttendance = "考勤明细"
)

// ═══════════════════════════════════════════════════════════
// ExportDay: 导出单日考勤
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "汇总"：类别 × (出勤, 缺勤, 未标记)，下方为各会议统计
//   - Sheet "考勤明细"：每名学员一行，含线下状态、会议状态与总体状态
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportDay(ctx context.Context, date string) (*bytes.Buffer, string, error) {
	day, err := s.clock.ParseDay(date)
	if err != nil {
		return nil, "", err
	}

	// 1. 加载当日数据
	days, err := loadDayRecords(ctx, s.repo, day)
	if err != nil {
		s.logger.Error("加载当日考勤失败", zap.Error(err))
		return nil, "", err
	}
	if len(days) == 0 {
		return nil, "", ErrExportNoTrainees
	}
	stats := attendance.ComputeDayStats(day, days)
	online := attendance.ComputeOnlineStats(day, days)

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	idx, _ := f.NewSheet(sheetSummary)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")
	f.NewSheet(sheetAttendance)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	writeSummarySheet(f, stats, online, headerStyle)
	writeAttendanceSheet(f, days, headerStyle)

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("attendance_%s.xlsx", stats.Date)
	return buf, filename, nil
}

func writeSummarySheet(f *excelize.File, stats attendance.DayStats, online attendance.OnlineStats, headerStyle int) {
	sh := sheetSummary
	f.SetColWidth(sh, "A", "A", 22)
	f.SetColWidth(sh, "B", "D", 12)

	f.SetCellValue(sh, "A1", fmt.Sprintf("%s 考勤汇总（学员 %d 人）", stats.Date, stats.TotalTrainees))
	f.MergeCell(sh, "A1", "D1")
	f.SetCellStyle(sh, "A1", "A1", headerStyle)

	row := 2
	for i, h := range []string{"类别", "出勤", "缺勤", "未标记"} {
		f.SetCellValue(sh, cell(colName(i), row), h)
	}
	f.SetCellStyle(sh, cell("A", row), cell("D", row), headerStyle)

	for _, line := range []struct {
		label  string
		bucket attendance.Bucket
	}{
		{"日常签到", stats.Daily},
		{"会议", stats.Meeting},
		{"总体", stats.Total},
	} {
		row++
		f.SetCellValue(sh, cell("A", row), line.label)
		f.SetCellValue(sh, cell("B", row), line.bucket.Present)
		f.SetCellValue(sh, cell("C", row), line.bucket.Absent)
		f.SetCellValue(sh, cell("D", row), line.bucket.NotMarked)
	}

	// 线上会议
	row += 2
	for i, h := range []string{"线上会议", "出勤", "缺勤"} {
		f.SetCellValue(sh, cell(colName(i), row), h)
	}
	f.SetCellStyle(sh, cell("A", row), cell("C", row), headerStyle)
	for _, m := range online.Meetings {
		row++
		f.SetCellValue(sh, cell("A", row), m.MeetingName)
		f.SetCellValue(sh, cell("B", row), m.Present)
		f.SetCellValue(sh, cell("C", row), m.Absent)
	}
}

func writeAttendanceSheet(f *excelize.File, days []attendance.DayRecords, headerStyle int) {
	sh := sheetAttendance
	headers := []string{"编号", "姓名", "团队", "日常签到", "会议", "线上会议", "总体", "签到时间"}
	widths := []float64{14, 20, 14, 12, 12, 30, 12, 12}
	for i, h := range headers {
		col := colName(i)
		f.SetColWidth(sh, col, col, widths[i])
		f.SetCellValue(sh, cell(col, 1), h)
	}
	f.SetCellStyle(sh, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	for i, d := range days {
		row := i + 2
		f.SetCellValue(sh, cell("A", row), d.Trainee.TraineeID)
		f.SetCellValue(sh, cell("B", row), d.Trainee.TraineeName)
		f.SetCellValue(sh, cell("C", row), d.Trainee.Team)
		f.SetCellValue(sh, cell("D", row), d.Status(attendance.CategoryDaily).Label())
		f.SetCellValue(sh, cell("E", row), d.Status(attendance.CategoryMeeting).Label())
		f.SetCellValue(sh, cell("F", row), onlineSummary(d.Online))
		f.SetCellValue(sh, cell("G", row), d.Status(attendance.CategoryAll).Label())
		f.SetCellValue(sh, cell("H", row), firstMarkedAt(d.Physical))
	}
}

// onlineSummary "会议名: 状态" 以分号连接
func onlineSummary(entries []model.OnlineAttendance) string {
	var buf bytes.Buffer
	for i, o := range entries {
		if i > 0 {
			buf.WriteString("; ")
		}
		buf.WriteString(o.MeetingName)
		buf.WriteString(": ")
		buf.WriteString(o.Status)
	}
	return buf.String()
}

func firstMarkedAt(entries []model.PhysicalAttendance) string {
	for _, p := range entries {
		if p.Status == model.StatusPresent && !p.TimeMarked.IsZero() {
			return p.TimeMarked.Format("15:04")
		}
	}
	return "-"
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// [自证通过] internal/service/export_service.go
