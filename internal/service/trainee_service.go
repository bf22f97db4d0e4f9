package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Lakindu24/TalentHub-Admin/internal/attendance"
	"github.com/Lakindu24/TalentHub-Admin/internal/dto"
	"github.com/Lakindu24/TalentHub-Admin/internal/model"
	"github.com/Lakindu24/TalentHub-Admin/internal/repository"
	pkgerrors "github.com/Lakindu24/TalentHub-Admin/pkg/errors"
)

// ── 学员模块业务错误 ──

var (
	ErrTraineeNotFound      = errors.New("学员不存在")
	ErrTraineeIDExists      = errors.New("学员编号已存在")
	ErrTraineeIDImmutable   = errors.New("学员编号创建后不可修改")
	ErrInvalidAvailableDay  = errors.New("到岗日无效，可选值: Monday-Friday")
	ErrInvalidTrainingDates = errors.New("培训结束日期不能早于开始日期")
	ErrTraineeIDReserved    = errors.New("学员编号不能为 UUID 格式")
)

// TraineeService 学员业务接口
type TraineeService interface {
	List(ctx context.Context, req *dto.TraineeListRequest) ([]dto.TraineeResponse, int64, error)
	// GetByID id 可为主键或业务编号
	GetByID(ctx context.Context, id string) (*dto.TraineeResponse, error)
	Create(ctx context.Context, req *dto.CreateTraineeRequest) (*dto.TraineeResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTraineeRequest) (*dto.TraineeResponse, error)
	Delete(ctx context.Context, id string) error
	AddAvailableDay(ctx context.Context, id, day string) (*dto.TraineeResponse, error)
	RemoveAvailableDay(ctx context.Context, id, day string) (*dto.TraineeResponse, error)
	UpdateEmail(ctx context.Context, req *dto.UpdateEmailRequest) (*dto.TraineeResponse, error)
	ParseImportFile(reader io.Reader) ([]ImportTraineeRow, error)
	Import(ctx context.Context, rows []ImportTraineeRow) (*dto.ImportTraineeResponse, error)
}

// ImportTraineeRow Excel 导入解析后的单行数据
type ImportTraineeRow struct {
	Row               int
	TraineeID         string
	TraineeName       string
	Specialization    string
	Institute         string
	Email             string
	Team              string
	HomeAddress       string
	TrainingStartDate string
	TrainingEndDate   string
}

type traineeService struct {
	repo          *repository.Repository
	clock         *attendance.Clock
	maxImportRows int
	logger        *zap.Logger
}

// NewTraineeService 创建 TraineeService 实例
func NewTraineeService(repo *repository.Repository, clock *attendance.Clock, maxImportRows int, logger *zap.Logger) TraineeService {
	if maxImportRows <= 0 {
		maxImportRows = defaultMaxImportRows
	}
	return &traineeService{repo: repo, clock: clock, maxImportRows: maxImportRows, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *traineeService) List(ctx context.Context, req *dto.TraineeListRequest) ([]dto.TraineeResponse, int64, error) {
	filter := repository.TraineeFilter{
		Team:    strings.TrimSpace(req.Team),
		Keyword: strings.TrimSpace(req.Keyword),
	}
	trainees, total, err := s.repo.Trainee.List(ctx, filter, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询学员列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.TraineeResponse, 0, len(trainees))
	if req.Date == "" {
		for i := range trainees {
			result = append(result, toTraineeResponse(&trainees[i]))
		}
		return result, total, nil
	}

	// 附带当天线下考勤状态
	day, err := s.clock.ParseDay(req.Date)
	if err != nil {
		return nil, 0, err
	}
	physical, err := s.repo.PhysicalAttendance.ListByDate(ctx, day)
	if err != nil {
		s.logger.Error("查询当日考勤失败", zap.String("date", attendance.FormatDay(day)), zap.Error(err))
		return nil, 0, err
	}
	for _, d := range attendance.GroupByTrainee(trainees, physical, nil) {
		item := toTraineeResponse(&d.Trainee)
		item.AttendanceStatus = d.PhysicalStatus().Label()
		result = append(result, item)
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *traineeService) GetByID(ctx context.Context, id string) (*dto.TraineeResponse, error) {
	trainee, err := resolveTrainee(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	resp := toTraineeResponse(trainee)
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *traineeService) Create(ctx context.Context, req *dto.CreateTraineeRequest) (*dto.TraineeResponse, error) {
	trainee := &model.Trainee{
		TraineeID:      strings.TrimSpace(req.TraineeID),
		TraineeName:    strings.TrimSpace(req.TraineeName),
		Specialization: strings.TrimSpace(req.Specialization),
		HomeAddress:    strings.TrimSpace(req.HomeAddress),
		Institute:      strings.TrimSpace(req.Institute),
		Team:           strings.TrimSpace(req.Team),
		Email:          strings.TrimSpace(req.Email),
		AvailableDays:  uniqueDays(req.AvailableDays),
	}
	if attendance.IsInternalIDShape(trainee.TraineeID) {
		return nil, ErrTraineeIDReserved
	}

	var err error
	if trainee.TrainingStartDate, err = parseOptionalDay(req.TrainingStartDate); err != nil {
		return nil, err
	}
	if trainee.TrainingEndDate, err = parseOptionalDay(req.TrainingEndDate); err != nil {
		return nil, err
	}
	if err := validateTrainingDates(trainee); err != nil {
		return nil, err
	}

	if err := s.repo.Trainee.Create(ctx, trainee); err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateKey) {
			return nil, ErrTraineeIDExists
		}
		s.logger.Error("创建学员失败", zap.String("trainee_id", trainee.TraineeID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("学员已创建", zap.String("trainee_id", trainee.TraineeID))
	resp := toTraineeResponse(trainee)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *traineeService) Update(ctx context.Context, id string, req *dto.UpdateTraineeRequest) (*dto.TraineeResponse, error) {
	trainee, err := resolveTrainee(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	if req.TraineeID != nil && strings.TrimSpace(*req.TraineeID) != trainee.TraineeID {
		return nil, ErrTraineeIDImmutable
	}
	// 客户端携带版本号时以其为准，实现跨请求的乐观锁
	if req.Version > 0 {
		trainee.Version = req.Version
	}

	if req.TraineeName != nil {
		trainee.TraineeName = strings.TrimSpace(*req.TraineeName)
	}
	if req.Specialization != nil {
		trainee.Specialization = strings.TrimSpace(*req.Specialization)
	}
	if req.HomeAddress != nil {
		trainee.HomeAddress = strings.TrimSpace(*req.HomeAddress)
	}
	if req.Institute != nil {
		trainee.Institute = strings.TrimSpace(*req.Institute)
	}
	if req.Team != nil {
		trainee.Team = strings.TrimSpace(*req.Team)
	}
	if req.Email != nil {
		trainee.Email = strings.TrimSpace(*req.Email)
	}
	if req.AvailableDays != nil {
		trainee.AvailableDays = uniqueDays(req.AvailableDays)
	}
	if req.TrainingStartDate != nil {
		if trainee.TrainingStartDate, err = parseOptionalDay(*req.TrainingStartDate); err != nil {
			return nil, err
		}
	}
	if req.TrainingEndDate != nil {
		if trainee.TrainingEndDate, err = parseOptionalDay(*req.TrainingEndDate); err != nil {
			return nil, err
		}
	}
	if err := validateTrainingDates(trainee); err != nil {
		return nil, err
	}

	if err := s.repo.Trainee.Update(ctx, trainee); err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			s.logger.Error("更新学员失败", zap.String("id", trainee.ID), zap.Error(err))
		}
		return nil, err
	}

	resp := toTraineeResponse(trainee)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *traineeService) Delete(ctx context.Context, id string) error {
	trainee, err := resolveTrainee(ctx, s.repo, id)
	if err != nil {
		return err
	}
	if err := s.repo.Trainee.Delete(ctx, trainee.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTraineeNotFound
		}
		s.logger.Error("删除学员失败", zap.String("id", trainee.ID), zap.Error(err))
		return err
	}
	s.logger.Info("学员已删除", zap.String("trainee_id", trainee.TraineeID))
	return nil
}

// ────────────────────── 到岗日 ──────────────────────

func (s *traineeService) AddAvailableDay(ctx context.Context, id, day string) (*dto.TraineeResponse, error) {
	if !model.IsWeekday(day) {
		return nil, ErrInvalidAvailableDay
	}
	trainee, err := resolveTrainee(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	if !trainee.HasAvailableDay(day) {
		trainee.AvailableDays = append(trainee.AvailableDays, day)
		if err := s.repo.Trainee.Update(ctx, trainee); err != nil {
			return nil, err
		}
	}

	resp := toTraineeResponse(trainee)
	return &resp, nil
}

func (s *traineeService) RemoveAvailableDay(ctx context.Context, id, day string) (*dto.TraineeResponse, error) {
	if !model.IsWeekday(day) {
		return nil, ErrInvalidAvailableDay
	}
	trainee, err := resolveTrainee(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	if trainee.HasAvailableDay(day) {
		kept := make([]string, 0, len(trainee.AvailableDays))
		for _, d := range trainee.AvailableDays {
			if d != day {
				kept = append(kept, d)
			}
		}
		trainee.AvailableDays = kept
		if err := s.repo.Trainee.Update(ctx, trainee); err != nil {
			return nil, err
		}
	}

	resp := toTraineeResponse(trainee)
	return &resp, nil
}

// ────────────────────── UpdateEmail ──────────────────────

func (s *traineeService) UpdateEmail(ctx context.Context, req *dto.UpdateEmailRequest) (*dto.TraineeResponse, error) {
	trainee, err := s.repo.Trainee.GetByTraineeID(ctx, strings.TrimSpace(req.TraineeID))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTraineeNotFound, req.TraineeID)
		}
		return nil, err
	}

	trainee.Email = strings.TrimSpace(req.Email)
	if err := s.repo.Trainee.Update(ctx, trainee); err != nil {
		return nil, err
	}

	resp := toTraineeResponse(trainee)
	return &resp, nil
}

// ────────────────────── ParseImportFile ──────────────────────

const defaultMaxImportRows = 1000

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = errors.New("数据行数超过上限")
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（Trainee ID / Name / Specialization）")
)

// ParseImportFile 解析导入 Excel 文件，返回解析后的行数据
func (s *traineeService) ParseImportFile(reader io.Reader) ([]ImportTraineeRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	if colIndex["trainee_id"] < 0 || colIndex["name"] < 0 || colIndex["specialization"] < 0 {
		return nil, ErrImportBadHeader
	}

	get := func(row []string, key string) string {
		if idx := colIndex[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportTraineeRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportTraineeRow{
			Row:               i + 1,
			TraineeID:         get(row, "trainee_id"),
			TraineeName:       get(row, "name"),
			Specialization:    get(row, "specialization"),
			Institute:         get(row, "institute"),
			Email:             get(row, "email"),
			Team:              get(row, "team"),
			HomeAddress:       get(row, "home_address"),
			TrainingStartDate: get(row, "start_date"),
			TrainingEndDate:   get(row, "end_date"),
		}

		// 跳过全空行
		if item.TraineeID == "" && item.TraineeName == "" && item.Specialization == "" {
			continue
		}

		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > s.maxImportRows {
		return nil, fmt.Errorf("%w: %d", ErrImportTooManyRows, s.maxImportRows)
	}

	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"trainee_id":     -1,
		"name":           -1,
		"specialization": -1,
		"institute":      -1,
		"email":          -1,
		"team":           -1,
		"home_address":   -1,
		"start_date":     -1,
		"end_date":       -1,
	}
	for i, h := range header {
		key := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(h)))
		switch key {
		case "trainee_id", "traineeid", "id":
			idx["trainee_id"] = i
		case "trainee_name", "name", "full_name":
			idx["name"] = i
		case "specialization", "field_of_specialization", "field_of_spec_name":
			idx["specialization"] = i
		case "institute":
			idx["institute"] = i
		case "email", "trainee_email":
			idx["email"] = i
		case "team":
			idx["team"] = i
		case "home_address", "address", "trainee_homeaddress":
			idx["home_address"] = i
		case "training_start_date", "start_date", "training_startdate":
			idx["start_date"] = i
		case "training_end_date", "end_date", "training_enddate":
			idx["end_date"] = i
		}
	}
	return idx
}

// ────────────────────── Import ──────────────────────

func (s *traineeService) Import(ctx context.Context, rows []ImportTraineeRow) (*dto.ImportTraineeResponse, error) {
	resp := &dto.ImportTraineeResponse{Total: len(rows)}
	fail := func(row int, reason string) {
		resp.Failed++
		resp.Errors = append(resp.Errors, dto.ImportTraineeError{Row: row, Reason: reason})
	}

	for _, row := range rows {
		if row.TraineeID == "" || row.TraineeName == "" || row.Specialization == "" {
			fail(row.Row, "必填字段为空")
			continue
		}
		if attendance.IsInternalIDShape(row.TraineeID) {
			fail(row.Row, fmt.Sprintf("学员编号不能为 UUID 格式: %s", row.TraineeID))
			continue
		}

		trainee := &model.Trainee{
			TraineeID:      row.TraineeID,
			TraineeName:    row.TraineeName,
			Specialization: row.Specialization,
			Institute:      row.Institute,
			Email:          row.Email,
			Team:           row.Team,
			HomeAddress:    row.HomeAddress,
			AvailableDays:  []string{},
		}
		var err error
		if trainee.TrainingStartDate, err = parseOptionalDay(row.TrainingStartDate); err != nil {
			fail(row.Row, fmt.Sprintf("开始日期格式无效: %s", row.TrainingStartDate))
			continue
		}
		if trainee.TrainingEndDate, err = parseOptionalDay(row.TrainingEndDate); err != nil {
			fail(row.Row, fmt.Sprintf("结束日期格式无效: %s", row.TrainingEndDate))
			continue
		}

		if err := s.repo.Trainee.Create(ctx, trainee); err != nil {
			if errors.Is(err, pkgerrors.ErrDuplicateKey) {
				fail(row.Row, fmt.Sprintf("学员编号已存在: %s", row.TraineeID))
				continue
			}
			s.logger.Error("导入学员失败", zap.Int("row", row.Row), zap.Error(err))
			fail(row.Row, "写入失败")
			continue
		}
		resp.Success++
	}

	s.logger.Info("学员导入完成",
		zap.Int("total", resp.Total),
		zap.Int("success", resp.Success),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}

// ── 辅助函数 ──

// resolveTrainee 解析学员标识并查找；未找到时返回 ErrTraineeNotFound
func resolveTrainee(ctx context.Context, repo *repository.Repository, raw string) (*model.Trainee, error) {
	ref, err := attendance.ParseTraineeRef(raw)
	if err != nil {
		return nil, err
	}
	trainee, err := repo.Trainee.Resolve(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTraineeNotFound, ref.Value)
		}
		return nil, err
	}
	return trainee, nil
}

func parseOptionalDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(attendance.DayLayout, s)
	if err != nil {
		return nil, attendance.ErrInvalidDate
	}
	return &d, nil
}

func validateTrainingDates(t *model.Trainee) error {
	if t.TrainingStartDate != nil && t.TrainingEndDate != nil && t.TrainingEndDate.Before(*t.TrainingStartDate) {
		return ErrInvalidTrainingDates
	}
	return nil
}

func uniqueDays(days []string) []string {
	result := make([]string, 0, len(days))
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			result = append(result, d)
		}
	}
	return result
}

func formatOptionalDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return attendance.FormatDay(*t)
}

func toTraineeResponse(t *model.Trainee) dto.TraineeResponse {
	days := []string(t.AvailableDays)
	if days == nil {
		days = []string{}
	}
	return dto.TraineeResponse{
		ID:                t.ID,
		TraineeID:         t.TraineeID,
		TraineeName:       t.TraineeName,
		Specialization:    t.Specialization,
		HomeAddress:       t.HomeAddress,
		TrainingStartDate: formatOptionalDay(t.TrainingStartDate),
		TrainingEndDate:   formatOptionalDay(t.TrainingEndDate),
		Institute:         t.Institute,
		Team:              t.Team,
		Email:             t.Email,
		AvailableDays:     days,
		Version:           t.Version,
		CreatedAt:         t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         t.UpdatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/trainee_service.go
