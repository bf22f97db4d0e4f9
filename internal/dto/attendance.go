package dto

import (
	"time"

	"github.com/Lakindu24/TalentHub-Admin/internal/attendance"
)

// ── 线下考勤 DTO ──

// MarkAttendanceRequest 标记线下考勤请求
// InternID 可为学员主键或业务编号
type MarkAttendanceRequest struct {
	InternID   string `json:"internId"   binding:"required,notblank"`
	Status     string `json:"status"     binding:"required,oneof=Present Absent"`
	Date       string `json:"date"       binding:"omitempty,max=40"`
	Type       string `json:"type"       binding:"omitempty,oneof=manual qr daily_qr"`
	TimeMarked string `json:"timeMarked" binding:"omitempty,max=40"`
}

// UpdateAttendanceDateRequest 修改指定日期的手动考勤
type UpdateAttendanceDateRequest struct {
	Date   string `json:"date"   binding:"required,max=40"`
	Status string `json:"status" binding:"required,oneof=Present Absent"`
}

// StatsByTypeQuery 分类统计查询参数
type StatsByTypeQuery struct {
	Type string `form:"type" binding:"omitempty,oneof=daily meeting all"`
	Date string `form:"date" binding:"omitempty,max=40"`
}

// PhysicalAttendanceResponse 线下考勤记录
type PhysicalAttendanceResponse struct {
	ID          string    `json:"id"`
	InternID    string    `json:"internId"`
	TraineeID   string    `json:"traineeId"`
	TraineeName string    `json:"traineeName"`
	Date        string    `json:"date"`
	Status      string    `json:"status"`
	Type        string    `json:"type"`
	TimeMarked  time.Time `json:"timeMarked"`
	MarkedBy    string    `json:"markedBy"`
	SessionID   string    `json:"sessionId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TodayStatsResponse 今日总体统计（任一记录出勤即出勤）
type TodayStatsResponse struct {
	Date          string `json:"date"`
	TotalTrainees int    `json:"totalTrainees"`
	attendance.Bucket
}

// CategoryStatsResponse 分类统计
type CategoryStatsResponse struct {
	Date string `json:"date"`
	Type string `json:"type"`
	attendance.Bucket
}

// AttendedInternResponse 当天到岗名单中的一行
type AttendedInternResponse struct {
	ID                string                      `json:"id"`
	TraineeID         string                      `json:"traineeId"`
	TraineeName       string                      `json:"traineeName"`
	Specialization    string                      `json:"specialization"`
	Institute         string                      `json:"institute"`
	Team              string                      `json:"team"`
	Email             string                      `json:"email"`
	TrainingStartDate string                      `json:"trainingStartDate,omitempty"`
	TrainingEndDate   string                      `json:"trainingEndDate,omitempty"`
	AttendanceInfo    []attendance.AttendanceInfo `json:"attendanceInfo"`
}

// TodayListingResponse 当天到岗名单
type TodayListingResponse struct {
	Date    string                   `json:"date"`
	Type    string                   `json:"type"`
	Count   int                      `json:"count"`
	Interns []AttendedInternResponse `json:"interns"`
}

// DailySummaryResponse 每日汇总快照
type DailySummaryResponse struct {
	Date           string                    `json:"date"`
	TotalTrainees  int                       `json:"totalTrainees"`
	Present        int                       `json:"present"`
	Absent         int                       `json:"absent"`
	NotMarked      int                       `json:"not_marked"`
	DailyPresent   int                       `json:"dailyPresent"`
	DailyAbsent    int                       `json:"dailyAbsent"`
	MeetingPresent int                       `json:"meetingPresent"`
	MeetingAbsent  int                       `json:"meetingAbsent"`
	Meetings       []attendance.MeetingStats `json:"meetings"`
	GeneratedAt    time.Time                 `json:"generatedAt"`
}

// [自证通过] internal/dto/attendance.go
