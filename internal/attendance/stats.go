package attendance

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/Lakindu24/TalentHub-Admin/internal/model"
)

// ErrInvalidCategory 统计类别无效
var ErrInvalidCategory = errors.New("类别无效，可选值: daily, meeting, all")

// Category 考勤统计类别
type Category string

const (
	CategoryDaily   Category = "daily"   // 仅 daily_qr
	CategoryMeeting Category = "meeting" // qr / manual / 线上会议
	CategoryAll     Category = "all"     // 全部
)

// ParseCategory 解析类别参数；空串为 all
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case "", CategoryAll:
		return CategoryAll, nil
	case CategoryDaily:
		return CategoryDaily, nil
	case CategoryMeeting:
		return CategoryMeeting, nil
	}
	return "", ErrInvalidCategory
}

// physicalIn 线下考勤类型是否归入该类别
func physicalIn(cat Category, typ string) bool {
	switch cat {
	case CategoryDaily:
		return typ == model.TypeDailyQR
	case CategoryMeeting:
		return typ == model.TypeQR || typ == model.TypeManual
	default:
		return true
	}
}

// onlineIn 线上考勤是否归入该类别
func onlineIn(cat Category, typ string) bool {
	if cat == CategoryDaily {
		return false
	}
	return cat == CategoryAll || typ == model.TypeOnline || typ == ""
}

// DayStatus 学员单日状态
type DayStatus int

const (
	NotMarked DayStatus = iota
	Absent
	Present
)

// Label 前端展示文案
func (s DayStatus) Label() string {
	switch s {
	case Present:
		return model.StatusPresent
	case Absent:
		return model.StatusAbsent
	default:
		return "Not Marked"
	}
}

// DayRecords 单个学员某一天的全部考勤
type DayRecords struct {
	Trainee  model.Trainee
	Physical []model.PhysicalAttendance
	Online   []model.OnlineAttendance
}

// GroupByTrainee 按学员归并当天记录，保持 trainees 顺序
// 不属于 trainees 的记录被忽略
func GroupByTrainee(trainees []model.Trainee, physical []model.PhysicalAttendance, online []model.OnlineAttendance) []DayRecords {
	days := make([]DayRecords, len(trainees))
	index := make(map[string]int, len(trainees))
	for i := range trainees {
		days[i].Trainee = trainees[i]
		index[trainees[i].ID] = i
	}
	for _, p := range physical {
		if i, ok := index[p.TraineePK]; ok {
			days[i].Physical = append(days[i].Physical, p)
		}
	}
	for _, o := range online {
		if i, ok := index[o.TraineePK]; ok {
			days[i].Online = append(days[i].Online, o)
		}
	}
	return days
}

// Status 该类别下的单日状态
// 任一记录出勤即出勤；有记录但均缺勤为缺勤；无记录为未标记
func (d DayRecords) Status(cat Category) DayStatus {
	status := NotMarked
	for _, p := range d.Physical {
		if !physicalIn(cat, p.Type) {
			continue
		}
		if p.Status == model.StatusPresent {
			return Present
		}
		status = Absent
	}
	for _, o := range d.Online {
		if !onlineIn(cat, o.Type) {
			continue
		}
		if o.Status == model.StatusPresent {
			return Present
		}
		status = Absent
	}
	return status
}

// PhysicalStatus 仅按线下考勤判断的单日状态
func (d DayRecords) PhysicalStatus() DayStatus {
	return DayRecords{Physical: d.Physical}.Status(CategoryAll)
}

// ── 单日统计 ──

// Bucket 单类别计数
type Bucket struct {
	Present   int `json:"present"`
	Absent    int `json:"absent"`
	NotMarked int `json:"not_marked"`
}

func (b *Bucket) add(s DayStatus) {
	switch s {
	case Present:
		b.Present++
	case Absent:
		b.Absent++
	default:
		b.NotMarked++
	}
}

// DayStats 单日统计
type DayStats struct {
	Date          string `json:"date"`
	TotalTrainees int    `json:"totalTrainees"`
	Daily         Bucket `json:"dailyAttendance"`
	Meeting       Bucket `json:"meetingAttendance"`
	Total         Bucket `json:"total"`
}

// Bucket 按类别取计数
func (s DayStats) Bucket(cat Category) Bucket {
	switch cat {
	case CategoryDaily:
		return s.Daily
	case CategoryMeeting:
		return s.Meeting
	default:
		return s.Total
	}
}

// ComputeDayStats 计算单日各类别统计
func ComputeDayStats(day time.Time, days []DayRecords) DayStats {
	stats := DayStats{Date: FormatDay(day), TotalTrainees: len(days)}
	for _, d := range days {
		stats.Daily.add(d.Status(CategoryDaily))
		stats.Meeting.add(d.Status(CategoryMeeting))
		stats.Total.add(d.Status(CategoryAll))
	}
	return stats
}

// ── 线上会议统计 ──

// MeetingStats 单场会议计数
type MeetingStats struct {
	MeetingName string `json:"meetingName"`
	Present     int    `json:"present"`
	Absent      int    `json:"absent"`
}

// OnlineStats 单日线上会议统计
// TotalInterns 为 (学员, 会议) 组合数
type OnlineStats struct {
	Date         string         `json:"date"`
	TotalInterns int            `json:"totalInterns"`
	Present      int            `json:"present"`
	Absent       int            `json:"absent"`
	NotMarked    int            `json:"not_marked"`
	Meetings     []MeetingStats `json:"meetings"`
}

// ComputeOnlineStats 计算单日线上会议统计
// 会议按大小写不敏感的会议名归并，同一学员同一会议只计一次
func ComputeOnlineStats(day time.Time, days []DayRecords) OnlineStats {
	stats := OnlineStats{Date: FormatDay(day), Meetings: []MeetingStats{}}
	meetings := make(map[string]*MeetingStats)
	var order []string

	for _, d := range days {
		if len(d.Online) == 0 {
			stats.NotMarked++
			continue
		}
		seen := make(map[string]bool, len(d.Online))
		for _, o := range d.Online {
			key := model.NormalizeMeetingKey(o.MeetingName)
			if seen[key] {
				continue
			}
			seen[key] = true

			m, ok := meetings[key]
			if !ok {
				m = &MeetingStats{MeetingName: strings.TrimSpace(o.MeetingName)}
				meetings[key] = m
				order = append(order, key)
			}

			stats.TotalInterns++
			if o.Status == model.StatusPresent {
				stats.Present++
				m.Present++
			} else {
				stats.Absent++
				m.Absent++
			}
		}
	}

	sort.Strings(order)
	for _, key := range order {
		stats.Meetings = append(stats.Meetings, *meetings[key])
	}
	return stats
}

// ── 周统计 ──

// WeeklySplit 本周出勤 / 未出勤学员
type WeeklySplit struct {
	Attended    []model.Trainee
	NotAttended []model.Trainee
}

// SplitWeekly 按本周是否有出勤记录拆分学员；physical 需已限定在本周范围内
func SplitWeekly(trainees []model.Trainee, physical []model.PhysicalAttendance) WeeklySplit {
	attended := make(map[string]bool)
	for _, p := range physical {
		if p.Status == model.StatusPresent {
			attended[p.TraineePK] = true
		}
	}

	split := WeeklySplit{Attended: []model.Trainee{}, NotAttended: []model.Trainee{}}
	for _, t := range trainees {
		if attended[t.ID] {
			split.Attended = append(split.Attended, t)
		} else {
			split.NotAttended = append(split.NotAttended, t)
		}
	}
	return split
}
