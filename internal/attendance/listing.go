package attendance

import (
	"sort"
	"time"

	"github.com/Lakindu24/TalentHub-Admin/internal/model"
)

// 明细类型文案
const (
	InfoDaily         = "Daily"
	InfoMeeting       = "Meeting"
	InfoManual        = "Manual"
	InfoOnlineMeeting = "Online Meeting"
)

// 打卡方式文案
const (
	MethodQRScan    = "QR Code Scan"
	MethodCSVUpload = "CSV Upload"
	MethodManual    = "Manual Entry"
)

// AttendanceInfo 单条到岗明细
type AttendanceInfo struct {
	Type        string    `json:"type"`
	Time        time.Time `json:"time"`
	Method      string    `json:"method"`
	MeetingName string    `json:"meetingName,omitempty"`
}

// AttendedTrainee 当天有出勤记录的学员及明细
type AttendedTrainee struct {
	Trainee model.Trainee
	Info    []AttendanceInfo
}

// MethodLabel 由 marked_by 推断打卡方式
func MethodLabel(markedBy string) string {
	switch markedBy {
	case model.MarkedByExternal:
		return MethodQRScan
	case model.MarkedByCSV:
		return MethodCSVUpload
	default:
		return MethodManual
	}
}

// TypeLabel 线下考勤类型文案
func TypeLabel(typ string) string {
	switch typ {
	case model.TypeDailyQR:
		return InfoDaily
	case model.TypeQR:
		return InfoMeeting
	default:
		return InfoManual
	}
}

func physicalInfo(p model.PhysicalAttendance) AttendanceInfo {
	return AttendanceInfo{
		Type:   TypeLabel(p.Type),
		Time:   markedAt(p.TimeMarked, p.AttendanceDate),
		Method: MethodLabel(p.MarkedBy),
	}
}

func onlineInfo(o model.OnlineAttendance) AttendanceInfo {
	name := o.MeetingName
	if name == "" {
		name = "N/A"
	}
	return AttendanceInfo{
		Type:        InfoOnlineMeeting,
		Time:        markedAt(o.TimeMarked, o.AttendanceDate),
		Method:      MethodLabel(o.MarkedBy),
		MeetingName: name,
	}
}

func markedAt(marked, day time.Time) time.Time {
	if marked.IsZero() {
		return day
	}
	return marked
}

// BuildListing 生成当天到岗名单，按 trainee_id 排序
// all 视图中，会议扫码明细仅在存在每日签到时展示
func BuildListing(cat Category, days []DayRecords) []AttendedTrainee {
	result := make([]AttendedTrainee, 0)
	for _, d := range days {
		present := presentPhysical(d.Physical)
		var info []AttendanceInfo

		switch cat {
		case CategoryDaily:
			if p, ok := present[model.TypeDailyQR]; ok {
				info = append(info, physicalInfo(p))
			}
		case CategoryMeeting:
			for _, typ := range []string{model.TypeQR, model.TypeManual} {
				if p, ok := present[typ]; ok {
					info = append(info, physicalInfo(p))
				}
			}
			info = appendOnline(info, d.Online)
		default:
			daily, hasDaily := present[model.TypeDailyQR]
			if hasDaily {
				info = append(info, physicalInfo(daily))
				if p, ok := present[model.TypeQR]; ok {
					info = append(info, physicalInfo(p))
				}
			}
			if p, ok := present[model.TypeManual]; ok {
				info = append(info, physicalInfo(p))
			}
			info = appendOnline(info, d.Online)
		}

		if len(info) > 0 {
			result = append(result, AttendedTrainee{Trainee: d.Trainee, Info: info})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Trainee.TraineeID < result[j].Trainee.TraineeID
	})
	return result
}

// presentPhysical 当天出勤的线下记录，按类型取第一条
func presentPhysical(entries []model.PhysicalAttendance) map[string]model.PhysicalAttendance {
	m := make(map[string]model.PhysicalAttendance, len(entries))
	for _, p := range entries {
		if p.Status != model.StatusPresent {
			continue
		}
		if _, ok := m[p.Type]; !ok {
			m[p.Type] = p
		}
	}
	return m
}

func appendOnline(info []AttendanceInfo, entries []model.OnlineAttendance) []AttendanceInfo {
	for _, o := range entries {
		if o.Status == model.StatusPresent && onlineIn(CategoryMeeting, o.Type) {
			info = append(info, onlineInfo(o))
		}
	}
	return info
}
