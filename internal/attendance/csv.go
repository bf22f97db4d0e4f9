package attendance

import (
	"fmt"
	"strings"

	"github.com/Lakindu24/TalentHub-Admin/internal/model"
)

// Teams 出勤报表列名
const (
	ColumnFullName   = "Full Name"
	ColumnUserAction = "User Action"
)

// UnknownTraineeID 姓名中缺少编号时的占位值
const UnknownTraineeID = "UNKNOWN"

// CSVRow 前端解析后的一行报表
type CSVRow map[string]any

// OnlineRecord 可入库的出勤记录
type OnlineRecord struct {
	TraineeID string `json:"traineeId"`
	Name      string `json:"name"`
	Status    string `json:"status"`
}

// ParseFullName 拆分 "姓名_编号"；缺少编号时返回 UnknownTraineeID
func ParseFullName(fullName string) (name, traineeID string) {
	parts := strings.Split(strings.TrimSpace(fullName), "_")
	name = strings.TrimSpace(parts[0])
	traineeID = UnknownTraineeID
	if len(parts) > 1 {
		if id := strings.TrimSpace(parts[1]); id != "" {
			traineeID = id
		}
	}
	return name, traineeID
}

// ActionStatus 由 User Action 推断出勤状态：包含 join 或 present 即为出勤
func ActionStatus(action string) (string, bool) {
	a := strings.ToLower(strings.TrimSpace(action))
	if strings.Contains(a, "join") || strings.Contains(a, "present") {
		return model.StatusPresent, true
	}
	return "", false
}

// ConvertRows 将报表行转换为出勤记录
// 丢弃：无姓名、无编号、非出勤动作的行
func ConvertRows(rows []CSVRow) []OnlineRecord {
	records := make([]OnlineRecord, 0, len(rows))
	for _, row := range rows {
		fullName := cell(row, ColumnFullName)
		if fullName == "" {
			continue
		}
		status, ok := ActionStatus(cell(row, ColumnUserAction))
		if !ok {
			continue
		}
		name, traineeID := ParseFullName(fullName)
		if name == "" || traineeID == UnknownTraineeID {
			continue
		}
		records = append(records, OnlineRecord{TraineeID: traineeID, Name: name, Status: status})
	}
	return records
}

func cell(row CSVRow, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
