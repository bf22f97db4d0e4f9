package dto

// ── 学员模块 DTO ──

// TraineeListRequest 学员列表查询参数
// Date 非空时返回每个学员当天的线下考勤状态
type TraineeListRequest struct {
	PaginationRequest
	Team    string `form:"team"    binding:"omitempty,max=100"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
	Date    string `form:"date"    binding:"omitempty,max=40"`
}

// CreateTraineeRequest 新增学员请求
type CreateTraineeRequest struct {
	TraineeID         string   `json:"traineeId"         binding:"required,notblank,max=50"`
	TraineeName       string   `json:"traineeName"       binding:"required,notblank,max=150"`
	Specialization    string   `json:"specialization"    binding:"required,notblank,max=150"`
	HomeAddress       string   `json:"homeAddress"       binding:"omitempty,max=300"`
	TrainingStartDate string   `json:"trainingStartDate" binding:"omitempty,datetime=2006-01-02"`
	TrainingEndDate   string   `json:"trainingEndDate"   binding:"omitempty,datetime=2006-01-02"`
	Institute         string   `json:"institute"         binding:"omitempty,max=200"`
	Team              string   `json:"team"              binding:"omitempty,max=100"`
	Email             string   `json:"email"             binding:"omitempty,email"`
	AvailableDays     []string `json:"availableDays"     binding:"omitempty,dive,weekday"`
}

// UpdateTraineeRequest 更新学员请求（仅更新非 nil 字段）
// TraineeID 不可修改，传入且与原值不同时报错
type UpdateTraineeRequest struct {
	TraineeID         *string  `json:"traineeId"         binding:"omitempty,max=50"`
	TraineeName       *string  `json:"traineeName"       binding:"omitempty,notblank,max=150"`
	Specialization    *string  `json:"specialization"    binding:"omitempty,notblank,max=150"`
	HomeAddress       *string  `json:"homeAddress"       binding:"omitempty,max=300"`
	TrainingStartDate *string  `json:"trainingStartDate" binding:"omitempty"`
	TrainingEndDate   *string  `json:"trainingEndDate"   binding:"omitempty"`
	Institute         *string  `json:"institute"         binding:"omitempty,max=200"`
	Team              *string  `json:"team"              binding:"omitempty,max=100"`
	Email             *string  `json:"email"             binding:"omitempty,email"`
	AvailableDays     []string `json:"availableDays"     binding:"omitempty,dive,weekday"`
	Version           int      `json:"version"           binding:"omitempty,min=1"`
}

// TraineeResponse 学员信息响应
type TraineeResponse struct {
	ID                string   `json:"id"`
	TraineeID         string   `json:"traineeId"`
	TraineeName       string   `json:"traineeName"`
	Specialization    string   `json:"specialization"`
	HomeAddress       string   `json:"homeAddress"`
	TrainingStartDate string   `json:"trainingStartDate,omitempty"`
	TrainingEndDate   string   `json:"trainingEndDate,omitempty"`
	Institute         string   `json:"institute"`
	Team              string   `json:"team"`
	Email             string   `json:"email"`
	AvailableDays     []string `json:"availableDays"`
	AttendanceStatus  string   `json:"attendanceStatus,omitempty"`
	Version           int      `json:"version"`
	CreatedAt         string   `json:"createdAt"`
	UpdatedAt         string   `json:"updatedAt"`
}

// AvailableDayRequest 添加到岗日请求
type AvailableDayRequest struct {
	Day string `json:"day" binding:"required,weekday"`
}

// SetTeamRequest 设置单个学员团队请求
type SetTeamRequest struct {
	Team string `json:"team" binding:"required,notblank,max=100"`
}

// UpdateEmailRequest 按业务编号更新邮箱请求
type UpdateEmailRequest struct {
	TraineeID string `json:"traineeId" binding:"required,notblank"`
	Email     string `json:"email"     binding:"required,email"`
}

// ImportTraineeResponse 批量导入学员响应
type ImportTraineeResponse struct {
	Total   int                  `json:"total"`
	Success int                  `json:"success"`
	Failed  int                  `json:"failed"`
	Errors  []ImportTraineeError `json:"errors,omitempty"`
}

// ImportTraineeError 导入错误详情
type ImportTraineeError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// WeeklyAttendanceResponse 本周出勤拆分
type WeeklyAttendanceResponse struct {
	WeekStart          string            `json:"weekStart"`
	WeekEnd            string            `json:"weekEnd"`
	AttendedInterns    []TraineeResponse `json:"attendedInterns"`
	NotAttendedInterns []TraineeResponse `json:"notAttendedInterns"`
}

// [自证通过] internal/dto/trainee.go
