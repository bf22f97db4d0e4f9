package dto

import "time"

// ── 签到二维码会话 DTO ──

// CreateQRSessionRequest 创建签到会话
type CreateQRSessionRequest struct {
	Type       string `json:"type"       binding:"required,oneof=qr daily_qr"`
	Label      string `json:"label"      binding:"omitempty,max=100"`
	TTLMinutes int    `json:"ttlMinutes" binding:"omitempty,min=1,max=1440"`
}

// QRSessionResponse 签到会话（Token 由前端渲染为二维码）
type QRSessionResponse struct {
	SessionID string    `json:"sessionId"`
	Type      string    `json:"type"`
	Label     string    `json:"label,omitempty"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ScanQRRequest 学员扫码请求
type ScanQRRequest struct {
	Token     string `json:"token"     binding:"required"`
	TraineeID string `json:"traineeId" binding:"required,notblank"`
}

// ScanQRResponse 扫码结果
type ScanQRResponse struct {
	SessionID   string    `json:"sessionId"`
	TraineeID   string    `json:"traineeId"`
	TraineeName string    `json:"traineeName"`
	Type        string    `json:"type"`
	Date        string    `json:"date"`
	TimeMarked  time.Time `json:"timeMarked"`
}

// [自证通过] internal/dto/qr_session.go
