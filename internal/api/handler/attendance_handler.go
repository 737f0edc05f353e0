package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/service"
	"github.com/YeswanthKasi/schmng-sub002/pkg/response"
)

// partialDetails 加载中断时随部分数据返回的提示
const partialDetails = "考勤加载中断，以下为部分结果"

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	exportSvc     service.ExportService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService, exportSvc service.ExportService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc, exportSvc: exportSvc}
}

// History 考勤历史（每天一条，按日期倒序）
// GET /api/v1/attendance/history?subject_id=&user_type=&period=|from=&to=
func (h *AttendanceHandler) History(c *gin.Context) {
	var q dto.AttendanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.History(c.Request.Context(), &q)
	if err != nil {
		if errors.Is(err, service.ErrAttendanceCritical) && result != nil {
			response.OKWithDetails(c, result, partialDetails)
			return
		}
		handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// Summary 考勤汇总
// GET /api/v1/attendance/summary
func (h *AttendanceHandler) Summary(c *gin.Context) {
	var q dto.AttendanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.Summary(c.Request.Context(), &q)
	if err != nil {
		if errors.Is(err, service.ErrAttendanceCritical) && result != nil {
			response.OKWithDetails(c, result, partialDetails)
			return
		}
		handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

// Export 导出考勤 Excel
// GET /api/v1/attendance/export
func (h *AttendanceHandler) Export(c *gin.Context) {
	var q dto.AttendanceQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportAttendance(c.Request.Context(), &q)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}

	response.XLSX(c, filename, buf.Bytes())
}

// Mark 登记考勤
// POST /api/v1/attendance
func (h *AttendanceHandler) Mark(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.MarkAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.attendanceSvc.Mark(c.Request.Context(), uid, &req)
	if err != nil {
		handleAttendanceError(c, err)
		return
	}

	response.OK(c, result)
}

func handleAttendanceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRange):
		response.BadRequest(c, 12001, "起始日期不能晚于结束日期")
	case errors.Is(err, service.ErrUnknownPeriod):
		response.BadRequest(c, 12002, "不支持的时间段")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12003, "日期格式应为 yyyy-MM-dd")
	case errors.Is(err, service.ErrInvalidSubject):
		response.BadRequest(c, 12004, "考勤主体 ID 不能为空")
	case errors.Is(err, service.ErrInvalidUserType):
		response.BadRequest(c, 12005, "考勤主体类型无效")
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 12006, "考勤状态无效")
	case errors.Is(err, service.ErrFutureDate):
		response.BadRequest(c, 12007, "不能登记未来日期的考勤")
	case errors.Is(err, service.ErrMarkForbidden):
		response.Forbidden(c, 12008, "仅管理员或教师可登记考勤")
	case errors.Is(err, service.ErrAttendanceCritical):
		response.ErrorWithDetails(c, http.StatusServiceUnavailable, 12009, "考勤加载中断，请稍后重试", err.Error())
	default:
		response.InternalError(c)
	}
}
