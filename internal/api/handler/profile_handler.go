package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/service"
	"github.com/YeswanthKasi/schmng-sub002/pkg/response"
)

// ProfileHandler 资料模块 HTTP 处理器
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// GetTeacher 教师资料
// GET /api/v1/profiles/teachers/:id
func (h *ProfileHandler) GetTeacher(c *gin.Context) {
	result, err := h.profileSvc.GetTeacher(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleProfileError(c, err)
		return
	}
	response.OK(c, result)
}

// GetStudent 学生资料
// GET /api/v1/profiles/students/:id
func (h *ProfileHandler) GetStudent(c *gin.Context) {
	result, err := h.profileSvc.GetStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleProfileError(c, err)
		return
	}
	response.OK(c, result)
}

// ParentHandler 家长首页 HTTP 处理器
type ParentHandler struct {
	dashboardSvc service.DashboardService
}

// NewParentHandler 创建 ParentHandler
func NewParentHandler(dashboardSvc service.DashboardService) *ParentHandler {
	return &ParentHandler{dashboardSvc: dashboardSvc}
}

// Dashboard 孩子资料 + 考勤汇总
// GET /api/v1/parents/me/dashboard?period=
func (h *ParentHandler) Dashboard(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}
	sid, _, ok := MustGetSession(c)
	if !ok {
		return
	}

	var q dto.ParentDashboardQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.dashboardSvc.ParentDashboard(c.Request.Context(), sid, uid, &q)
	if err != nil {
		if errors.Is(err, service.ErrAttendanceCritical) && result != nil {
			response.OKWithDetails(c, result, partialDetails)
			return
		}
		handleProfileError(c, err)
		return
	}

	response.OK(c, result)
}

func handleProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 14001, "用户不存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 14002, "教师不存在")
	case errors.Is(err, service.ErrStudentNotFound):
		response.NotFound(c, 14003, "学生不存在")
	case errors.Is(err, service.ErrNotParent):
		response.Forbidden(c, 14004, "当前账号不是家长")
	case errors.Is(err, service.ErrChildNotLinked):
		response.NotFound(c, 14005, "家长账号未关联学生")
	default:
		// 其余为考勤相关错误（家长首页）
		handleAttendanceError(c, err)
	}
}
