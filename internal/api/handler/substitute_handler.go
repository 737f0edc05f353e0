package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/service"
	"github.com/YeswanthKasi/schmng-sub002/pkg/response"
)

// SubstituteHandler 代课模块 HTTP 处理器
type SubstituteHandler struct {
	substituteSvc service.SubstituteService
}

// NewSubstituteHandler 创建 SubstituteHandler
func NewSubstituteHandler(substituteSvc service.SubstituteService) *SubstituteHandler {
	return &SubstituteHandler{substituteSvc: substituteSvc}
}

// ListAvailable 可代课教师
// GET /api/v1/substitutes/available?date=&class_name=&absent_teacher_id=
func (h *SubstituteHandler) ListAvailable(c *gin.Context) {
	var q dto.AvailableSubstitutesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.substituteSvc.AvailableSubstitutes(c.Request.Context(), &q)
	if err != nil {
		h.handleSubstituteError(c, err)
		return
	}

	response.OK(c, result)
}

// GetAssignment 查询代课分配
// GET /api/v1/substitutes?date=&class_name=
func (h *SubstituteHandler) GetAssignment(c *gin.Context) {
	var q dto.AssignmentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.substituteSvc.GetAssignment(c.Request.Context(), &q)
	if err != nil {
		h.handleSubstituteError(c, err)
		return
	}

	response.OK(c, result)
}

// Assign 分配代课教师（管理员；写入时复核角色）
// PUT /api/v1/substitutes
func (h *SubstituteHandler) Assign(c *gin.Context) {
	uid, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.AssignSubstituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, response.CodeInvalidParams, "参数校验失败")
		return
	}

	result, err := h.substituteSvc.Assign(c.Request.Context(), uid, &req)
	if err != nil {
		h.handleSubstituteError(c, err)
		return
	}

	response.OK(c, result)
}

func (h *SubstituteHandler) handleSubstituteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotAdmin):
		response.Forbidden(c, 13001, "仅管理员可分配代课教师")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 13002, "该班级当天没有代课安排")
	case errors.Is(err, service.ErrInvalidClassName):
		response.BadRequest(c, 13003, "班级不能为空")
	case errors.Is(err, service.ErrInvalidTeacher):
		response.BadRequest(c, 13004, "教师 ID 不能为空")
	case errors.Is(err, service.ErrSubstituteIsAbsent):
		response.BadRequest(c, 13005, "代课教师不能是缺勤教师本人")
	case errors.Is(err, service.ErrInvalidDate):
		response.BadRequest(c, 12003, "日期格式应为 yyyy-MM-dd")
	case errors.Is(err, service.ErrSubstituteListFails):
		response.Error(c, http.StatusBadGateway, 13006, "加载教师列表失败，请稍后重试")
	default:
		response.InternalError(c)
	}
}
