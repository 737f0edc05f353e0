package handler

import "github.com/YeswanthKasi/schmng-sub002/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth       *AuthHandler
	Attendance *AttendanceHandler
	Substitute *SubstituteHandler
	Profile    *ProfileHandler
	Parent     *ParentHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, svc.Profile),
		Attendance: NewAttendanceHandler(svc.Attendance, svc.Export),
		Substitute: NewSubstituteHandler(svc.Substitute),
		Profile:    NewProfileHandler(svc.Profile),
		Parent:     NewParentHandler(svc.Dashboard),
	}
}
