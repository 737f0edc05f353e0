package dto

// ── 认证 / 资料模块 DTO ──

// CreateSessionRequest 用 Firebase ID Token 换取 API 访问令牌
type CreateSessionRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// SessionResponse 会话令牌响应
type SessionResponse struct {
	AccessToken string              `json:"access_token"`
	ExpiresIn   int                 `json:"expires_in"` // 秒
	User        UserProfileResponse `json:"user"`
}

// UserProfileResponse 账号资料
type UserProfileResponse struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TeacherResponse 教师资料
type TeacherResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Subject   string `json:"subject,omitempty"`
	ClassName string `json:"class_name,omitempty"`
}

// StudentResponse 学生资料
type StudentResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ClassName  string `json:"class_name"`
	RollNumber string `json:"roll_number,omitempty"`
}

// ParentDashboardQuery 家长首页查询参数
type ParentDashboardQuery struct {
	Period string `form:"period" binding:"omitempty,max=32"`
}

// ParentDashboardResponse 家长首页：孩子资料 + 考勤汇总
type ParentDashboardResponse struct {
	Child      StudentResponse           `json:"child"`
	Attendance AttendanceSummaryResponse `json:"attendance"`
}
