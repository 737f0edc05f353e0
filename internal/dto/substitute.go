package dto

// ── 代课模块 DTO ──

// AvailableSubstitutesQuery 可代课教师查询参数
type AvailableSubstitutesQuery struct {
	Date            string `form:"date"              binding:"required,datekey"`
	ClassName       string `form:"class_name"        binding:"required,max=50"`
	AbsentTeacherID string `form:"absent_teacher_id" binding:"required,max=128"`
}

// AssignmentQuery 代课分配查询参数
type AssignmentQuery struct {
	Date      string `form:"date"       binding:"required,datekey"`
	ClassName string `form:"class_name" binding:"required,max=50"`
}

// AssignSubstituteRequest 分配代课请求
type AssignSubstituteRequest struct {
	Date              string `json:"date"                binding:"required,datekey"`
	ClassName         string `json:"class_name"          binding:"required,max=50"`
	TeacherID         string `json:"teacher_id"          binding:"required,max=128"`
	OriginalTeacherID string `json:"original_teacher_id" binding:"required,max=128"`
}

// SubstituteCandidateResponse 可代课教师
type SubstituteCandidateResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Subject   string `json:"subject,omitempty"`
	ClassName string `json:"class_name,omitempty"`
}

// SubstituteAssignmentResponse 代课分配
type SubstituteAssignmentResponse struct {
	Date              string `json:"date"`
	ClassName         string `json:"class_name"`
	TeacherID         string `json:"teacher_id"`
	OriginalTeacherID string `json:"original_teacher_id"`
	AssignedBy        string `json:"assigned_by"`
	AssignedAt        string `json:"assigned_at"`
}
