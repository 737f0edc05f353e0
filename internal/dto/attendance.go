package dto

// ── 考勤模块 DTO ──

// AttendanceQuery 考勤查询参数（历史 / 汇总 / 导出共用）
// period 与 from/to 二选一，均为空时默认本月
type AttendanceQuery struct {
	SubjectID string `form:"subject_id" binding:"required,max=128"`
	UserType  string `form:"user_type"  binding:"required,usertype"`
	Period    string `form:"period"     binding:"omitempty,max=32"`
	From      string `form:"from"       binding:"omitempty,datekey"`
	To        string `form:"to"         binding:"omitempty,datekey"`
}

// MarkAttendanceRequest 登记考勤请求
type MarkAttendanceRequest struct {
	SubjectID string `json:"subject_id" binding:"required,max=128"`
	UserType  string `json:"user_type"  binding:"required,usertype"`
	Date      string `json:"date"       binding:"required,datekey"`
	Status    string `json:"status"     binding:"required,oneof=PRESENT ABSENT PERMISSION"`
	Remarks   string `json:"remarks"    binding:"max=500"`
}

// AttendanceRecordResponse 单日考勤
type AttendanceRecordResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	UserType      string `json:"user_type"`
	DateKey       string `json:"date_key"`
	Date          int64  `json:"date"`
	Status        string `json:"status"`
	MarkedBy      string `json:"marked_by"`
	Remarks       string `json:"remarks"`
	LastModified  int64  `json:"last_modified"`
	IsPlaceholder bool   `json:"is_placeholder"`
}

// AttendanceHistoryResponse 考勤历史（按日期倒序，每天恰好一条）
type AttendanceHistoryResponse struct {
	SubjectID string                     `json:"subject_id"`
	UserType  string                     `json:"user_type"`
	From      string                     `json:"from"`
	To        string                     `json:"to"`
	Records   []AttendanceRecordResponse `json:"records"`
}

// AttendanceSummaryResponse 考勤汇总
type AttendanceSummaryResponse struct {
	SubjectID  string  `json:"subject_id"`
	UserType   string  `json:"user_type"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	Present    int     `json:"present"`
	Absent     int     `json:"absent"`
	Permission int     `json:"permission"`
	Total      int     `json:"total"`
	Rate       float64 `json:"rate"`
}
