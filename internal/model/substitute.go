package model

// AssignedTeacherDocID 代课分配的固定文档键，同一 (日期, 班级) 只有一份，后写覆盖
const AssignedTeacherDocID = "assigned_teacher"

// SubstituteAssignment 代课分配 — 对应 substitute_teachers/{yyyy-MM-dd}/{className}/assigned_teacher
type SubstituteAssignment struct {
	TeacherID         string `firestore:"teacherId"         json:"teacher_id"`
	OriginalTeacherID string `firestore:"originalTeacherId" json:"original_teacher_id"`
	AssignedBy        string `firestore:"assignedBy"        json:"assigned_by"`
	AssignedAt        int64  `firestore:"assignedAt"        json:"assigned_at"` // 毫秒时间戳
}
