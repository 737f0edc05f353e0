package model

// 用户角色
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleParent  = "parent"
	RoleStaff   = "staff"
)

// User 账号资料 — 对应 users/{uid}
type User struct {
	UID     string `firestore:"-"       json:"uid"`
	Name    string `firestore:"name"    json:"name"`
	Email   string `firestore:"email"   json:"email"`
	Role    string `firestore:"role"    json:"role"`
	ChildID string `firestore:"childId" json:"child_id,omitempty"` // 仅家长
}

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Teacher 教师资料 — 对应 teachers/{teacherId}
type Teacher struct {
	ID        string `firestore:"-"         json:"id"`
	Name      string `firestore:"name"      json:"name"`
	Email     string `firestore:"email"     json:"email"`
	Phone     string `firestore:"phone"     json:"phone,omitempty"`
	Subject   string `firestore:"subject"   json:"subject,omitempty"`
	ClassName string `firestore:"className" json:"class_name,omitempty"`
}

// Student 学生资料 — 对应 students/{studentId}
type Student struct {
	ID         string `firestore:"-"          json:"id"`
	Name       string `firestore:"name"       json:"name"`
	ClassName  string `firestore:"className"  json:"class_name"`
	RollNumber string `firestore:"rollNumber" json:"roll_number,omitempty"`
	ParentID   string `firestore:"parentId"   json:"parent_id,omitempty"`
}
