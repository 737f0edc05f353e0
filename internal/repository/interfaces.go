package repository

import (
	"context"

	"github.com/YeswanthKasi/schmng-sub002/internal/model"
)

// 所有实现约定：
//   - 文档不存在返回 pkgerrors.ErrNotFound
//   - 文档存在但无法解析返回包装了 pkgerrors.ErrMalformedDocument 的错误
//   - 其余为存储层错误，原样返回

// AttendanceRepository 考勤记录数据访问接口
type AttendanceRepository interface {
	// Get 按 (日期键, 主体类型, 主体ID) 单点读取
	Get(ctx context.Context, dateKey string, userType model.UserType, subjectID string) (*model.AttendanceRecord, error)
	// Set 覆盖写入某一天的记录
	Set(ctx context.Context, dateKey string, record *model.AttendanceRecord) error
}

// SubstituteRepository 代课分配数据访问接口
type SubstituteRepository interface {
	Get(ctx context.Context, dateKey, className string) (*model.SubstituteAssignment, error)
	// Set 无条件覆盖（last write wins，无版本检查）
	Set(ctx context.Context, dateKey, className string, assignment *model.SubstituteAssignment) error
}

// ProfileRepository 资料数据访问接口
type ProfileRepository interface {
	GetUser(ctx context.Context, uid string) (*model.User, error)
	GetTeacher(ctx context.Context, teacherID string) (*model.Teacher, error)
	GetStudent(ctx context.Context, studentID string) (*model.Student, error)
	ListTeachers(ctx context.Context) ([]model.Teacher, error)
}
