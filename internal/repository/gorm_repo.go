package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/YeswanthKasi/schmng-sub002/internal/model"
	pkgerrors "github.com/YeswanthKasi/schmng-sub002/pkg/errors"
)

// PostgreSQL 后端：每个 Firestore 文档路径映射为一张表的一行，
// 路径段作为联合主键，因此同样满足"每天至多一条 / 固定键覆盖"的约束

func mapGormErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.ErrNotFound
	}
	return err
}

// ── 行结构 ──

type attendanceRow struct {
	DateKey      string `gorm:"column:date_key;primaryKey"`
	UserType     string `gorm:"column:user_type;primaryKey"`
	SubjectID    string `gorm:"column:subject_id;primaryKey"`
	RecordID     string `gorm:"column:record_id"`
	UserID       string `gorm:"column:user_id"`
	Date         int64  `gorm:"column:date"`
	Status       string `gorm:"column:status"`
	MarkedBy     string `gorm:"column:marked_by"`
	Remarks      string `gorm:"column:remarks"`
	LastModified int64  `gorm:"column:last_modified"`
}

func (attendanceRow) TableName() string { return "attendance_records" }

type substituteRow struct {
	DateKey           string `gorm:"column:date_key;primaryKey"`
	ClassName         string `gorm:"column:class_name;primaryKey"`
	TeacherID         string `gorm:"column:teacher_id"`
	OriginalTeacherID string `gorm:"column:original_teacher_id"`
	AssignedBy        string `gorm:"column:assigned_by"`
	AssignedAt        int64  `gorm:"column:assigned_at"`
}

func (substituteRow) TableName() string { return "substitute_assignments" }

type userRow struct {
	UID     string `gorm:"column:uid;primaryKey"`
	Name    string `gorm:"column:name"`
	Email   string `gorm:"column:email"`
	Role    string `gorm:"column:role"`
	ChildID string `gorm:"column:child_id"`
}

func (userRow) TableName() string { return "users" }

type teacherRow struct {
	TeacherID string `gorm:"column:teacher_id;primaryKey"`
	Name      string `gorm:"column:name"`
	Email     string `gorm:"column:email"`
	Phone     string `gorm:"column:phone"`
	Subject   string `gorm:"column:subject"`
	ClassName string `gorm:"column:class_name"`
}

func (teacherRow) TableName() string { return "teachers" }

type studentRow struct {
	StudentID  string `gorm:"column:student_id;primaryKey"`
	Name       string `gorm:"column:name"`
	ClassName  string `gorm:"column:class_name"`
	RollNumber string `gorm:"column:roll_number"`
	ParentID   string `gorm:"column:parent_id"`
}

func (studentRow) TableName() string { return "students" }

// ── Attendance ──

type gormAttendanceRepo struct {
	db *gorm.DB
}

// NewGormAttendanceRepo 创建 PostgreSQL 考勤仓储
func NewGormAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &gormAttendanceRepo{db: db}
}

func (r *gormAttendanceRepo) Get(ctx context.Context, dateKey string, userType model.UserType, subjectID string) (*model.AttendanceRecord, error) {
	var row attendanceRow
	err := r.db.WithContext(ctx).
		Where("date_key = ? AND user_type = ? AND subject_id = ?", dateKey, string(userType), subjectID).
		First(&row).Error
	if err != nil {
		return nil, mapGormErr(err)
	}
	return &model.AttendanceRecord{
		ID:           row.RecordID,
		UserID:       row.UserID,
		UserType:     model.UserType(row.UserType),
		Date:         row.Date,
		Status:       model.AttendanceStatus(row.Status),
		MarkedBy:     row.MarkedBy,
		Remarks:      row.Remarks,
		LastModified: row.LastModified,
	}, nil
}

func (r *gormAttendanceRepo) Set(ctx context.Context, dateKey string, record *model.AttendanceRecord) error {
	row := attendanceRow{
		DateKey:      dateKey,
		UserType:     string(record.UserType),
		SubjectID:    record.ID,
		RecordID:     record.ID,
		UserID:       record.UserID,
		Date:         record.Date,
		Status:       string(record.Status),
		MarkedBy:     record.MarkedBy,
		Remarks:      record.Remarks,
		LastModified: record.LastModified,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date_key"}, {Name: "user_type"}, {Name: "subject_id"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

// ── Substitute ──

type gormSubstituteRepo struct {
	db *gorm.DB
}

// NewGormSubstituteRepo 创建 PostgreSQL 代课仓储
func NewGormSubstituteRepo(db *gorm.DB) SubstituteRepository {
	return &gormSubstituteRepo{db: db}
}

func (r *gormSubstituteRepo) Get(ctx context.Context, dateKey, className string) (*model.SubstituteAssignment, error) {
	var row substituteRow
	err := r.db.WithContext(ctx).
		Where("date_key = ? AND class_name = ?", dateKey, className).
		First(&row).Error
	if err != nil {
		return nil, mapGormErr(err)
	}
	return &model.SubstituteAssignment{
		TeacherID:         row.TeacherID,
		OriginalTeacherID: row.OriginalTeacherID,
		AssignedBy:        row.AssignedBy,
		AssignedAt:        row.AssignedAt,
	}, nil
}

func (r *gormSubstituteRepo) Set(ctx context.Context, dateKey, className string, a *model.SubstituteAssignment) error {
	row := substituteRow{
		DateKey:           dateKey,
		ClassName:         className,
		TeacherID:         a.TeacherID,
		OriginalTeacherID: a.OriginalTeacherID,
		AssignedBy:        a.AssignedBy,
		AssignedAt:        a.AssignedAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date_key"}, {Name: "class_name"}},
			UpdateAll: true,
		}).
		Create(&row).Error
}

// ── Profile ──

type gormProfileRepo struct {
	db *gorm.DB
}

// NewGormProfileRepo 创建 PostgreSQL 资料仓储
func NewGormProfileRepo(db *gorm.DB) ProfileRepository {
	return &gormProfileRepo{db: db}
}

func (r *gormProfileRepo) GetUser(ctx context.Context, uid string) (*model.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&row).Error; err != nil {
		return nil, mapGormErr(err)
	}
	return &model.User{UID: row.UID, Name: row.Name, Email: row.Email, Role: row.Role, ChildID: row.ChildID}, nil
}

func (r *gormProfileRepo) GetTeacher(ctx context.Context, teacherID string) (*model.Teacher, error) {
	var row teacherRow
	if err := r.db.WithContext(ctx).Where("teacher_id = ?", teacherID).First(&row).Error; err != nil {
		return nil, mapGormErr(err)
	}
	t := toTeacher(row)
	return &t, nil
}

func (r *gormProfileRepo) GetStudent(ctx context.Context, studentID string) (*model.Student, error) {
	var row studentRow
	if err := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&row).Error; err != nil {
		return nil, mapGormErr(err)
	}
	return &model.Student{
		ID:         row.StudentID,
		Name:       row.Name,
		ClassName:  row.ClassName,
		RollNumber: row.RollNumber,
		ParentID:   row.ParentID,
	}, nil
}

func (r *gormProfileRepo) ListTeachers(ctx context.Context) ([]model.Teacher, error) {
	var rows []teacherRow
	if err := r.db.WithContext(ctx).Order("teacher_id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	teachers := make([]model.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, toTeacher(row))
	}
	return teachers, nil
}

func toTeacher(row teacherRow) model.Teacher {
	return model.Teacher{
		ID:        row.TeacherID,
		Name:      row.Name,
		Email:     row.Email,
		Phone:     row.Phone,
		Subject:   row.Subject,
		ClassName: row.ClassName,
	}
}
