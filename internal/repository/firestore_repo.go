package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/YeswanthKasi/schmng-sub002/internal/model"
	pkgerrors "github.com/YeswanthKasi/schmng-sub002/pkg/errors"
)

// 集合名称，需与移动端已有数据保持一致
const (
	collAttendance = "attendance"
	collSubstitute = "substitute_teachers"
	collUsers      = "users"
	collTeachers   = "teachers"
	collStudents   = "students"
)

// getDoc 读取单个文档并解析到 dst，统一映射不存在 / 格式错误
func getDoc(ctx context.Context, ref *firestore.DocumentRef, dst interface{}) error {
	snap, err := ref.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return pkgerrors.ErrNotFound
		}
		return err
	}
	if !snap.Exists() {
		return pkgerrors.ErrNotFound
	}
	if err := snap.DataTo(dst); err != nil {
		return fmt.Errorf("%w: %s: %v", pkgerrors.ErrMalformedDocument, ref.Path, err)
	}
	return nil
}

// ── Attendance ──

type firestoreAttendanceRepo struct {
	client *firestore.Client
}

// NewFirestoreAttendanceRepo 创建 Firestore 考勤仓储
func NewFirestoreAttendanceRepo(client *firestore.Client) AttendanceRepository {
	return &firestoreAttendanceRepo{client: client}
}

func (r *firestoreAttendanceRepo) doc(dateKey string, userType model.UserType, subjectID string) *firestore.DocumentRef {
	return r.client.Collection(collAttendance).Doc(dateKey).Collection(string(userType)).Doc(subjectID)
}

func (r *firestoreAttendanceRepo) Get(ctx context.Context, dateKey string, userType model.UserType, subjectID string) (*model.AttendanceRecord, error) {
	var rec model.AttendanceRecord
	if err := getDoc(ctx, r.doc(dateKey, userType, subjectID), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *firestoreAttendanceRepo) Set(ctx context.Context, dateKey string, record *model.AttendanceRecord) error {
	_, err := r.doc(dateKey, record.UserType, record.ID).Set(ctx, record)
	return err
}

// ── Substitute ──

type firestoreSubstituteRepo struct {
	client *firestore.Client
}

// NewFirestoreSubstituteRepo 创建 Firestore 代课仓储
func NewFirestoreSubstituteRepo(client *firestore.Client) SubstituteRepository {
	return &firestoreSubstituteRepo{client: client}
}

func (r *firestoreSubstituteRepo) doc(dateKey, className string) *firestore.DocumentRef {
	return r.client.Collection(collSubstitute).Doc(dateKey).Collection(className).Doc(model.AssignedTeacherDocID)
}

func (r *firestoreSubstituteRepo) Get(ctx context.Context, dateKey, className string) (*model.SubstituteAssignment, error) {
	var a model.SubstituteAssignment
	if err := getDoc(ctx, r.doc(dateKey, className), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Set 不带 MergeAll，整份文档被替换
func (r *firestoreSubstituteRepo) Set(ctx context.Context, dateKey, className string, assignment *model.SubstituteAssignment) error {
	_, err := r.doc(dateKey, className).Set(ctx, assignment)
	return err
}

// ── Profile ──

type firestoreProfileRepo struct {
	client *firestore.Client
}

// NewFirestoreProfileRepo 创建 Firestore 资料仓储
func NewFirestoreProfileRepo(client *firestore.Client) ProfileRepository {
	return &firestoreProfileRepo{client: client}
}

func (r *firestoreProfileRepo) GetUser(ctx context.Context, uid string) (*model.User, error) {
	var u model.User
	if err := getDoc(ctx, r.client.Collection(collUsers).Doc(uid), &u); err != nil {
		return nil, err
	}
	u.UID = uid
	return &u, nil
}

func (r *firestoreProfileRepo) GetTeacher(ctx context.Context, teacherID string) (*model.Teacher, error) {
	var t model.Teacher
	if err := getDoc(ctx, r.client.Collection(collTeachers).Doc(teacherID), &t); err != nil {
		return nil, err
	}
	t.ID = teacherID
	return &t, nil
}

func (r *firestoreProfileRepo) GetStudent(ctx context.Context, studentID string) (*model.Student, error) {
	var s model.Student
	if err := getDoc(ctx, r.client.Collection(collStudents).Doc(studentID), &s); err != nil {
		return nil, err
	}
	s.ID = studentID
	return &s, nil
}

// ListTeachers 列出全部教师，无法解析的文档直接跳过
func (r *firestoreProfileRepo) ListTeachers(ctx context.Context) ([]model.Teacher, error) {
	iter := r.client.Collection(collTeachers).Documents(ctx)
	defer iter.Stop()

	var teachers []model.Teacher
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		var t model.Teacher
		if err := snap.DataTo(&t); err != nil {
			continue
		}
		t.ID = snap.Ref.ID
		teachers = append(teachers, t)
	}

	sort.Slice(teachers, func(i, j int) bool { return teachers[i].ID < teachers[j].ID })
	return teachers, nil
}
