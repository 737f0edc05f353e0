package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/model"
	"github.com/YeswanthKasi/schmng-sub002/internal/repository"
	pkgerrors "github.com/YeswanthKasi/schmng-sub002/pkg/errors"
)

// ── 资料模块业务错误 ──

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrTeacherNotFound = errors.New("教师不存在")
	ErrStudentNotFound = errors.New("学生不存在")
	ErrNotParent       = errors.New("当前账号不是家长")
	ErrChildNotLinked  = errors.New("家长账号未关联学生")
)

// SessionCache 会话级缓存；登出时整体清除
// *redis.Client 实现该接口
type SessionCache interface {
	GetSessionJSON(ctx context.Context, sessionID, name string, dst interface{}) error
	SetSessionJSON(ctx context.Context, sessionID, name string, v interface{}, ttl time.Duration) error
	DeleteSession(ctx context.Context, sessionID string) error
}

const childCacheName = "child"

// ProfileService 资料模块业务接口
type ProfileService interface {
	GetUser(ctx context.Context, uid string) (*dto.UserProfileResponse, error)
	GetTeacher(ctx context.Context, teacherID string) (*dto.TeacherResponse, error)
	GetStudent(ctx context.Context, studentID string) (*dto.StudentResponse, error)
	// ChildOf 解析家长关联的学生，结果按会话缓存
	ChildOf(ctx context.Context, sessionID, parentUID string) (*model.Student, error)
	// InvalidateSession 清除会话缓存
	InvalidateSession(ctx context.Context, sessionID string) error
}

type profileService struct {
	repo   *repository.Repository
	cache  SessionCache // 可为 nil，此时不缓存
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(repo *repository.Repository, cache SessionCache, ttl time.Duration, logger *zap.Logger) ProfileService {
	return &profileService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

func (s *profileService) GetUser(ctx context.Context, uid string) (*dto.UserProfileResponse, error) {
	u, err := s.repo.Profile.GetUser(ctx, uid)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("uid", uid), zap.Error(err))
		return nil, err
	}
	return &dto.UserProfileResponse{UID: uid, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

func (s *profileService) GetTeacher(ctx context.Context, teacherID string) (*dto.TeacherResponse, error) {
	t, err := s.repo.Profile.GetTeacher(ctx, teacherID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("查询教师失败", zap.String("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}
	return &dto.TeacherResponse{
		ID:        teacherID,
		Name:      t.Name,
		Email:     t.Email,
		Phone:     t.Phone,
		Subject:   t.Subject,
		ClassName: t.ClassName,
	}, nil
}

func (s *profileService) GetStudent(ctx context.Context, studentID string) (*dto.StudentResponse, error) {
	st, err := s.loadStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	resp := toStudentResponse(st)
	return &resp, nil
}

func (s *profileService) loadStudent(ctx context.Context, studentID string) (*model.Student, error) {
	st, err := s.repo.Profile.GetStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("student_id", studentID), zap.Error(err))
		return nil, err
	}
	st.ID = studentID
	return st, nil
}

// ════════════════════════════════════════════════════════════
// ChildOf — 家长 → 学生（会话级缓存）
// ════════════════════════════════════════════════════════════
//
// 流程：
//   1. 查会话缓存 session:{sid}:child
//   2. 未命中时按 (会话, 家长) 合并并发加载：users/{uid}.childId → students/{childId}
//   3. 回写缓存；缓存读写失败只记日志

func (s *profileService) ChildOf(ctx context.Context, sessionID, parentUID string) (*model.Student, error) {
	// 1. 缓存
	if s.cache != nil && sessionID != "" {
		var cached model.Student
		err := s.cache.GetSessionJSON(ctx, sessionID, childCacheName, &cached)
		if err == nil {
			return &cached, nil
		}
		s.logger.Debug("会话缓存未命中", zap.String("session_id", sessionID), zap.Error(err))
	}

	// 2. 加载
	v, err, _ := s.group.Do(sessionID+":"+parentUID, func() (interface{}, error) {
		return s.loadChild(ctx, parentUID)
	})
	if err != nil {
		return nil, err
	}
	child := v.(*model.Student)

	// 3. 回写
	if s.cache != nil && sessionID != "" {
		if err := s.cache.SetSessionJSON(ctx, sessionID, childCacheName, child, s.ttl); err != nil {
			s.logger.Warn("写入会话缓存失败", zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	out := *child
	return &out, nil
}

func (s *profileService) loadChild(ctx context.Context, parentUID string) (*model.Student, error) {
	parent, err := s.repo.Profile.GetUser(ctx, parentUID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询家长失败", zap.String("uid", parentUID), zap.Error(err))
		return nil, err
	}
	if parent.Role != model.RoleParent {
		return nil, ErrNotParent
	}
	childID := strings.TrimSpace(parent.ChildID)
	if childID == "" {
		return nil, ErrChildNotLinked
	}
	return s.loadStudent(ctx, childID)
}

func (s *profileService) InvalidateSession(ctx context.Context, sessionID string) error {
	if s.cache == nil || sessionID == "" {
		return nil
	}
	return s.cache.DeleteSession(ctx, sessionID)
}

func toStudentResponse(st *model.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:         st.ID,
		Name:       st.Name,
		ClassName:  st.ClassName,
		RollNumber: st.RollNumber,
	}
}
