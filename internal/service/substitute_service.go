package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/YeswanthKasi/schmng-sub002/config"
	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/model"
	"github.com/YeswanthKasi/schmng-sub002/internal/repository"
	pkgerrors "github.com/YeswanthKasi/schmng-sub002/pkg/errors"
)

// ── 代课模块业务错误 ──

var (
	ErrNotAdmin            = errors.New("仅管理员可分配代课教师")
	ErrAssignmentNotFound  = errors.New("该班级当天没有代课安排")
	ErrInvalidClassName    = errors.New("班级不能为空")
	ErrInvalidTeacher      = errors.New("教师 ID 不能为空")
	ErrSubstituteIsAbsent  = errors.New("代课教师不能是缺勤教师本人")
	ErrSubstituteListFails = errors.New("加载教师列表失败")
)

// ── SubstituteService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 候选人逐个独立判定；任一查询失败只排除该候选人（宁缺勿滥），
//     不影响其他候选人。
//   - 分配时重新读取 users/{actor}.role，非 admin 拒绝且不写入。
//   - 分配文档键固定为 assigned_teacher，后写覆盖，无版本检查。
// ─────────────────────────────────────────────────────────────

// SubstituteService 代课模块业务接口
type SubstituteService interface {
	// AvailableSubstitutes 列出当天可代课的教师
	AvailableSubstitutes(ctx context.Context, q *dto.AvailableSubstitutesQuery) ([]dto.SubstituteCandidateResponse, error)
	// Assign 分配代课教师（覆盖已有分配）
	Assign(ctx context.Context, actorID string, req *dto.AssignSubstituteRequest) (*dto.SubstituteAssignmentResponse, error)
	// GetAssignment 查询代课分配
	GetAssignment(ctx context.Context, q *dto.AssignmentQuery) (*dto.SubstituteAssignmentResponse, error)
}

type substituteService struct {
	repo          *repository.Repository
	loc           *time.Location
	lookupTimeout time.Duration
	now           func() time.Time
	logger        *zap.Logger
}

// NewSubstituteService 创建 SubstituteService 实例
func NewSubstituteService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) SubstituteService {
	return newSubstituteService(cfg, repo, logger)
}

func newSubstituteService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) *substituteService {
	loc, err := cfg.Attendance.Location()
	if err != nil {
		loc = time.UTC
	}
	return &substituteService{
		repo:          repo,
		loc:           loc,
		lookupTimeout: cfg.Attendance.LookupTimeout,
		now:           time.Now,
		logger:        logger,
	}
}

// ════════════════════════════════════════════════════════════
// AvailableSubstitutes — 准入判定
// ════════════════════════════════════════════════════════════
//
// 候选人须同时满足：
//   1. 不是缺勤教师本人
//   2. 当天考勤状态为 PRESENT
//   3. 该班级当天的 assigned_teacher 文档未指向该候选人

func (s *substituteService) AvailableSubstitutes(ctx context.Context, q *dto.AvailableSubstitutesQuery) ([]dto.SubstituteCandidateResponse, error) {
	day, err := ParseDateKey(q.Date, s.loc)
	if err != nil {
		return nil, err
	}
	className := strings.TrimSpace(q.ClassName)
	if className == "" {
		return nil, ErrInvalidClassName
	}
	dateKey := FormatDateKey(day, s.loc)

	teachers, err := s.repo.Profile.ListTeachers(ctx)
	if err != nil {
		s.logger.Error("查询教师列表失败", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSubstituteListFails, err)
	}

	out := make([]dto.SubstituteCandidateResponse, 0, len(teachers))
	for i := range teachers {
		t := &teachers[i]
		if s.admit(ctx, dateKey, className, q.AbsentTeacherID, t.ID) {
			out = append(out, dto.SubstituteCandidateResponse{
				ID:        t.ID,
				Name:      t.Name,
				Subject:   t.Subject,
				ClassName: t.ClassName,
			})
		}
	}
	return out, nil
}

// lookupAssignment 读取分配文档；不存在返回 (nil, nil)
func (s *substituteService) lookupAssignment(ctx context.Context, dateKey, className string) (*model.SubstituteAssignment, error) {
	lookupCtx, cancel := s.lookupContext(ctx)
	defer cancel()

	a, err := s.repo.Substitute.Get(lookupCtx, dateKey, className)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// admit 判定单个候选人；该候选人的任何查询失败都只排除其本人
func (s *substituteService) admit(ctx context.Context, dateKey, className, absentID, candidateID string) bool {
	if candidateID == "" || candidateID == absentID {
		return false
	}

	// 当天出勤
	lookupCtx, cancel := s.lookupContext(ctx)
	rec, err := s.repo.Attendance.Get(lookupCtx, dateKey, model.UserTypeTeacher, candidateID)
	cancel()
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrNotFound) {
			s.logger.Warn("查询候选人考勤失败，排除",
				zap.String("date", dateKey), zap.String("candidate_id", candidateID), zap.Error(err))
		}
		return false
	}
	if rec == nil || rec.Status != model.StatusPresent {
		return false
	}

	// 尚未担任该班当天的代课
	assigned, err := s.lookupAssignment(ctx, dateKey, className)
	if err != nil {
		s.logger.Warn("查询代课分配失败，排除候选人",
			zap.String("candidate_id", candidateID), zap.Error(err))
		return false
	}
	return assigned == nil || assigned.TeacherID != candidateID
}

func (s *substituteService) lookupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.lookupTimeout > 0 {
		return context.WithTimeout(ctx, s.lookupTimeout)
	}
	return context.WithCancel(ctx)
}

// ════════════════════════════════════════════════════════════
// Assign — 分配代课教师
// ════════════════════════════════════════════════════════════
//
// 流程：
//   1. 校验参数
//   2. 写入时重新读取操作人角色，非 admin 拒绝
//   3. 覆盖写入 assigned_teacher

func (s *substituteService) Assign(ctx context.Context, actorID string, req *dto.AssignSubstituteRequest) (*dto.SubstituteAssignmentResponse, error) {
	// 1. 参数
	day, err := ParseDateKey(req.Date, s.loc)
	if err != nil {
		return nil, err
	}
	className := strings.TrimSpace(req.ClassName)
	if className == "" {
		return nil, ErrInvalidClassName
	}
	teacherID := strings.TrimSpace(req.TeacherID)
	originalID := strings.TrimSpace(req.OriginalTeacherID)
	if teacherID == "" || originalID == "" {
		return nil, ErrInvalidTeacher
	}
	if teacherID == originalID {
		return nil, ErrSubstituteIsAbsent
	}

	// 2. 权限
	actor, err := s.repo.Profile.GetUser(ctx, actorID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrNotAdmin
		}
		s.logger.Error("查询操作人失败", zap.String("actor_id", actorID), zap.Error(err))
		return nil, err
	}
	if !actor.IsAdmin() {
		s.logger.Warn("非管理员尝试分配代课",
			zap.String("actor_id", actorID), zap.String("role", actor.Role))
		return nil, ErrNotAdmin
	}

	// 3. 覆盖写入
	dateKey := FormatDateKey(day, s.loc)
	a := &model.SubstituteAssignment{
		TeacherID:         teacherID,
		OriginalTeacherID: originalID,
		AssignedBy:        actorID,
		AssignedAt:        s.now().UnixMilli(),
	}
	if err := s.repo.Substitute.Set(ctx, dateKey, className, a); err != nil {
		s.logger.Error("写入代课分配失败",
			zap.String("date", dateKey), zap.String("class_name", className), zap.Error(err))
		return nil, fmt.Errorf("写入代课分配失败: %w", err)
	}

	s.logger.Info("代课已分配",
		zap.String("date", dateKey),
		zap.String("class_name", className),
		zap.String("teacher_id", teacherID),
		zap.String("assigned_by", actorID),
	)

	resp := s.toResponse(dateKey, className, a)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// GetAssignment
// ════════════════════════════════════════════════════════════

func (s *substituteService) GetAssignment(ctx context.Context, q *dto.AssignmentQuery) (*dto.SubstituteAssignmentResponse, error) {
	day, err := ParseDateKey(q.Date, s.loc)
	if err != nil {
		return nil, err
	}
	className := strings.TrimSpace(q.ClassName)
	if className == "" {
		return nil, ErrInvalidClassName
	}
	dateKey := FormatDateKey(day, s.loc)

	a, err := s.repo.Substitute.Get(ctx, dateKey, className)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询代课分配失败", zap.String("date", dateKey), zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(dateKey, className, a)
	return &resp, nil
}

func (s *substituteService) toResponse(dateKey, className string, a *model.SubstituteAssignment) dto.SubstituteAssignmentResponse {
	return dto.SubstituteAssignmentResponse{
		Date:              dateKey,
		ClassName:         className,
		TeacherID:         a.TeacherID,
		OriginalTeacherID: a.OriginalTeacherID,
		AssignedBy:        a.AssignedBy,
		AssignedAt:        time.UnixMilli(a.AssignedAt).In(s.loc).Format(time.RFC3339),
	}
}
