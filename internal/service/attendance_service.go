package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/YeswanthKasi/schmng-sub002/config"
	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/model"
	"github.com/YeswanthKasi/schmng-sub002/internal/repository"
	pkgerrors "github.com/YeswanthKasi/schmng-sub002/pkg/errors"
)

// ── 考勤模块业务错误 ──

var (
	ErrInvalidSubject     = errors.New("考勤主体 ID 不能为空")
	ErrInvalidUserType    = errors.New("考勤主体类型无效")
	ErrInvalidStatus      = errors.New("考勤状态无效")
	ErrAttendanceCritical = errors.New("考勤加载中断")
	ErrMarkForbidden      = errors.New("仅管理员或教师可登记考勤")
	ErrFutureDate         = errors.New("不能登记未来日期的考勤")
)

// ── AttendanceService 接口 ──────────────────────────────────
//
// 设计说明：
//   - 每个自然日一次单点查询，顺序执行，不批量、不并发。
//   - 单日失败（不存在 / 无法解析 / 查询出错 / 超时）就地替换为占位记录，
//     不向上抛出；返回条数恒等于范围内天数。
//   - 循环开始前的输入错误（主体为空、类型无效、范围非法）终止整个操作，
//     返回范围起始日的一条占位记录和错误。
//   - 循环中上下文取消视为严重失败：返回已累计的结果（至少一条）和
//     包装了 ErrAttendanceCritical 的错误。
// ─────────────────────────────────────────────────────────────

// AttendanceService 考勤模块业务接口
type AttendanceService interface {
	// ResolveRange 由查询参数得到日期范围（命名时间段或 from/to）
	ResolveRange(q *dto.AttendanceQuery) (DateRange, error)
	// FetchRange 逐日重建考勤，结果按日期倒序
	FetchRange(ctx context.Context, subjectID string, userType model.UserType, r DateRange) ([]model.AttendanceRecord, error)
	// History 考勤历史
	History(ctx context.Context, q *dto.AttendanceQuery) (*dto.AttendanceHistoryResponse, error)
	// Summary 考勤汇总
	Summary(ctx context.Context, q *dto.AttendanceQuery) (*dto.AttendanceSummaryResponse, error)
	// Mark 登记某一天的考勤（覆盖写）
	Mark(ctx context.Context, actorID string, req *dto.MarkAttendanceRequest) (*dto.AttendanceRecordResponse, error)
}

type attendanceService struct {
	repo          *repository.Repository
	loc           *time.Location
	lookupTimeout time.Duration
	maxSpanDays   int
	now           func() time.Time
	logger        *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return newAttendanceService(cfg, repo, logger)
}

func newAttendanceService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) *attendanceService {
	loc, err := cfg.Attendance.Location()
	if err != nil {
		loc = time.UTC
	}
	return &attendanceService{
		repo:          repo,
		loc:           loc,
		lookupTimeout: cfg.Attendance.LookupTimeout,
		maxSpanDays:   cfg.Attendance.MaxSpanDays,
		now:           time.Now,
		logger:        logger,
	}
}

// ════════════════════════════════════════════════════════════
// ResolveRange — 查询参数 → 日期范围
// ════════════════════════════════════════════════════════════
//
// from 非空时按自定义范围处理（to 为空取今天），忽略 period；
// 只给 to 不给 from 视为日期参数错误。

func (s *attendanceService) ResolveRange(q *dto.AttendanceQuery) (DateRange, error) {
	now := s.now()
	if q.From == "" && q.To == "" {
		return ResolvePeriod(q.Period, now, s.loc)
	}
	if q.From == "" {
		return DateRange{}, ErrInvalidDate
	}

	start, err := ParseDateKey(q.From, s.loc)
	if err != nil {
		return DateRange{}, err
	}
	end := now.In(s.loc)
	if q.To != "" {
		if end, err = ParseDateKey(q.To, s.loc); err != nil {
			return DateRange{}, err
		}
	}
	return NewDateRange(start, end, s.maxSpanDays)
}

// ════════════════════════════════════════════════════════════
// FetchRange — 逐日查询，缺失或不可读的日期以占位记录补齐
// ════════════════════════════════════════════════════════════

func (s *attendanceService) FetchRange(ctx context.Context, subjectID string, userType model.UserType, r DateRange) ([]model.AttendanceRecord, error) {
	now := s.now()
	subjectID = strings.TrimSpace(subjectID)

	// 1. 循环前校验：失败时返回起始日的一条占位记录
	var fatal error
	switch {
	case subjectID == "":
		fatal = ErrInvalidSubject
	case !userType.Valid():
		fatal = ErrInvalidUserType
	case r.Start.After(r.End):
		fatal = ErrInvalidRange
	}
	if fatal != nil {
		s.logger.Warn("考勤查询参数无效",
			zap.String("subject_id", subjectID),
			zap.String("user_type", string(userType)),
			zap.Error(fatal),
		)
		start := StartOfDay(r.Start, s.loc)
		return []model.AttendanceRecord{model.NewPlaceholder(subjectID, userType, start, now)}, fatal
	}

	// 2. 逐日单点查询
	days := r.Days(s.loc)
	records := make([]model.AttendanceRecord, 0, len(days))
	for _, day := range days {
		if err := ctx.Err(); err != nil {
			if len(records) == 0 {
				records = append(records, model.NewPlaceholder(subjectID, userType, day, now))
			}
			s.logger.Error("考勤加载中断",
				zap.String("subject_id", subjectID),
				zap.String("date", FormatDateKey(day, s.loc)),
				zap.Int("loaded", len(records)),
				zap.Error(err),
			)
			sortByDateDesc(records)
			return records, fmt.Errorf("%w: %v", ErrAttendanceCritical, err)
		}
		records = append(records, s.fetchDay(ctx, subjectID, userType, day, now))
	}

	// 3. 按日期倒序
	sortByDateDesc(records)
	return records, nil
}

// fetchDay 查询单日记录；任何失败都返回占位记录
func (s *attendanceService) fetchDay(ctx context.Context, subjectID string, userType model.UserType, day, now time.Time) model.AttendanceRecord {
	dateKey := FormatDateKey(day, s.loc)

	lookupCtx := ctx
	if s.lookupTimeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, s.lookupTimeout)
		defer cancel()
	}

	rec, err := s.repo.Attendance.Get(lookupCtx, dateKey, userType, subjectID)
	switch {
	case err == nil:
	case errors.Is(err, pkgerrors.ErrNotFound):
		return model.NewPlaceholder(subjectID, userType, day, now)
	case errors.Is(err, pkgerrors.ErrMalformedDocument):
		s.logger.Warn("考勤文档无法解析，使用占位记录",
			zap.String("date", dateKey), zap.String("subject_id", subjectID), zap.Error(err))
		return model.NewPlaceholder(subjectID, userType, day, now)
	default:
		s.logger.Warn("考勤查询失败，使用占位记录",
			zap.String("date", dateKey), zap.String("subject_id", subjectID), zap.Error(err))
		return model.NewPlaceholder(subjectID, userType, day, now)
	}

	if rec == nil || strings.TrimSpace(rec.ID) == "" || strings.TrimSpace(rec.UserID) == "" {
		s.logger.Warn("考勤文档缺少 id/userId，使用占位记录",
			zap.String("date", dateKey), zap.String("subject_id", subjectID))
		return model.NewPlaceholder(subjectID, userType, day, now)
	}

	out := *rec
	s.normalize(&out, userType, day)
	return out
}

// normalize 修正日期与状态：
// date 非正或不落在查询当天时改为当天零点；非法状态记为缺勤
func (s *attendanceService) normalize(rec *model.AttendanceRecord, userType model.UserType, day time.Time) {
	if rec.Date <= 0 || FormatDateKey(rec.Time(s.loc), s.loc) != FormatDateKey(day, s.loc) {
		rec.Date = day.UnixMilli()
	}
	if !rec.Status.Valid() {
		rec.Status = model.StatusAbsent
	}
	if !rec.UserType.Valid() {
		rec.UserType = userType
	}
}

func sortByDateDesc(records []model.AttendanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
}

// ════════════════════════════════════════════════════════════
// History / Summary
// ════════════════════════════════════════════════════════════

func (s *attendanceService) History(ctx context.Context, q *dto.AttendanceQuery) (*dto.AttendanceHistoryResponse, error) {
	r, userType, err := s.prepare(q)
	if err != nil {
		return nil, err
	}

	records, err := s.FetchRange(ctx, q.SubjectID, userType, r)
	resp := &dto.AttendanceHistoryResponse{
		SubjectID: q.SubjectID,
		UserType:  string(userType),
		From:      FormatDateKey(r.Start, s.loc),
		To:        FormatDateKey(r.End, s.loc),
		Records:   make([]dto.AttendanceRecordResponse, 0, len(records)),
	}
	for i := range records {
		resp.Records = append(resp.Records, s.toRecordResponse(&records[i]))
	}
	return resp, err
}

func (s *attendanceService) Summary(ctx context.Context, q *dto.AttendanceQuery) (*dto.AttendanceSummaryResponse, error) {
	r, userType, err := s.prepare(q)
	if err != nil {
		return &dto.AttendanceSummaryResponse{SubjectID: q.SubjectID, UserType: q.UserType}, err
	}

	resp := &dto.AttendanceSummaryResponse{
		SubjectID: q.SubjectID,
		UserType:  string(userType),
		From:      FormatDateKey(r.Start, s.loc),
		To:        FormatDateKey(r.End, s.loc),
	}

	records, err := s.FetchRange(ctx, q.SubjectID, userType, r)
	if err != nil && !errors.Is(err, ErrAttendanceCritical) {
		// 输入错误：汇总全部为 0
		return resp, err
	}

	sum := Aggregate(records)
	resp.Present = sum.Present
	resp.Absent = sum.Absent
	resp.Permission = sum.Permission
	resp.Total = sum.Total
	resp.Rate = sum.Rate
	return resp, err
}

// prepare 解析主体类型与范围
// 范围颠倒时仍返回原始范围，交给 FetchRange 生成起始日占位记录；主体类型由 FetchRange 校验
func (s *attendanceService) prepare(q *dto.AttendanceQuery) (DateRange, model.UserType, error) {
	userType, _ := model.ParseUserType(q.UserType)
	r, err := s.ResolveRange(q)
	if err != nil && !errors.Is(err, ErrInvalidRange) {
		return DateRange{}, userType, err
	}
	return r, userType, nil
}

func (s *attendanceService) toRecordResponse(rec *model.AttendanceRecord) dto.AttendanceRecordResponse {
	return dto.AttendanceRecordResponse{
		ID:            rec.ID,
		UserID:        rec.UserID,
		UserType:      string(rec.UserType),
		DateKey:       FormatDateKey(rec.Time(s.loc), s.loc),
		Date:          rec.Date,
		Status:        string(rec.Status),
		MarkedBy:      rec.MarkedBy,
		Remarks:       rec.Remarks,
		LastModified:  rec.LastModified,
		IsPlaceholder: rec.IsPlaceholder(),
	}
}

// ════════════════════════════════════════════════════════════
// Mark — 登记考勤
// ════════════════════════════════════════════════════════════
//
// 流程：
//   1. 写入时读取 users/{actor}.role，仅 admin / teacher 可写
//   2. 校验主体、类型、状态、日期（不能晚于今天）
//   3. 覆盖写入 attendance/{date}/{userType}/{subjectId}

func (s *attendanceService) Mark(ctx context.Context, actorID string, req *dto.MarkAttendanceRequest) (*dto.AttendanceRecordResponse, error) {
	// 1. 权限
	actor, err := s.repo.Profile.GetUser(ctx, actorID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, ErrMarkForbidden
		}
		s.logger.Error("查询登记人失败", zap.String("actor_id", actorID), zap.Error(err))
		return nil, err
	}
	if actor.Role != model.RoleAdmin && actor.Role != model.RoleTeacher {
		return nil, ErrMarkForbidden
	}

	// 2. 参数
	subjectID := strings.TrimSpace(req.SubjectID)
	if subjectID == "" {
		return nil, ErrInvalidSubject
	}
	userType, ok := model.ParseUserType(req.UserType)
	if !ok {
		return nil, ErrInvalidUserType
	}
	status := model.AttendanceStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	day, err := ParseDateKey(req.Date, s.loc)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if day.After(StartOfDay(now, s.loc)) {
		return nil, ErrFutureDate
	}

	// 3. 写入
	dateKey := FormatDateKey(day, s.loc)
	rec := &model.AttendanceRecord{
		ID:           subjectID,
		UserID:       subjectID,
		UserType:     userType,
		Date:         day.UnixMilli(),
		Status:       status,
		MarkedBy:     actorID,
		Remarks:      strings.TrimSpace(req.Remarks),
		LastModified: now.UnixMilli(),
	}
	if err := s.repo.Attendance.Set(ctx, dateKey, rec); err != nil {
		s.logger.Error("写入考勤失败",
			zap.String("date", dateKey), zap.String("subject_id", subjectID), zap.Error(err))
		return nil, fmt.Errorf("写入考勤失败: %w", err)
	}

	s.logger.Info("考勤已登记",
		zap.String("date", dateKey),
		zap.String("subject_id", subjectID),
		zap.String("status", string(status)),
		zap.String("marked_by", actorID),
	)

	resp := s.toRecordResponse(rec)
	return &resp, nil
}
