package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/YeswanthKasi/schmng-sub002/config"
	"github.com/YeswanthKasi/schmng-sub002/internal/model"
	"github.com/YeswanthKasi/schmng-sub002/internal/repository"
	pkgerrors "github.com/YeswanthKasi/schmng-sub002/pkg/errors"
)

var errStoreDown = errors.New("store unavailable")

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	mu      sync.Mutex
	records map[string]*model.AttendanceRecord // key: date/userType/subject
	errs    map[string]error                   // 指定 key 返回的错误
	block   map[string]bool                    // 指定 key 阻塞到 ctx 结束
	calls   int
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{
		records: make(map[string]*model.AttendanceRecord),
		errs:    make(map[string]error),
		block:   make(map[string]bool),
	}
}

func attendanceKey(dateKey string, userType model.UserType, subjectID string) string {
	return dateKey + "/" + string(userType) + "/" + subjectID
}

func (m *mockAttendanceRepo) put(dateKey string, userType model.UserType, subjectID string, rec model.AttendanceRecord) {
	m.records[attendanceKey(dateKey, userType, subjectID)] = &rec
}

func (m *mockAttendanceRepo) Get(ctx context.Context, dateKey string, userType model.UserType, subjectID string) (*model.AttendanceRecord, error) {
	m.mu.Lock()
	m.calls++
	key := attendanceKey(dateKey, userType, subjectID)
	blocked := m.block[key]
	err, hasErr := m.errs[key]
	rec, ok := m.records[key]
	m.mu.Unlock()

	if blocked {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if hasErr {
		return nil, err
	}
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (m *mockAttendanceRepo) Set(_ context.Context, dateKey string, record *model.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := *record
	m.records[attendanceKey(dateKey, record.UserType, record.UserID)] = &rec
	return nil
}

// ── Mock SubstituteRepository ──

type mockSubstituteRepo struct {
	assignments map[string]*model.SubstituteAssignment // key: date/className
	getErr      error
	sets        int
}

func newMockSubstituteRepo() *mockSubstituteRepo {
	return &mockSubstituteRepo{assignments: make(map[string]*model.SubstituteAssignment)}
}

func (m *mockSubstituteRepo) Get(_ context.Context, dateKey, className string) (*model.SubstituteAssignment, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	a, ok := m.assignments[dateKey+"/"+className]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	out := *a
	return &out, nil
}

func (m *mockSubstituteRepo) Set(_ context.Context, dateKey, className string, assignment *model.SubstituteAssignment) error {
	m.sets++
	a := *assignment
	m.assignments[dateKey+"/"+className] = &a
	return nil
}

// ── Mock ProfileRepository ──

type mockProfileRepo struct {
	mu        sync.Mutex
	users     map[string]*model.User
	teachers  map[string]*model.Teacher
	students  map[string]*model.Student
	listErr   error
	userCalls int
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{
		users:    make(map[string]*model.User),
		teachers: make(map[string]*model.Teacher),
		students: make(map[string]*model.Student),
	}
}

func (m *mockProfileRepo) GetUser(_ context.Context, uid string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userCalls++
	u, ok := m.users[uid]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	out := *u
	out.UID = uid
	return &out, nil
}

func (m *mockProfileRepo) GetTeacher(_ context.Context, teacherID string) (*model.Teacher, error) {
	t, ok := m.teachers[teacherID]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	out := *t
	out.ID = teacherID
	return &out, nil
}

func (m *mockProfileRepo) GetStudent(_ context.Context, studentID string) (*model.Student, error) {
	st, ok := m.students[studentID]
	if !ok {
		return nil, pkgerrors.ErrNotFound
	}
	out := *st
	out.ID = studentID
	return &out, nil
}

func (m *mockProfileRepo) ListTeachers(_ context.Context) ([]model.Teacher, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]model.Teacher, 0, len(m.teachers))
	for id, t := range m.teachers {
		c := *t
		c.ID = id
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ── Mock SessionCache ──

type mockSessionCache struct {
	mu      sync.Mutex
	entries map[string]interface{}
	deleted []string
}

func newMockSessionCache() *mockSessionCache {
	return &mockSessionCache{entries: make(map[string]interface{})}
}

func (m *mockSessionCache) GetSessionJSON(_ context.Context, sessionID, name string, dst interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[sessionID+":"+name]
	if !ok {
		return errors.New("miss")
	}
	st, ok := v.(*model.Student)
	d, ok2 := dst.(*model.Student)
	if !ok || !ok2 {
		return fmt.Errorf("unexpected cache type %T", v)
	}
	*d = *st
	return nil
}

func (m *mockSessionCache) SetSessionJSON(_ context.Context, sessionID, name string, v interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := v.(*model.Student); ok {
		c := *st
		m.entries[sessionID+":"+name] = &c
	}
	return nil
}

func (m *mockSessionCache) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if len(k) > len(sessionID) && k[:len(sessionID)+1] == sessionID+":" {
			delete(m.entries, k)
		}
	}
	m.deleted = append(m.deleted, sessionID)
	return nil
}

// ── 测试装配 ──

type testEnv struct {
	cfg        *config.Config
	attendance *mockAttendanceRepo
	substitute *mockSubstituteRepo
	profile    *mockProfileRepo
	repo       *repository.Repository
	logger     *zap.Logger
}

func newTestEnv() *testEnv {
	cfg := &config.Config{
		Attendance: config.AttendanceConfig{
			Timezone:      "UTC",
			LookupTimeout: time.Second,
			MaxSpanDays:   365,
		},
		Cache: config.CacheConfig{SessionTTL: time.Hour},
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret-key-123456",
			AccessTokenTTL: time.Hour,
			Issuer:         "school-hub",
		},
	}
	att := newMockAttendanceRepo()
	sub := newMockSubstituteRepo()
	prof := newMockProfileRepo()
	return &testEnv{
		cfg:        cfg,
		attendance: att,
		substitute: sub,
		profile:    prof,
		repo: &repository.Repository{
			Attendance: att,
			Substitute: sub,
			Profile:    prof,
		},
		logger: zap.NewNop(),
	}
}

// fixedNow 2024-06-15 10:30 UTC
var fixedNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func (e *testEnv) attendanceService() *attendanceService {
	s := newAttendanceService(e.cfg, e.repo, e.logger)
	s.now = func() time.Time { return fixedNow }
	return s
}

func (e *testEnv) substituteService() *substituteService {
	s := newSubstituteService(e.cfg, e.repo, e.logger)
	s.now = func() time.Time { return fixedNow }
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
