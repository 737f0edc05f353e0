//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/YeswanthKasi/schmng-sub002/internal/model"
	"github.com/YeswanthKasi/schmng-sub002/internal/repository"
	"github.com/YeswanthKasi/schmng-sub002/pkg/database"
	pkgerrors "github.com/YeswanthKasi/schmng-sub002/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════
//
// 两个后端互相独立：
//   - TEST_DATABASE_DSN        → PostgreSQL
//   - FIRESTORE_EMULATOR_HOST  → Firestore 模拟器
// 未配置的后端对应用例直接 Skip。

var (
	testDB *gorm.DB
	testFS *firestore.Client
)

func TestMain(m *testing.M) {
	ctx := context.Background()

	if dsn := os.Getenv("TEST_DATABASE_DSN"); dsn != "" {
		var err error
		testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
			os.Exit(1)
		}
		sqlDB, err := testDB.DB()
		if err != nil {
			fmt.Fprintf(os.Stderr, "获取 sql.DB 失败: %v\n", err)
			os.Exit(1)
		}
		if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
			fmt.Fprintf(os.Stderr, "迁移失败: %v\n", err)
			os.Exit(1)
		}
	}

	if os.Getenv("FIRESTORE_EMULATOR_HOST") != "" {
		var err error
		testFS, err = firestore.NewClient(ctx, "demo-school-hub")
		if err != nil {
			fmt.Fprintf(os.Stderr, "无法连接 Firestore 模拟器: %v\n", err)
			os.Exit(1)
		}
	}

	code := m.Run()

	if testFS != nil {
		testFS.Close()
	}
	os.Exit(code)
}

// backends 返回已配置的存储后端
func backends(t *testing.T) map[string]*repository.Repository {
	t.Helper()
	out := map[string]*repository.Repository{}
	if testDB != nil {
		out["postgres"] = repository.NewGormRepository(testDB)
	}
	if testFS != nil {
		out["firestore"] = repository.NewFirestoreRepository(testFS)
	}
	if len(out) == 0 {
		t.Skip("未配置 TEST_DATABASE_DSN 或 FIRESTORE_EMULATOR_HOST")
	}
	return out
}

// uniq 生成本次运行唯一的 ID，避免用例之间互相污染
func uniq(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// seedTeacher 直接写入底层存储（仓储层只读）
func seedTeacher(t *testing.T, backend string, tc model.Teacher) {
	t.Helper()
	ctx := context.Background()
	switch backend {
	case "postgres":
		err := testDB.WithContext(ctx).Exec(
			"INSERT INTO teachers (teacher_id, name, email, subject, class_name) VALUES (?, ?, ?, ?, ?)",
			tc.ID, tc.Name, tc.Email, tc.Subject, tc.ClassName,
		).Error
		if err != nil {
			t.Fatalf("写入教师失败: %v", err)
		}
		t.Cleanup(func() { testDB.Exec("DELETE FROM teachers WHERE teacher_id = ?", tc.ID) })
	case "firestore":
		ref := testFS.Collection("teachers").Doc(tc.ID)
		if _, err := ref.Set(ctx, tc); err != nil {
			t.Fatalf("写入教师失败: %v", err)
		}
		t.Cleanup(func() { ref.Delete(context.Background()) })
	}
}

func seedUser(t *testing.T, backend string, u model.User) {
	t.Helper()
	ctx := context.Background()
	switch backend {
	case "postgres":
		err := testDB.WithContext(ctx).Exec(
			"INSERT INTO users (uid, name, email, role, child_id) VALUES (?, ?, ?, ?, ?)",
			u.UID, u.Name, u.Email, u.Role, u.ChildID,
		).Error
		if err != nil {
			t.Fatalf("写入用户失败: %v", err)
		}
		t.Cleanup(func() { testDB.Exec("DELETE FROM users WHERE uid = ?", u.UID) })
	case "firestore":
		ref := testFS.Collection("users").Doc(u.UID)
		if _, err := ref.Set(ctx, u); err != nil {
			t.Fatalf("写入用户失败: %v", err)
		}
		t.Cleanup(func() { ref.Delete(context.Background()) })
	}
}

// ═══════════════════════════════════════════════════════════
// Attendance
// ═══════════════════════════════════════════════════════════

func TestAttendanceRepo_GetMissing(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.Attendance.Get(context.Background(), "2024-06-01", model.UserTypeStudent, uniq("nobody"))
			if !errors.Is(err, pkgerrors.ErrNotFound) {
				t.Fatalf("期望 ErrNotFound，得到 %v", err)
			}
		})
	}
}

func TestAttendanceRepo_SetOverwritesSameDay(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			sid := uniq("stu")
			rec := &model.AttendanceRecord{
				ID: sid, UserID: sid, UserType: model.UserTypeStudent,
				Date: day.UnixMilli(), Status: model.StatusAbsent, MarkedBy: "t1",
				LastModified: day.Add(9 * time.Hour).UnixMilli(),
			}
			if err := repo.Attendance.Set(ctx, "2024-06-03", rec); err != nil {
				t.Fatalf("首次写入失败: %v", err)
			}

			rec.Status = model.StatusPresent
			rec.Remarks = "迟到补录"
			if err := repo.Attendance.Set(ctx, "2024-06-03", rec); err != nil {
				t.Fatalf("覆盖写入失败: %v", err)
			}

			got, err := repo.Attendance.Get(ctx, "2024-06-03", model.UserTypeStudent, sid)
			if err != nil {
				t.Fatalf("读取失败: %v", err)
			}
			if got.Status != model.StatusPresent || got.Remarks != "迟到补录" {
				t.Errorf("期望覆盖后的记录，得到 %+v", got)
			}
			if got.Date != day.UnixMilli() {
				t.Errorf("date 不一致: %d", got.Date)
			}

			// 主体类型是路径的一部分
			if _, err := repo.Attendance.Get(ctx, "2024-06-03", model.UserTypeTeacher, sid); !errors.Is(err, pkgerrors.ErrNotFound) {
				t.Errorf("TEACHER 路径下不应存在记录, err=%v", err)
			}
		})
	}
}

func TestFirestoreAttendanceRepo_MalformedDocument(t *testing.T) {
	if testFS == nil {
		t.Skip("未配置 FIRESTORE_EMULATOR_HOST")
	}
	ctx := context.Background()
	sid := uniq("bad")
	ref := testFS.Collection("attendance").Doc("2024-06-04").Collection("STUDENT").Doc(sid)
	if _, err := ref.Set(ctx, map[string]interface{}{"date": "yesterday", "status": 7}); err != nil {
		t.Fatalf("写入失败: %v", err)
	}
	t.Cleanup(func() { ref.Delete(context.Background()) })

	repo := repository.NewFirestoreRepository(testFS)
	_, err := repo.Attendance.Get(ctx, "2024-06-04", model.UserTypeStudent, sid)
	if !errors.Is(err, pkgerrors.ErrMalformedDocument) {
		t.Fatalf("期望 ErrMalformedDocument，得到 %v", err)
	}
}

// ═══════════════════════════════════════════════════════════
// Substitute
// ═══════════════════════════════════════════════════════════

func TestSubstituteRepo_LastWriteWins(t *testing.T) {
	ctx := context.Background()

	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			className := uniq("7A")
			first := &model.SubstituteAssignment{TeacherID: "t-1", OriginalTeacherID: "t-9", AssignedBy: "admin-1", AssignedAt: 1000}
			second := &model.SubstituteAssignment{TeacherID: "t-2", OriginalTeacherID: "t-9", AssignedBy: "admin-2", AssignedAt: 2000}

			if _, err := repo.Substitute.Get(ctx, "2024-06-05", className); !errors.Is(err, pkgerrors.ErrNotFound) {
				t.Fatalf("期望 ErrNotFound，得到 %v", err)
			}
			if err := repo.Substitute.Set(ctx, "2024-06-05", className, first); err != nil {
				t.Fatalf("写入失败: %v", err)
			}
			if err := repo.Substitute.Set(ctx, "2024-06-05", className, second); err != nil {
				t.Fatalf("覆盖失败: %v", err)
			}

			got, err := repo.Substitute.Get(ctx, "2024-06-05", className)
			if err != nil {
				t.Fatalf("读取失败: %v", err)
			}
			if *got != *second {
				t.Errorf("期望 %+v，得到 %+v", second, got)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// Profile
// ═══════════════════════════════════════════════════════════

func TestProfileRepo_UserAndTeachers(t *testing.T) {
	ctx := context.Background()

	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			uid := uniq("admin")
			seedUser(t, name, model.User{UID: uid, Name: "管理员", Email: "a@school.test", Role: model.RoleAdmin})

			u, err := repo.Profile.GetUser(ctx, uid)
			if err != nil {
				t.Fatalf("读取用户失败: %v", err)
			}
			if u.UID != uid || !u.IsAdmin() {
				t.Errorf("用户不匹配: %+v", u)
			}

			tid := uniq("tch")
			seedTeacher(t, name, model.Teacher{ID: tid, Name: "王老师", Email: "w@school.test", Subject: "数学", ClassName: "7A"})

			got, err := repo.Profile.GetTeacher(ctx, tid)
			if err != nil {
				t.Fatalf("读取教师失败: %v", err)
			}
			if got.ID != tid || got.Subject != "数学" {
				t.Errorf("教师不匹配: %+v", got)
			}

			all, err := repo.Profile.ListTeachers(ctx)
			if err != nil {
				t.Fatalf("列出教师失败: %v", err)
			}
			found := false
			for _, tc := range all {
				if tc.ID == tid {
					found = true
				}
			}
			if !found {
				t.Errorf("ListTeachers 未包含 %s", tid)
			}

			if _, err := repo.Profile.GetStudent(ctx, uniq("ghost")); !errors.Is(err, pkgerrors.ErrNotFound) {
				t.Errorf("期望 ErrNotFound，得到 %v", err)
			}
		})
	}
}
