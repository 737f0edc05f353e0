package service

import (
	"context"
	"errors"
	"testing"

	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/model"
)

func TestParentDashboard(t *testing.T) {
	env := newTestEnv()
	seedParent(env)
	for d := 1; d <= 15; d++ {
		dt := day(2024, 6, d)
		env.attendance.put(FormatDateKey(dt, fixedNow.Location()), model.UserTypeStudent, "stu-1", markedRecord("stu-1", dt, model.StatusPresent))
	}
	profile := NewProfileService(env.repo, newMockSessionCache(), 0, env.logger)
	svc := NewDashboardService(profile, env.attendanceService(), env.logger)

	resp, err := svc.ParentDashboard(context.Background(), "sid-1", "parent-1", &dto.ParentDashboardQuery{Period: "This Month"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Child.ID != "stu-1" || resp.Child.ClassName != "5-B" {
		t.Errorf("child = %+v", resp.Child)
	}
	if resp.Attendance.Total != 15 || resp.Attendance.Present != 15 || resp.Attendance.Rate != 100 {
		t.Errorf("attendance = %+v", resp.Attendance)
	}
	if resp.Attendance.UserType != "STUDENT" || resp.Attendance.From != "2024-06-01" {
		t.Errorf("attendance header = %+v", resp.Attendance)
	}
}

func TestParentDashboard_NotParent(t *testing.T) {
	env := newTestEnv()
	env.profile.users["teacher-1"] = &model.User{Role: model.RoleTeacher}
	profile := NewProfileService(env.repo, nil, 0, env.logger)
	svc := NewDashboardService(profile, env.attendanceService(), env.logger)

	_, err := svc.ParentDashboard(context.Background(), "sid-1", "teacher-1", &dto.ParentDashboardQuery{})
	if !errors.Is(err, ErrNotParent) {
		t.Errorf("err = %v, want ErrNotParent", err)
	}
}
