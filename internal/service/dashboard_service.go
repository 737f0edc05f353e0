package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/model"
)

// DashboardService 家长首页业务接口
type DashboardService interface {
	// ParentDashboard 孩子资料（会话缓存）+ 指定时间段的考勤汇总
	ParentDashboard(ctx context.Context, sessionID, parentUID string, q *dto.ParentDashboardQuery) (*dto.ParentDashboardResponse, error)
}

type dashboardService struct {
	profile    ProfileService
	attendance AttendanceService
	logger     *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(profile ProfileService, attendance AttendanceService, logger *zap.Logger) DashboardService {
	return &dashboardService{profile: profile, attendance: attendance, logger: logger}
}

func (s *dashboardService) ParentDashboard(ctx context.Context, sessionID, parentUID string, q *dto.ParentDashboardQuery) (*dto.ParentDashboardResponse, error) {
	child, err := s.profile.ChildOf(ctx, sessionID, parentUID)
	if err != nil {
		return nil, err
	}

	summary, err := s.attendance.Summary(ctx, &dto.AttendanceQuery{
		SubjectID: child.ID,
		UserType:  string(model.UserTypeStudent),
		Period:    q.Period,
	})
	if summary == nil {
		return nil, err
	}

	return &dto.ParentDashboardResponse{
		Child:      toStudentResponse(child),
		Attendance: *summary,
	}, err
}
