package service

import "github.com/YeswanthKasi/schmng-sub002/internal/model"

// Summary 考勤汇总
type Summary struct {
	Present    int
	Absent     int
	Permission int
	Total      int
	Rate       float64 // 出勤率（百分比），Total 为 0 时为 0
}

// Aggregate 按状态计数并计算出勤率；纯函数，无 I/O
// 非法状态计入缺勤，保证三项之和恒等于 Total
func Aggregate(records []model.AttendanceRecord) Summary {
	var s Summary
	for i := range records {
		switch records[i].Status {
		case model.StatusPresent:
			s.Present++
		case model.StatusPermission:
			s.Permission++
		default:
			s.Absent++
		}
	}
	s.Total = len(records)
	if s.Total > 0 {
		s.Rate = float64(s.Present) * 100 / float64(s.Total)
	}
	return s
}
