package service

import (
	"testing"

	"github.com/YeswanthKasi/schmng-sub002/internal/model"
)

func withStatuses(statuses ...model.AttendanceStatus) []model.AttendanceRecord {
	out := make([]model.AttendanceRecord, len(statuses))
	for i, st := range statuses {
		out[i] = model.AttendanceRecord{ID: "s1", UserID: "s1", Status: st}
	}
	return out
}

func TestAggregate(t *testing.T) {
	t.Run("空序列出勤率为 0", func(t *testing.T) {
		s := Aggregate(nil)
		if s.Total != 0 || s.Rate != 0 {
			t.Errorf("got %+v", s)
		}
	})

	t.Run("18/20 → 90", func(t *testing.T) {
		var in []model.AttendanceStatus
		for i := 0; i < 18; i++ {
			in = append(in, model.StatusPresent)
		}
		in = append(in, model.StatusAbsent, model.StatusPermission)

		s := Aggregate(withStatuses(in...))
		if s.Present != 18 || s.Absent != 1 || s.Permission != 1 || s.Total != 20 {
			t.Errorf("counts = %+v", s)
		}
		if s.Rate != 90.0 {
			t.Errorf("rate = %v, want 90", s.Rate)
		}
	})

	t.Run("三项之和等于总数", func(t *testing.T) {
		s := Aggregate(withStatuses(
			model.StatusPresent, model.StatusAbsent, model.AttendanceStatus("LATE"),
			model.StatusPermission, model.AttendanceStatus(""),
		))
		if s.Present+s.Absent+s.Permission != s.Total {
			t.Errorf("sum mismatch: %+v", s)
		}
		if s.Absent != 3 {
			t.Errorf("非法状态应计入缺勤，absent = %d", s.Absent)
		}
	})
}
