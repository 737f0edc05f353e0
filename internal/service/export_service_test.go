package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/YeswanthKasi/schmng-sub002/internal/dto"
	"github.com/YeswanthKasi/schmng-sub002/internal/model"
)

func TestExportAttendance(t *testing.T) {
	env := newTestEnv()
	env.attendance.put("2024-06-03", model.UserTypeStudent, "stu-1", markedRecord("stu-1", day(2024, 6, 3), model.StatusPresent))
	svc := NewExportService(env.attendanceService(), time.UTC, env.logger)

	buf, filename, err := svc.ExportAttendance(context.Background(), &dto.AttendanceQuery{
		SubjectID: "stu-1",
		UserType:  "STUDENT",
		From:      "2024-06-01",
		To:        "2024-06-03",
	})
	if err != nil {
		t.Fatal(err)
	}
	if filename != "attendance_stu-1_2024-06-01_2024-06-03.xlsx" {
		t.Errorf("filename = %s", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("打开导出文件失败: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("明细")
	if err != nil {
		t.Fatal(err)
	}
	// 表头 + 3 天
	if len(rows) != 4 {
		t.Fatalf("明细行数 = %d, want 4", len(rows))
	}
	if rows[1][0] != "2024-06-03" || rows[1][1] != "PRESENT" {
		t.Errorf("首行 = %v", rows[1])
	}
	if rows[3][0] != "2024-06-01" || rows[3][4] != "是" {
		t.Errorf("末行应为占位: %v", rows[3])
	}

	summary, err := f.GetRows("汇总")
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 2 || summary[1][0] != "1" || summary[1][3] != "3" {
		t.Errorf("汇总 = %v", summary)
	}
}

func TestExportAttendance_InvalidRange(t *testing.T) {
	env := newTestEnv()
	svc := NewExportService(env.attendanceService(), time.UTC, env.logger)

	_, _, err := svc.ExportAttendance(context.Background(), &dto.AttendanceQuery{
		SubjectID: "stu-1", UserType: "STUDENT", From: "2024-06-05", To: "2024-06-01",
	})
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("err = %v, want ErrInvalidRange", err)
	}
}
