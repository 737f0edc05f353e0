package dto

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
)

func TestRegisterValidators(t *testing.T) {
	if err := RegisterValidators(); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	tests := []struct {
		name    string
		req     MarkAttendanceRequest
		wantErr bool
	}{
		{"合法", MarkAttendanceRequest{SubjectID: "s1", UserType: "student", Date: "2024-06-15", Status: "PRESENT"}, false},
		{"日期格式错误", MarkAttendanceRequest{SubjectID: "s1", UserType: "STUDENT", Date: "15/06/2024", Status: "PRESENT"}, true},
		{"日期不存在", MarkAttendanceRequest{SubjectID: "s1", UserType: "STUDENT", Date: "2024-02-30", Status: "PRESENT"}, true},
		{"主体类型无效", MarkAttendanceRequest{SubjectID: "s1", UserType: "PARENT", Date: "2024-06-15", Status: "PRESENT"}, true},
		{"状态无效", MarkAttendanceRequest{SubjectID: "s1", UserType: "TEACHER", Date: "2024-06-15", Status: "LATE"}, true},
		{"缺少主体", MarkAttendanceRequest{UserType: "TEACHER", Date: "2024-06-15", Status: "ABSENT"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRegisterValidators_OptionalDateKey(t *testing.T) {
	if err := RegisterValidators(); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	q := AttendanceQuery{SubjectID: "s1", UserType: "STAFF", Period: "This Month"}
	if err := binding.Validator.ValidateStruct(&q); err != nil {
		t.Errorf("from/to 为空时应通过: %v", err)
	}

	q.From = "2024-13-01"
	if err := binding.Validator.ValidateStruct(&q); err == nil {
		t.Error("非法 from 应校验失败")
	}
}
