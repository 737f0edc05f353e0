package model

import (
	"strings"
	"time"
)

// UserType 考勤主体类型
type UserType string

const (
	UserTypeStudent UserType = "STUDENT"
	UserTypeTeacher UserType = "TEACHER"
	UserTypeStaff   UserType = "STAFF"
)

// Valid 是否为受支持的主体类型
func (t UserType) Valid() bool {
	switch t {
	case UserTypeStudent, UserTypeTeacher, UserTypeStaff:
		return true
	default:
		return false
	}
}

// ParseUserType 忽略大小写解析主体类型
func ParseUserType(s string) (UserType, bool) {
	t := UserType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

// AttendanceStatus 考勤状态
type AttendanceStatus string

const (
	StatusPresent    AttendanceStatus = "PRESENT"
	StatusAbsent     AttendanceStatus = "ABSENT"
	StatusPermission AttendanceStatus = "PERMISSION"
)

// Valid 是否为三种合法状态之一
func (s AttendanceStatus) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusPermission:
		return true
	default:
		return false
	}
}

// PlaceholderRemarks 占位记录的固定备注
const PlaceholderRemarks = "No attendance record"

// AttendanceRecord 考勤记录 — 对应 attendance/{yyyy-MM-dd}/{userType}/{subjectId}
// Date / LastModified 为毫秒时间戳
type AttendanceRecord struct {
	ID           string           `firestore:"id"           json:"id"`
	UserID       string           `firestore:"userId"       json:"user_id"`
	UserType     UserType         `firestore:"userType"     json:"user_type"`
	Date         int64            `firestore:"date"         json:"date"`
	Status       AttendanceStatus `firestore:"status"       json:"status"`
	MarkedBy     string           `firestore:"markedBy"     json:"marked_by"`
	Remarks      string           `firestore:"remarks"      json:"remarks"`
	LastModified int64            `firestore:"lastModified" json:"last_modified"`
}

// NewPlaceholder 为缺失或不可读的某一天生成占位记录（只在读取时构造，从不落库）
func NewPlaceholder(subjectID string, userType UserType, day, now time.Time) AttendanceRecord {
	return AttendanceRecord{
		ID:           subjectID,
		UserID:       subjectID,
		UserType:     userType,
		Date:         day.UnixMilli(),
		Status:       StatusAbsent,
		MarkedBy:     "",
		Remarks:      PlaceholderRemarks,
		LastModified: now.UnixMilli(),
	}
}

// IsPlaceholder 是否为占位记录
func (r *AttendanceRecord) IsPlaceholder() bool {
	return r.MarkedBy == "" && r.Remarks == PlaceholderRemarks
}

// Time 返回记录日期对应的时间
func (r *AttendanceRecord) Time(loc *time.Location) time.Time {
	return time.UnixMilli(r.Date).In(loc)
}
