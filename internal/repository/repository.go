package repository

import (
	"cloud.google.com/go/firestore"
	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Attendance AttendanceRepository
	Substitute SubstituteRepository
	Profile    ProfileRepository
}

// NewFirestoreRepository 基于 Firestore 文档存储创建 Repository 聚合
func NewFirestoreRepository(client *firestore.Client) *Repository {
	return &Repository{
		Attendance: NewFirestoreAttendanceRepo(client),
		Substitute: NewFirestoreSubstituteRepo(client),
		Profile:    NewFirestoreProfileRepo(client),
	}
}

// NewGormRepository 基于 PostgreSQL 创建 Repository 聚合
func NewGormRepository(db *gorm.DB) *Repository {
	return &Repository{
		Attendance: NewGormAttendanceRepo(db),
		Substitute: NewGormSubstituteRepo(db),
		Profile:    NewGormProfileRepo(db),
	}
}
