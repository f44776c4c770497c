package models

import (
	"time"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User mirrors the identity record owned by the auth provider
type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Name         string     `json:"name" gorm:"default:''"`
	Email        string     `json:"email" gorm:"uniqueIndex;not null"`
	Role         string     `json:"role" gorm:"default:'student'"` // student, teacher, admin
	LastActiveAt *time.Time `json:"last_active_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
