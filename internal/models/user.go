package models

import (
	"time"
)

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
)

// User is a login account. Email is the identity; role drives authorization.
type User struct {
	ID           uint64     `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Role         string     `gorm:"size:20;not null" json:"role"`
	PasswordHash string     `gorm:"not null" json:"-"`
	IsActive     bool       `gorm:"not null" json:"is_active"`
	IsStaff      bool       `gorm:"not null" json:"is_staff"`
	FCMToken     string     `gorm:"size:255" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) IsPatient() bool { return u.Role == RolePatient }
func (u *User) IsDoctor() bool  { return u.Role == RoleDoctor }

func ValidRole(role string) bool {
	return role == RolePatient || role == RoleDoctor
}

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password"`
	FCMToken string `json:"fcm_token"`
}
