package model

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User is referenced by surveys and response sessions, so it is never deleted.
type User struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	Username      string    `json:"username" gorm:"size:150;not null;uniqueIndex"`
	Email         string    `json:"email" gorm:"size:254;not null;uniqueIndex"`
	FirstName     string    `json:"first_name" gorm:"size:150"`
	LastName      string    `json:"last_name" gorm:"size:150"`
	PasswordHash  string    `json:"-" gorm:"not null"`
	Role          Role      `json:"role" gorm:"size:20;not null;default:'student'"`
	Faculty       string    `json:"faculty" gorm:"size:255"`
	AcademicGroup string    `json:"academic_group" gorm:"size:255"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
