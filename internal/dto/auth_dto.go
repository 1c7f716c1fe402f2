package dto

import "time"

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type RegisterRequest struct {
	Username        string `json:"username" form:"username" binding:"required,max=150"`
	Email           string `json:"email" form:"email" binding:"required,email,max=254"`
	FirstName       string `json:"first_name" form:"first_name" binding:"max=150"`
	LastName        string `json:"last_name" form:"last_name" binding:"max=150"`
	Password        string `json:"password1" form:"password1" binding:"required,min=8"`
	PasswordConfirm string `json:"password2" form:"password2" binding:"required"`
	Role            string `json:"role" form:"role" binding:"required,oneof=student teacher admin"`
	Faculty         string `json:"faculty" form:"faculty" binding:"max=255"`
	AcademicGroup   string `json:"academic_group" form:"academic_group" binding:"max=255"`
}

type UserDTO struct {
	ID            uint   `json:"id"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Role          string `json:"role"`
	Faculty       string `json:"faculty,omitempty"`
	AcademicGroup string `json:"academic_group,omitempty"`
}

type AuthResponseDTO struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	User       UserDTO   `json:"user"`
	RedirectTo string    `json:"redirect_to"`
}
