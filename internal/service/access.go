package service

import (
	"github.com/lshigami/feedback-survey/internal/model"
	"github.com/lshigami/feedback-survey/internal/paths"
)

var (
	teacherRoles = []model.Role{model.RoleTeacher, model.RoleAdmin}
	studentRoles = []model.Role{model.RoleStudent}
)

// RequireRole returns ErrUnauthenticated for a missing caller and ErrForbidden
// when the caller's role is not one of allowed.
func RequireRole(caller *model.User, allowed ...model.Role) error {
	if caller == nil {
		return ErrUnauthenticated
	}
	for _, role := range allowed {
		if caller.Role == role {
			return nil
		}
	}
	return ErrForbidden
}

// RoleRedirectURL is the landing page after login.
func RoleRedirectURL(user *model.User) string {
	switch user.Role {
	case model.RoleTeacher:
		return paths.TeacherDashboard
	case model.RoleStudent:
		return paths.StudentSurveys
	default:
		return paths.Analytics
	}
}
