package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lshigami/feedback-survey/config"
	"github.com/lshigami/feedback-survey/internal/cache"
	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/i18n"
	"github.com/lshigami/feedback-survey/internal/model"
	"github.com/lshigami/feedback-survey/internal/paths"
	"github.com/lshigami/feedback-survey/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{Auth: config.Auth{JWTSecret: "test-secret", TokenTTL: time.Hour}}
}

func newAuthService(t *testing.T, cfg *config.Config) *authService {
	t.Helper()
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), NewTokenService(cfg), cache.NewMemoryDenylist(), cfg).(*authService)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func registration(username, role string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username:        username,
		Email:           username + "@example.edu",
		FirstName:       "Оксана",
		LastName:        "Коваль",
		Password:        "s3cret-pass",
		PasswordConfirm: "s3cret-pass",
		Role:            role,
		Faculty:         "ФІОТ",
		AcademicGroup:   "ІП-21",
	}
}

func TestRegisterLogsInAndRedirectsByRole(t *testing.T) {
	svc := newAuthService(t, testConfig())

	resp, err := svc.Register(registration("oksana", "teacher"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Token == "" || resp.RedirectTo != paths.TeacherDashboard {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.User.Faculty != "ФІОТ" || resp.User.Role != "teacher" {
		t.Fatalf("unexpected user %+v", resp.User)
	}

	user, claims, err := svc.Authenticate(context.Background(), resp.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "oksana" || claims.Role != model.RoleTeacher {
		t.Fatalf("unexpected identity %+v %+v", user, claims)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t, testConfig())
	if _, err := svc.Register(registration("taken", "student")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	cases := []struct {
		name  string
		req   func() dto.RegisterRequest
		field string
		key   string
	}{
		{"password mismatch", func() dto.RegisterRequest {
			r := registration("new", "student")
			r.PasswordConfirm = "other"
			return r
		}, "password2", i18n.KeyAuthPasswordMismatch},
		{"duplicate username", func() dto.RegisterRequest {
			r := registration("TAKEN", "student")
			r.Email = "fresh@example.edu"
			return r
		}, "username", i18n.KeyAuthUsernameTaken},
		{"duplicate email", func() dto.RegisterRequest {
			r := registration("fresh", "student")
			r.Email = "taken@example.edu"
			return r
		}, "email", i18n.KeyAuthEmailTaken},
		{"admin signup closed", func() dto.RegisterRequest {
			return registration("boss", "admin")
		}, "role", i18n.KeyAuthRoleNotAllowed},
		{"missing email", func() dto.RegisterRequest {
			r := registration("noemail", "student")
			r.Email = ""
			return r
		}, "email", i18n.KeyFieldRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(tc.req())
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			msgs := verr.Fields[tc.field]
			if len(msgs) == 0 || msgs[0].Key != tc.key {
				t.Fatalf("expected %s on %s, got %+v", tc.key, tc.field, verr.Fields)
			}
		})
	}
}

func TestRegisterAdminWhenAllowed(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.AllowAdminSignup = true
	svc := newAuthService(t, cfg)

	resp, err := svc.Register(registration("boss", "admin"))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.RedirectTo != paths.Analytics {
		t.Fatalf("admins land on analytics, got %s", resp.RedirectTo)
	}
}

func TestLogin(t *testing.T) {
	svc := newAuthService(t, testConfig())
	if _, err := svc.Register(registration("ivan", "student")); err != nil {
		t.Fatalf("seed: %v", err)
	}

	resp, err := svc.Login(dto.LoginRequest{Username: "ivan", Password: "s3cret-pass"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if resp.RedirectTo != paths.StudentSurveys {
		t.Fatalf("students land on their list, got %s", resp.RedirectTo)
	}

	for _, req := range []dto.LoginRequest{
		{Username: "ivan", Password: "wrong"},
		{Username: "nobody", Password: "s3cret-pass"},
	} {
		_, err := svc.Login(req)
		var verr *ValidationError
		if !errors.As(err, &verr) || len(verr.Form) != 1 || verr.Form[0].Key != i18n.KeyAuthInvalidLogin {
			t.Fatalf("expected invalid login error for %q, got %v", req.Username, err)
		}
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc := newAuthService(t, testConfig())
	resp, err := svc.Register(registration("ivan", "student"))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	ctx := context.Background()
	_, claims, err := svc.Authenticate(ctx, resp.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, resp.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("revoked token must not authenticate, got %v", err)
	}
	if err := svc.Logout(ctx, nil); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("anonymous logout should be unauthenticated, got %v", err)
	}
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc := newAuthService(t, testConfig())
	if _, _, err := svc.Authenticate(context.Background(), "not-a-jwt"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
