package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lshigami/feedback-survey/config"
	"github.com/lshigami/feedback-survey/internal/cache"
	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/i18n"
	"github.com/lshigami/feedback-survey/internal/model"
	"github.com/lshigami/feedback-survey/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	Register(req dto.RegisterRequest) (*dto.AuthResponseDTO, error)
	Login(req dto.LoginRequest) (*dto.AuthResponseDTO, error)
	Logout(ctx context.Context, claims *TokenClaims) error
	// Authenticate resolves a bearer token to its user. The returned user carries
	// the role stored in the token, not the current database value.
	Authenticate(ctx context.Context, token string) (*model.User, *TokenClaims, error)
}

type authService struct {
	userRepo         repository.UserRepository
	tokens           TokenService
	denylist         cache.TokenDenylist
	allowAdminSignup bool
	hashCost         int
	now              func() time.Time
}

func NewAuthService(userRepo repository.UserRepository, tokens TokenService, denylist cache.TokenDenylist, cfg *config.Config) AuthService {
	return &authService{
		userRepo:         userRepo,
		tokens:           tokens,
		denylist:         denylist,
		allowAdminSignup: cfg.Auth.AllowAdminSignup,
		hashCost:         bcrypt.DefaultCost,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

func (s *authService) Register(req dto.RegisterRequest) (*dto.AuthResponseDTO, error) {
	verr := &ValidationError{}
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" {
		verr.AddField("username", i18n.Error(i18n.KeyFieldRequired))
	}
	if email == "" {
		verr.AddField("email", i18n.Error(i18n.KeyFieldRequired))
	}
	if req.Password != req.PasswordConfirm {
		verr.AddField("password2", i18n.Error(i18n.KeyAuthPasswordMismatch))
	}
	role := model.Role(req.Role)
	switch {
	case !role.Valid():
		verr.AddField("role", i18n.Error(i18n.KeyFieldInvalidChoice, req.Role))
	case role == model.RoleAdmin && !s.allowAdminSignup:
		verr.AddField("role", i18n.Error(i18n.KeyAuthRoleNotAllowed))
	}
	if username != "" && email != "" {
		nameTaken, emailTaken, err := s.userRepo.Taken(username, email)
		if err != nil {
			log.Error().Err(err).Msg("Register: failed to check existing users")
			return nil, fmt.Errorf("error checking existing users: %w", err)
		}
		if nameTaken {
			verr.AddField("username", i18n.Error(i18n.KeyAuthUsernameTaken))
		}
		if emailTaken {
			verr.AddField("email", i18n.Error(i18n.KeyAuthEmailTaken))
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	user := model.User{
		Username:      username,
		Email:         email,
		FirstName:     strings.TrimSpace(req.FirstName),
		LastName:      strings.TrimSpace(req.LastName),
		PasswordHash:  string(hash),
		Role:          role,
		Faculty:       strings.TrimSpace(req.Faculty),
		AcademicGroup: strings.TrimSpace(req.AcademicGroup),
	}
	if err := s.userRepo.Create(&user); err != nil {
		log.Error().Err(err).Str("username", username).Msg("Register: failed to create user")
		return nil, fmt.Errorf("database error creating user: %w", err)
	}
	log.Info().Uint("userID", user.ID).Str("role", string(user.Role)).Msg("User registered")
	return s.issue(&user)
}

func (s *authService) Login(req dto.LoginRequest) (*dto.AuthResponseDTO, error) {
	invalid := &ValidationError{Form: []i18n.Message{i18n.Error(i18n.KeyAuthInvalidLogin)}}
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(req.Username))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invalid
	}
	if err != nil {
		log.Error().Err(err).Msg("Login: failed to load user")
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, invalid
	}
	return s.issue(user)
}

func (s *authService) Logout(ctx context.Context, claims *TokenClaims) error {
	if claims == nil {
		return ErrUnauthenticated
	}
	ttl := time.Duration(0)
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(s.now())
	}
	if err := s.denylist.Revoke(ctx, claims.ID, ttl); err != nil {
		log.Error().Err(err).Uint("userID", claims.UserID).Msg("Logout: failed to revoke token")
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, *TokenClaims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, nil, ErrUnauthenticated
	}
	revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		log.Error().Err(err).Msg("Authenticate: denylist lookup failed")
		return nil, nil, fmt.Errorf("error checking token: %w", err)
	}
	if revoked {
		return nil, nil, ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(claims.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, nil, fmt.Errorf("error loading user %d: %w", claims.UserID, err)
	}
	user.Role = claims.Role
	return user, claims, nil
}

func (s *authService) issue(user *model.User) (*dto.AuthResponseDTO, error) {
	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("Failed to issue token")
		return nil, err
	}
	return &dto.AuthResponseDTO{
		Token:      token,
		ExpiresAt:  claims.ExpiresAt.Time,
		User:       toUserDTO(user),
		RedirectTo: RoleRedirectURL(user),
	}, nil
}
