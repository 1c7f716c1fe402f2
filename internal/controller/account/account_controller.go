package account

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/feedback-survey/config"
	"github.com/lshigami/feedback-survey/internal/controller"
	"github.com/lshigami/feedback-survey/internal/dto"
	"github.com/lshigami/feedback-survey/internal/i18n"
	"github.com/lshigami/feedback-survey/internal/middleware"
	"github.com/lshigami/feedback-survey/internal/paths"
	"github.com/lshigami/feedback-survey/internal/service"
	"github.com/rs/zerolog/log"
)

type AccountController struct {
	authService  service.AuthService
	secureCookie bool
}

func NewAccountController(authService service.AuthService, cfg *config.Config) *AccountController {
	return &AccountController{
		authService:  authService,
		secureCookie: cfg.Server.Mode == gin.ReleaseMode,
	}
}

// LoginPage godoc
// @Summary Login entry point
// @Description Authenticated callers are redirected to their landing page; anonymous callers get the accepted next value.
// @Tags Accounts
// @Produce json
// @Param next query string false "Local path to continue to after login"
// @Success 200 {object} dto.DataResponse
// @Success 303 {object} dto.RedirectResponse "Already logged in"
// @Router /accounts/login/ [get]
func (c *AccountController) LoginPage(ctx *gin.Context) {
	if user := middleware.CurrentUser(ctx); user != nil {
		controller.Redirect(ctx, service.RoleRedirectURL(user))
		return
	}
	controller.Data(ctx, http.StatusOK, gin.H{"next": safeNext(ctx.Query("next"))})
}

// Login godoc
// @Summary Log in
// @Description Checks the credentials and issues a session token. redirect_to is the role landing page, or next when given.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequest true "Username and password"
// @Param next query string false "Local path to continue to after login"
// @Success 200 {object} dto.AuthResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed body"
// @Failure 422 {object} dto.ErrorResponse "Invalid credentials"
// @Router /accounts/login/ [post]
func (c *AccountController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		log.Warn().Err(err).Msg("Login: failed to bind request")
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.authService.Login(req)
	if err != nil {
		controller.Error(ctx, err, nil)
		return
	}
	if next := safeNext(ctx.Query("next")); next != "" {
		resp.RedirectTo = next
	}
	c.setSessionCookie(ctx, resp)
	ctx.JSON(http.StatusOK, resp)
}

// Register godoc
// @Summary Register a new account
// @Description Creates the user and logs them in. Admin accounts cannot be self-registered unless enabled by configuration.
// @Tags Accounts
// @Accept json
// @Produce json
// @Param user body dto.RegisterRequest true "Registration form"
// @Success 201 {object} dto.AuthResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Malformed body"
// @Failure 422 {object} dto.ErrorResponse "Validation errors per field"
// @Router /accounts/register/ [post]
func (c *AccountController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBind(&req); err != nil {
		log.Warn().Err(err).Msg("Register: failed to bind request")
		controller.BindError(ctx, err)
		return
	}
	resp, err := c.authService.Register(req)
	if err != nil {
		controller.Error(ctx, err, nil)
		return
	}
	c.setSessionCookie(ctx, resp)
	ctx.JSON(http.StatusCreated, resp)
}

// Logout godoc
// @Summary Log out
// @Description Revokes the current token and redirects to the login page.
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 303 {object} dto.RedirectResponse
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /accounts/logout/ [post]
func (c *AccountController) Logout(ctx *gin.Context) {
	if err := c.authService.Logout(ctx.Request.Context(), middleware.CurrentClaims(ctx)); err != nil {
		controller.Error(ctx, err, nil)
		return
	}
	ctx.SetCookie(middleware.SessionCookie, "", -1, "/", "", c.secureCookie, true)
	controller.Redirect(ctx, paths.Login, i18n.Info(i18n.KeyAuthLoggedOut))
}

// RedirectAfterLogin godoc
// @Summary Role landing redirect
// @Tags Accounts
// @Produce json
// @Security BearerAuth
// @Success 303 {object} dto.RedirectResponse
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Router /accounts/redirect-after-login/ [get]
func (c *AccountController) RedirectAfterLogin(ctx *gin.Context) {
	user := middleware.CurrentUser(ctx)
	if user == nil {
		controller.Error(ctx, service.ErrUnauthenticated, nil)
		return
	}
	controller.Redirect(ctx, service.RoleRedirectURL(user))
}

func (c *AccountController) setSessionCookie(ctx *gin.Context, resp *dto.AuthResponseDTO) {
	maxAge := int(time.Until(resp.ExpiresAt).Seconds())
	if maxAge <= 0 {
		return
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(middleware.SessionCookie, resp.Token, maxAge, "/", "", c.secureCookie, true)
}

// safeNext accepts only paths on this host.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return ""
	}
	return next
}
