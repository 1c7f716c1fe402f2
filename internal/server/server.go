package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/feedback-survey/config"
	"github.com/lshigami/feedback-survey/internal/controller/account"
	"github.com/lshigami/feedback-survey/internal/controller/analytics"
	"github.com/lshigami/feedback-survey/internal/controller/student"
	"github.com/lshigami/feedback-survey/internal/controller/teacher"
	"github.com/lshigami/feedback-survey/internal/middleware"
	"github.com/lshigami/feedback-survey/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func NewGinEngine(cfg *config.Config) *gin.Engine {
	switch cfg.Server.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(cfg.Server.Mode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	origins := cfg.Server.CORSAllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Language", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// Controllers groups every HTTP handler set mounted by RegisterRoutes.
type Controllers struct {
	Account   *account.AccountController
	Survey    *teacher.SurveyController
	Response  *student.ResponseController
	Analytics *analytics.AnalyticsController
}

func RegisterRoutes(router *gin.Engine, authService service.AuthService, ctrl Controllers) {
	root := router.Group("/", middleware.Locale(), middleware.WithAuth(authService))

	accounts := root.Group("/accounts")
	{
		accounts.GET("/login/", ctrl.Account.LoginPage)
		accounts.POST("/login/", ctrl.Account.Login)
		accounts.POST("/logout/", ctrl.Account.Logout)
		accounts.POST("/register/", ctrl.Account.Register)
		accounts.GET("/redirect-after-login/", ctrl.Account.RedirectAfterLogin)
	}

	surveys := root.Group("/surveys")
	{
		surveys.GET("/student/", ctrl.Response.AvailableSurveys)

		authoring := surveys.Group("/teacher")
		authoring.GET("/", ctrl.Survey.Dashboard)
		authoring.GET("/surveys/", ctrl.Survey.List)
		authoring.POST("/surveys/create/", ctrl.Survey.Create)
		authoring.GET("/surveys/:id/edit/", ctrl.Survey.Edit)
		authoring.POST("/surveys/:id/edit/", ctrl.Survey.Update)
		authoring.GET("/surveys/:id/questions/", ctrl.Survey.Questions)
		authoring.POST("/surveys/:id/questions/", ctrl.Survey.SaveQuestions)
	}

	responses := root.Group("/responses")
	{
		responses.GET("/take/:survey_id/", ctrl.Response.Take)
		responses.POST("/take/:survey_id/", ctrl.Response.Submit)
		responses.GET("/thank-you/:survey_id/", ctrl.Response.ThankYou)
	}

	root.GET("/analytics/", ctrl.Analytics.Overview)
}
