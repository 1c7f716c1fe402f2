package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/feedback-survey/config"
	"github.com/lshigami/feedback-survey/database"
	_ "github.com/lshigami/feedback-survey/docs" // Swagger docs
	"github.com/lshigami/feedback-survey/internal/cache"
	"github.com/lshigami/feedback-survey/internal/controller/account"
	"github.com/lshigami/feedback-survey/internal/controller/analytics"
	"github.com/lshigami/feedback-survey/internal/controller/student"
	"github.com/lshigami/feedback-survey/internal/controller/teacher"
	"github.com/lshigami/feedback-survey/internal/logger"
	"github.com/lshigami/feedback-survey/internal/model"
	"github.com/lshigami/feedback-survey/internal/repository"
	"github.com/lshigami/feedback-survey/internal/server"
	"github.com/lshigami/feedback-survey/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Feedback Survey API
// @version 1.0
// @description Survey authoring for teachers, survey taking for students, and a gated analytics overview.
// @host localhost:8080
// @BasePath /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			cache.NewRedisClient,
			cache.NewTokenDenylist,
			server.NewGinEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewUserRepository,
			repository.NewSurveyRepository,
			repository.NewQuestionRepository,
			repository.NewChoiceRepository,
			repository.NewResponseSessionRepository,
			repository.NewAnswerRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewTokenService,
			service.NewAuthService,
			service.NewSurveyService,
			service.NewQuestionBuilderService,
			service.NewResponseService,
			service.NewAnalyticsService,
		),

		// API Controllers Layer
		fx.Provide(
			account.NewAccountController,
			teacher.NewSurveyController,
			student.NewResponseController,
			analytics.NewAnalyticsController,
		),

		fx.Invoke(ConfigureLogger),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(CloseRedisOnStop),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// ConfigureLogger switches to the configured output format and level.
func ConfigureLogger(cfg *config.Config) {
	logger.Configure(cfg.Server.Mode, cfg.LogLevel)
}

// CloseRedisOnStop releases the denylist connection pool, if one was opened.
func CloseRedisOnStop(lc fx.Lifecycle, client *redis.Client) {
	if client == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Msg("Redis is not reachable yet; token revocation checks will fail until it is")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}

func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	authService service.AuthService,
	accountCtrl *account.AccountController,
	surveyCtrl *teacher.SurveyController,
	responseCtrl *student.ResponseController,
	analyticsCtrl *analytics.AnalyticsController,
) {
	server.RegisterRoutes(router, authService, server.Controllers{
		Account:   accountCtrl,
		Survey:    surveyCtrl,
		Response:  responseCtrl,
		Analytics: analyticsCtrl,
	})

	httpServer := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Feedback survey server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			return httpServer.Shutdown(ctx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Survey{},
		&model.Question{},
		&model.Choice{},
		&model.ResponseSession{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
