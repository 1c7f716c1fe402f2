package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Auth     Auth
	Redis    Redis
	LogLevel string
}

type Server struct {
	Port               string
	Mode               string
	CORSAllowedOrigins []string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
	// AllowAdminSignup lets /accounts/register/ create admin users. Off unless explicitly enabled.
	AllowAdminSignup bool
}

// Redis backs the logout denylist. An empty Addr disables it.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_HOST", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("JWT_SECRET", "feedback-survey-dev-secret")
	viper.SetDefault("JWT_TTL_HOURS", 24)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("ALLOW_ADMIN_SIGNUP", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.Mode = viper.GetString("GIN_MODE")
	config.Server.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Auth.JWTSecret = viper.GetString("JWT_SECRET")
	config.Auth.TokenTTL = time.Duration(viper.GetInt("JWT_TTL_HOURS")) * time.Hour
	config.Auth.AllowAdminSignup = viper.GetBool("ALLOW_ADMIN_SIGNUP")
	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")
	config.LogLevel = viper.GetString("LOG_LEVEL")

	log.Info().
		Str("port", config.Server.Port).
		Str("mode", config.Server.Mode).
		Str("db_host", config.Database.Host).
		Str("db_name", config.Database.Name).
		Bool("redis_enabled", config.Redis.Addr != "").
		Msg("Config loaded")
	return &config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
