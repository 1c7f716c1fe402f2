package logger

import (
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init installs the console logger so config loading can already log.
// Configure replaces it once the config is known.
func Init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = New(gin.DebugMode, os.Stderr)
}

// New returns JSON output in release mode and a console writer otherwise.
func New(mode string, out io.Writer) zerolog.Logger {
	if mode == gin.ReleaseMode {
		return zerolog.New(out).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).With().Timestamp().Logger()
}

// Configure picks the output format from the gin mode and applies the level.
func Configure(mode, level string) {
	out := io.Writer(os.Stderr)
	if mode == gin.ReleaseMode {
		out = os.Stdout
	}
	log.Logger = New(mode, out)
	SetLevel(level)
}

// SetLevel applies the configured level; unknown values fall back to info.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		log.Warn().Str("level", level).Msg("Unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
