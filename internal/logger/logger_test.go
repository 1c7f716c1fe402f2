package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func TestNewPicksFormatFromMode(t *testing.T) {
	var release, debug bytes.Buffer
	l := New(gin.ReleaseMode, &release)
	l.Info().Str("mode", "release").Msg("started")
	l = New(gin.DebugMode, &debug)
	l.Info().Str("mode", "debug").Msg("started")

	var entry map[string]any
	if err := json.Unmarshal(release.Bytes(), &entry); err != nil {
		t.Fatalf("release output is not JSON: %q", release.String())
	}
	if entry["message"] != "started" || entry["mode"] != "release" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if json.Valid(debug.Bytes()) || !bytes.Contains(debug.Bytes(), []byte("started")) {
		t.Fatalf("debug output should be console text, got %q", debug.String())
	}
}

func TestConfigureAppliesLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	Configure(gin.ReleaseMode, "warn")
	if got := zerolog.GlobalLevel(); got != zerolog.WarnLevel {
		t.Fatalf("level = %s, want warn", got)
	}
	Configure(gin.DebugMode, "nonsense")
	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Fatalf("level = %s, want info fallback", got)
	}
}
