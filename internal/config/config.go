package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/figport/internal/screens"
	"github.com/joho/godotenv"
)

type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Screen export defaults, overridable by flags
	ScreenTypes   string
	SkipNameRegex string
	StripHeavy    bool

	// Server
	Port           string
	APIKey         string
	ExportDir      string
	MaxUploadBytes int64
	JobTTL         time.Duration
}

// Load reads .env (if present) and the environment.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		LogLevel:  envOr("FIGPORT_LOG_LEVEL", "info"),
		LogFormat: envOr("FIGPORT_LOG_FORMAT", "text"),

		ScreenTypes:   envOr("FIGPORT_SCREEN_TYPES", "FRAME,COMPONENT,INSTANCE,SECTION"),
		SkipNameRegex: envOr("FIGPORT_SKIP_NAME_REGEX", screens.DefaultSkipPattern),
		StripHeavy:    envBool("FIGPORT_STRIP_HEAVY", true),

		Port:           envOr("PORT", "8091"),
		APIKey:         os.Getenv("FIGPORT_API_KEY"),
		ExportDir:      envOr("EXPORT_DIR", "exports"),
		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 104857600), // 100MB

		JobTTL: envDuration("JOB_TTL", 24*time.Hour),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 104857600
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 24 * time.Hour
	}

	return cfg
}

// Validate checks settings every command needs.
func (c Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("FIGPORT_LOG_FORMAT must be text or json, got %q", c.LogFormat)
	}
	if _, err := screens.CompileSkipPattern(c.SkipNameRegex); err != nil {
		return fmt.Errorf("FIGPORT_SKIP_NAME_REGEX: %w", err)
	}
	return nil
}

// ValidateServer checks the settings the HTTP server additionally needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.APIKey == "" {
		return fmt.Errorf("FIGPORT_API_KEY is required")
	}
	if c.ExportDir == "" {
		return fmt.Errorf("EXPORT_DIR is required")
	}
	return nil
}

// ScreenConfig builds the screen export settings from the environment values.
func (c Config) ScreenConfig() (screens.Config, error) {
	sc := screens.DefaultConfig()
	sc.Types = screens.ParseTypes(c.ScreenTypes)
	re, err := screens.CompileSkipPattern(c.SkipNameRegex)
	if err != nil {
		return sc, err
	}
	sc.SkipName = re
	sc.StripHeavy = c.StripHeavy
	return sc, nil
}

// Logger builds the slog logger described by the config.
func (c Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, fmt.Errorf("FIGPORT_LOG_LEVEL: unknown level %q", s)
	}
	return level, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
