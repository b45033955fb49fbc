package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/attendancestats/internal/sites"
)

// Prefix of every environment variable, e.g. ATTENDANCE_ADDRESS.
const Prefix = "ATTENDANCE"

type Config struct {
	Address      string `envconfig:"ADDRESS" default:":http" validate:"required"`
	DatabasePath string `envconfig:"DATABASE_PATH" default:"attendance.db" validate:"required"`
	// DataDir holds the pre-stored exports, named <site>-<period>.csv.
	DataDir string `envconfig:"DATA_DIR" default:"public" validate:"required"`
	Period  string `envconfig:"PERIOD" default:"2020-2024" validate:"required"`
	// SitesFile optionally overrides the site rules, see sites.LoadRules.
	SitesFile string `envconfig:"SITES_FILE"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`

	RejectionLogSize   int     `envconfig:"REJECTION_LOG_SIZE" default:"100" validate:"gte=0"`
	RejectionWarnRatio float64 `envconfig:"REJECTION_WARN_RATIO" default:"0.1" validate:"gte=0,lte=1"`

	UploadMaxBytes int64   `envconfig:"UPLOAD_MAX_BYTES" default:"10485760" validate:"gt=0"`
	UploadRPS      float64 `envconfig:"UPLOAD_RPS" default:"1" validate:"gt=0"`
	UploadBurst    int     `envconfig:"UPLOAD_BURST" default:"5" validate:"gt=0"`
}

// Load reads the configuration from the environment, after loading a .env
// file from the working directory if there is one.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func (c *Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Rules returns the site rule table, with the overrides of SitesFile if set.
func (c *Config) Rules() (map[sites.Site]sites.Rules, error) {
	if c.SitesFile == "" {
		return sites.Default(), nil
	}
	return sites.LoadRules(c.SitesFile)
}
