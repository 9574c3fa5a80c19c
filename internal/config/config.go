// Package config reads the process configuration once, at start-up.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

type Config struct {
	// Google OAuth 2.0 client, found at https://console.cloud.google.com/apis/credentials
	// e.g. "1234567890-abc.apps.googleusercontent.com"
	// An empty ClientID disables Google sign-in without failing start-up.
	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`

	// BackendURL is the application backend serving /api/auth/google/*
	BackendURL string `env:"GSIGNIN_BACKEND_URL" envDefault:"http://localhost:3000"`
	// DashboardURL is opened after a successful sign-in, if set.
	DashboardURL string `env:"GSIGNIN_DASHBOARD_URL"`

	// Port and RedirectURL configure the loopback redirect server.
	Port        string `env:"GSIGNIN_PORT" envDefault:"63353"`
	RedirectURL string `env:"GSIGNIN_REDIRECT_URL"`

	Storage     string `env:"GSIGNIN_STORAGE" envDefault:"file"`
	StoragePath string `env:"GSIGNIN_STORAGE_PATH"`
	RedisAddr   string `env:"GSIGNIN_REDIS_ADDR" envDefault:"localhost:6379"`

	Lang     string        `env:"GSIGNIN_LANG" envDefault:"en"`
	Timeout  time.Duration `env:"GSIGNIN_TIMEOUT" envDefault:"30s"`
	LogLevel string        `env:"GSIGNIN_LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables only.
func LoadFrom(vars map[string]string) (Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, opts); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}

	switch c.Storage {
	case StorageFile, StorageSQLite, StorageRedis:
	default:
		return Config{}, errors.Errorf("unknown storage %q", c.Storage)
	}

	if c.StoragePath == "" && c.Storage != StorageRedis {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		name := "session.json"
		if c.Storage == StorageSQLite {
			name = "session.db"
		}
		c.StoragePath = filepath.Join(dir, "gsignin", name)
	}

	return c, nil
}

// Enabled reports whether Google sign-in can be offered.
func (c Config) Enabled() bool {
	return c.GoogleClientID != ""
}

// ApplyLogLevel sets the logrus level, keeping the current one on a bad value.
func (c Config) ApplyLogLevel() {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("invalid log level %q, keeping %v", c.LogLevel, log.GetLevel())
		return
	}
	log.SetLevel(lvl)
}
