// Package config reads the service configuration from the environment. Values from .env and
// .env.local are loaded first when the files exist; variables already set in the environment win.
package config

import (
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Config holds every setting of the service.
type Config struct {
	Port        int    `env:"PORT" envDefault:"8080"`
	Store       string `env:"STORE" envDefault:"mysql"`
	DBHost      string `env:"DBHOST" envDefault:"localhost:3306"`
	DBUser      string `env:"DBUSER" envDefault:"root"`
	DBPassword  string `env:"DBPWD"`
	DBName      string `env:"DBNAME" envDefault:"giftlist"`
	GinLogging  string `env:"GIN_LOGGING" envDefault:"on"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
	MaxUploadMB int64  `env:"MAX_UPLOAD_MB" envDefault:"16"`
}

// Load reads the configuration. Missing env files are not an error.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return Config{}, errors.Wrap(err, "load env files")
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.Store != "mysql" && c.Store != "memory" {
		return errors.Errorf("STORE must be 'mysql' or 'memory', got '%s'", c.Store)
	}
	if c.MaxUploadMB < 1 {
		return errors.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "LOG_LEVEL")
	}
	return nil
}

// GinLoggingEnabled reports whether HTTP requests are logged.
func (c Config) GinLoggingEnabled() bool {
	return !strings.EqualFold(c.GinLogging, "off")
}

// Logger builds the application logger.
func (c Config) Logger() *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if strings.EqualFold(c.LogFormat, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
