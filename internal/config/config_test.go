package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "mysql", cfg.Store)
	assert.Equal(t, "localhost:3306", cfg.DBHost)
	assert.Equal(t, "giftlist", cfg.DBName)
	assert.Equal(t, int64(16), cfg.MaxUploadMB)
	assert.True(t, cfg.GinLoggingEnabled())
}

func TestLoadEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE", "memory")
	t.Setenv("GIN_LOGGING", "OFF")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "memory", cfg.Store)
	assert.False(t, cfg.GinLoggingEnabled())

	logger := cfg.Logger()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}

// TestLoadEnvFile checks that values from an env file are used unless the environment already
// sets them.
func TestLoadEnvFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("DBNAME=giftlist_test\nDBUSER=fromfile\n"), 0o600))
	t.Setenv("DBUSER", "fromenv")
	t.Cleanup(func() { os.Unsetenv("DBNAME") })

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "giftlist_test", cfg.DBName)
	assert.Equal(t, "fromenv", cfg.DBUser)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]string{
		"PORT":          "70000",
		"STORE":         "postgres",
		"MAX_UPLOAD_MB": "0",
		"LOG_LEVEL":     "loud",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
	t.Run("not a number", func(t *testing.T) {
		t.Setenv("PORT", "eighty")
		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})
}
