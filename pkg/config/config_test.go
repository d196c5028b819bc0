package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	// Defaults
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, SourceWorkbook, cfg.Source.Kind)
	assert.Equal(t, ".csv", cfg.Source.Suffix)
	assert.Equal(t, 10*time.Second, cfg.Source.FetchTimeout)
	assert.Equal(t, "202004", cfg.Period.Start)
	assert.Equal(t, "202309", cfg.Period.End)
	assert.True(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("SOURCE_KIND", "Remote")
	t.Setenv("SOURCE_BASE_URL", "https://example.com/rankings/")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("FETCH_RATE_PER_SEC", "2.5")
	t.Setenv("PERIOD_END", "202404")
	t.Setenv("CACHE_TTL", "15m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, SourceRemote, cfg.Source.Kind)
	assert.Equal(t, "https://example.com/rankings/", cfg.Source.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Source.FetchTimeout)
	assert.InDelta(t, 2.5, cfg.Source.RatePerSec, 1e-9)
	assert.Equal(t, "202404", cfg.Period.End)
	assert.Equal(t, 15*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "remote without base url",
			env:     map[string]string{"SOURCE_KIND": "remote"},
			wantErr: "SOURCE_BASE_URL",
		},
		{
			name:    "postgres without database url",
			env:     map[string]string{"SOURCE_KIND": "postgres"},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "unknown source kind",
			env:     map[string]string{"SOURCE_KIND": "ftp"},
			wantErr: "SOURCE_KIND",
		},
		{
			name:    "invalid env",
			env:     map[string]string{"ENV": "qa"},
			wantErr: "ENV",
		},
		{
			name:    "malformed period",
			env:     map[string]string{"PERIOD_START": "2020-04"},
			wantErr: "YYYYMM",
		},
		{
			name:    "inverted period range",
			env:     map[string]string{"PERIOD_START": "202401", "PERIOD_END": "202312"},
			wantErr: "after",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGetEnvFallbacks(t *testing.T) {
	t.Setenv("TEST_BAD_INT", "abc")
	t.Setenv("TEST_BAD_BOOL", "maybe")
	t.Setenv("TEST_BAD_DURATION", "soon")

	assert.Equal(t, 7, getEnvAsInt("TEST_BAD_INT", 7))
	assert.True(t, getEnvAsBool("TEST_BAD_BOOL", true))
	assert.Equal(t, time.Minute, getEnvAsDuration("TEST_BAD_DURATION", "1m"))
}

func TestLoadFrom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rankboard.env")
	require.NoError(t, os.WriteFile(path, []byte("SOURCE_KIND=directory\nSOURCE_PATH=/srv/rankings\n"), 0o644))

	// godotenv writes straight into the process environment
	t.Setenv("SOURCE_KIND", "")
	t.Setenv("SOURCE_PATH", "")
	os.Unsetenv("SOURCE_KIND")
	os.Unsetenv("SOURCE_PATH")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, SourceDirectory, cfg.Source.Kind)
	assert.Equal(t, "/srv/rankings", cfg.Source.Path)

	_, err = LoadFrom(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
