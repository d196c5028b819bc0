package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/rankboard/pkg/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" || testing.Short() {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	return &config.Config{
		Database: config.DatabaseConfig{
			URL:             url,
			MaxConns:        2,
			MinConns:        1,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: time.Minute,
		},
	}
}

func TestNew(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := New(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping(ctx))

	status := db.HealthCheck(ctx)
	assert.True(t, status.Healthy)
	assert.Empty(t, status.Error)
}

func TestSessionsAreReadOnly(t *testing.T) {
	cfg := testConfig(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := New(ctx, cfg)
	require.NoError(t, err)
	defer db.Close()

	var readOnly string
	require.NoError(t, db.Pool.QueryRow(ctx, "SHOW default_transaction_read_only").Scan(&readOnly))
	assert.Equal(t, "on", readOnly)
}

func TestNewInvalidURL(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{URL: "::not a url::"}}

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}
