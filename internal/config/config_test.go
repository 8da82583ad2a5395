package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600))
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, ":8080", cfg.Addr())
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, "auction.db", cfg.DBDSN)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Equal(t, "session", cfg.CookieName)
	require.Empty(t, cfg.CORSAllowedOrigins)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := writeConfig(t, `
server:
  port: ":9090"
database:
  driver: memory
auth:
  session_secret: s3cret
  session_ttl: 30m
cors:
  allowed_origins:
    - http://localhost:3000
`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, "memory", cfg.DBDriver)
	require.Equal(t, "s3cret", cfg.SessionSecret)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)

	t.Setenv("AUCTION_SERVER_PORT", "7070")
	t.Setenv("AUCTION_CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err = Load(dir)
	require.NoError(t, err)
	require.Equal(t, "7070", cfg.Port)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "unknown_driver", body: "database:\n  driver: oracle\n"},
		{name: "postgres_without_dsn", body: "database:\n  driver: postgres\n  dsn: \"\"\n"},
		{name: "empty_secret", body: "auth:\n  session_secret: \"\"\n"},
		{name: "zero_ttl", body: "auth:\n  session_ttl: 0s\n"},
		{name: "default_secret_in_production", body: "app:\n  env: production\n"},
		{name: "shipped_secret_in_production", body: "app:\n  env: production\nauth:\n  session_secret: change-me\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			require.Error(t, err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
}

func TestValidate_SessionSecret(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		secret  string
		wantErr bool
	}{
		{name: "development_default", env: "development", secret: "dev-session-secret"},
		{name: "development_shipped", env: "development", secret: "change-me"},
		{name: "production_default", env: "production", secret: "dev-session-secret", wantErr: true},
		{name: "staging_shipped", env: "staging", secret: "change-me", wantErr: true},
		{name: "production_custom", env: "production", secret: "a-real-secret"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{
				Env:           tc.env,
				DBDriver:      "memory",
				SessionSecret: tc.secret,
				SessionTTL:    time.Hour,
				CookieName:    "session",
			}
			err := cfg.Validate()
			if tc.wantErr {
				require.ErrorContains(t, err, "session_secret")
				return
			}
			require.NoError(t, err)
		})
	}
}
