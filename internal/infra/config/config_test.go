package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:8080", cfg.HTTP.Address)
	require.Equal(t, "http://localhost:3001", cfg.API.BaseURL)
	require.Equal(t, SessionBackendMemory, cfg.Session.Backend)
	require.Equal(t, "jungle-board-auth", cfg.Session.Key)
	require.Equal(t, 10, cfg.Board.PageSize)
	require.Equal(t, 5, cfg.Board.GroupSize)
	require.Zero(t, cfg.HTTP.WriteTimeout)
}

func TestLoad_FileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  baseUrl: http://board.internal:4000
  timeout: 3s
session:
  backend: file
  dir: /tmp/jungle
board:
  pageSize: 20
  timezone: Asia/Seoul
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("API_BASE_URL", "http://override:5000")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("SESSION_POLL_INTERVAL", "250ms")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://override:5000", cfg.API.BaseURL)
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.Equal(t, SessionBackendFile, cfg.Session.Backend)
	require.Equal(t, "/tmp/jungle", cfg.Session.Dir)
	require.Equal(t, 250*time.Millisecond, cfg.Session.PollInterval)
	require.Equal(t, 20, cfg.Board.PageSize)
	require.Equal(t, "Asia/Seoul", cfg.Board.Timezone)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("CONFIG_PATH", "")
	t.Cleanup(func() { _ = os.Unsetenv("BOARD_GROUP_SIZE") })
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BOARD_GROUP_SIZE=7\n"), 0o600))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Board.GroupSize)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty address", mutate: func(c *Config) { c.HTTP.Address = "" }},
		{name: "relative api url", mutate: func(c *Config) { c.API.BaseURL = "localhost:3001" }},
		{name: "zero api timeout", mutate: func(c *Config) { c.API.Timeout = 0 }},
		{name: "unknown backend", mutate: func(c *Config) { c.Session.Backend = "cookie" }},
		{name: "valkey without addr", mutate: func(c *Config) { c.Session.Backend = SessionBackendValkey }},
		{name: "file without dir", mutate: func(c *Config) { c.Session.Backend = SessionBackendFile; c.Session.Dir = " " }},
		{name: "empty key", mutate: func(c *Config) { c.Session.Key = "" }},
		{name: "zero page size", mutate: func(c *Config) { c.Board.PageSize = 0 }},
		{name: "bad timezone", mutate: func(c *Config) { c.Board.Timezone = "Mars/Olympus" }},
		{name: "rate limit burst", mutate: func(c *Config) { c.HTTP.RateLimit.Burst = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}

	require.NoError(t, defaultConfig().Validate())
}
