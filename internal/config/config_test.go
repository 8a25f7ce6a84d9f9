package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settleup.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "./data/settleup.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 10, cfg.Storage.PoolMaxConns)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Ledger.DueAfter)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	// No secret by default.
	assert.ErrorContains(t, cfg.Validate(), "auth.jwt_secret is required")
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
storage:
  driver: Postgres
  postgres_dsn: postgres://localhost/settleup
  pool_max_conns: 4
auth:
  jwt_secret: s3cret
  token_ttl: 1h
ledger:
  due_after: 72h
log:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://localhost/settleup", cfg.Storage.PostgresDSN)
	assert.Equal(t, 4, cfg.Storage.PoolMaxConns)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 72*time.Hour, cfg.Ledger.DueAfter)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
auth:
  jwt_secret: from-file
`)
	t.Setenv("SETTLEUP_SERVER_PORT", "7070")
	t.Setenv("SETTLEUP_AUTH_JWT_SECRET", "from-env")
	t.Setenv("SETTLEUP_LEDGER_DUE_AFTER", "48h")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 48*time.Hour, cfg.Ledger.DueAfter)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8080},
			Storage: StorageConfig{Driver: DriverSQLite, SQLitePath: "x.db", PoolMaxConns: 1},
			Auth:    AuthConfig{JWTSecret: "s", TokenTTL: time.Hour},
			Ledger:  LedgerConfig{DueAfter: time.Hour},
			Log:     LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "bad port", modify: func(c *Config) { c.Server.Port = 0 }, want: "server.port"},
		{name: "unknown driver", modify: func(c *Config) { c.Storage.Driver = "mysql" }, want: `unknown storage.driver "mysql"`},
		{name: "postgres without dsn", modify: func(c *Config) { c.Storage.Driver = DriverPostgres }, want: "storage.postgres_dsn"},
		{name: "sqlite without path", modify: func(c *Config) { c.Storage.SQLitePath = "" }, want: "storage.sqlite_path"},
		{name: "no ttl", modify: func(c *Config) { c.Auth.TokenTTL = 0 }, want: "auth.token_ttl"},
		{name: "no due period", modify: func(c *Config) { c.Ledger.DueAfter = 0 }, want: "ledger.due_after"},
		{name: "bad format", modify: func(c *Config) { c.Log.Format = "xml" }, want: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestValidate_ReportsEverything(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Driver: "nope"}, Log: LogConfig{Format: "text"}}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"server.port", "storage.driver", "auth.jwt_secret", "auth.token_ttl", "ledger.due_after"} {
		assert.ErrorContains(t, err, want)
	}
}
