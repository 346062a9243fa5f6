package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9000

[storage]
driver = "memory"

[item_service]
url = "http://items:8080"
timeout = 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "http://items:8080", cfg.ItemService.URL)
	assert.Equal(t, 3, cfg.ItemService.Timeout)
	// значения по умолчанию сохраняются
	assert.Equal(t, "http://localhost:9090", cfg.UserService.URL)
	assert.Equal(t, "booking.exchange", cfg.Events.Exchange)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
[storage]
driver = "memory"
`)
	t.Setenv("SHAREIT_SERVER_HTTP_PORT", "7070")
	t.Setenv("SHAREIT_AUTH_JWT_SECRET", "s3cr3t")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, "s3cr3t", cfg.Auth.JWTSecret)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mongo" }},
		{"bad port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"dynamo without table", func(c *Config) {
			c.Storage.Driver = DriverDynamoDB
			c.DynamoDB.Table = ""
		}},
		{"events without url", func(c *Config) {
			c.Events.Enabled = true
			c.Events.URL = ""
		}},
		{"no item service", func(c *Config) { c.ItemService.URL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "b", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=b sslmode=disable", d.DSN())
}
