package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:               "3000",
		Env:                "development",
		DBDriver:           "postgres",
		DBHost:             "localhost",
		DBName:             "blog",
		DBPassword:         "postgres",
		DBMaxOpenConns:     25,
		DBMaxIdleConns:     5,
		TracingSampleRatio: 1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Defaults are valid", func(_ *Config) {}, false},
		{"Missing port", func(c *Config) { c.Port = "" }, true},
		{"Unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"SQLite with path", func(c *Config) { c.DBDriver = "sqlite"; c.DBPath = "blog.db" }, false},
		{"SQLite without path", func(c *Config) { c.DBDriver = "sqlite"; c.DBPath = "" }, true},
		{"Postgres without host", func(c *Config) { c.DBHost = "" }, true},
		{"Idle above open", func(c *Config) { c.DBMaxIdleConns = 50 }, true},
		{"Negative pool", func(c *Config) { c.DBMaxOpenConns = -1 }, true},
		{"Sample ratio above one", func(c *Config) { c.TracingSampleRatio = 1.5 }, true},
		{"Production default password", func(c *Config) { c.Env = "production" }, true},
		{"Production sqlite", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "a-real-secret"
			c.DBDriver = "sqlite"
			c.DBPath = "blog.db"
		}, true},
		{"Production postgres", func(c *Config) {
			c.Env = "prod"
			c.DBPassword = "a-real-secret"
			c.DBSSLMode = "require"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "4100")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "file::memory:")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "4100", cfg.Port)
	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.Equal(t, 30, cfg.RateLimitCreatePerMinute)
	assert.False(t, cfg.IsProduction())
}
