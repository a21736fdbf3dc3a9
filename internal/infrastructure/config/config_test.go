package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "orderdesk-backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "orderdesk", cfg.Database.DBName)
	assert.Equal(t, 15*time.Minute, cfg.Ingestion.FullInterval)
	assert.Equal(t, 30*time.Minute, cfg.Ingestion.PriorityInterval)
	assert.Equal(t, []string{"amazon", "flipkart"}, cfg.Ingestion.PriorityPlatforms)
	assert.Equal(t, 30*time.Second, cfg.Ingestion.AdapterTimeout)
	assert.False(t, cfg.Ingestion.StrictStatus)
	assert.Equal(t, 24*time.Hour, cfg.Ingestion.WebhookDedupTTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name: "idle conns exceed open conns",
			mutate: func(c *Config) {
				c.Database.MaxOpenConns = 5
				c.Database.MaxIdleConns = 10
			},
			wantErr: "cannot exceed",
		},
		{
			name: "sweep interval too short",
			mutate: func(c *Config) {
				c.Ingestion.FullInterval = 5 * time.Second
			},
			wantErr: "full_interval",
		},
		{
			name: "production requires jwt secret",
			mutate: func(c *Config) {
				c.App.Env = "production"
			},
			wantErr: "jwt.secret is required",
		},
		{
			name: "production rejects short jwt secret",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.JWT.Secret = "short"
			},
			wantErr: "at least 32 characters",
		},
		{
			name: "production rejects wildcard cors",
			mutate: func(c *Config) {
				c.App.Env = "production"
				c.JWT.Secret = "0123456789abcdef0123456789abcdef"
				c.Database.Password = "secret"
				c.Database.SSLMode = "require"
				c.HTTP.CORSAllowOrigins = []string{"*"}
			},
			wantErr: "cors_allow_origins",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "orderdesk",
		Password: "p@ss w0rd",
		DBName:   "orders",
		SSLMode:  "require",
	}

	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss w0rd") // escaped
}

func TestRedisAddr(t *testing.T) {
	r := RedisConfig{Host: "cache.internal", Port: 6380}
	assert.Equal(t, "cache.internal:6380", r.Addr())
}
