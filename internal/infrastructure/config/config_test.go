package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, 120*time.Hour, cfg.Auth.JWTExpire)
	assert.Equal(t, "token", cfg.Auth.CookieName)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ResetTokenTTL)
	assert.Equal(t, "ecommerce", cfg.Mongo.Database)
	assert.True(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Mail.Enabled)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":          "s3cret",
		"ENV":                 "production",
		"RESET_TOKEN_TTL":     "30m",
		"REDIS_ENABLED":       "false",
		"RATE_LIMIT_AUTH_MAX": "3",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 30*time.Minute, cfg.Auth.ResetTokenTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.RateLimit.AuthMax)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.ErrorContains(t, err, "JWT_SECRET is required")

	_, err = load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "x",
		"MAIL_ENABLED": "true",
	}))
	assert.ErrorContains(t, err, "MAILGUN_DOMAIN")

	_, err = load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":             "x",
		"RATE_LIMIT_AUTH_WINDOW": "0s",
	}))
	assert.ErrorContains(t, err, "rate limit windows must be positive")
}
