package config

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestLoadFromEnvironment(t *testing.T) {
	is := is.New(t)

	t.Setenv("DB_DSN", "postgres://farm@localhost/farm")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("JWT_ACCESS_TTL", "5m")

	cfg, err := Load()
	is.NoErr(err)
	is.Equal(cfg.HTTP.Port, 9090)
	is.Equal(cfg.HTTP.Host, "0.0.0.0")
	is.Equal(cfg.Environment, "development")
	is.Equal(cfg.Auth.AccessTTL, 5*time.Minute)
	is.Equal(cfg.Auth.RefreshTTL, 24*time.Hour)
	is.Equal(cfg.Auth.RefreshSecret, "access-secret")
	is.Equal(cfg.Auth.RateLimit, "10-M")
}

func TestLoadRequiresDSNAndSecret(t *testing.T) {
	is := is.New(t)

	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	_, err := Load()
	is.True(err != nil)

	t.Setenv("DB_DSN", "postgres://farm@localhost/farm")
	t.Setenv("JWT_ACCESS_SECRET", "")
	_, err = Load()
	is.True(err != nil)
}
