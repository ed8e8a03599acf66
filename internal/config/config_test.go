package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SAVE_TIMEOUT", "")
	t.Setenv("MEDIA_BACKEND", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 30*time.Second, cfg.SaveTimeout)
	assert.Equal(t, MediaLocal, cfg.MediaBackend)
	assert.Equal(t, uint(5), cfg.DBConnectAttempts)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SAVE_TIMEOUT", "5s")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("STORAGE_USE_SSL", "true")
	t.Setenv("MEDIA_BACKEND", MediaMinio)

	cfg := Load()

	assert.Equal(t, "production", cfg.AppEnv)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 5*time.Second, cfg.SaveTimeout)
	assert.Equal(t, 2525, cfg.SMTPPort)
	assert.True(t, cfg.StorageUseSSL)
	assert.Equal(t, MediaMinio, cfg.MediaBackend)
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")
	t.Setenv("SAVE_TIMEOUT", "-3s")

	cfg := Load()

	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, 30*time.Second, cfg.SaveTimeout)
}

func TestLoadSitemapCategories(t *testing.T) {
	t.Setenv("SITEMAP_CATEGORIES", " chairs, ,tables ")
	assert.Equal(t, []string{"chairs", "tables"}, Load().SitemapCategories)

	t.Setenv("SITEMAP_CATEGORIES", "")
	assert.Contains(t, Load().SitemapCategories, "furniture")
}
