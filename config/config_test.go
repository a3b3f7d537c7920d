package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, EnvironmentDevelopment, cfg.Environment)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, 1000, cfg.Upload.BatchSize)
	assert.Equal(t, 100*time.Millisecond, cfg.Upload.Interval)
	assert.Equal(t, 5*time.Minute, cfg.Timeouts.Git)
	assert.Equal(t, 30*time.Second, cfg.Timeouts.File)
	assert.Equal(t, "default", cfg.Search.Preset)
	assert.NotNil(t, cfg.Providers)
}

func TestLoadYaml(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
environment: production
database:
  driver: postgres
  dsn: postgres://localhost/iconkit
timeouts:
  git: 1m
upload:
  batch_size: 250
providers:
  hero_icons:
    branch: v2.1.1
    ignores:
      - Name startsWith "test"
  lucide:
    disabled: true
    git_url: https://git.example.com/lucide.git
`)))

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, time.Minute, cfg.Timeouts.Git)
	assert.Equal(t, 250, cfg.Upload.BatchSize)

	hero := cfg.GetProviderSetting("HERO_ICONS")
	require.NotNil(t, hero)
	assert.Equal(t, "v2.1.1", hero.Branch)
	assert.Equal(t, []string{`Name startsWith "test"`}, hero.Ignores)

	lucide := cfg.GetProviderSetting("lucide")
	require.NotNil(t, lucide)
	assert.True(t, lucide.Disabled)
	assert.Equal(t, "https://git.example.com/lucide.git", lucide.GitURL)

	assert.Nil(t, cfg.GetProviderSetting("feather_icons"))
}

func TestInitEnvironmentOverrides(t *testing.T) {
	t.Setenv("ICONKIT_ENVIRONMENT", "production")
	t.Setenv("ICONKIT_DOPPLER_TOKEN", "dp.st.secret")
	t.Setenv("ICONKIT_DOPPLER_PROJECT", "iconkit")
	t.Setenv("ICONKIT_DOPPLER_CONFIG", "prd")
	t.Setenv("ICONKIT_SERVER_CORS_ORIGINS", "https://a.example.com,https://b.example.com")

	require.NoError(t, Init(filepath.Join(t.TempDir(), "missing.yml")))

	assert.True(t, Config.IsProduction())
	assert.Equal(t, "dp.st.secret", Config.Doppler.Token)
	assert.Equal(t, "iconkit", Config.Doppler.Project)
	assert.Equal(t, "prd", Config.Doppler.Config)
	assert.Equal(t, "ICON_COUNT", Config.Doppler.Secret)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, Config.Server.CorsOrigins)
}

func TestLoadRejectsZeroBatchSize(t *testing.T) {
	v := viper.New()
	v.Set("upload.batch_size", 0)

	_, err := Load(v)
	assert.Error(t, err)
}
