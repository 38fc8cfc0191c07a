package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "moodle_replica", cfg.Database.Name)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, 10*time.Minute, cfg.Reports.CacheTTL)
	assert.Equal(t, 720*time.Hour, cfg.Reports.DefaultRange)
	assert.Equal(t, "Grado", cfg.Catalog.CategoryName)
	assert.True(t, cfg.Catalog.YearFilter)
	assert.False(t, cfg.Reports.CacheEnabled)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REPORTS_DEFAULT_RANGE", "168h")
	t.Setenv("CATALOG_CATEGORY_NAME", "Postgrado")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Reports.DefaultRange)
	assert.Equal(t, "Postgrado", cfg.Catalog.CategoryName)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, time.Minute, parseDuration("1m", time.Hour))
	assert.Equal(t, time.Hour, parseDuration("", time.Hour))
	assert.Equal(t, time.Hour, parseDuration("bogus", time.Hour))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , b ,"))
}
