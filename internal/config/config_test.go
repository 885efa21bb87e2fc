package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "productos.db", cfg.DatabaseURL)
	assert.Equal(t, 720, cfg.JWTExpirationHours)
	assert.Equal(t, 15, cfg.AlertThresholdDays)
	assert.Equal(t, 10*time.Minute, cfg.ImportLockTTL)
	assert.Equal(t, time.Duration(0), cfg.ImportWatchInterval)
	assert.True(t, cfg.ImportOnStart)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("EXCEL_PATH", "/data/catalogo.xls")
	t.Setenv("IMPORT_WATCH_INTERVAL", "30s")
	t.Setenv("ADMIN_EMAILS", " Jefe@Tienda.cl, ,ops@tienda.cl")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "/data/catalogo.xls", cfg.ExcelPath)
	assert.Equal(t, 30*time.Second, cfg.ImportWatchInterval)
	assert.Equal(t, []string{"jefe@tienda.cl", "ops@tienda.cl"}, cfg.Admins())
}

func TestLocation_UnknownZoneFallsBack(t *testing.T) {
	cfg := &Config{TimeZone: "Nowhere/Invalid"}
	assert.Equal(t, time.Local, cfg.Location())
}
