package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ALERTS_QUEUE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12124, cfg.Port)
	assert.Equal(t, ":12124", cfg.Addr())
	assert.Equal(t, "https://date.appworlds.cn/work/days", cfg.WorkdayAPIURL)
	assert.Equal(t, 10*time.Second, cfg.WorkdayAPITimeout)
	assert.Equal(t, 1.0, cfg.WorkdayAPIRate)
	assert.Equal(t, 48*time.Hour, cfg.AlertTTL)
	assert.False(t, cfg.AlertsEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("RUN_LOCAL", "true")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("WORKDAY_API_URL", "http://localhost:9999/work/days")
	t.Setenv("WORKDAY_API_TIMEOUT", "2s")
	t.Setenv("WORKDAY_API_RATE", "0")
	t.Setenv("ALERTS_QUEUE_URL", "http://localhost:4566/000000000000/alerts")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.RunLocal)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "http://localhost:9999/work/days", cfg.WorkdayAPIURL)
	assert.Equal(t, 2*time.Second, cfg.WorkdayAPITimeout)
	assert.Equal(t, 0.0, cfg.WorkdayAPIRate)
	assert.True(t, cfg.AlertsEnabled())
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("WORKDAY_API_TIMEOUT", "0s")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("WORKDAY_API_TIMEOUT", "10s")
	t.Setenv("WORKDAY_API_RATE", "-1")
	_, err = Load()
	require.Error(t, err)

	t.Setenv("WORKDAY_API_RATE", "fast")
	_, err = Load()
	require.Error(t, err)
}
