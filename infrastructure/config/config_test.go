package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.RealtimeEnabled)
	assert.Equal(t, 25*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 5, cfg.BreakerMaxFailures)
	assert.Equal(t, 30*time.Second, cfg.BreakerOpenDuration)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://example.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "anon-key")
	t.Setenv("REALTIME_ENABLED", "false")
	t.Setenv("REALTIME_HEARTBEAT_INTERVAL", "10s")
	t.Setenv("BREAKER_MAX_FAILURES", "2")
	t.Setenv("ENVIRONMENT", "production")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.False(t, cfg.RealtimeEnabled)
	assert.Equal(t, 10*time.Second, cfg.HeartbeatInterval)
	assert.Equal(t, 2, cfg.BreakerMaxFailures)
	assert.True(t, cfg.IsProduction())
}

func TestLoadConfigRequiresCredentials(t *testing.T) {
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("SUPABASE_ANON_KEY", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestDynamicConfigValidate(t *testing.T) {
	good := &DynamicConfig{
		Placement: PlacementConfig{RadiusMin: 8, RadiusMax: 12},
		Realtime:  RealtimeConfig{Enabled: true, HeartbeatInterval: 25},
	}
	assert.NoError(t, good.validate())

	bad := &DynamicConfig{
		Placement: PlacementConfig{RadiusMin: 12, RadiusMax: 8},
		Realtime:  RealtimeConfig{HeartbeatInterval: 25},
	}
	assert.Error(t, bad.validate())

	bad = &DynamicConfig{
		Placement: PlacementConfig{RadiusMin: 8, RadiusMax: 12},
		Realtime:  RealtimeConfig{HeartbeatInterval: 0},
	}
	assert.Error(t, bad.validate())
}
