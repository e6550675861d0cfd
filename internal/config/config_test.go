package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5.0, cfg.Upstream.WeatherTimeout)
	assert.Equal(t, 5.0, cfg.Upstream.StationTimeout)
	assert.Equal(t, 0.9, cfg.Upstream.Geocode.ConfidenceThreshold)
	assert.Equal(t, 3, cfg.Upstream.Stations.NearestN)
	assert.True(t, cfg.Upstream.BreakerEnabled)
	assert.NotEmpty(t, cfg.Upstream.Geocode.BaseURL)
	assert.NotEmpty(t, cfg.Upstream.Stations.InfoURL)
	assert.NotEmpty(t, cfg.Upstream.Stations.StatusURL)
}

func TestUpstreamTimeoutDurations(t *testing.T) {
	cfg := UpstreamConfig{WeatherTimeout: 2.5, StationTimeout: 0.25}

	assert.Equal(t, 2500*time.Millisecond, cfg.WeatherTimeoutDuration())
	assert.Equal(t, 250*time.Millisecond, cfg.StationTimeoutDuration())
}

func TestUpstreamTimeoutDefaultsWhenUnset(t *testing.T) {
	cfg := UpstreamConfig{}

	assert.Equal(t, 5*time.Second, cfg.WeatherTimeoutDuration())
	assert.Equal(t, 5*time.Second, cfg.StationTimeoutDuration())

	negative := UpstreamConfig{WeatherTimeout: -1}
	assert.Equal(t, 5*time.Second, negative.WeatherTimeoutDuration())
}

func TestConfigRoundTripThroughAtomic(t *testing.T) {
	cfg := NewDefaultConfig()
	SetConfig(cfg)
	assert.Same(t, cfg, GetConfig())
}
