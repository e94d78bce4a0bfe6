package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, BackendMemory, cfg.CacheBackend)
	assert.Equal(t, DefaultLiveTTL, cfg.LiveTTL)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, DefaultRefreshCron, cfg.RefreshCron)
}

func TestLoadOverrides(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("api-base-url", "http://localhost:9000/v1/")
	v.Set("live-ttl", "45s")
	v.Set("cache-backend", BackendRedis)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/v1", cfg.APIBaseURL)
	assert.Equal(t, 45*time.Second, cfg.LiveTTL)
	assert.Equal(t, BackendRedis, cfg.CacheBackend)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "unknown backend", mutate: func(c *Config) { c.CacheBackend = "memcached" }},
		{name: "no workers", mutate: func(c *Config) { c.Workers = 0 }},
		{name: "negative retries", mutate: func(c *Config) { c.Retries = -1 }},
		{name: "zero live ttl", mutate: func(c *Config) { c.LiveTTL = 0 }},
		{name: "empty base url", mutate: func(c *Config) { c.APIBaseURL = "/" }},
		{name: "zero fetch timeout", mutate: func(c *Config) { c.FetchTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			cfg, err := Load(v)
			require.NoError(t, err)

			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
