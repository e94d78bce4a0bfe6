package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	DefaultAPIBaseURL    = "https://api.openf1.org/v1"
	DefaultListenAddress = ":8080"
	DefaultLiveTTL       = 30 * time.Second
	DefaultSettleWindow  = 24 * time.Hour
	DefaultProxyTTL      = 30 * time.Second
	DefaultFetchTimeout  = 10 * time.Second
	DefaultWorkers       = 8
	DefaultRetries       = 2
	DefaultRefreshCron   = "0 * * * * *"
	DefaultDatabase      = "./f1dashboard.db"
)

// Config is the validated runtime configuration shared by every command.
type Config struct {
	APIBaseURL    string        `mapstructure:"api-base-url"`
	ListenAddress string        `mapstructure:"listen-address"`
	LogLevel      string        `mapstructure:"log-level"`
	LogEncoding   string        `mapstructure:"log-encoding"`
	CacheBackend  string        `mapstructure:"cache-backend"`
	RedisAddr     string        `mapstructure:"redis-addr"`
	RedisPassword string        `mapstructure:"redis-password"`
	RedisDB       int           `mapstructure:"redis-db"`
	LiveTTL       time.Duration `mapstructure:"live-ttl"`
	SettleWindow  time.Duration `mapstructure:"settle-window"`
	ProxyTTL      time.Duration `mapstructure:"proxy-ttl"`
	FetchTimeout  time.Duration `mapstructure:"fetch-timeout"`
	Workers       int           `mapstructure:"workers"`
	Retries       int           `mapstructure:"retries"`
	RefreshCron   string        `mapstructure:"refresh-cron"`
	Database      string        `mapstructure:"database"`
	TelegramToken string        `mapstructure:"telegram-token"`
}

// SetDefaults registers every key so env vars are picked up by Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("api-base-url", DefaultAPIBaseURL)
	v.SetDefault("listen-address", DefaultListenAddress)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-encoding", "json")
	v.SetDefault("cache-backend", BackendMemory)
	v.SetDefault("redis-addr", "localhost:6379")
	v.SetDefault("redis-password", "")
	v.SetDefault("redis-db", 0)
	v.SetDefault("live-ttl", DefaultLiveTTL)
	v.SetDefault("settle-window", DefaultSettleWindow)
	v.SetDefault("proxy-ttl", DefaultProxyTTL)
	v.SetDefault("fetch-timeout", DefaultFetchTimeout)
	v.SetDefault("workers", DefaultWorkers)
	v.SetDefault("retries", DefaultRetries)
	v.SetDefault("refresh-cron", DefaultRefreshCron)
	v.SetDefault("database", DefaultDatabase)
	v.SetDefault("telegram-token", "")
}

// Load merges defaults, config file, env and flags already bound to v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "unable to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	if c.APIBaseURL == "" {
		return errors.New("api-base-url must not be empty")
	}
	switch c.CacheBackend {
	case BackendMemory, BackendRedis:
	default:
		return errors.Errorf("unknown cache-backend %q (want %s or %s)", c.CacheBackend, BackendMemory, BackendRedis)
	}
	if c.Workers <= 0 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.Retries < 0 {
		return errors.Errorf("retries must not be negative, got %d", c.Retries)
	}
	if c.LiveTTL <= 0 {
		return errors.Errorf("live-ttl must be positive, got %s", c.LiveTTL)
	}
	if c.ProxyTTL < 0 || c.SettleWindow < 0 {
		return errors.New("proxy-ttl and settle-window must not be negative")
	}
	if c.FetchTimeout <= 0 {
		return errors.Errorf("fetch-timeout must be positive, got %s", c.FetchTimeout)
	}
	return nil
}
