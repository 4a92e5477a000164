package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when QUADRAS_CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Booking    BookingConfig    `yaml:"booking"`
	LogLevel   string           `yaml:"log_level"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type RedisConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Addr            string `yaml:"addr"`
	Password        string `yaml:"password"`
	DB              int    `yaml:"db"`
	CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
}

// CacheTTL returns the month overview cache lifetime.
func (r RedisConfig) CacheTTL() time.Duration {
	return time.Duration(r.CacheTTLSeconds) * time.Second
}

type MonitoringConfig struct {
	HealthPort  int `yaml:"health_port"`
	MetricsPort int `yaml:"metrics_port"`
}

type BookingConfig struct {
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	RateBurst          int `yaml:"rate_burst"`
}

// Load reads the yaml config from path, expanding ${VAR} references from
// the environment. When path is empty, QUADRAS_CONFIG_PATH and then
// DefaultPath are tried.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("QUADRAS_CONFIG_PATH")
	}
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := defaults()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Path: "data/quadralivre.db"},
		Redis: RedisConfig{
			Addr:            "localhost:6379",
			CacheTTLSeconds: 60,
		},
		Monitoring: MonitoringConfig{HealthPort: 8081, MetricsPort: 9091},
		Booking:    BookingConfig{RateLimitPerMinute: 10, RateBurst: 3},
		LogLevel:   "info",
	}
}
