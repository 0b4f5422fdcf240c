package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all semcache configuration.
type Config struct {
	Store    StoreConfig   `yaml:"store"`
	History  HistoryConfig `yaml:"history"`
	Vector   VectorConfig  `yaml:"vector"`
	Pattern  string        `yaml:"pattern"`
	LogLevel string        `yaml:"log_level"`
}

// StoreConfig defines the Redis connection.
type StoreConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	Username     string        `yaml:"username"`
	Password     string        `yaml:"password"`
	DB           int           `yaml:"db"`
	TLS          TLSConfig     `yaml:"tls"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	// WriteTimeout of 0 lets go-redis fall back to ReadTimeout.
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// TLSConfig controls transport security for the store connection.
type TLSConfig struct {
	Enabled            bool   `yaml:"enabled"`
	ServerName         string `yaml:"server_name"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// HistoryConfig controls the local run log. It is off unless enabled so
// inspecting never writes to the working directory.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// VectorConfig describes the embedding layout written by the gateway.
// Dimensions of 0 disables the length check.
type VectorConfig struct {
	Dimensions int `yaml:"dimensions"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			Host:        "localhost",
			Port:        6379,
			DialTimeout: 5 * time.Second,
			ReadTimeout: 10 * time.Second,
		},
		History: HistoryConfig{
			Enabled: false,
			DBPath:  "semcache.db",
		},
		Vector: VectorConfig{
			Dimensions: 1536,
		},
		Pattern:  "*",
		LogLevel: "warn",
	}
}

// Load reads a YAML config file and expands environment variables. An empty
// path yields the defaults. Store overrides from the environment are applied
// last in both cases.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides store settings from REDIS_* variables.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Store.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_PORT %q: %w", v, err)
		}
		cfg.Store.Port = port
	}
	if v := os.Getenv("REDIS_USERNAME"); v != "" {
		cfg.Store.Username = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Store.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", v, err)
		}
		cfg.Store.DB = db
	}
	if v := os.Getenv("REDIS_TLS"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_TLS %q: %w", v, err)
		}
		cfg.Store.TLS.Enabled = enabled
	}
	return nil
}

// Validate checks the config for values no command can work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Store.Host == "" {
		errs = append(errs, errors.New("store.host is required"))
	}
	if c.Store.Port <= 0 || c.Store.Port > 65535 {
		errs = append(errs, fmt.Errorf("store.port %d out of range", c.Store.Port))
	}
	if c.Store.DB < 0 {
		errs = append(errs, fmt.Errorf("store.db %d must not be negative", c.Store.DB))
	}
	if c.Vector.Dimensions < 0 {
		errs = append(errs, fmt.Errorf("vector.dimensions %d must not be negative", c.Vector.Dimensions))
	}
	if c.History.Enabled && c.History.DBPath == "" {
		errs = append(errs, errors.New("history.db_path is required when history is enabled"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
