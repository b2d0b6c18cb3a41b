// Package config loads runtime settings for the signupform binary. Values
// come from defaults, then an optional YAML file, then the environment
// (including a .env file).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-signupform/pkg/signup"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// Config is the full runtime configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Theme   ThemeConfig   `yaml:"theme"`
	Log     LogConfig     `yaml:"log"`
	Form    FormConfig    `yaml:"form"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	PersistDrafts bool          `yaml:"persist_drafts"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	WriteTimeout  time.Duration `yaml:"write_timeout"`
}

// StorageConfig selects and configures the values store.
type StorageConfig struct {
	Driver string      `yaml:"driver"`
	Key    string      `yaml:"key"`
	Dir    string      `yaml:"dir"`
	Redis  RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis driver.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// ThemeConfig picks the HTML theme variant ("" or "dark").
type ThemeConfig struct {
	Variant string `yaml:"variant"`
}

// LogConfig sets the log level; empty keeps logging silent.
type LogConfig struct {
	Level string `yaml:"level"`
}

// FormConfig optionally replaces the embedded form definition with a YAML or
// JSON file. Catalog names a message catalog (locale → English text →
// translation) and Locale picks the table used for rendering.
type FormConfig struct {
	Definition string `yaml:"definition"`
	Locale     string `yaml:"locale"`
	Catalog    string `yaml:"catalog"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Driver: DriverFile,
			Key:    signup.StorageKey,
			Dir:    ".signupform",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "signupform:",
			},
		},
	}
}

// Load builds the configuration. path names an optional YAML file; envFiles
// are passed to godotenv and a missing file is not an error.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := decodeYAML(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := loadEnvFiles(envFiles...); err != nil {
		return Config{}, err
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeYAML(data []byte, cfg *Config) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(cfg)
}

func loadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("config: load %s: %w", file, err)
		}
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.Server.Addr = env("SIGNUPFORM_ADDR", cfg.Server.Addr)
	cfg.Storage.Driver = env("SIGNUPFORM_STORAGE", cfg.Storage.Driver)
	cfg.Storage.Key = env("SIGNUPFORM_STORAGE_KEY", cfg.Storage.Key)
	cfg.Storage.Dir = env("SIGNUPFORM_STORAGE_DIR", cfg.Storage.Dir)
	cfg.Storage.Redis.Addr = env("SIGNUPFORM_REDIS_ADDR", cfg.Storage.Redis.Addr)
	cfg.Storage.Redis.Password = env("SIGNUPFORM_REDIS_PASSWORD", cfg.Storage.Redis.Password)
	cfg.Storage.Redis.Prefix = env("SIGNUPFORM_REDIS_PREFIX", cfg.Storage.Redis.Prefix)
	cfg.Theme.Variant = env("SIGNUPFORM_THEME_VARIANT", cfg.Theme.Variant)
	cfg.Log.Level = env("SIGNUPFORM_LOG_LEVEL", cfg.Log.Level)
	cfg.Form.Definition = env("SIGNUPFORM_FORM", cfg.Form.Definition)
	cfg.Form.Locale = env("SIGNUPFORM_LOCALE", cfg.Form.Locale)
	cfg.Form.Catalog = env("SIGNUPFORM_CATALOG", cfg.Form.Catalog)

	var err error
	if cfg.Server.PersistDrafts, err = envBool("SIGNUPFORM_PERSIST_DRAFTS", cfg.Server.PersistDrafts); err != nil {
		return err
	}
	if cfg.Storage.Redis.DB, err = envInt("SIGNUPFORM_REDIS_DB", cfg.Storage.Redis.DB); err != nil {
		return err
	}
	if cfg.Storage.Redis.TTL, err = envDuration("SIGNUPFORM_REDIS_TTL", cfg.Storage.Redis.TTL); err != nil {
		return err
	}
	return nil
}

// Validate checks the settings that cannot be corrected later.
func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("config: storage key is required")
	}
	if c.Storage.Driver == DriverRedis && c.Storage.Redis.Addr == "" {
		return errors.New("config: redis address is required")
	}
	if c.Storage.Redis.TTL < 0 {
		return errors.New("config: redis ttl must not be negative")
	}
	if c.Form.Catalog != "" && strings.TrimSpace(c.Form.Locale) == "" {
		return errors.New("config: form locale is required with a catalog")
	}
	return nil
}

func env(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func envBool(key string, fallback bool) (bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", key, err)
	}
	return parsed, nil
}

func envInt(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", key, err)
	}
	return parsed, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback, fmt.Errorf("config: %s: %w", key, err)
	}
	return parsed, nil
}
