package config

import (
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}
	return finalize(&cfg)
}

// FromEnv builds a configuration from defaults and environment overrides only.
func FromEnv() (*Config, error) {
	return finalize(&Config{})
}

func finalize(cfg *Config) (*Config, error) {
	ApplyEnvOverrides(cfg)
	applyDefaults(cfg)

	if err := validateVersion(cfg); err != nil {
		return nil, err
	}
	if err := validateOutput(cfg); err != nil {
		return nil, err
	}
	if err := validateWatch(cfg); err != nil {
		return nil, err
	}
	if err := validateCache(cfg); err != nil {
		return nil, err
	}
	if err := validateObservability(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}

	cfg.Output.Format = strings.ToLower(strings.TrimSpace(cfg.Output.Format))
	if cfg.Output.Format == "" {
		cfg.Output.Format = FormatJSON
	}

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 200 * time.Millisecond
	}
	if cfg.Watch.MaxRunsPerSecond == 0 {
		cfg.Watch.MaxRunsPerSecond = 2
	}
	if cfg.Watch.Burst == 0 {
		cfg.Watch.Burst = 1
	}

	if strings.TrimSpace(cfg.Cache.Path) == "" {
		cfg.Cache.Path = ".glslreflect/cache.db"
	}
	if cfg.Cache.MemoryEntries == 0 {
		cfg.Cache.MemoryEntries = 32
	}
}
