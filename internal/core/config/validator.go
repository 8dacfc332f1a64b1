package config

import (
	"fmt"
	"net"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

const maxIndent = 16

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateOutput(cfg *Config) error {
	if !slices.Contains(SupportedFormats, cfg.Output.Format) {
		return fmt.Errorf("output.format must be one of: %s", strings.Join(SupportedFormats, ", "))
	}
	if indent := cfg.Output.IndentWidth(); indent < 0 || indent > maxIndent {
		return fmt.Errorf("output.indent must be between 0 and %d, got %d", maxIndent, indent)
	}
	return nil
}

func validateWatch(cfg *Config) error {
	if cfg.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	if cfg.Watch.MaxRunsPerSecond < 0 {
		return fmt.Errorf("watch.max_runs_per_second must not be negative")
	}
	if cfg.Watch.Burst < 1 {
		return fmt.Errorf("watch.burst must be >= 1, got %d", cfg.Watch.Burst)
	}
	for i, pattern := range cfg.Watch.Exclude {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("watch.exclude[%d] must not be empty", i)
		}
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("watch.exclude[%d] invalid glob %q: %w", i, pattern, err)
		}
	}
	return nil
}

func validateCache(cfg *Config) error {
	if cfg.Cache.Enabled && strings.TrimSpace(cfg.Cache.Path) == "" {
		return fmt.Errorf("cache.path must not be empty when cache is enabled")
	}
	return nil
}

func validateObservability(cfg *Config) error {
	addr := strings.TrimSpace(cfg.Observability.MetricsAddr)
	if addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("observability.metrics_addr %q: %w", addr, err)
		}
	}
	if cfg.Observability.EnableTracing && strings.TrimSpace(cfg.Observability.OTLPEndpoint) == "" {
		return fmt.Errorf("observability.otlp_endpoint is required when tracing is enabled")
	}
	return nil
}

// Validate runs every check and returns all failures.
func Validate(cfg *Config) []error {
	var errs []error
	for _, check := range []func(*Config) error{
		validateVersion,
		validateOutput,
		validateWatch,
		validateCache,
		validateObservability,
	} {
		if err := check(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
