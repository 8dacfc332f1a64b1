package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: GLSLREFLECT_[SECTION]_[KEY] (e.g., GLSLREFLECT_OUTPUT_FORMAT).
func ApplyEnvOverrides(cfg *Config) {
	// Output
	setEnvString(&cfg.Output.Format, "GLSLREFLECT_OUTPUT_FORMAT")
	setEnvIntPtr(&cfg.Output.Indent, "GLSLREFLECT_OUTPUT_INDENT")
	setEnvString(&cfg.Output.Path, "GLSLREFLECT_OUTPUT_PATH")

	// Watch
	setEnvDuration(&cfg.Watch.Debounce, "GLSLREFLECT_WATCH_DEBOUNCE")
	setEnvFloat64(&cfg.Watch.MaxRunsPerSecond, "GLSLREFLECT_WATCH_MAX_RUNS_PER_SECOND")
	setEnvInt(&cfg.Watch.Burst, "GLSLREFLECT_WATCH_BURST")
	setEnvStringSlice(&cfg.Watch.Exclude, "GLSLREFLECT_WATCH_EXCLUDE")

	// Cache
	setEnvBool(&cfg.Cache.Enabled, "GLSLREFLECT_CACHE_ENABLED")
	setEnvString(&cfg.Cache.Path, "GLSLREFLECT_CACHE_PATH")
	setEnvInt(&cfg.Cache.MemoryEntries, "GLSLREFLECT_CACHE_MEMORY_ENTRIES")

	// Observability
	setEnvString(&cfg.Observability.MetricsAddr, "GLSLREFLECT_OBSERVABILITY_METRICS_ADDR")
	setEnvString(&cfg.Observability.OTLPEndpoint, "GLSLREFLECT_OBSERVABILITY_OTLP_ENDPOINT")
	setEnvBool(&cfg.Observability.EnableTracing, "GLSLREFLECT_OBSERVABILITY_ENABLE_TRACING")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

// setEnvStringSlice reads a comma-separated list. Blank items are dropped, so an
// empty value clears the list.
func setEnvStringSlice(target *[]string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		items := []string{}
		for _, item := range strings.Split(val, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		*target = items
	}
}

func setEnvIntPtr(target **int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = &i
		}
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvFloat64(target *float64, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = f
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
