package config

import "time"

const (
	FormatJSON    = "json"
	FormatTSV     = "tsv"
	FormatDOT     = "dot"
	FormatTree    = "tree"
	FormatMermaid = "mermaid"
)

// SupportedFormats lists the accepted values of output.format.
var SupportedFormats = []string{FormatJSON, FormatTSV, FormatDOT, FormatTree, FormatMermaid}

type Config struct {
	Version       int           `toml:"version"`
	Output        Output        `toml:"output"`
	Watch         Watch         `toml:"watch"`
	Cache         Cache         `toml:"cache"`
	Observability Observability `toml:"observability"`
}

type Output struct {
	Format string `toml:"format"`
	Indent *int   `toml:"indent"` // 0 renders compact JSON
	Path   string `toml:"path"`   // empty writes to stdout
}

type Watch struct {
	Debounce         time.Duration `toml:"debounce"`
	MaxRunsPerSecond float64       `toml:"max_runs_per_second"`
	Burst            int           `toml:"burst"`
	Exclude          []string      `toml:"exclude"` // glob patterns matched against file base names
}

type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
	// MemoryEntries bounds the in-process rendering cache; negative disables it.
	MemoryEntries int `toml:"memory_entries"`
}

type Observability struct {
	MetricsAddr   string `toml:"metrics_addr"`
	OTLPEndpoint  string `toml:"otlp_endpoint"`
	EnableTracing bool   `toml:"enable_tracing"`
}

// IndentWidth returns the configured JSON indent, defaulting to four spaces.
func (o Output) IndentWidth() int {
	if o.Indent == nil {
		return 4
	}
	return *o.Indent
}

func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
