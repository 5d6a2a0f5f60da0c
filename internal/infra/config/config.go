package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Catalog   CatalogConfig   `yaml:"catalog"`
	Tokenizer TokenizerConfig `yaml:"tokenizer"`
	Audit     AuditConfig     `yaml:"audit"`
	Logger    LoggerConfig    `yaml:"logger"`
	Tracer    TracerConfig    `yaml:"tracer"`
}

// CatalogConfig holds agent catalog settings.
type CatalogConfig struct {
	Dir         string        `yaml:"dir"`
	Watch       bool          `yaml:"watch"`
	MaxFileSize int64         `yaml:"max_file_size"` // bytes, per document
	Debounce    time.Duration `yaml:"debounce"`      // watcher settle window
}

// TokenizerConfig holds token counting settings.
type TokenizerConfig struct {
	// Encoding is a tiktoken encoding name (e.g. "cl100k_base").
	// Empty or "heuristic" selects the offline rune heuristic.
	Encoding string `yaml:"encoding"`
}

// AuditConfig holds selection audit log settings.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"` // SQLite database file
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
	Output string `yaml:"output"` // stdout, stderr, or file path
}

// TracerConfig holds OpenTelemetry tracing settings.
type TracerConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"` // "stdout" or "noop"
}

// Defaults returns a Config populated with sensible defaults.
func Defaults() *Config {
	return &Config{
		Catalog: CatalogConfig{
			Dir:         "./agents",
			Watch:       false,
			MaxFileSize: 1 << 20, // 1 MiB
			Debounce:    500 * time.Millisecond,
		},
		Tokenizer: TokenizerConfig{
			Encoding: "cl100k_base",
		},
		Audit: AuditConfig{
			Enabled: false,
			Path:    "./promptdeck-audit.db",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Tracer: TracerConfig{
			Enabled:  false,
			Exporter: "noop",
		},
	}
}

// Load reads a YAML config file and applies env var overrides.
// A missing file is not an error; defaults plus env overrides are used.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			ApplyEnvOverrides(cfg)
			if err := Validate(cfg); err != nil {
				return nil, err
			}
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	ApplyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnvOverrides maps PROMPTDECK_* env vars to config fields.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PROMPTDECK_CATALOG_DIR"); v != "" {
		cfg.Catalog.Dir = v
	}
	if v := os.Getenv("PROMPTDECK_CATALOG_WATCH"); v != "" {
		cfg.Catalog.Watch = v == "true"
	}
	if v := os.Getenv("PROMPTDECK_CATALOG_MAX_FILE_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Catalog.MaxFileSize = n
		}
	}
	if v := os.Getenv("PROMPTDECK_TOKENIZER_ENCODING"); v != "" {
		cfg.Tokenizer.Encoding = v
	}
	if v := os.Getenv("PROMPTDECK_AUDIT_ENABLED"); v != "" {
		cfg.Audit.Enabled = v == "true"
	}
	if v := os.Getenv("PROMPTDECK_AUDIT_PATH"); v != "" {
		cfg.Audit.Path = v
	}
	if v := os.Getenv("PROMPTDECK_LOGGER_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("PROMPTDECK_LOGGER_FORMAT"); v != "" {
		cfg.Logger.Format = v
	}
	if v := os.Getenv("PROMPTDECK_TRACER_ENABLED"); v == "true" {
		cfg.Tracer.Enabled = true
	}
	if v := os.Getenv("PROMPTDECK_TRACER_EXPORTER"); v != "" {
		cfg.Tracer.Exporter = v
	}
}
