package config

import (
	"fmt"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...interface{}) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true, "": true,
}

var validExporters = map[string]bool{
	"stdout": true, "noop": true, "": true,
}

// Validate checks cfg for structural correctness. It returns a *ValidationError
// when one or more problems are found, allowing callers to inspect all issues.
func Validate(cfg *Config) error {
	ve := &ValidationError{}
	validateCatalog(cfg, ve)
	validateTokenizer(cfg, ve)
	validateAudit(cfg, ve)
	validateLogger(cfg, ve)
	validateTracer(cfg, ve)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateCatalog(cfg *Config, ve *ValidationError) {
	if cfg.Catalog.Dir == "" {
		ve.Add("catalog.dir must not be empty")
	}
	if cfg.Catalog.MaxFileSize <= 0 {
		ve.Add("catalog.max_file_size must be > 0")
	}
	if cfg.Catalog.Watch && cfg.Catalog.Debounce <= 0 {
		ve.Add("catalog.debounce must be > 0 when watch is enabled")
	}
}

func validateTokenizer(cfg *Config, ve *ValidationError) {
	// Any non-empty name is allowed; unknown encodings fall back to the
	// heuristic counter at runtime.
	_ = cfg
}

func validateAudit(cfg *Config, ve *ValidationError) {
	if cfg.Audit.Enabled && cfg.Audit.Path == "" {
		ve.Add("audit.path must not be empty when audit is enabled")
	}
}

func validateLogger(cfg *Config, ve *ValidationError) {
	if cfg.Logger.Level != "" && !validLogLevels[strings.ToLower(cfg.Logger.Level)] {
		ve.Add("logger.level %q is not one of debug, info, warn, error", cfg.Logger.Level)
	}
	if !validLogFormats[strings.ToLower(cfg.Logger.Format)] {
		ve.Add("logger.format %q is not one of text, json", cfg.Logger.Format)
	}
}

func validateTracer(cfg *Config, ve *ValidationError) {
	if !validExporters[strings.ToLower(cfg.Tracer.Exporter)] {
		ve.Add("tracer.exporter %q is not one of stdout, noop", cfg.Tracer.Exporter)
	}
}
