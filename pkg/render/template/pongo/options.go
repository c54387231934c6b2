package pongo

import "strings"

// DefaultAutoescapeSuffixes lists the id suffixes rendered with HTML
// autoescaping unless overridden.
var DefaultAutoescapeSuffixes = []string{".html", ".htm", ".xml"}

// Logger provides logging hooks.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Errorf(format string, args ...any)
}

// NopLogger is a no-op logger.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...any) {}
func (NopLogger) Infof(string, ...any)  {}
func (NopLogger) Errorf(string, ...any) {}

// Option configures the Engine before construction.
type Option func(*config)

type config struct {
	logger         Logger
	autoescape     []string
	globals        map[string]any
	defaultFilters bool
}

func defaultConfig() *config {
	return &config{
		logger:         NopLogger{},
		autoescape:     append([]string(nil), DefaultAutoescapeSuffixes...),
		defaultFilters: true,
	}
}

// WithLogger routes load/unload diagnostics to logger.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithAutoescapeSuffixes replaces the default autoescape suffixes. Passing no
// suffixes disables autoescaping for every template.
func WithAutoescapeSuffixes(suffixes ...string) Option {
	return func(cfg *config) {
		cfg.autoescape = normalizeSuffixes(suffixes)
	}
}

// WithGlobals seeds values or functions visible to every template.
func WithGlobals(globals map[string]any) Option {
	return func(cfg *config) {
		if len(globals) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(globals))
		}
		for name, value := range globals {
			cfg.globals[strings.TrimSpace(name)] = value
		}
	}
}

// WithDefaultFilters toggles registration of the bundled filters (trim,
// sanitize_html).
func WithDefaultFilters(enabled bool) Option {
	return func(cfg *config) {
		cfg.defaultFilters = enabled
	}
}

func normalizeSuffixes(suffixes []string) []string {
	out := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		trimmed := strings.TrimSpace(suffix)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}
