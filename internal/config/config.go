package config

import (
	"strings"
)

// Severity is the diagnostic level reported for a detection category
type Severity string

const (
	SeverityError       Severity = "error"
	SeverityWarning     Severity = "warning"
	SeverityInformation Severity = "information"
	SeverityHint        Severity = "hint"
)

// ParseSeverity maps a settings string to a Severity. Unknown values map to warning.
func ParseSeverity(s string) Severity {
	switch Severity(strings.ToLower(strings.TrimSpace(s))) {
	case SeverityError:
		return SeverityError
	case SeverityInformation:
		return SeverityInformation
	case SeverityHint:
		return SeverityHint
	default:
		return SeverityWarning
	}
}

// SchemaConfig controls registration of new variables in a Zod env schema
type SchemaConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Path    string `json:"schemaPath" yaml:"schemaPath"`
}

// Config is an immutable snapshot of detector settings. Build it with Merge and
// rebuild it on every change; nothing mutates a Config once handed out.
type Config struct {
	EnvExampleFileName string       `json:"envExampleFileName" yaml:"envExampleFileName"`
	SeveritySecrets    Severity     `json:"severitySecrets" yaml:"severitySecrets"`
	SeverityConfig     Severity     `json:"severityConfig" yaml:"severityConfig"`
	IgnoredGlobs       []string     `json:"ignoredGlobs" yaml:"ignoredGlobs"`
	IgnoredWords       []string     `json:"ignoredWords" yaml:"ignoredWords"`
	EnvVarPrefix       string       `json:"envVarPrefix" yaml:"envVarPrefix"`
	InsertFallback     bool         `json:"insertFallback" yaml:"insertFallback"`
	Schema             SchemaConfig `json:"schemaIntegration" yaml:"schemaIntegration"`
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		EnvExampleFileName: ".env.example",
		SeveritySecrets:    SeverityError,
		SeverityConfig:     SeverityWarning,
		IgnoredGlobs:       []string{},
		IgnoredWords:       []string{},
		EnvVarPrefix:       "",
		InsertFallback:     false,
		Schema: SchemaConfig{
			Enabled: false,
			Path:    "src/env.schema.ts",
		},
	}
}

// SeverityFor returns the configured severity for a detection category name
func (c Config) SeverityFor(category string) Severity {
	if category == "secret" {
		return c.SeveritySecrets
	}
	return c.SeverityConfig
}

// Layer is one configuration source. Nil fields are unset and leave the
// inherited value alone; list fields are unioned with what came before.
type Layer struct {
	EnvExampleFileName *string
	SeveritySecrets    *Severity
	SeverityConfig     *Severity
	IgnoredGlobs       []string
	IgnoredWords       []string
	EnvVarPrefix       *string
	InsertFallback     *bool
	SchemaEnabled      *bool
	SchemaPath         *string
}

// IsEmpty reports whether the layer sets nothing
func (l Layer) IsEmpty() bool {
	return l.EnvExampleFileName == nil && l.SeveritySecrets == nil && l.SeverityConfig == nil &&
		len(l.IgnoredGlobs) == 0 && len(l.IgnoredWords) == 0 && l.EnvVarPrefix == nil &&
		l.InsertFallback == nil && l.SchemaEnabled == nil && l.SchemaPath == nil
}

// Merge applies layers over defaults in order (typically host settings, then
// the project file). Scalars are overridden by later layers, ignored globs and
// words are unioned preserving first occurrence. The result shares no slices
// with its inputs.
func Merge(defaults Config, layers ...Layer) Config {
	out := defaults
	out.IgnoredGlobs = union(nil, defaults.IgnoredGlobs)
	out.IgnoredWords = union(nil, defaults.IgnoredWords)

	for _, l := range layers {
		if l.EnvExampleFileName != nil && strings.TrimSpace(*l.EnvExampleFileName) != "" {
			out.EnvExampleFileName = strings.TrimSpace(*l.EnvExampleFileName)
		}
		if l.SeveritySecrets != nil {
			out.SeveritySecrets = ParseSeverity(string(*l.SeveritySecrets))
		}
		if l.SeverityConfig != nil {
			out.SeverityConfig = ParseSeverity(string(*l.SeverityConfig))
		}
		if l.EnvVarPrefix != nil {
			out.EnvVarPrefix = strings.TrimSpace(*l.EnvVarPrefix)
		}
		if l.InsertFallback != nil {
			out.InsertFallback = *l.InsertFallback
		}
		if l.SchemaEnabled != nil {
			out.Schema.Enabled = *l.SchemaEnabled
		}
		if l.SchemaPath != nil && strings.TrimSpace(*l.SchemaPath) != "" {
			out.Schema.Path = strings.TrimSpace(*l.SchemaPath)
		}
		out.IgnoredGlobs = union(out.IgnoredGlobs, l.IgnoredGlobs)
		out.IgnoredWords = union(out.IgnoredWords, l.IgnoredWords)
	}
	return out
}

// union appends the non-empty entries of add that are not yet in base
func union(base, add []string) []string {
	out := make([]string, 0, len(base)+len(add))
	seen := make(map[string]bool, len(base)+len(add))
	for _, list := range [][]string{base, add} {
		for _, s := range list {
			s = strings.TrimSpace(s)
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// LayerFromMap extracts a Layer from decoded JSON or YAML. Fields of the
// wrong type are ignored, as are non-string entries of list fields.
func LayerFromMap(raw map[string]any) Layer {
	var l Layer
	if raw == nil {
		return l
	}
	if s, ok := raw["envExampleFileName"].(string); ok {
		l.EnvExampleFileName = &s
	}
	if s, ok := raw["severitySecrets"].(string); ok {
		sev := Severity(s)
		l.SeveritySecrets = &sev
	}
	if s, ok := raw["severityConfig"].(string); ok {
		sev := Severity(s)
		l.SeverityConfig = &sev
	}
	l.IgnoredGlobs = stringList(raw["ignoredGlobs"])
	l.IgnoredWords = stringList(raw["ignoredWords"])
	if s, ok := raw["envVarPrefix"].(string); ok {
		l.EnvVarPrefix = &s
	}
	if b, ok := raw["insertFallback"].(bool); ok {
		l.InsertFallback = &b
	}
	if schema, ok := raw["schemaIntegration"].(map[string]any); ok {
		if b, ok := schema["enabled"].(bool); ok {
			l.SchemaEnabled = &b
		}
		if s, ok := schema["schemaPath"].(string); ok {
			l.SchemaPath = &s
		}
	}
	return l
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return union(nil, list)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return union(nil, out)
	}
	return nil
}
