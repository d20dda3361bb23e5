package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jenian/envsensei/internal/logging"
	"github.com/jenian/envsensei/internal/naming"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable that overrides a host setting
const EnvPrefix = "ENVSENSEI"

// settingKeys are the recognized settings, in the camelCase spelling used by
// both the settings file and the project file.
var settingKeys = []string{
	"envExampleFileName",
	"severitySecrets",
	"severityConfig",
	"ignoredGlobs",
	"ignoredWords",
	"envVarPrefix",
	"insertFallback",
	"schemaIntegration.enabled",
	"schemaIntegration.schemaPath",
}

// DefaultHostPath returns the per-user settings file location,
// e.g. ~/.config/envsensei/settings.yaml.
func DefaultHostPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "envsensei", "settings.yaml")
}

// LoadHost reads the YAML settings file at path. A missing file is an empty layer.
func LoadHost(path string) (Layer, error) {
	if path == "" {
		return Layer{}, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Layer{}, nil
	}
	if err != nil {
		return Layer{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Layer{}, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return LayerFromMap(raw), nil
}

// AddHostIgnoredWord appends word to ignoredWords in the YAML settings file at
// path, creating the file and its directory when needed. Comments and key
// order of an existing file are kept. It returns false when the word was
// already listed.
func AddHostIgnoredWord(path, word string) (bool, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return false, errors.New("ignore word must not be empty")
	}
	if path == "" {
		return false, errors.New("no user settings location")
	}

	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to read settings file: %w", err)
	}

	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return false, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}
	if doc.Kind != yaml.DocumentNode {
		doc = yaml.Node{Kind: yaml.DocumentNode}
	}
	if len(doc.Content) == 0 {
		doc.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return false, fmt.Errorf("settings file %s is not a mapping", path)
	}

	var words *yaml.Node
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "ignoredWords" {
			continue
		}
		if root.Content[i+1].Kind != yaml.SequenceNode {
			root.Content[i+1] = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		}
		words = root.Content[i+1]
		break
	}
	if words == nil {
		words = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		root.Content = append(root.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: "ignoredWords"}, words)
	}
	for _, item := range words.Content {
		if item.Kind == yaml.ScalarNode && item.Value == word {
			return false, nil
		}
	}
	words.Content = append(words.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: word})

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return false, fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return false, fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return false, fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

// EnvVarFor returns the environment variable overriding a setting key,
// e.g. schemaIntegration.enabled → ENVSENSEI_SCHEMA_INTEGRATION_ENABLED.
func EnvVarFor(key string) string {
	return naming.ToEnvVarName(key, EnvPrefix)
}

// LoadEnv builds a layer from ENVSENSEI_* environment variables. List settings
// are comma separated; booleans that do not parse are ignored.
func LoadEnv() Layer {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range settingKeys {
		_ = v.BindEnv(key, EnvVarFor(key))
	}

	raw := make(map[string]any)
	schema := make(map[string]any)
	for _, key := range settingKeys {
		if !v.IsSet(key) {
			continue
		}
		value := v.GetString(key)

		var decoded any = value
		switch key {
		case "ignoredGlobs", "ignoredWords":
			parts := strings.Split(value, ",")
			list := make([]any, 0, len(parts))
			for _, p := range parts {
				list = append(list, p)
			}
			decoded = list
		case "insertFallback", "schemaIntegration.enabled":
			b, err := strconv.ParseBool(value)
			if err != nil {
				logging.Logger.Warnf("ignoring %s: %q is not a boolean", EnvVarFor(key), value)
				continue
			}
			decoded = b
		}

		if name, ok := strings.CutPrefix(key, "schemaIntegration."); ok {
			schema[name] = decoded
			continue
		}
		raw[key] = decoded
	}
	if len(schema) > 0 {
		raw["schemaIntegration"] = schema
	}
	return LayerFromMap(raw)
}
