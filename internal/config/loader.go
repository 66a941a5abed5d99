package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WIRECANVAS_"

// Load builds the configuration from defaults, the file at path and the
// environment, then validates it. An empty path skips the file layer.
func Load(path string) (*Config, error) {
	base, err := toMap(Default())
	if err != nil {
		return nil, err
	}

	if path != "" {
		file, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		base = DeepMerge(base, file)
	}

	base = DeepMerge(base, LoadEnv(os.Environ(), base))

	cfg, err := fromMap(base)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a TOML or YAML file into a settings map. The format is
// chosen by extension.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	out := make(map[string]any)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, tomlError(path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	return out, nil
}

func tomlError(path string, err error) error {
	pe := &ParseError{Path: path, Message: err.Error(), Err: err}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		pe.Line, pe.Column = de.Position()
	}
	return pe
}

// LoadEnv returns the overrides found in environ for settings that exist
// in known. Variables naming unknown settings are skipped.
func LoadEnv(environ []string, known map[string]any) map[string]any {
	out := make(map[string]any)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		section, key, ok := envToPath(name)
		if !ok {
			continue
		}
		sec, ok := known[section].(map[string]any)
		if !ok {
			continue
		}
		if _, ok := sec[key]; !ok {
			continue
		}
		setByPath(out, section+"."+key, parseValue(value))
	}
	return out
}

// envToPath converts WIRECANVAS_VIEW_ZOOM_MAX to ("view", "zoom_max").
func envToPath(env string) (section, key string, ok bool) {
	name := strings.ToLower(strings.TrimPrefix(env, EnvPrefix))
	section, key, ok = strings.Cut(name, "_")
	if !ok || section == "" || key == "" {
		return "", "", false
	}
	return section, key, true
}

// parseValue attempts to parse the string value into an appropriate type.
// Numbers win over booleans so "0" stays a number.
func parseValue(s string) any {
	if s == "" {
		return s
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// DeepMerge merges src into dst, with src values taking precedence.
// Nested maps are merged recursively; other values are replaced.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}
	for key, srcVal := range src {
		srcMap, srcIsMap := srcVal.(map[string]any)
		dstMap, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dstMap, srcMap)
			continue
		}
		dst[key] = srcVal
	}
	return dst
}

func toMap(c *Config) (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding defaults: %w", err)
	}
	out := make(map[string]any)
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decoding defaults: %w", err)
	}
	return out, nil
}

// fromMap decodes merged settings, rejecting unknown keys.
func fromMap(m map[string]any) (*Config, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	cfg := &Config{}
	if err := dec.Decode(cfg); err != nil {
		return nil, &ParseError{Path: "<merged>", Message: err.Error(), Err: err}
	}
	return cfg, nil
}
