package confloader

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "FILEDROP_"

// Alias binds an unprefixed environment variable to a config key.
// Convert may reshape the raw value; nil keeps the string.
type Alias struct {
	Key     string
	Convert func(string) any
}

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	envKeys   []string
	listKeys  map[string]bool
	aliases   map[string]Alias
	overrides map[string]any
	loaded    bool
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the YAML file path. Empty means no file.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithEnvKeys declares the dotted keys that may be set from prefixed
// environment variables. Keys containing underscores cannot be recovered
// from a variable name alone, so declared keys are matched exactly.
func WithEnvKeys(keys ...string) Option {
	return func(l *Loader) {
		l.envKeys = append(l.envKeys, keys...)
	}
}

// WithEnvListKeys declares keys whose environment value is a
// comma-separated list.
func WithEnvListKeys(keys ...string) Option {
	return func(l *Loader) {
		l.envKeys = append(l.envKeys, keys...)
		for _, k := range keys {
			l.listKeys[k] = true
		}
	}
}

// WithAliases registers unprefixed environment variables.
func WithAliases(aliases map[string]Alias) Option {
	return func(l *Loader) {
		for name, a := range aliases {
			l.aliases[name] = a
		}
	}
}

// WithOverrides sets dotted key/value pairs applied last.
func WithOverrides(values map[string]any) Option {
	return func(l *Loader) {
		for k, v := range values {
			l.overrides[k] = v
		}
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
		listKeys:  make(map[string]bool),
		aliases:   make(map[string]Alias),
		overrides: make(map[string]any),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// EnvName returns the prefixed environment variable for a dotted key.
func (l *Loader) EnvName(key string) string {
	return l.envPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load merges all sources and unmarshals into target. Fields of target
// that no source sets keep their current values.
func (l *Loader) Load(target any) error {
	if err := l.LoadFile(l.filePath); err != nil {
		return err
	}
	if err := l.LoadEnv(); err != nil {
		return err
	}
	if err := l.LoadAliases(); err != nil {
		return err
	}
	if err := l.LoadMap(l.overrides); err != nil {
		return err
	}
	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	l.loaded = true
	return nil
}

// LoadFile loads configuration from a YAML file.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}
	return nil
}

// LoadEnv loads prefixed environment variables. When keys were declared
// with WithEnvKeys only those are accepted; otherwise the name is mapped by
// lowercasing it and turning underscores into dots.
func (l *Loader) LoadEnv() error {
	names := make(map[string]string, len(l.envKeys))
	for _, k := range l.envKeys {
		names[l.EnvName(k)] = k
	}

	cb := func(name, value string) (string, any) {
		if len(names) == 0 {
			return strings.ToLower(strings.ReplaceAll(strings.TrimPrefix(name, l.envPrefix), "_", ".")), value
		}
		key, ok := names[name]
		if !ok {
			return "", nil
		}
		if l.listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}

	if err := l.k.Load(env.ProviderWithValue(l.envPrefix, ".", cb), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// LoadAliases loads the unprefixed alias variables that are set.
func (l *Loader) LoadAliases() error {
	values := make(map[string]any)
	for name, alias := range l.aliases {
		raw, ok := os.LookupEnv(name)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		var v any = raw
		if alias.Convert != nil {
			v = alias.Convert(raw)
		}
		values[alias.Key] = v
	}
	return l.LoadMap(values)
}

// LoadMap loads dotted key/value pairs.
func (l *Loader) LoadMap(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// Unmarshal unmarshals the merged configuration using koanf struct tags.
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// GetString returns a string value by dotted key.
func (l *Loader) GetString(key string) string {
	return l.k.String(key)
}

// GetInt64 returns an int64 value by dotted key.
func (l *Loader) GetInt64(key string) int64 {
	return l.k.Int64(key)
}

// Exists reports whether any source set key.
func (l *Loader) Exists(key string) bool {
	return l.k.Exists(key)
}

// IsLoaded reports whether Load completed.
func (l *Loader) IsLoaded() bool {
	return l.loaded
}

// Keys returns all loaded keys.
func (l *Loader) Keys() []string {
	return l.k.Keys()
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
