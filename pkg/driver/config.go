package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quasarbright/simple-interpreter-js/pkg/runtime"
)

const (
	// DefaultMaxCallDepth bounds nested function calls when no config overrides it.
	DefaultMaxCallDepth = 10000
	// MaxCallDepthCeiling is the largest call depth a config or option may
	// request. Deeper evaluation risks exhausting the goroutine stack before
	// the limit is ever reported.
	MaxCallDepthCeiling = 100000
)

// Config represents the parsed contents of an evaluator config file.
type Config struct {
	Path         string
	MaxCallDepth int
	Timeout      time.Duration
	LogLevel     slog.Level
	Globals      []Global
}

// Global is a prelude binding supplied to the initial environment.
type Global struct {
	Name  string
	Value runtime.Value
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() *Config {
	return &Config{
		MaxCallDepth: DefaultMaxCallDepth,
		LogLevel:     slog.LevelInfo,
	}
}

// LoadConfig parses a YAML config from disk, returning a validated config.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", absPath, err)
	}
	cfg.Path = absPath
	return cfg, nil
}

// ParseConfig decodes and validates YAML config bytes. Unknown keys are errors.
// An empty document yields the defaults.
func ParseConfig(data []byte) (*Config, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("parse: %w", err)
	}
	return raw.toConfig()
}

// Environment converts the configured globals into an initial environment.
func (c *Config) Environment() *runtime.Environment {
	if c == nil {
		return runtime.NewEnvironment()
	}
	return ExtendEnvironment(nil, c.Globals)
}

// ExtendEnvironment binds globals on top of base, in order. A nil base is the
// empty environment.
func ExtendEnvironment(base *runtime.Environment, globals []Global) *runtime.Environment {
	env := base
	if env == nil {
		env = runtime.NewEnvironment()
	}
	for _, global := range globals {
		env = env.Extend(global.Name, global.Value)
	}
	return env
}

// DecodeGlobals validates a YAML mapping of identifier to number or boolean.
// Failures are reported together as a *ValidationError. A missing or null node
// yields no globals.
func DecodeGlobals(node *yaml.Node) ([]Global, error) {
	var gm globalMap
	if node != nil {
		if err := gm.UnmarshalYAML(node); err != nil {
			return nil, &ValidationError{Issues: []string{err.Error()}}
		}
	}
	globals, issues := gm.decode()
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}
	return globals, nil
}

// NewLogger builds a JSON logger writing to w at the given level.
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLogLevel accepts debug, info, warn or error (case-insensitive).
func ParseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(raw))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", raw)
	}
	return level, nil
}

type configFile struct {
	MaxCallDepth *int      `yaml:"maxCallDepth"`
	Timeout      string    `yaml:"timeout"`
	LogLevel     string    `yaml:"logLevel"`
	Globals      globalMap `yaml:"globals"`
}

type globalMap struct {
	items []globalEntry
}

type globalEntry struct {
	name string
	node *yaml.Node
}

func (gm *globalMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 {
		gm.items = nil
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		gm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("globals must be a mapping")
	}
	items := make([]globalEntry, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var key string
		if err := value.Content[i].Decode(&key); err != nil {
			return err
		}
		items = append(items, globalEntry{name: strings.TrimSpace(key), node: value.Content[i+1]})
	}
	gm.items = items
	return nil
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func (raw configFile) toConfig() (*Config, error) {
	cfg := DefaultConfig()
	var errs ValidationError

	if raw.MaxCallDepth != nil {
		switch depth := *raw.MaxCallDepth; {
		case depth <= 0:
			errs.Issues = append(errs.Issues, fmt.Sprintf("maxCallDepth must be positive, got %d", depth))
		case depth > MaxCallDepthCeiling:
			errs.Issues = append(errs.Issues, fmt.Sprintf("maxCallDepth must not exceed %d, got %d", MaxCallDepthCeiling, depth))
		default:
			cfg.MaxCallDepth = depth
		}
	}
	if timeout := strings.TrimSpace(raw.Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		switch {
		case err != nil:
			errs.Issues = append(errs.Issues, fmt.Sprintf("timeout %q is not a duration", timeout))
		case d < 0:
			errs.Issues = append(errs.Issues, fmt.Sprintf("timeout must not be negative, got %s", d))
		default:
			cfg.Timeout = d
		}
	}
	if raw.LogLevel != "" {
		level, err := ParseLogLevel(raw.LogLevel)
		if err != nil {
			errs.Issues = append(errs.Issues, err.Error())
		} else {
			cfg.LogLevel = level
		}
	}

	globals, issues := raw.Globals.decode()
	cfg.Globals = globals
	errs.Issues = append(errs.Issues, issues...)

	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return cfg, nil
}

func (gm globalMap) decode() ([]Global, []string) {
	var (
		globals []Global
		issues  []string
	)
	seen := make(map[string]struct{}, len(gm.items))
	for _, item := range gm.items {
		if !identifierPattern.MatchString(item.name) {
			issues = append(issues, fmt.Sprintf("globals: %q is not a valid identifier", item.name))
			continue
		}
		if _, dup := seen[item.name]; dup {
			issues = append(issues, fmt.Sprintf("globals: %q defined twice", item.name))
			continue
		}
		seen[item.name] = struct{}{}
		value, err := decodeGlobalValue(item.node)
		if err != nil {
			issues = append(issues, fmt.Sprintf("globals.%s: %v", item.name, err))
			continue
		}
		globals = append(globals, Global{Name: item.name, Value: value})
	}
	return globals, issues
}

func decodeGlobalValue(node *yaml.Node) (runtime.Value, error) {
	if node == nil || node.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("must be a number or boolean")
	}
	switch node.Tag {
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: b}, nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}
		return runtime.NumberValue{Val: f}, nil
	default:
		return nil, fmt.Errorf("must be a number or boolean, got %s", strings.TrimPrefix(node.Tag, "!!"))
	}
}
