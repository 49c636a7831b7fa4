package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/l3aro/go-dataflow/internal/log"
	"github.com/l3aro/go-dataflow/pkg/constprop"
	"github.com/l3aro/go-dataflow/pkg/dataflow"
	"github.com/l3aro/go-dataflow/pkg/deadcode"
	"github.com/l3aro/go-dataflow/pkg/report"
)

// ErrInvalid is wrapped by every error returned from Validate.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration for dfa
type Config struct {
	// Analyses to run; requirements are added automatically
	Analyses []string `yaml:"analyses" toml:"analyses" env:"DFA_ANALYSES"`

	// Solver used for forward analyses: iterative or worklist
	Solver string `yaml:"solver" toml:"solver" env:"DFA_SOLVER"`

	// Output format: text, json or msgpack
	Format string `yaml:"format" toml:"format" env:"DFA_FORMAT"`

	// Number of methods analyzed concurrently
	Workers int `yaml:"workers" toml:"workers" env:"DFA_WORKERS"`

	// Name of the ignore file read from scanned directories
	IgnoreFile string `yaml:"ignore_file" toml:"ignore_file" env:"DFA_IGNORE_FILE"`

	// Logging
	LogLevel string `yaml:"log_level" toml:"log_level" env:"DFA_LOG_LEVEL"`
	Verbose  bool   `yaml:"verbose" toml:"verbose" env:"DFA_VERBOSE"`
	JSONLogs bool   `yaml:"json_logs" toml:"json_logs" env:"DFA_JSON_LOGS"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analyses:   []string{constprop.ID, deadcode.ID},
		Solver:     string(dataflow.SolverWorklist),
		Format:     string(report.FormatText),
		Workers:    4,
		IgnoreFile: ".dfaignore",
		LogLevel:   "info",
		Verbose:    false,
		JSONLogs:   false,
	}
}

// Dir is the name of the configuration directory, both in the home directory
// and in a project.
const Dir = ".dfa"

// globalConfigFilePath returns the global config file path (~/.dfa/config.yaml)
func globalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(Dir, "config.yaml")
	}
	return filepath.Join(home, Dir, "config.yaml")
}

// projectConfigFilePaths returns the project-level config file candidates,
// in order of precedence.
func projectConfigFilePaths() []string {
	return []string{
		filepath.Join(Dir, "config.yaml"),
		filepath.Join(Dir, "config.yml"),
		filepath.Join(Dir, "config.toml"),
	}
}

// ProjectConfigPath is where `dfa init` writes the project configuration.
func ProjectConfigPath() string {
	return projectConfigFilePaths()[0]
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Project-level config (./.dfa/config.yaml, .yml or .toml)
// 3. Global config (~/.dfa/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := decodeFile(globalConfigFilePath(), cfg, true); err != nil {
		return nil, err
	}

	for _, path := range projectConfigFilePaths() {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := decodeFile(path, cfg, false); err != nil {
			return nil, err
		}
		break
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML or TOML file path.
// Environment variables still override the file.
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := decodeFile(path, cfg, false); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// decodeFile merges the file at path into cfg. A missing file is an error
// unless optional is set.
func decodeFile(path string, cfg *Config, optional bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if isTOML(path) {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// Save writes the configuration to the specified path, as TOML if the path
// ends in .toml and as YAML otherwise.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return fmt.Errorf("failed to marshal config to YAML: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("DFA_ANALYSES"); v != "" {
		cfg.Analyses = splitList(v)
	}
	if v := os.Getenv("DFA_SOLVER"); v != "" {
		cfg.Solver = v
	}
	if v := os.Getenv("DFA_FORMAT"); v != "" {
		cfg.Format = v
	}
	if v := os.Getenv("DFA_WORKERS"); v != "" {
		i, ok := parseInt(v)
		if !ok {
			return fmt.Errorf("%w: DFA_WORKERS=%q is not an integer", ErrInvalid, v)
		}
		cfg.Workers = i
	}
	if v := os.Getenv("DFA_IGNORE_FILE"); v != "" {
		cfg.IgnoreFile = v
	}
	if v := os.Getenv("DFA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("DFA_VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
	if v := os.Getenv("DFA_JSON_LOGS"); v != "" {
		cfg.JSONLogs = parseBool(v)
	}
	return nil
}

// Validate checks that the configuration has valid required fields
func (c *Config) Validate() error {
	if len(c.Analyses) == 0 {
		return fmt.Errorf("%w: analyses must not be empty", ErrInvalid)
	}
	known := []string{constprop.ID, deadcode.ID}
	for _, id := range c.Analyses {
		if !slices.Contains(known, id) {
			return fmt.Errorf("%w: unknown analysis %q (must be one of %s)", ErrInvalid, id, strings.Join(known, ", "))
		}
	}

	if _, err := dataflow.ParseSolverKind(c.Solver); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalid)
	}
	if c.IgnoreFile == "" || strings.ContainsRune(c.IgnoreFile, filepath.Separator) {
		return fmt.Errorf("%w: ignore_file must be a plain file name", ErrInvalid)
	}

	return nil
}

// Level returns the configured log level; Verbose forces debug.
func (c *Config) Level() log.Level {
	if c.Verbose {
		return log.DebugLevel
	}
	level, _ := log.ParseLevel(c.LogLevel)
	return level
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parseInt attempts to parse a string as int
func parseInt(s string) (int, bool) {
	var i int
	var rest string
	if n, _ := fmt.Sscanf(s+" end", "%d %s", &i, &rest); n != 2 || rest != "end" {
		return 0, false
	}
	return i, true
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1", "yes", "on":
		return true
	}
	return false
}
