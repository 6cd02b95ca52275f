// Package config loads the CLI configuration: output preferences,
// logging, and the default calculation settings. The global file lives at
// ~/.carbonflow/config.yaml; a project-local .carbonflow/config.yaml is
// shallow-merged on top, and environment variables override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/carbonflow/carbonflow/internal/engine/batch"
	"github.com/carbonflow/carbonflow/internal/engine/cache"
	"github.com/carbonflow/carbonflow/internal/lcaconfig"
	"github.com/carbonflow/carbonflow/internal/matching"
)

// Environment variables.
const (
	EnvConfigPath = "CARBONFLOW_CONFIG"
	EnvHome       = "CARBONFLOW_HOME"
	EnvLogLevel   = "CARBONFLOW_LOG_LEVEL"
	EnvLogFormat  = "CARBONFLOW_LOG_FORMAT"
	EnvPreset     = "CARBONFLOW_PRESET"
	EnvSeed       = "CARBONFLOW_SEED"
)

// Directory and file names.
const (
	DirName        = ".carbonflow"
	ConfigFileName = "config.yaml"
	MappingsFile   = "mappings.yaml"
)

// Output formats.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Config is the CLI configuration.
type Config struct {
	Output  OutputConfig  `json:"output" yaml:"output"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
	LCA     LCAConfig     `json:"lca" yaml:"lca"`

	configPath string
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	DefaultFormat string `json:"default_format" yaml:"default_format"`
	Precision     int    `json:"precision" yaml:"precision"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
	File   string `json:"file,omitempty" yaml:"file,omitempty"`
}

// LCAConfig holds calculation defaults.
type LCAConfig struct {
	// Preset is the configuration preset used when a command names none.
	Preset string `json:"preset" yaml:"preset"`
	// FactorTable is an optional path to a YAML factor table replacing the preset's.
	FactorTable string `json:"factor_table,omitempty" yaml:"factor_table,omitempty"`
	// SimilarityThreshold is the minimum fuzzy match similarity.
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`
	// Seed fixes Monte Carlo sampling; 0 is random.
	Seed uint64 `json:"seed,omitempty" yaml:"seed,omitempty"`
	// BatchSize and Concurrency tune batch runs.
	BatchSize   int `json:"batch_size" yaml:"batch_size"`
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	// SessionRetention is how long completed sessions are kept, e.g. "24h" or "3d".
	SessionRetention string `json:"session_retention" yaml:"session_retention"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		Output: OutputConfig{DefaultFormat: FormatTable, Precision: 2},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		LCA: LCAConfig{
			Preset:              lcaconfig.PresetBasic,
			SimilarityThreshold: matching.DefaultSimilarityThreshold,
			BatchSize:           batch.DefaultBatchSize,
			Concurrency:         batch.DefaultConcurrency,
			SessionRetention:    cache.FormatDuration(cache.DefaultRetention),
		},
	}
}

// HomeDir returns the global configuration directory: $CARBONFLOW_HOME,
// or ~/.carbonflow.
func HomeDir() string {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultConfigPath returns $CARBONFLOW_CONFIG or the global config file.
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(HomeDir(), ConfigFileName)
}

// New loads the global configuration file when it exists and applies
// environment overrides. A malformed file is ignored in favor of defaults.
func New() *Config {
	cfg, err := Load(DefaultConfigPath())
	if err != nil {
		cfg = Defaults()
		cfg.configPath = DefaultConfigPath()
	}
	cfg.ApplyEnv()
	return cfg
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	cfg.configPath = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv applies the CARBONFLOW_* overrides.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv(EnvPreset); v != "" {
		c.LCA.Preset = v
	}
	if v := os.Getenv(EnvSeed); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.LCA.Seed = seed
		}
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Output.DefaultFormat {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("output.default_format %q must be table, json or yaml", c.Output.DefaultFormat)
	}
	if c.Output.Precision < 0 || c.Output.Precision > 10 {
		return fmt.Errorf("output.precision %d must be between 0 and 10", c.Output.Precision)
	}
	if _, err := lcaconfig.Preset(c.LCA.Preset); err != nil {
		return fmt.Errorf("lca.preset: %w", err)
	}
	if t := c.LCA.SimilarityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("lca.similarity_threshold %g must be in (0, 1]", t)
	}
	if c.LCA.BatchSize < batch.MinBatchSize || c.LCA.BatchSize > batch.MaxBatchSize {
		return fmt.Errorf("%w: lca.batch_size %d", batch.ErrInvalidBatchSize, c.LCA.BatchSize)
	}
	if c.LCA.Concurrency < 1 {
		return fmt.Errorf("lca.concurrency %d must be positive", c.LCA.Concurrency)
	}
	if _, err := c.Retention(); err != nil {
		return fmt.Errorf("lca.session_retention: %w", err)
	}
	return nil
}

// Retention parses the session retention; CARBONFLOW_SESSION_RETENTION
// takes precedence when valid.
func (c *Config) Retention() (time.Duration, error) {
	d := cache.DefaultRetention
	if c.LCA.SessionRetention != "" {
		var err error
		if d, err = cache.ParseRetention(c.LCA.SessionRetention); err != nil {
			return 0, err
		}
	}
	return cache.RetentionFromEnv(d), nil
}

// ConfigPath returns the file the configuration was loaded from or saves to.
func (c *Config) ConfigPath() string { return c.configPath }

// SetConfigPath changes the file Save writes to.
func (c *Config) SetConfigPath(path string) { c.configPath = path }

// MappingsPath returns the user mapping file beside the configuration.
func (c *Config) MappingsPath() string {
	return filepath.Join(filepath.Dir(c.configPath), MappingsFile)
}

// Save writes the configuration as YAML, creating the directory.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("config path is not set")
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(c.configPath, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", c.configPath, err)
	}
	return nil
}

//nolint:gochecknoglobals // Process-wide configuration set once at startup.
var (
	globalConfig   *Config
	globalConfigMu sync.RWMutex
)

// SetGlobalConfig replaces the process-wide configuration.
func SetGlobalConfig(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// GetGlobalConfig returns the process-wide configuration, loading it on
// first use.
func GetGlobalConfig() *Config {
	globalConfigMu.RLock()
	cfg := globalConfig
	globalConfigMu.RUnlock()
	if cfg != nil {
		return cfg
	}

	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	if globalConfig == nil {
		globalConfig = New()
	}
	return globalConfig
}
