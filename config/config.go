package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/brettbedarf/editorfs/internal/util"
	"gopkg.in/yaml.v3"
)

// Bytes per MB
const MB = 1024 * 1024

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultAddr           = "0.0.0.0:50000"
	DefaultLogLvl         = util.InfoLevel
	DefaultMaxSessions    = 64
	DefaultMaxContentSize = 1 * MB
	DefaultFetchTimeout   = 10.0
	DefaultFsName         = "editorfs"
	DefaultName           = "editorfs"
)

// DefaultAllowOrigins is the CORS allow list used when none is configured
var DefaultAllowOrigins = []string{"*"}

// Log verbosity as accepted on the CLI and in config files
const (
	ErrorVerbose = iota + util.MinVerbose
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Config contains runtime configuration values for the editor backend.
type Config struct {
	MountOptions
	LogLvl         util.LogLevel // Internal log level (Default info)
	Addr           string        // HTTP API listen address (Default 0.0.0.0:50000)
	AllowOrigins   []string      // CORS allowed origins (Default *)
	MaxSessions    int           // Maximum live editor sessions; 0 means unbounded (Default 64)
	MaxContentSize int           // Maximum file content size in bytes accepted or fetched (Default 1MB)
	FetchTimeout   float64       // Timeout in seconds for fetching remote file sources (Default 10)
}

// FetchTimeoutDuration returns FetchTimeout as a time.Duration
func (c *Config) FetchTimeoutDuration() time.Duration {
	return time.Duration(c.FetchTimeout * float64(time.Second))
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	// LogLvl is a verbosity between 1 (error) and 5 (trace), not a [util.LogLevel]
	LogLvl         *int     `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	Addr           *string  `yaml:"addr,omitempty" json:"addr,omitempty"`
	AllowOrigins   []string `yaml:"allow_origins,omitempty" json:"allow_origins,omitempty"`
	MaxSessions    *int     `yaml:"max_sessions,omitempty" json:"max_sessions,omitempty"`
	MaxContentSize *int     `yaml:"max_content_size,omitempty" json:"max_content_size,omitempty"`
	FetchTimeout   *float64 `yaml:"fetch_timeout,omitempty" json:"fetch_timeout,omitempty"`
	Debug          *bool    `yaml:"fuse_debug,omitempty" json:"fuse_debug,omitempty"`
	FsName         *string  `yaml:"fs_name,omitempty" json:"fs_name,omitempty"`
	Name           *string  `yaml:"name,omitempty" json:"name,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		MountOptions: MountOptions{
			FsName: DefaultFsName,
			Name:   DefaultName,
		},
		LogLvl:         DefaultLogLvl,
		Addr:           DefaultAddr,
		AllowOrigins:   slices.Clone(DefaultAllowOrigins),
		MaxSessions:    DefaultMaxSessions,
		MaxContentSize: DefaultMaxContentSize,
		FetchTimeout:   DefaultFetchTimeout,
	}
}

// NewConfig creates a Config from defaults with override applied on top.
// A nil override yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = util.VerboseToLevel(*override.LogLvl)
	}
	if override.Addr != nil {
		c.Addr = *override.Addr
	}
	if override.AllowOrigins != nil {
		c.AllowOrigins = slices.Clone(override.AllowOrigins)
	}
	if override.MaxSessions != nil {
		c.MaxSessions = *override.MaxSessions
	}
	if override.MaxContentSize != nil {
		c.MaxContentSize = *override.MaxContentSize
	}
	if override.FetchTimeout != nil {
		c.FetchTimeout = *override.FetchTimeout
	}
	if override.Debug != nil {
		c.Debug = *override.Debug
	}
	if override.FsName != nil {
		c.FsName = *override.FsName
	}
	if override.Name != nil {
		c.Name = *override.Name
	}
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	return NewConfig(override), nil
}
