package nanodbc

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config tunes driver manager loading and execution defaults. A zero value
// leaves every knob at its built-in default.
type Config struct {
	// LibraryPath points at the ODBC driver manager shared library. The
	// NANODBC_LIBRARY_PATH environment variable takes precedence over it.
	LibraryPath string `yaml:"library_path"`

	// LoginTimeout bounds connection establishment, in seconds. Applied
	// when the caller connects without an explicit timeout.
	LoginTimeout int `yaml:"login_timeout"`

	// ParamArrayLength and RowsetSize seed BatchOps for callers that
	// execute with the configured defaults. Zero or negative means unset.
	ParamArrayLength int `yaml:"param_array_length"`
	RowsetSize       int `yaml:"rowset_size"`
}

// BatchOps converts the configured batch dimensions into a BatchOps value,
// leaving unset dimensions at their single-row behavior.
func (c *Config) BatchOps() BatchOps {
	ops := DefaultBatchOps()
	if c.ParamArrayLength > 0 {
		ops.ParamArrayLength = c.ParamArrayLength
	}
	if c.RowsetSize > 0 {
		ops.RowsetSize = c.RowsetSize
	}
	return ops
}

var (
	cfgMu   sync.Mutex
	cfg     *Config
	cfgOnce sync.Once
	cfgErr  error
)

// SetConfig installs c as the active configuration. Call before the first
// connection; the library reads it when loading the driver manager.
func SetConfig(c *Config) {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	cfg = c
}

// LoadConfig reads a YAML configuration file and installs it as the active
// configuration.
func LoadConfig(path string) (*Config, error) {
	c, err := parseConfigFile(path)
	if err != nil {
		return nil, err
	}
	SetConfig(c)
	return c, nil
}

func parseConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return parseConfig(data)
}

func parseConfig(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &c, nil
}

// currentConfig returns the active configuration, loading the file named
// by NANODBC_CONFIG on first use when nothing was installed explicitly.
func currentConfig() *Config {
	cfgOnce.Do(func() {
		cfgMu.Lock()
		defer cfgMu.Unlock()
		if cfg != nil {
			return
		}
		path := os.Getenv("NANODBC_CONFIG")
		if path == "" {
			return
		}
		c, err := parseConfigFile(path)
		if err != nil {
			cfgErr = fmt.Errorf("NANODBC_CONFIG: %w", err)
			return
		}
		cfg = c
	})
	cfgMu.Lock()
	defer cfgMu.Unlock()
	return cfg
}

// configLoadError reports a failure loading the environment-named
// configuration file. Surfaced once, at driver manager initialization.
func configLoadError() error {
	currentConfig()
	return cfgErr
}
