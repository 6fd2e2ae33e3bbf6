// Package config holds the run configuration of the svm tools.
package config

import (
	"errors"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/stackvm/svm/memory"
	"github.com/stackvm/svm/translate"
)

var f = translate.From

var (
	ErrMemorySize = errors.New(f("memory size out of range"))
	ErrMaxTicks   = errors.New(f("max ticks is negative"))
)

// ErrConfig names the configuration file that failed to load.
type ErrConfig struct {
	Path string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}

// Config is the TOML run configuration.
type Config struct {
	MemorySize  int               `toml:"memory_size"`
	MaxTicks    int               `toml:"max_ticks"`
	Verbose     bool              `toml:"verbose"`
	ProtectText bool              `toml:"protect_text"`
	Script      string            `toml:"script"`  // Starlark signal handlers.
	Defines     map[string]string `toml:"defines"` // Assembler predefines.
}

// Default returns the configuration used when no file is given.
func Default() (cfg *Config) {
	cfg = &Config{
		MemorySize: memory.DEFAULT_SIZE,
		Defines:    map[string]string{},
	}
	return
}

// Validate checks the configuration ranges.
func (cfg *Config) Validate() (err error) {
	if cfg.MemorySize <= 0 || cfg.MemorySize > memory.ADDRESS_LIMIT {
		err = ErrMemorySize
		return
	}
	if cfg.MaxTicks < 0 {
		err = ErrMaxTicks
		return
	}
	return
}

// Parse decodes TOML text over the defaults.
func Parse(text string) (cfg *Config, err error) {
	cfg = Default()
	_, err = toml.Decode(text, cfg)
	if err != nil {
		cfg = nil
		return
	}

	if cfg.Defines == nil {
		cfg.Defines = map[string]string{}
	}

	err = cfg.Validate()
	if err != nil {
		cfg = nil
		return
	}

	return
}

// Load reads a TOML configuration file.
func Load(path string) (cfg *Config, err error) {
	defer func() {
		if err != nil {
			err = &ErrConfig{Path: path, Err: err}
		}
	}()

	data, err := os.ReadFile(path)
	if err != nil {
		return
	}

	cfg, err = Parse(string(data))
	return
}
